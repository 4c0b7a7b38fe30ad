package model

import "strings"

// Document is the raw text of a parsed specification document.
type Document struct {
	Title   string                // Document title (from metadata or filename)
	Pages   []string              // Extracted text, one entry per source page
	Skipped []PageExtractionError // Pages whose text could not be extracted
}

// Text concatenates the non-empty pages, each followed by a newline.
func (d *Document) Text() string {
	var sb strings.Builder
	for _, p := range d.Pages {
		if p == "" {
			continue
		}
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Section is a titled run of document lines.
type Section struct {
	Title   string `json:"title"`             // Full heading match
	Content string `json:"content"`           // Heading line plus following lines, newline-joined
	Chapter string `json:"chapter,omitempty"` // Title of the enclosing chapter heading ("" if none)
}
