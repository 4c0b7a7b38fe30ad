package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/testgest/internal/model"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. The body becomes a single page: one line
// per non-empty paragraph, and one line per table row with the cell texts
// separated by spaces. Headings stay plain lines so the segmenter sees them.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*model.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		switch v := item.(type) {
		case *docx.Paragraph:
			if text := paragraphText(v); text != "" {
				lines = append(lines, text)
			}
		case *docx.Table:
			lines = append(lines, tableLines(v)...)
		}
	}

	out := &model.Document{Title: trimExt(filename, ".docx")}
	if len(lines) > 0 {
		out.Pages = []string{strings.Join(lines, "\n")}
	}
	return out, nil
}

func tableLines(t *docx.Table) []string {
	var lines []string
	for _, row := range t.TableRows {
		var cells []string
		for _, cell := range row.TableCells {
			var parts []string
			for _, para := range cell.Paragraphs {
				if text := paragraphText(para); text != "" {
					parts = append(parts, text)
				}
			}
			if len(parts) > 0 {
				cells = append(cells, strings.Join(parts, " "))
			}
		}
		if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, " "))
		}
	}
	return lines
}

func paragraphText(para *docx.Paragraph) string {
	var sb strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				sb.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(sb.String())
}
