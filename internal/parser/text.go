package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/testgest/internal/model"
)

// TextParser handles plain text files. Form feeds separate pages.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*model.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var pages []string
	var current strings.Builder

	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "\f")
		for i, part := range parts {
			if i > 0 {
				pages = append(pages, current.String())
				current.Reset()
			}
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(part)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(current.String()) != "" {
		pages = append(pages, current.String())
	}

	return &model.Document{
		Title: trimExt(filename, ".txt"),
		Pages: nonBlank(pages),
	}, nil
}

func nonBlank(pages []string) []string {
	var out []string
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
