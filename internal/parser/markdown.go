package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/testgest/internal/model"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Heading text and
// block text become plain lines of a single page; the "#" markers are
// dropped so headings reach the segmenter in their document notation.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*model.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	root := md.Parser().Parse(reader)

	var lines []string
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if t := extractText(n, src); t != "" {
			lines = append(lines, t)
		}
	}

	doc := &model.Document{Title: trimExt(filename, ".md", ".markdown")}
	if len(lines) > 0 {
		doc.Pages = []string{strings.Join(lines, "\n")}
	}
	return doc, nil
}

// extractText gets the text content of a goldmark AST node. Leaf blocks
// (code blocks) use their raw lines; everything else is rebuilt from inline
// text, with nested blocks on their own lines.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.FirstChild() == nil {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			v := line.Value(src)
			buf.Write(v)
			if len(v) == 0 || v[len(v)-1] != '\n' {
				buf.WriteByte('\n')
			}
		}
		return strings.TrimSpace(buf.String())
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		s := extractText(c, src)
		if s == "" {
			continue
		}
		if c.Type() == ast.TypeBlock && buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(s)
	}
	return strings.TrimSpace(buf.String())
}
