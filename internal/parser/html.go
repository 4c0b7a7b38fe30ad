package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/testgest/internal/model"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Headings and block elements each become one
// line of a single page.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*model.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &model.Document{Title: trimExt(filename, ".html", ".htm")}

	if t := findElement(root, "title"); t != nil {
		if title := textContent(t); title != "" {
			doc.Title = title
		}
	}

	var lines []string
	addLine := func(t string) {
		for _, l := range strings.Split(t, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				lines = append(lines, l)
			}
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case skipTags[n.Data]:
				return
			case n.Data == "tr":
				addLine(rowText(n))
				return
			case lineTags[n.Data]:
				addLine(textContent(n))
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findElement(root, "body"); body != nil {
		walk(body)
	} else {
		walk(root)
	}

	if len(lines) > 0 {
		doc.Pages = []string{strings.Join(lines, "\n")}
	}
	return doc, nil
}

// skipTags hold page chrome rather than document content.
var skipTags = map[string]bool{"script": true, "style": true, "nav": true, "footer": true, "header": true}

// lineTags are elements whose whole text becomes one or more lines.
var lineTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "li": true, "blockquote": true, "pre": true, "dt": true, "dd": true,
}

// rowText joins the cells of a table row with single spaces.
func rowText(tr *html.Node) string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			if t := textContent(c); t != "" {
				cells = append(cells, t)
			}
		}
	}
	return strings.Join(cells, " ")
}

// textContent concatenates the text below n; <br> becomes a newline.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			sb.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.TrimSpace(sb.String())
}

// findElement returns the first element named tag in document order.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
