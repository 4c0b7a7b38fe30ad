package parser

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/dgallion1/testgest/internal/model"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files, one Document page per PDF page. Pages the
// library cannot read are recorded in Document.Skipped. With
// FallbackPdftotext set, a document that yields no text at all is retried
// through the pdftotext binary.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*model.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	doc := &model.Document{Title: trimExt(filename, ".pdf")}

	pages, skipped, err := readPDFPages(data)
	if (err != nil || len(pages) == 0) && p.FallbackPdftotext {
		if text, ferr := runPdftotext(data); ferr == nil {
			pages, skipped, err = splitPages(text), nil, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	doc.Pages = pages
	doc.Skipped = skipped
	return doc, nil
}

// readPDFPages returns the text of every readable page.
func readPDFPages(data []byte) ([]string, []model.PageExtractionError, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, err
	}
	pages, skipped := collectPages(reader.NumPage(), func(num int) (string, error) {
		page := reader.Page(num)
		if page.V.IsNull() {
			return "", nil
		}
		return page.GetPlainText(nil)
	})
	return pages, skipped, nil
}

// collectPages reads pages 1..n. A page that fails, including one whose read
// panics, lands in skipped and the remaining pages are still read. Blank
// pages are dropped.
func collectPages(n int, read func(num int) (string, error)) (pages []string, skipped []model.PageExtractionError) {
	for i := 1; i <= n; i++ {
		text, err := safeRead(read, i)
		if err != nil {
			skipped = append(skipped, model.PageExtractionError{Page: i, Err: err})
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, text)
	}
	return pages, skipped
}

func safeRead(read func(int) (string, error), num int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library panic: %v", r)
		}
	}()
	return read(num)
}

func runPdftotext(data []byte) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", "-", "-")
	cmd.Stdin = bytes.NewReader(data)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

// splitPages splits pdftotext output on form feeds, dropping blank pages.
func splitPages(text string) []string {
	return nonBlank(strings.Split(text, "\f"))
}
