package pipeline

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dgallion1/testgest/internal/docparse"
	"github.com/dgallion1/testgest/internal/matrix"
	"github.com/dgallion1/testgest/internal/model"
	"github.com/dgallion1/testgest/internal/parser"
)

// Input is one specification document plus its signal matrix.
type Input struct {
	SpecName   string
	Spec       []byte
	MatrixName string
	Matrix     []byte
}

// LoadInput reads both input files. A missing file is reported as a
// *model.MissingInputError.
func LoadInput(specPath, matrixPath string) (Input, error) {
	spec, err := readInput("document", specPath)
	if err != nil {
		return Input{}, err
	}
	mat, err := readInput("matrix", matrixPath)
	if err != nil {
		return Input{}, err
	}
	return Input{
		SpecName:   filepath.Base(specPath),
		Spec:       spec,
		MatrixName: filepath.Base(matrixPath),
		Matrix:     mat,
	}, nil
}

func readInput(kind, path string) ([]byte, error) {
	if path == "" {
		return nil, &model.MissingInputError{Kind: kind}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &model.MissingInputError{Kind: kind, Path: path}
		}
		return nil, fmt.Errorf("read %s: %w", kind, err)
	}
	return data, nil
}

// Extraction is the deterministic result of parsing both inputs.
type Extraction struct {
	Title        string                      `json:"title"`
	Pages        int                         `json:"pages"`
	Skipped      []model.PageExtractionError `json:"-"`
	ContentHash  string                      `json:"content_hash"`
	Sections     []model.Section             `json:"sections"`
	Requirements []model.Requirement         `json:"requirements"`
	// DocumentSignals are the signals found in document prose; Signals is
	// the matrix with those merged on top.
	DocumentSignals model.SignalDict `json:"document_signals"`
	Signals         model.SignalDict `json:"signals,omitempty"`
}

// SkippedPages lists the 1-based numbers of pages that yielded no text.
func (e *Extraction) SkippedPages() []int {
	pages := make([]int, len(e.Skipped))
	for i, s := range e.Skipped {
		pages[i] = s.Page
	}
	return pages
}

// ParseSpec reads the specification and runs the extraction core over it.
func ParseSpec(name string, data []byte, opts parser.Options) (*Extraction, error) {
	if data == nil {
		return nil, &model.MissingInputError{Kind: "document", Path: name}
	}
	p, err := parser.ForFile(name, opts)
	if err != nil {
		return nil, err
	}
	doc, err := p.Parse(bytes.NewReader(data), name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	text := doc.Text()
	res := docparse.Parse(text)
	return &Extraction{
		Title:           doc.Title,
		Pages:           len(doc.Pages),
		Skipped:         doc.Skipped,
		ContentHash:     ContentHashHex([]byte(text)),
		Sections:        res.Sections,
		Requirements:    res.Requirements,
		DocumentSignals: res.Signals,
	}, nil
}

// LoadMatrix reads the signal matrix and merges the document signals of e
// on top, filling e.Signals.
func LoadMatrix(e *Extraction, name string, data []byte) error {
	if data == nil {
		return &model.MissingInputError{Kind: "matrix", Path: name}
	}
	table, err := matrix.Read(bytes.NewReader(data), name)
	if err != nil {
		return fmt.Errorf("read matrix %s: %w", name, err)
	}
	e.Signals = matrix.Load(table, e.DocumentSignals)
	return nil
}

// Extract runs ParseSpec then LoadMatrix.
func Extract(in Input, opts parser.Options) (*Extraction, error) {
	e, err := ParseSpec(in.SpecName, in.Spec, opts)
	if err != nil {
		return nil, err
	}
	if err := LoadMatrix(e, in.MatrixName, in.Matrix); err != nil {
		return nil, err
	}
	return e, nil
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
