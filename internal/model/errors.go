package model

import "fmt"

// MissingInputError reports a required document or signal matrix that is absent.
// It aborts the pipeline.
type MissingInputError struct {
	Kind string // "document" or "matrix"
	Path string
}

func (e *MissingInputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("missing %s input", e.Kind)
	}
	return fmt.Sprintf("missing %s input: %s", e.Kind, e.Path)
}

// PageExtractionError records a single page whose text could not be extracted.
// The remaining pages are still processed.
type PageExtractionError struct {
	Page int // 1-based
	Err  error
}

func (e PageExtractionError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e PageExtractionError) Unwrap() error { return e.Err }
