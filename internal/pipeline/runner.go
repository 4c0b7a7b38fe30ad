package pipeline

import (
	"context"
	"log/slog"

	"github.com/dgallion1/testgest/internal/model"
	"github.com/dgallion1/testgest/internal/parser"
)

// TestCaseGenerator produces test cases from extracted records.
type TestCaseGenerator interface {
	Generate(ctx context.Context, reqs []model.Requirement, signals model.SignalDict) ([]model.TestCase, error)
}

// Outcome is a finished run.
type Outcome struct {
	Extraction *Extraction
	Cases      []model.TestCase
}

// Runner executes extraction and generation for one input pair.
type Runner struct {
	gen   TestCaseGenerator
	opts  parser.Options
	log   *slog.Logger
	parse func(name string, data []byte, opts parser.Options) (*Extraction, error)
}

func NewRunner(gen TestCaseGenerator, opts parser.Options, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{gen: gen, opts: opts, log: log, parse: ParseSpec}
}

// Run parses, loads the matrix and generates. observe, if non-nil, is told
// each status as the run enters it. When generation fails the returned
// Outcome still carries the extraction.
func (r *Runner) Run(ctx context.Context, in Input, observe func(JobStatus)) (*Outcome, error) {
	enter := func(s JobStatus) {
		if observe != nil {
			observe(s)
		}
	}

	enter(StatusParsing)
	e, err := r.parse(in.SpecName, in.Spec, r.opts)
	if err != nil {
		return nil, err
	}
	for _, s := range e.Skipped {
		r.log.Warn("page skipped", "file", in.SpecName, "page", s.Page, "error", s.Err)
	}
	r.log.Info("specification parsed",
		"file", in.SpecName, "pages", e.Pages, "sections", len(e.Sections),
		"requirements", len(e.Requirements), "document_signals", len(e.DocumentSignals))

	enter(StatusLoadingMatrix)
	if err := LoadMatrix(e, in.MatrixName, in.Matrix); err != nil {
		return nil, err
	}
	r.log.Info("signal matrix loaded", "file", in.MatrixName, "signals", len(e.Signals))

	enter(StatusGenerating)
	cases, err := r.gen.Generate(ctx, e.Requirements, e.Signals)
	if err != nil {
		return &Outcome{Extraction: e}, err
	}
	return &Outcome{Extraction: e, Cases: cases}, nil
}
