package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/testgest/internal/model"
	"golang.org/x/sync/errgroup"
)

// Completer sends one system + user exchange to a language model.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Options tune batching and fan-out.
type Options struct {
	Concurrency int // Batches in flight at once.
	BatchTokens int // Prompt budget per batch; 0 sends everything at once.
}

// Generator turns requirements and signals into test cases.
type Generator struct {
	llm     Completer
	opts    Options
	log     *slog.Logger
	backoff func(attempt int) time.Duration
}

func New(llm Completer, opts Options, log *slog.Logger) *Generator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 2
	}
	if log == nil {
		log = slog.Default()
	}
	return &Generator{llm: llm, opts: opts, log: log, backoff: Backoff}
}

// Generate returns test cases in batch order. With no requirements the
// built-in example cases are returned without calling the model. A batch
// that fails after retries is logged and skipped; if every batch fails the
// first error is returned.
func (g *Generator) Generate(ctx context.Context, reqs []model.Requirement, signals model.SignalDict) ([]model.TestCase, error) {
	if len(reqs) == 0 {
		g.log.Warn("no requirements detected, using example test cases")
		return ExampleTestCases(), nil
	}

	budget := 0
	if g.opts.BatchTokens > 0 {
		sigPrompt, err := marshalIndent(signals)
		if err != nil {
			return nil, fmt.Errorf("encode signals: %w", err)
		}
		budget = max(g.opts.BatchTokens-EstimateTokens(sigPrompt), 1)
	}
	batches := Batch(reqs, budget)

	results := make([][]model.TestCase, len(batches))
	errs := make([]error, len(batches))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Concurrency)
	for i, batch := range batches {
		eg.Go(func() error {
			cases, err := g.generateBatch(egCtx, batch, signals)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				g.log.Error("batch failed", "batch", i, "requirements", len(batch), "error", err)
				errs[i] = err
				return nil
			}
			results[i] = cases
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []model.TestCase
	failed := 0
	for i := range batches {
		if errs[i] != nil {
			failed++
			continue
		}
		all = append(all, results[i]...)
	}
	if failed == len(batches) {
		return nil, fmt.Errorf("all %d batches failed: %w", failed, errs[0])
	}
	g.log.Info("test cases generated",
		"cases", len(all), "batches", len(batches), "failed_batches", failed)
	return all, nil
}

func (g *Generator) generateBatch(ctx context.Context, reqs []model.Requirement, signals model.SignalDict) ([]model.TestCase, error) {
	prompt, err := BuildPrompt(reqs, signals)
	if err != nil {
		return nil, err
	}

	raw, err := g.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	parsed, err := ParseTestCases(raw)
	if err != nil {
		return nil, err
	}
	cases := parsed[:0]
	for i := range parsed {
		if ValidateTestCase(&parsed[i]) {
			cases = append(cases, parsed[i])
		}
	}
	if dropped := len(parsed) - len(cases); dropped > 0 {
		g.log.Warn("dropped invalid test cases", "dropped", dropped, "kept", len(cases))
	}
	return cases, nil
}

func (g *Generator) complete(ctx context.Context, prompt string) (string, error) {
	for attempt := 0; ; attempt++ {
		raw, err := g.llm.Complete(ctx, SystemPrompt, prompt)
		if err == nil {
			return raw, nil
		}
		if !IsRetryable(err) || attempt >= MaxRetries {
			return "", err
		}
		wait := g.backoff(attempt)
		g.log.Warn("retrying completion", "attempt", attempt+1, "backoff", wait, "error", err)
		select {
		case <-ctx.Done():
			return "", errors.Join(err, ctx.Err())
		case <-time.After(wait):
		}
	}
}
