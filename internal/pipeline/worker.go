package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/testgest/internal/output"
)

var phaseText = map[JobStatus]string{
	StatusParsing:       "parsing specification",
	StatusLoadingMatrix: "loading signal matrix",
	StatusGenerating:    "generating test cases",
	StatusWriting:       "writing workbook",
}

// Worker processes a single generation job.
type Worker struct {
	runner *Runner
	log    *slog.Logger
	now    func() time.Time
}

func NewWorker(runner *Runner, log *slog.Logger) *Worker {
	return &Worker{runner: runner, log: log, now: time.Now}
}

// Process runs the full pipeline for a job and leaves it completed or failed.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "spec", job.SpecName, "matrix", job.MatrixName)

	current := StatusQueued
	fail := func(err error) {
		log.Error("job failed", "status", current, "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, string(current))
	}

	outcome, err := w.runner.Run(ctx, job.Input(), func(s JobStatus) {
		current = s
		job.SetStatus(s, phaseText[s])
	})
	if outcome != nil && outcome.Extraction != nil {
		job.SetExtraction(outcome.Extraction)
	}
	if err != nil {
		fail(err)
		return
	}
	job.SetTestCases(len(outcome.Cases))

	current = StatusWriting
	job.SetStatus(StatusWriting, phaseText[StatusWriting])
	var buf bytes.Buffer
	if err := output.Write(&buf, outcome.Cases); err != nil {
		fail(fmt.Errorf("write workbook: %w", err))
		return
	}

	name := output.FileName(w.now())
	job.SetResult(name, buf.Bytes())
	job.SetStatus(StatusCompleted, "done")
	log.Info("job completed", "test_cases", len(outcome.Cases), "result", name, "bytes", buf.Len())
}
