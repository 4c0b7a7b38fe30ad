package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/testgest/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	mu      sync.Mutex
	calls   int
	respond func(call int, user string) (string, error)
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	if system != SystemPrompt {
		return "", errors.New("unexpected system prompt")
	}
	return f.respond(call, user)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGenerator(llm Completer, opts Options) *Generator {
	g := New(llm, opts, quietLogger())
	g.backoff = func(int) time.Duration { return time.Millisecond }
	return g
}

// caseFor answers with one case named after the first requirement id in the prompt.
func caseFor(user string) string {
	for _, id := range []string{"R1", "R2", "R3", "R4"} {
		if strings.Contains(user, `"id": "`+id+`"`) {
			return fmt.Sprintf(`[{"description": "case %s", "steps": ["1. run"]}]`, id)
		}
	}
	return "[]"
}

func TestGenerate_NoRequirementsUsesExamples(t *testing.T) {
	llm := &fakeCompleter{respond: func(int, string) (string, error) { return "", errors.New("must not be called") }}
	cases, err := newTestGenerator(llm, Options{}).Generate(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, cases, 6)
	assert.Equal(t, 0, llm.calls)
}

func TestGenerate_SingleBatch(t *testing.T) {
	llm := &fakeCompleter{respond: func(_ int, user string) (string, error) {
		return `[{"description": "挂R档，倒车灯点亮"}, {"description": "  "}]`, nil
	}}
	reqs := []model.Requirement{{ID: "1.1", Description: "挂R档时控制倒车灯点亮", Type: model.TypeControl}}

	cases, err := newTestGenerator(llm, Options{}).Generate(context.Background(), reqs, model.SignalDict{})
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "挂R档，倒车灯点亮", cases[0].Description)
	assert.Equal(t, 1, llm.calls)
}

func TestGenerate_BatchesKeepOrder(t *testing.T) {
	llm := &fakeCompleter{respond: func(_ int, user string) (string, error) {
		return caseFor(user), nil
	}}
	reqs := []model.Requirement{
		{ID: "R1", Description: strings.Repeat("灯", 40)},
		{ID: "R2", Description: strings.Repeat("灯", 40)},
		{ID: "R3", Description: strings.Repeat("灯", 40)},
		{ID: "R4", Description: strings.Repeat("灯", 40)},
	}
	g := newTestGenerator(llm, Options{Concurrency: 4, BatchTokens: 10})

	cases, err := g.Generate(context.Background(), reqs, nil)
	require.NoError(t, err)
	require.Len(t, cases, 4)
	for i, tc := range cases {
		assert.Equal(t, fmt.Sprintf("case R%d", i+1), tc.Description)
	}
	assert.Equal(t, 4, llm.calls)
}

func TestGenerate_RetriesRetryableErrors(t *testing.T) {
	llm := &fakeCompleter{respond: func(call int, user string) (string, error) {
		if call < 3 {
			return "", &RetryableError{StatusCode: 429, Message: "slow down"}
		}
		return `[{"description": "ok"}]`, nil
	}}
	reqs := []model.Requirement{{ID: "1", Description: "x"}}

	cases, err := newTestGenerator(llm, Options{}).Generate(context.Background(), reqs, nil)
	require.NoError(t, err)
	assert.Len(t, cases, 1)
	assert.Equal(t, 3, llm.calls)
}

func TestGenerate_GivesUpAfterMaxRetries(t *testing.T) {
	llm := &fakeCompleter{respond: func(int, string) (string, error) {
		return "", &RetryableError{StatusCode: 503}
	}}
	reqs := []model.Requirement{{ID: "1", Description: "x"}}

	_, err := newTestGenerator(llm, Options{}).Generate(context.Background(), reqs, nil)
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, MaxRetries+1, llm.calls)
}

func TestGenerate_FailedBatchSkipped(t *testing.T) {
	llm := &fakeCompleter{respond: func(_ int, user string) (string, error) {
		if strings.Contains(user, `"id": "R2"`) {
			return "not json", nil
		}
		return caseFor(user), nil
	}}
	reqs := []model.Requirement{
		{ID: "R1", Description: strings.Repeat("灯", 40)},
		{ID: "R2", Description: strings.Repeat("灯", 40)},
		{ID: "R3", Description: strings.Repeat("灯", 40)},
	}
	g := newTestGenerator(llm, Options{Concurrency: 1, BatchTokens: 10})

	cases, err := g.Generate(context.Background(), reqs, nil)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "case R1", cases[0].Description)
	assert.Equal(t, "case R3", cases[1].Description)
}

func TestGenerate_AllBatchesFail(t *testing.T) {
	llm := &fakeCompleter{respond: func(int, string) (string, error) {
		return "", errors.New("boom")
	}}
	reqs := []model.Requirement{{ID: "1", Description: "x"}}

	_, err := newTestGenerator(llm, Options{}).Generate(context.Background(), reqs, nil)
	assert.ErrorContains(t, err, "all 1 batches failed")
	assert.Equal(t, 1, llm.calls)
}

func TestGenerate_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	llm := &fakeCompleter{respond: func(int, string) (string, error) {
		cancel()
		return "", &RetryableError{StatusCode: 500}
	}}
	g := New(llm, Options{}, quietLogger())
	g.backoff = func(int) time.Duration { return time.Hour }

	_, err := g.Generate(ctx, []model.Requirement{{ID: "1", Description: "x"}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
