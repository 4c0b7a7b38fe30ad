package generate

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/testgest/internal/model"
)

// ErrNoJSON is returned when a completion holds no JSON array or object.
var ErrNoJSON = errors.New("no JSON structure in response")

var codeBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// wireCase tolerates the loose typing models produce: scalar lists, numeric
// signal values and similar.
type wireCase struct {
	Description  any `json:"description"`
	Coverage     any `json:"coverage"`
	InputSignal  any `json:"input_signal"`
	OutputSignal any `json:"output_signal"`
	Precondition any `json:"precondition"`
	Steps        any `json:"steps"`
	Expected     any `json:"expected"`
}

// ParseTestCases extracts test cases from a raw completion. The outermost
// [...] span is decoded as a list; failing that, the outermost {...} span is
// decoded as an object carrying "cases" or as a single case. An object that
// opens before any list is always taken as an object.
func ParseTestCases(raw string) ([]model.TestCase, error) {
	text := stripCodeBlock(raw)

	start, end := strings.Index(text, "["), strings.LastIndex(text, "]")
	if brace := strings.Index(text, "{"); brace >= 0 && brace < start {
		start = -1
	}
	if start >= 0 && end > start {
		var wire []wireCase
		if err := json.Unmarshal([]byte(text[start:end+1]), &wire); err != nil {
			return nil, fmt.Errorf("parse test case list: %w (raw: %s)", err, truncate(text, 200))
		}
		return convertCases(wire), nil
	}

	start, end = strings.Index(text, "{"), strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, ErrNoJSON
	}
	obj := []byte(text[start : end+1])

	var wrapped struct {
		Cases []wireCase `json:"cases"`
	}
	if err := json.Unmarshal(obj, &wrapped); err == nil && wrapped.Cases != nil {
		return convertCases(wrapped.Cases), nil
	}
	var single wireCase
	if err := json.Unmarshal(obj, &single); err != nil {
		return nil, fmt.Errorf("parse test case object: %w (raw: %s)", err, truncate(text, 200))
	}
	return convertCases([]wireCase{single}), nil
}

func convertCases(wire []wireCase) []model.TestCase {
	out := make([]model.TestCase, 0, len(wire))
	for _, w := range wire {
		out = append(out, model.TestCase{
			Description:  scalar(w.Description),
			Coverage:     list(w.Coverage),
			InputSignal:  signalMap(w.InputSignal),
			OutputSignal: scalar(w.OutputSignal),
			Precondition: list(w.Precondition),
			Steps:        list(w.Steps),
			Expected:     list(w.Expected),
		})
	}
	return out
}

func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []any:
		return strings.Join(list(x), ", ")
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

func list(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			out = append(out, scalar(e))
		}
		return out
	default:
		return []string{scalar(x)}
	}
}

func signalMap(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		out[k] = scalar(val)
	}
	return out
}
