package model

// TestCase is one generated test case as returned by the LLM.
type TestCase struct {
	Description  string            `json:"description"`
	Coverage     []string          `json:"coverage"`
	InputSignal  map[string]string `json:"input_signal"`
	OutputSignal string            `json:"output_signal"`
	Precondition []string          `json:"precondition"`
	Steps        []string          `json:"steps"`
	Expected     []string          `json:"expected"`
}
