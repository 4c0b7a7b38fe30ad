package generate

import (
	_ "embed"
	"encoding/json"

	"github.com/dgallion1/testgest/internal/model"
)

//go:embed examples.json
var examplesJSON []byte

// ExampleTestCases returns the built-in reversing-lamp cases used when a
// document yields no requirements. Each call returns a fresh copy.
func ExampleTestCases() []model.TestCase {
	var cases []model.TestCase
	if err := json.Unmarshal(examplesJSON, &cases); err != nil {
		panic("generate: bad embedded examples: " + err.Error())
	}
	return cases
}
