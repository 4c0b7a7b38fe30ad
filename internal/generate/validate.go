package generate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/testgest/internal/model"
)

const maxDescriptionRunes = 300

var injectionPattern = regexp.MustCompile(
	`(?i)(ignore\s+(previous|all|above)|system\s*prompt|you\s+are\s+now|` +
		`act\s+as\s+|pretend\s+|forget\s+(everything|all)|` +
		`new\s+instructions|忽略(之前|以上|前面|所有)|系统提示词)`,
)

// ValidateTestCase normalizes tc in place and reports whether it is usable.
// Whitespace is trimmed everywhere and blank list entries are dropped; a case
// needs a description of at most 300 characters and no injected instructions.
func ValidateTestCase(tc *model.TestCase) bool {
	if tc == nil {
		return false
	}
	tc.Description = strings.TrimSpace(tc.Description)
	tc.OutputSignal = strings.TrimSpace(tc.OutputSignal)
	tc.Coverage = cleanList(tc.Coverage)
	tc.Precondition = cleanList(tc.Precondition)
	tc.Steps = cleanList(tc.Steps)
	tc.Expected = cleanList(tc.Expected)
	for k, v := range tc.InputSignal {
		tc.InputSignal[k] = strings.TrimSpace(v)
	}

	n := utf8.RuneCountInString(tc.Description)
	if n == 0 || n > maxDescriptionRunes {
		return false
	}
	if injectionPattern.MatchString(tc.Description) {
		return false
	}
	for _, s := range tc.Steps {
		if injectionPattern.MatchString(s) {
			return false
		}
	}
	return true
}

func cleanList(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
