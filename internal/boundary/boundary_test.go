package boundary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type block struct {
	key   string
	lines []string
}

func collect(text string) []block {
	var out []block
	Accumulator[string]{
		Match: func(line string) (string, string, bool) {
			if strings.HasPrefix(line, "#") {
				return strings.TrimPrefix(line, "#"), line, true
			}
			return "", "", false
		},
		Emit: func(key string, lines []string) {
			out = append(out, block{key: key, lines: lines})
		},
	}.Run(text)
	return out
}

func TestLines_TrimsAndSkipsBlank(t *testing.T) {
	got := Lines("  a  \n\n \t \nb\r\n")
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestAccumulator_NoBoundaryEmitsNothing(t *testing.T) {
	assert.Empty(t, collect("one\ntwo\nthree"))
}

func TestAccumulator_LeadingLinesDropped(t *testing.T) {
	got := collect("preamble\n#A\na1\n#B\nb1\nb2")
	assert.Equal(t, []block{
		{key: "A", lines: []string{"#A", "a1"}},
		{key: "B", lines: []string{"#B", "b1", "b2"}},
	}, got)
}

func TestAccumulator_FinalBlockFlushedAtEnd(t *testing.T) {
	got := collect("#only")
	assert.Equal(t, []block{{key: "only", lines: []string{"#only"}}}, got)
}

func TestAccumulator_BlankLinesDoNotBreakBlock(t *testing.T) {
	got := collect("#A\n\na1\n   \na2")
	assert.Equal(t, []block{{key: "A", lines: []string{"#A", "a1", "a2"}}}, got)
}

func TestAccumulator_FirstLineComesFromMatcher(t *testing.T) {
	var got []string
	Accumulator[int]{
		Match: func(line string) (int, string, bool) {
			if line == "x" {
				return 1, "replaced", true
			}
			return 0, "", false
		},
		Emit: func(_ int, lines []string) { got = lines },
	}.Run("x\ny")
	assert.Equal(t, []string{"replaced", "y"}, got)
}
