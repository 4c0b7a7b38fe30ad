// Package boundary groups lines of text into blocks that start at a boundary
// line and end at the next boundary or the end of input.
package boundary

import "strings"

// Lines splits text on newlines, trims each line and drops blank ones.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Accumulator collects the lines following each boundary line.
//
// Match reports whether a line opens a new block; when it does it returns the
// block key and the first line to record for the block. Emit receives each
// finished block exactly once, in input order. Lines that appear before the
// first boundary are dropped, and a block is only emitted once the next
// boundary or the end of input closes it.
type Accumulator[K any] struct {
	Match func(line string) (key K, first string, ok bool)
	Emit  func(key K, lines []string)
}

// Run feeds text through the accumulator.
func (a Accumulator[K]) Run(text string) {
	var (
		open  bool
		key   K
		lines []string
	)
	for _, line := range Lines(text) {
		if k, first, ok := a.Match(line); ok {
			if open {
				a.Emit(key, lines)
			}
			key, lines, open = k, []string{first}, true
			continue
		}
		if open {
			lines = append(lines, line)
		}
	}
	if open {
		a.Emit(key, lines)
	}
}
