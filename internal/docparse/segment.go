// Package docparse turns specification text into sections, requirements and
// signal definitions using fixed, ordered pattern rules. The first rule that
// matches a line wins; a line that matches nothing is never an error.
package docparse

import (
	"regexp"
	"strings"

	"github.com/dgallion1/testgest/internal/boundary"
	"github.com/dgallion1/testgest/internal/model"
)

// headingRule recognizes one heading notation.
type headingRule struct {
	name    string
	re      *regexp.Regexp
	chapter bool // opens a new chapter scope
}

// headingRules are tried in order for every line. A rule may match anywhere
// in the line; the matched text, not the whole line, is the title.
var headingRules = []headingRule{
	{name: "chapter", re: regexp.MustCompile(`(?:第\s*\d+\s*章|(?i:chapter)\s+\d+)\s*.+`), chapter: true},
	{name: "enumerated", re: regexp.MustCompile(`\d+\s*、\s*.+`)},
	{name: "dotted", re: regexp.MustCompile(`\d+\s*\.\d+\s*.+`)},
}

// matchHeading returns the heading title and rule for line, if any rule matches.
func matchHeading(line string) (string, *headingRule) {
	for i := range headingRules {
		if m := headingRules[i].re.FindString(line); m != "" {
			return m, &headingRules[i]
		}
	}
	return "", nil
}

// Segment splits text into sections at recognized headings. Each section's
// content starts with its heading line. Lines before the first heading are
// discarded.
func Segment(text string) []model.Section {
	var (
		sections []model.Section
		chapter  string
	)
	type key struct{ title, chapter string }

	boundary.Accumulator[key]{
		Match: func(line string) (key, string, bool) {
			title, rule := matchHeading(line)
			if rule == nil {
				return key{}, "", false
			}
			if rule.chapter {
				chapter = title
			}
			return key{title: title, chapter: chapter}, line, true
		},
		Emit: func(k key, lines []string) {
			sections = append(sections, model.Section{
				Title:   k.title,
				Content: strings.Join(lines, "\n"),
				Chapter: k.chapter,
			})
		},
	}.Run(text)

	return sections
}
