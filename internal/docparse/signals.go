package docparse

import (
	"regexp"
	"strings"

	"github.com/dgallion1/testgest/internal/boundary"
	"github.com/dgallion1/testgest/internal/model"
)

// signalRule recognizes a signal definition line; group 1 is the signal name
// and group 2 the description holding its properties.
type signalRule struct {
	name string
	re   *regexp.Regexp
}

// signalRules are tried in order for every line. Each line yields at most one
// signal.
var signalRules = []signalRule{
	{name: "suffixed", re: regexp.MustCompile(`(\S+信号)\s*[:：]\s*(.+)`)},
	{name: "prefixed", re: regexp.MustCompile(`信号\s*[:：]\s*(\S+)\s*(.+)`)},
	{name: "generic", re: regexp.MustCompile(`(\S+)\s*:\s*(.+)`)},
}

// propertyRe matches one "key:value" pair; commas and colons of either width
// delimit keys and values.
var propertyRe = regexp.MustCompile(`([^，,:：]+)[:：]([^，,:：]+)`)

// matchSignal returns the signal name and description for a definition line.
func matchSignal(line string) (name, desc string, ok bool) {
	for _, rule := range signalRules {
		if m := rule.re.FindStringSubmatch(line); m != nil {
			return m[1], m[2], true
		}
	}
	return "", "", false
}

// ExtractProperties collects every key:value pair in desc. A repeated key
// keeps its last value.
func ExtractProperties(desc string) model.Properties {
	props := model.Properties{}
	for _, m := range propertyRe.FindAllStringSubmatch(desc, -1) {
		props[strings.TrimSpace(m[1])] = strings.TrimSpace(m[2])
	}
	return props
}

// ExtractSignals reads one signal per matching line. A name seen again on a
// later line replaces the earlier entry entirely.
func ExtractSignals(content string) model.SignalDict {
	signals := model.SignalDict{}
	for _, line := range boundary.Lines(content) {
		name, desc, ok := matchSignal(line)
		if !ok {
			continue
		}
		signals[name] = ExtractProperties(desc)
	}
	return signals
}
