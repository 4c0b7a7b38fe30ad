package docparse

import (
	"strings"

	"github.com/dgallion1/testgest/internal/model"
)

// Kind says which extractor a section is routed to.
type Kind int

const (
	KindNone Kind = iota
	KindRequirements
	KindSignals
)

func (k Kind) String() string {
	switch k {
	case KindRequirements:
		return "requirements"
	case KindSignals:
		return "signals"
	}
	return "none"
}

// Title keywords. Lowercase entries also match case-insensitively.
var (
	requirementKeywords = []string{"功能", "需求", "工作条件", "要求", "规范", "function", "requirement", "operating condition", "specification"}
	signalKeywords      = []string{"信号", "CAN", "signal"}
)

func containsAny(title string, keywords []string) bool {
	lower := strings.ToLower(title)
	for _, kw := range keywords {
		if strings.Contains(title, kw) || strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func kindOf(title string) Kind {
	switch {
	case containsAny(title, requirementKeywords):
		return KindRequirements
	case containsAny(title, signalKeywords):
		return KindSignals
	}
	return KindNone
}

// SectionKind reports which extractor handles s: decided by the section's own
// title, falling back to the title of its enclosing chapter.
func SectionKind(s model.Section) Kind {
	if k := kindOf(s.Title); k != KindNone {
		return k
	}
	return kindOf(s.Chapter)
}

// Result is everything extracted from one document.
type Result struct {
	Sections     []model.Section
	Requirements []model.Requirement
	Signals      model.SignalDict // signals found in document prose
}

// Parse segments text and runs the matching extractor on every section.
// Signals from several sections are merged in document order; later
// definitions replace earlier ones.
func Parse(text string) Result {
	res := Result{
		Sections: Segment(text),
		Signals:  model.SignalDict{},
	}
	for _, s := range res.Sections {
		switch SectionKind(s) {
		case KindRequirements:
			res.Requirements = append(res.Requirements, ExtractRequirements(s.Content)...)
		case KindSignals:
			res.Signals.Merge(ExtractSignals(s.Content))
		}
	}
	return res
}
