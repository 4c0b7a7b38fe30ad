package docparse

import (
	"regexp"
	"strings"

	"github.com/dgallion1/testgest/internal/boundary"
	"github.com/dgallion1/testgest/internal/model"
)

// idRule recognizes a line that opens a requirement and splits it into the
// requirement id and the first description line.
type idRule struct {
	name   string
	re     *regexp.Regexp
	handle func(m []string, line string) (id, first string)
}

// splitID uses the two capture groups as id and description.
func splitID(m []string, _ string) (string, string) { return m[1], m[2] }

// labelledLine has only one capture: it becomes the id and the whole line is
// kept as the description.
func labelledLine(m []string, line string) (string, string) { return m[1], line }

// idRules are tried in order for every line. An id may appear anywhere in
// the line; text before it is dropped from the description.
var idRules = []idRule{
	{name: "dotted", re: regexp.MustCompile(`(\d+\.\d+(?:\.\d+)*)\s*(.+)`), handle: splitID},
	{name: "code", re: regexp.MustCompile(`([A-Z]{2,3}_\d+)\s*(.+)`), handle: splitID},
	{name: "enumerated", re: regexp.MustCompile(`(\d+)\s*、\s*(.+)`), handle: splitID},
	{name: "letter", re: regexp.MustCompile(`([A-Z]\d+)\s*(.+)`), handle: splitID},
	{name: "labelled", re: regexp.MustCompile(`(?:需求|功能|(?i:requirement|function))\s*[:：]\s*(.+)`), handle: labelledLine},
}

// matchRequirement returns the id and first description line for a line that
// opens a requirement.
func matchRequirement(line string) (id, first string, ok bool) {
	for _, rule := range idRules {
		if m := rule.re.FindStringSubmatch(line); m != nil {
			id, first = rule.handle(m, line)
			return id, first, true
		}
	}
	return "", "", false
}

// ExtractRequirements splits section content into requirements. A requirement
// runs from its id line to the next id line or the end of content; repeated
// ids produce separate records.
func ExtractRequirements(content string) []model.Requirement {
	var reqs []model.Requirement
	boundary.Accumulator[string]{
		Match: matchRequirement,
		Emit: func(id string, lines []string) {
			desc := strings.Join(lines, "\n")
			reqs = append(reqs, model.Requirement{
				ID:          id,
				Description: desc,
				Type:        Classify(desc),
			})
		},
	}.Run(content)
	return reqs
}

// classRule assigns a type when the description contains any keyword.
type classRule struct {
	typ      model.RequirementType
	keywords []string
}

// classRules are checked in order; the first hit wins. Protection is checked
// before Monitoring so "检测到故障保护动作" is a protection requirement.
var classRules = []classRule{
	{typ: model.TypeControl, keywords: []string{"控制", "调节", "control", "regulate"}},
	{typ: model.TypeProtection, keywords: []string{"保护", "protect"}},
	{typ: model.TypeMonitoring, keywords: []string{"监测", "检测", "monitor", "detect"}},
	{typ: model.TypeCommunication, keywords: []string{"通信", "communication"}},
}

// Classify derives a requirement type from its description.
func Classify(description string) model.RequirementType {
	lower := strings.ToLower(description)
	for _, rule := range classRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.typ
			}
		}
	}
	return model.TypeOther
}
