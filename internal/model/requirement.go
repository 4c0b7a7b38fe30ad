package model

// RequirementType is the keyword-derived category of a requirement.
type RequirementType string

const (
	TypeControl       RequirementType = "Control"
	TypeMonitoring    RequirementType = "Monitoring"
	TypeProtection    RequirementType = "Protection"
	TypeCommunication RequirementType = "Communication"
	TypeOther         RequirementType = "Other"
)

// Requirement is one numbered or labelled functional requirement.
type Requirement struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Type        RequirementType `json:"type"`
}
