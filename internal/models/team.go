// internal/models/team.go
package models

// TeamType is one of the supported team submission categories.
type TeamType string

const (
	TeamTypeProfessional     TeamType = "Professional Team Submission"
	TeamTypeSemiProfessional TeamType = "Semi-Professional Team Submission"
	TeamTypeGameChangers     TeamType = "Game Changers Team Submission"
	TeamTypeMixedGender      TeamType = "Mixed-Gender Team Submission"
	TeamTypeCrossRegional    TeamType = "Cross-Regional Team Submission"
	TeamTypeRisingStar       TeamType = "Rising Star Team Submission"
)

// AllTeamTypes lists the submission categories in display order.
var AllTeamTypes = []TeamType{
	TeamTypeProfessional,
	TeamTypeSemiProfessional,
	TeamTypeGameChangers,
	TeamTypeMixedGender,
	TeamTypeCrossRegional,
	TeamTypeRisingStar,
}

// IsValidTeamType reports whether s names a known submission category.
func IsValidTeamType(s string) bool {
	for _, t := range AllTeamTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// NotificationOverride restricts receipt delivery for one request to a
// single channel, optionally with a different email recipient.
type NotificationOverride struct {
	Channel   NotificationChannel `json:"channel"`
	Recipient string              `json:"recipient,omitempty"`
}

// TeamRequest is a team generation request after payload validation.
type TeamRequest struct {
	SessionID             string                `json:"sessionId"`
	TeamType              TeamType              `json:"teamType"`
	AdditionalConstraints string                `json:"additionalConstraints,omitempty"`
	Notification          *NotificationOverride `json:"notification,omitempty"`
}

// TeamComposition is the agent-produced result returned to the caller.
// The composition text is consumed as-is by the UI.
type TeamComposition struct {
	SessionID   string     `json:"sessionId"`
	TeamType    TeamType   `json:"teamType"`
	Composition string     `json:"composition"`
	Citations   []Citation `json:"citations,omitempty"`
	GeneratedAt string     `json:"generatedAt"`
}
