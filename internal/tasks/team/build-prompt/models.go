// internal/tasks/team/build-prompt/models.go
package buildprompt

import "team-builder/internal/models"

type Input struct {
	TeamType              string          `json:"teamType"`
	AdditionalConstraints string          `json:"additionalConstraints,omitempty"`
	Players               []models.Player `json:"players"`
}

type Output struct {
	Prompt      string `json:"prompt"`
	PlayerCount int    `json:"playerCount"`
}
