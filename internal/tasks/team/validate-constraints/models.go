// internal/tasks/team/validate-constraints/models.go
package validateconstraints

import "team-builder/internal/models"

type Input struct {
	TeamType string          `json:"teamType"`
	Players  []models.Player `json:"players"`
}

type Output struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}
