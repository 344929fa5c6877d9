// internal/tasks/data-access/search-players/models.go
package searchplayers

import "team-builder/internal/models"

type Input struct {
	Query string `json:"query"`
	From  int    `json:"from,omitempty"`
	Size  int    `json:"size,omitempty"`
}

type Output struct {
	Players   []models.Player `json:"players"`
	TotalHits int             `json:"totalHits"`
	MaxScore  float64         `json:"maxScore"`
	Took      int             `json:"took"` // milliseconds reported by the cluster
}
