// internal/tasks/data-access/query-players/models.go
package queryplayers

import "team-builder/internal/models"

type Input struct {
	TeamType string `json:"teamType"`
}

type Output struct {
	Players            []models.Player `json:"players"`
	RowCount           int             `json:"rowCount"`
	QueryExecutionTime int64           `json:"queryExecutionTime"` // milliseconds
}
