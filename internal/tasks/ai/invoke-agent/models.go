// internal/tasks/ai/invoke-agent/models.go
package invokeagent

import "team-builder/internal/models"

type Input struct {
	SessionID string `json:"sessionId"`
	Prompt    string `json:"prompt"`
}

type Output struct {
	Completion     string              `json:"completion"`
	Citations      []models.Citation   `json:"citations,omitempty"`
	Trace          []models.TraceEvent `json:"trace,omitempty"`
	InvocationTime int64               `json:"invocationTime"` // milliseconds
}
