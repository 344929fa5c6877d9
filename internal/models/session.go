// internal/models/session.go
package models

import (
	"encoding/json"
	"time"
)

// TracePhase groups agent trace events the way the Bedrock console does.
type TracePhase string

const (
	TracePhasePreProcessing  TracePhase = "Pre-Processing"
	TracePhaseOrchestration  TracePhase = "Orchestration"
	TracePhasePostProcessing TracePhase = "Post-Processing"
)

// TraceEvent is one agent trace part, kept as raw JSON so the UI can render
// it exactly as the runtime emitted it.
type TraceEvent struct {
	Phase   TracePhase      `json:"phase"`
	Type    string          `json:"type"`
	TraceID string          `json:"traceId,omitempty"`
	Raw     json.RawMessage `json:"raw"`
}

// Citation is one citation event from the agent response stream, raw.
type Citation = json.RawMessage

// MessageRole distinguishes the prompt from the agent's answer.
type MessageRole string

const (
	MessageRoleUser  MessageRole = "user"
	MessageRoleAgent MessageRole = "agent"
)

// Message is one conversation entry stored on the session.
type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// Session is the per-browser conversation state. Its id doubles as the
// Bedrock session id, so the agent conversation continues across requests.
type Session struct {
	ID        string       `json:"id"`
	Messages  []Message    `json:"messages"`
	Citations []Citation   `json:"citations"`
	Trace     []TraceEvent `json:"trace"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// TraceStep is a group of trace events sharing a traceId.
type TraceStep struct {
	Step    int          `json:"step"`
	Phase   TracePhase   `json:"phase"`
	TraceID string       `json:"traceId"`
	Events  []TraceEvent `json:"events"`
}

// GroupTrace buckets trace events by phase and traceId, preserving event
// order, and numbers the steps across phases in console order.
func GroupTrace(events []TraceEvent) []TraceStep {
	phases := []TracePhase{
		TracePhasePreProcessing,
		TracePhaseOrchestration,
		TracePhasePostProcessing,
	}

	var steps []TraceStep
	stepNum := 1
	for _, phase := range phases {
		index := map[string]int{}
		for _, ev := range events {
			if ev.Phase != phase {
				continue
			}
			if i, ok := index[ev.TraceID]; ok {
				steps[i].Events = append(steps[i].Events, ev)
				continue
			}
			steps = append(steps, TraceStep{
				Step:    stepNum,
				Phase:   phase,
				TraceID: ev.TraceID,
				Events:  []TraceEvent{ev},
			})
			index[ev.TraceID] = len(steps) - 1
			stepNum++
		}
	}
	return steps
}
