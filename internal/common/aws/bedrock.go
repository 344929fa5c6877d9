// internal/common/aws/bedrock.go
package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"team-builder/internal/common/config"
	"team-builder/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
)

// AgentResponse is the fully collected result of one agent invocation: the
// concatenated completion chunks plus the citation and trace events that
// arrived on the stream.
type AgentResponse struct {
	Completion string
	Citations  []models.Citation
	Trace      []models.TraceEvent
}

// BedrockAgentClient wraps the Amazon Bedrock Agent Runtime.
type BedrockAgentClient struct {
	client       *bedrockagentruntime.Client
	agentID      string
	agentAliasID string
}

// NewBedrockAgentClient creates a Bedrock Agent Runtime client. Credentials
// come from the default AWS chain (env vars, shared config, instance role).
func NewBedrockAgentClient(ctx context.Context, cfg config.BedrockConfig) (*BedrockAgentClient, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &BedrockAgentClient{
		client:       bedrockagentruntime.NewFromConfig(awsCfg),
		agentID:      cfg.AgentID,
		agentAliasID: cfg.AgentAliasID,
	}, nil
}

// InvokeAgent sends a prompt for the agent to process and respond to.
// The session id ties requests into one conversation; pass the same value
// across requests to continue it. Execution time depends on the foundation
// model and prompt length and can exceed a minute.
func (b *BedrockAgentClient) InvokeAgent(ctx context.Context, sessionID, prompt string) (*AgentResponse, error) {
	out, err := b.client.InvokeAgent(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(b.agentID),
		AgentAliasId: aws.String(b.agentAliasID),
		SessionId:    aws.String(sessionID),
		InputText:    aws.String(prompt),
		EnableTrace:  aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("invoke agent: %w", err)
	}

	return CollectAgentStream(out.GetStream())
}

// CollectAgentStream drains the agent response stream, concatenating
// completion chunk bytes and gathering citation and trace events.
func CollectAgentStream(stream *bedrockagentruntime.InvokeAgentEventStream) (*AgentResponse, error) {
	defer stream.Close()

	resp := &AgentResponse{}
	var completion strings.Builder

	for event := range stream.Events() {
		switch v := event.(type) {
		case *types.ResponseStreamMemberChunk:
			completion.Write(v.Value.Bytes)
			if v.Value.Attribution != nil {
				for _, c := range v.Value.Attribution.Citations {
					raw, err := json.Marshal(c)
					if err != nil {
						continue
					}
					resp.Citations = append(resp.Citations, models.Citation(raw))
				}
			}
		case *types.ResponseStreamMemberTrace:
			if ev, ok := traceEvent(v.Value); ok {
				resp.Trace = append(resp.Trace, ev)
			}
		}
	}

	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("agent stream: %w", err)
	}

	resp.Completion = completion.String()
	return resp, nil
}

// traceEvent converts a TracePart union into a stored trace event. Failure
// and guardrail traces are dropped; the sidebar only renders the three
// processing phases.
func traceEvent(part types.TracePart) (models.TraceEvent, bool) {
	var (
		phase models.TracePhase
		inner interface{}
	)

	switch v := part.Trace.(type) {
	case *types.TraceMemberPreProcessingTrace:
		phase, inner = models.TracePhasePreProcessing, v.Value
	case *types.TraceMemberOrchestrationTrace:
		phase, inner = models.TracePhaseOrchestration, v.Value
	case *types.TraceMemberPostProcessingTrace:
		phase, inner = models.TracePhasePostProcessing, v.Value
	default:
		return models.TraceEvent{}, false
	}

	raw, err := json.Marshal(inner)
	if err != nil {
		return models.TraceEvent{}, false
	}

	return models.TraceEvent{
		Phase:   phase,
		Type:    traceTypeName(inner),
		TraceID: findTraceID(raw),
		Raw:     raw,
	}, true
}

// traceTypeName derives the event type ("modelInvocationInput", "rationale",
// ...) from the union member's Go type name.
func traceTypeName(inner interface{}) string {
	name := fmt.Sprintf("%T", inner)
	if i := strings.LastIndex(name, "Member"); i >= 0 {
		name = name[i+len("Member"):]
	} else if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return ""
	}
	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// findTraceID walks marshaled trace JSON for the first TraceId value.
func findTraceID(raw json.RawMessage) string {
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return ""
	}
	return searchTraceID(decoded)
}

func searchTraceID(node interface{}) string {
	switch v := node.(type) {
	case map[string]interface{}:
		if id, ok := v["TraceId"].(string); ok {
			return id
		}
		for _, child := range v {
			if id := searchTraceID(child); id != "" {
				return id
			}
		}
	case []interface{}:
		for _, child := range v {
			if id := searchTraceID(child); id != "" {
				return id
			}
		}
	}
	return ""
}
