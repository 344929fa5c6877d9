// internal/tasks/ai/invoke-agent/handler.go
package invokeagent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"team-builder/internal/common/aws"
	"team-builder/internal/common/logger"
	"team-builder/internal/common/metrics"
)

const (
	TaskType = "invoke-agent"
)

var (
	ErrAgentTimeout      = errors.New("AGENT_TIMEOUT")
	ErrAgentInvokeFailed = errors.New("AGENT_INVOKE_FAILED")
)

// AgentInvoker abstracts the Bedrock Agent Runtime call.
type AgentInvoker interface {
	InvokeAgent(ctx context.Context, sessionID, prompt string) (*aws.AgentResponse, error)
}

type Handler struct {
	config  *Config
	invoker AgentInvoker
	logger  logger.Logger
}

func NewHandler(config *Config, invoker AgentInvoker, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		invoker: invoker,
		logger: log.WithFields(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}
	if strings.TrimSpace(input.Prompt) == "" {
		return nil, fmt.Errorf("%w: empty prompt", ErrAgentInvokeFailed)
	}

	start := time.Now()

	var resp *aws.AgentResponse
	var lastErr error

	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(500*(1<<(attempt-1))) * time.Millisecond
			h.logger.Warn("retrying agent invocation", map[string]interface{}{
				"attempt": attempt,
				"backoff": backoff.String(),
				"error":   lastErr.Error(),
			})
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				metrics.AgentInvokeDuration.WithLabelValues("timeout").Observe(time.Since(start).Seconds())
				return nil, ErrAgentTimeout
			}
		}

		resp, lastErr = h.invoker.InvokeAgent(ctx, input.SessionID, input.Prompt)
		if lastErr == nil {
			break
		}

		if ctx.Err() != nil {
			metrics.AgentInvokeDuration.WithLabelValues("timeout").Observe(time.Since(start).Seconds())
			return nil, ErrAgentTimeout
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			metrics.AgentInvokeDuration.WithLabelValues("timeout").Observe(time.Since(start).Seconds())
			return nil, ErrAgentTimeout
		}
		metrics.AgentInvokeDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %v", ErrAgentInvokeFailed, lastErr)
	}

	elapsed := time.Since(start)
	metrics.AgentInvokeDuration.WithLabelValues("success").Observe(elapsed.Seconds())

	h.logger.Info("agent invocation completed", map[string]interface{}{
		"sessionId":      input.SessionID,
		"completionSize": len(resp.Completion),
		"citationCount":  len(resp.Citations),
		"traceCount":     len(resp.Trace),
		"durationMs":     elapsed.Milliseconds(),
	})

	return &Output{
		Completion:     resp.Completion,
		Citations:      resp.Citations,
		Trace:          resp.Trace,
		InvocationTime: elapsed.Milliseconds(),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()
	return h.execute(ctx, input)
}
