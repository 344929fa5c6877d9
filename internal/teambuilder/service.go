// internal/teambuilder/service.go
package teambuilder

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	stderrors "team-builder/internal/common/errors"
	"team-builder/internal/common/logger"
	"team-builder/internal/common/metrics"
	"team-builder/internal/common/observability"
	"team-builder/internal/models"
	"team-builder/internal/session"
	invokeagent "team-builder/internal/tasks/ai/invoke-agent"
	queryplayers "team-builder/internal/tasks/data-access/query-players"
	sendnotification "team-builder/internal/tasks/notify/send-notification"
	buildprompt "team-builder/internal/tasks/team/build-prompt"
	validateconstraints "team-builder/internal/tasks/team/validate-constraints"
)

// Progress stages published while a generation request runs.
const (
	StageFetchingRoster      = "fetching_roster"
	StageValidatingRoster    = "validating_roster"
	StageBuildingPrompt      = "building_prompt"
	StageInvokingAgent       = "invoking_agent"
	StagePersistingSession   = "persisting_session"
	StageSendingNotification = "sending_notification"
	StageDone                = "done"
	StageFailed              = "failed"
)

// ProgressEvent is one generation status update pushed to subscribers.
type ProgressEvent struct {
	SessionID string    `json:"sessionId"`
	Stage     string    `json:"stage"`
	Message   string    `json:"message,omitempty"`
	At        time.Time `json:"at"`
}

// Task step interfaces, satisfied by the task handlers and fakeable in tests.

type RosterFetcher interface {
	Execute(ctx context.Context, input *queryplayers.Input) (*queryplayers.Output, error)
}

type ConstraintValidator interface {
	Execute(ctx context.Context, input *validateconstraints.Input) (*validateconstraints.Output, error)
}

type PromptBuilder interface {
	Execute(ctx context.Context, input *buildprompt.Input) (*buildprompt.Output, error)
}

type AgentRunner interface {
	Execute(ctx context.Context, input *invokeagent.Input) (*invokeagent.Output, error)
}

type Notifier interface {
	Execute(ctx context.Context, input *sendnotification.Input) (*sendnotification.Output, error)
}

type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	AppendResult(ctx context.Context, id, prompt, completion string, citations []models.Citation, trace []models.TraceEvent) (*models.Session, error)
}

// ProgressPublisher fans progress events out to session subscribers.
type ProgressPublisher interface {
	Publish(event ProgressEvent)
}

type noopPublisher struct{}

func (noopPublisher) Publish(ProgressEvent) {}

// Service runs the full generation pipeline for one request.
type Service struct {
	roster      RosterFetcher
	constraints ConstraintValidator
	prompts     PromptBuilder
	agent       AgentRunner
	notifier    Notifier
	sessions    SessionStore
	progress    ProgressPublisher
	obs         *observability.Observability
	logger      logger.Logger
}

func NewService(
	roster RosterFetcher,
	constraints ConstraintValidator,
	prompts PromptBuilder,
	agent AgentRunner,
	notifier Notifier,
	sessions SessionStore,
	progress ProgressPublisher,
	obs *observability.Observability,
	log logger.Logger,
) *Service {
	if progress == nil {
		progress = noopPublisher{}
	}
	return &Service{
		roster:      roster,
		constraints: constraints,
		prompts:     prompts,
		agent:       agent,
		notifier:    notifier,
		sessions:    sessions,
		progress:    progress,
		obs:         obs,
		logger:      log.WithFields(map[string]interface{}{"component": "teambuilder"}),
	}
}

func (s *Service) publish(sessionID, stage, message string) {
	s.progress.Publish(ProgressEvent{
		SessionID: sessionID,
		Stage:     stage,
		Message:   message,
		At:        time.Now().UTC(),
	})
}

var tracer = otel.Tracer("team-builder/teambuilder")

// GenerateTeam runs roster fetch, constraint validation, prompt assembly,
// agent invocation, and session persistence for one request. Notification
// delivery is best effort and never fails the request.
func (s *Service) GenerateTeam(ctx context.Context, req models.TeamRequest) (*models.TeamComposition, error) {
	ctx, span := tracer.Start(ctx, "GenerateTeam", trace.WithAttributes(
		attribute.String("session.id", req.SessionID),
		attribute.String("team.type", string(req.TeamType)),
	))
	defer span.End()

	start := time.Now()
	log := s.logger.WithFields(map[string]interface{}{
		"sessionId": req.SessionID,
		"teamType":  string(req.TeamType),
	})

	if !models.IsValidTeamType(string(req.TeamType)) {
		return nil, stderrors.NewInvalidTeamTypeError(string(req.TeamType))
	}

	if _, err := s.sessions.Get(ctx, req.SessionID); err != nil {
		return nil, s.fail(ctx, req, log, s.mapSessionError(req, err))
	}

	s.publish(req.SessionID, StageFetchingRoster, "")
	rosterOut, err := s.roster.Execute(ctx, &queryplayers.Input{TeamType: string(req.TeamType)})
	if err != nil {
		return nil, s.fail(ctx, req, log, s.mapRosterError(req, err))
	}
	log.Info("roster fetched", map[string]interface{}{
		"playerCount": rosterOut.RowCount,
		"queryTimeMs": rosterOut.QueryExecutionTime,
	})

	s.publish(req.SessionID, StageValidatingRoster, "")
	if _, err := s.constraints.Execute(ctx, &validateconstraints.Input{
		TeamType: string(req.TeamType),
		Players:  rosterOut.Players,
	}); err != nil {
		return nil, s.fail(ctx, req, log, stderrors.NewConstraintViolationError(string(req.TeamType), err.Error()))
	}

	s.publish(req.SessionID, StageBuildingPrompt, "")
	promptOut, err := s.prompts.Execute(ctx, &buildprompt.Input{
		TeamType:              string(req.TeamType),
		AdditionalConstraints: req.AdditionalConstraints,
		Players:               rosterOut.Players,
	})
	if err != nil {
		return nil, s.fail(ctx, req, log, stderrors.NewValidationFailedError(err.Error()))
	}

	s.publish(req.SessionID, StageInvokingAgent, "")
	agentStart := time.Now()
	agentOut, err := s.agent.Execute(ctx, &invokeagent.Input{
		SessionID: req.SessionID,
		Prompt:    promptOut.Prompt,
	})
	if s.obs != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		s.obs.RecordAgentDuration(ctx, time.Since(agentStart), status)
	}
	if err != nil {
		return nil, s.fail(ctx, req, log, s.mapAgentError(err))
	}

	s.publish(req.SessionID, StagePersistingSession, "")
	if _, err := s.sessions.AppendResult(ctx, req.SessionID, promptOut.Prompt, agentOut.Completion, agentOut.Citations, agentOut.Trace); err != nil {
		return nil, s.fail(ctx, req, log, stderrors.NewSessionStoreFailedError(err))
	}

	s.publish(req.SessionID, StageSendingNotification, "")
	s.notify(ctx, req, agentOut.Completion, log)

	elapsed := time.Since(start)
	metrics.TeamsGenerated.WithLabelValues(string(req.TeamType)).Inc()
	if s.obs != nil {
		s.obs.RecordTeamGenerated(ctx, string(req.TeamType), "success")
		s.obs.RecordGenerationDuration(ctx, elapsed, string(req.TeamType))
	}
	s.publish(req.SessionID, StageDone, "")

	log.Info("team generated", map[string]interface{}{
		"durationMs":    elapsed.Milliseconds(),
		"citationCount": len(agentOut.Citations),
		"traceCount":    len(agentOut.Trace),
	})

	return &models.TeamComposition{
		SessionID:   req.SessionID,
		TeamType:    req.TeamType,
		Composition: agentOut.Completion,
		Citations:   agentOut.Citations,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (s *Service) notify(ctx context.Context, req models.TeamRequest, composition string, log logger.Logger) {
	if s.notifier == nil {
		return
	}
	input := &sendnotification.Input{
		SessionID:   req.SessionID,
		TeamType:    string(req.TeamType),
		Composition: composition,
	}
	if req.Notification != nil {
		input.Channel = string(req.Notification.Channel)
		input.Recipient = req.Notification.Recipient
	}
	out, err := s.notifier.Execute(ctx, input)
	if err != nil {
		log.Warn("notification failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if out.Status == sendnotification.StatusFailed {
		log.Warn("notification delivery failed", map[string]interface{}{
			"notificationId": out.NotificationID,
		})
	}
}

func (s *Service) fail(ctx context.Context, req models.TeamRequest, log logger.Logger, stdErr *stderrors.StandardError) *stderrors.StandardError {
	span := trace.SpanFromContext(ctx)
	span.RecordError(stdErr)
	span.SetStatus(codes.Error, string(stdErr.Code))

	metrics.TeamGenerationFailed.WithLabelValues(string(req.TeamType), string(stdErr.Code)).Inc()
	if s.obs != nil {
		s.obs.RecordTeamGenerated(ctx, string(req.TeamType), "error")
	}
	s.publish(req.SessionID, StageFailed, string(stdErr.Code))
	log.Error("team generation failed", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"details":   stdErr.Details,
	})
	return stdErr
}

func (s *Service) mapSessionError(req models.TeamRequest, err error) *stderrors.StandardError {
	if errors.Is(err, session.ErrSessionNotFound) {
		return stderrors.NewSessionNotFoundError(req.SessionID)
	}
	return stderrors.NewSessionStoreFailedError(err)
}

func (s *Service) mapRosterError(req models.TeamRequest, err error) *stderrors.StandardError {
	switch {
	case errors.Is(err, queryplayers.ErrInvalidTeamType):
		return stderrors.NewInvalidTeamTypeError(string(req.TeamType))
	case errors.Is(err, queryplayers.ErrRosterEmpty):
		return stderrors.NewRosterEmptyError(string(req.TeamType))
	case errors.Is(err, queryplayers.ErrQueryTimeout):
		return stderrors.NewQueryTimeoutError(string(req.TeamType))
	case errors.Is(err, queryplayers.ErrDatabaseConnectionFailed):
		return stderrors.NewDatabaseConnectionFailedError(err)
	default:
		return stderrors.NewRosterQueryFailedError(string(req.TeamType), err)
	}
}

func (s *Service) mapAgentError(err error) *stderrors.StandardError {
	if errors.Is(err, invokeagent.ErrAgentTimeout) {
		return stderrors.NewAgentTimeoutError()
	}
	return stderrors.NewAgentInvokeFailedError(err)
}
