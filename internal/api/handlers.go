// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	stderrors "team-builder/internal/common/errors"
	"team-builder/internal/common/logger"
	"team-builder/internal/common/validation"
	"team-builder/internal/models"
	"team-builder/internal/session"
	searchplayers "team-builder/internal/tasks/data-access/search-players"
	"team-builder/pkg/registry"
)

// TeamGenerator runs the full generation pipeline.
type TeamGenerator interface {
	GenerateTeam(ctx context.Context, req models.TeamRequest) (*models.TeamComposition, error)
}

// SessionManager is the session lifecycle surface the API needs.
type SessionManager interface {
	Create(ctx context.Context) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// PlayerSearcher runs full-text player lookups.
type PlayerSearcher interface {
	Execute(ctx context.Context, input *searchplayers.Input) (*searchplayers.Output, error)
}

// Handler carries the service dependencies for all API endpoints.
type Handler struct {
	generator TeamGenerator
	sessions  SessionManager
	search    PlayerSearcher
	hub       *ProgressHub
	logger    logger.Logger
}

func NewHandler(generator TeamGenerator, sessions SessionManager, search PlayerSearcher, hub *ProgressHub, log logger.Logger) *Handler {
	return &Handler{
		generator: generator,
		sessions:  sessions,
		search:    search,
		hub:       hub,
		logger:    log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// ==========================
// Response helpers
// ==========================

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// respondError maps an internal error onto a JSON error body and status code.
func respondError(c *gin.Context, err error) {
	if stdErr, ok := stderrors.AsStandardError(err); ok {
		c.JSON(stderrors.HTTPStatus(stdErr.Code), gin.H{
			"success": false,
			"error": gin.H{
				"code":      string(stdErr.Code),
				"message":   stdErr.Message,
				"details":   stdErr.Details,
				"retryable": stdErr.Retryable,
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": err.Error(),
		},
	})
}

// ==========================
// Session endpoints
// ==========================

func (h *Handler) CreateSession(c *gin.Context) {
	sess, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		respondError(c, stderrors.NewSessionStoreFailedError(err))
		return
	}
	respondCreated(c, sess)
}

func (h *Handler) GetSession(c *gin.Context) {
	sess, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.mapSessionError(c.Param("id"), err))
		return
	}
	respondOK(c, sess)
}

func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, stderrors.NewSessionStoreFailedError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) mapSessionError(id string, err error) error {
	if errors.Is(err, session.ErrSessionNotFound) {
		return stderrors.NewSessionNotFoundError(id)
	}
	return stderrors.NewSessionStoreFailedError(err)
}

// ==========================
// Team endpoints
// ==========================

func (h *Handler) ListTeamTypes(c *gin.Context) {
	respondOK(c, models.AllTeamTypes)
}

// ListTasks returns the pipeline task catalog.
func (h *Handler) ListTasks(c *gin.Context) {
	respondOK(c, registry.Default())
}

func (h *Handler) GenerateTeam(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, stderrors.NewValidationFailedError(err.Error()))
		return
	}

	result, err := validation.Validate(validation.TeamGenerateSchema, payload)
	if err != nil {
		respondError(c, stderrors.NewValidationFailedError(err.Error()))
		return
	}
	if !result.Valid {
		respondError(c, stderrors.NewValidationFailedError(strings.Join(result.GetErrorMessages(), "; ")))
		return
	}

	raw, _ := json.Marshal(payload)
	var req models.TeamRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		respondError(c, stderrors.NewValidationFailedError(err.Error()))
		return
	}

	composition, err := h.generator.GenerateTeam(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, composition)
}

// ==========================
// Trace and citation endpoints
// ==========================

func (h *Handler) GetSessionTrace(c *gin.Context) {
	sess, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.mapSessionError(c.Param("id"), err))
		return
	}
	respondOK(c, models.GroupTrace(sess.Trace))
}

func (h *Handler) GetSessionCitations(c *gin.Context) {
	sess, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.mapSessionError(c.Param("id"), err))
		return
	}
	respondOK(c, sess.Citations)
}

// ==========================
// Player search endpoint
// ==========================

func (h *Handler) SearchPlayers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondError(c, stderrors.NewValidationFailedError("query parameter q is required"))
		return
	}

	out, err := h.search.Execute(c.Request.Context(), &searchplayers.Input{Query: query})
	if err != nil {
		switch {
		case errors.Is(err, searchplayers.ErrSearchTimeout):
			respondError(c, stderrors.NewSearchTimeoutError())
		default:
			respondError(c, stderrors.NewSearchQueryFailedError(err))
		}
		return
	}
	respondOK(c, out)
}

// ==========================
// Websocket endpoint
// ==========================

// SessionProgressWebSocket streams generation progress events for a session.
func (h *Handler) SessionProgressWebSocket(c *gin.Context) {
	sessionID := c.Param("id")
	if _, err := h.sessions.Get(c.Request.Context(), sessionID); err != nil {
		respondError(c, h.mapSessionError(sessionID, err))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
		return
	}

	h.hub.ServeConn(conn, sessionID)
}

// ==========================
// Health endpoints
// ==========================

// HealthChecker reports dependency reachability for readiness probes.
type HealthChecker func(ctx context.Context) error

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready runs the registered dependency checks and reports per-check status.
func (h *Handler) Ready(checks map[string]HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
			} else {
				results[name] = "ok"
			}
		}
		c.JSON(status, gin.H{"checks": results})
	}
}
