// internal/tasks/data-access/query-players/handler.go
package queryplayers

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"team-builder/internal/common/logger"
	"team-builder/internal/models"
	"team-builder/internal/tasks/data-access/query-players/queries"
)

const (
	TaskType = "query-players"
)

var (
	ErrDatabaseConnectionFailed = errors.New("DATABASE_CONNECTION_FAILED")
	ErrRosterQueryFailed        = errors.New("ROSTER_QUERY_FAILED")
	ErrQueryTimeout             = errors.New("QUERY_TIMEOUT")
	ErrInvalidTeamType          = errors.New("INVALID_TEAM_TYPE")
	ErrRosterEmpty              = errors.New("ROSTER_EMPTY")
)

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}

	teamType := models.TeamType(input.TeamType)
	if _, exists := queries.Registry[teamType]; !exists {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTeamType, input.TeamType)
	}

	h.logger.Info("fetching roster", map[string]interface{}{
		"teamType": input.TeamType,
	})

	players, execTime, err := queries.Execute(ctx, h.db, teamType)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrQueryTimeout
		}
		if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseConnectionFailed, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrRosterQueryFailed, err)
	}

	if len(players) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRosterEmpty, input.TeamType)
	}

	return &Output{
		Players:            players,
		RowCount:           len(players),
		QueryExecutionTime: execTime,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()
	return h.execute(ctx, input)
}
