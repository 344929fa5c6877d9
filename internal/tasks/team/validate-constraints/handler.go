// internal/tasks/team/validate-constraints/handler.go
package validateconstraints

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"team-builder/internal/common/logger"
	"team-builder/internal/models"
)

const (
	TaskType = "validate-constraints"
)

var ErrConstraintViolation = errors.New("CONSTRAINT_VIOLATION")

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// execute enforces roster composition rules for the team types that carry
// them. Only Mixed-Gender and Cross-Regional submissions have constraints;
// every other type passes through.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}

	switch models.TeamType(input.TeamType) {
	case models.TeamTypeMixedGender:
		seeds := 0
		for _, p := range input.Players {
			if p.Org == "OrgZ" {
				seeds++
			}
		}
		if seeds < h.config.MinSeedPlayers {
			return nil, fmt.Errorf("%w: not enough players from underrepresented groups (OrgZ) to build a Mixed-Gender team", ErrConstraintViolation)
		}

	case models.TeamTypeCrossRegional:
		regions := make(map[string]struct{})
		for _, p := range input.Players {
			if p.Region == "" {
				continue
			}
			regions[strings.ToUpper(p.Region)] = struct{}{}
		}
		if len(regions) < h.config.MinDistinctRegions {
			return nil, fmt.Errorf("%w: not enough players from different regions to build a Cross-Regional team", ErrConstraintViolation)
		}
	}

	return &Output{Valid: true}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
