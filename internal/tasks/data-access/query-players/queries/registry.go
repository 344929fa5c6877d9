// internal/tasks/data-access/query-players/queries/registry.go
package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"team-builder/internal/models"
)

var ErrUnknownTeamType = errors.New("unknown team type")

// QueryFunc returns: players, executionTime (ms), error
type QueryFunc func(ctx context.Context, db *sql.DB) ([]models.Player, int64, error)

var Registry = map[models.TeamType]QueryFunc{
	models.TeamTypeProfessional:     ProfessionalRoster,
	models.TeamTypeSemiProfessional: SemiProfessionalRoster,
	models.TeamTypeGameChangers:     GameChangersRoster,
	models.TeamTypeMixedGender:      MixedGenderRoster,
	models.TeamTypeCrossRegional:    CrossRegionalRoster,
	models.TeamTypeRisingStar:       RisingStarRoster,
}

func Execute(ctx context.Context, db *sql.DB, teamType models.TeamType) ([]models.Player, int64, error) {
	fn, exists := Registry[teamType]
	if !exists {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnknownTeamType, teamType)
	}
	return fn(ctx, db)
}
