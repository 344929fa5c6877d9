// internal/tasks/data-access/query-players/queries/roster.go
package queries

import (
	"context"
	"database/sql"
	"time"

	"team-builder/internal/models"
)

const playerColumns = `player, org, rds, average_combat_score, kill_deaths, ` +
	`average_damage_per_round, kills_per_round, assists_per_round, ` +
	`first_kills_per_round, first_deaths_per_round, headshot_percentage, ` +
	`clutch_success_percentage, clutch_won_played, total_kills, total_deaths, ` +
	`total_assists, total_first_kills, total_first_deaths, map_id, agent, region`

// Professional rosters draw from every established organization.
func ProfessionalRoster(ctx context.Context, db *sql.DB) ([]models.Player, int64, error) {
	return fetchRoster(ctx, db, `
		SELECT `+playerColumns+` FROM players
		WHERE org IN ('Ascend', 'Mystic', 'Legion', 'Phantom', 'Rising', 'Nebula', 'OrgZ', 'T1A')`)
}

func SemiProfessionalRoster(ctx context.Context, db *sql.DB) ([]models.Player, int64, error) {
	return fetchRoster(ctx, db, `
		SELECT `+playerColumns+` FROM players
		WHERE org = 'Rising'`)
}

func GameChangersRoster(ctx context.Context, db *sql.DB) ([]models.Player, int64, error) {
	return fetchRoster(ctx, db, `
		SELECT `+playerColumns+` FROM players
		WHERE org = 'OrgZ'`)
}

// MixedGenderRoster fetches a single OrgZ seed player; the agent fills the
// rest of the lineup around them.
func MixedGenderRoster(ctx context.Context, db *sql.DB) ([]models.Player, int64, error) {
	return fetchRoster(ctx, db, `
		SELECT `+playerColumns+` FROM players
		WHERE org = 'OrgZ'
		LIMIT 1`)
}

func CrossRegionalRoster(ctx context.Context, db *sql.DB) ([]models.Player, int64, error) {
	return fetchRoster(ctx, db, `
		SELECT `+playerColumns+` FROM players
		WHERE region IN ('Japan', 'Russia', 'China', 'ME', 'LATAM')
		LIMIT 3`)
}

func RisingStarRoster(ctx context.Context, db *sql.DB) ([]models.Player, int64, error) {
	return fetchRoster(ctx, db, `
		SELECT `+playerColumns+` FROM players
		WHERE org = 'Rising'`)
}

func fetchRoster(ctx context.Context, db *sql.DB, query string) ([]models.Player, int64, error) {
	start := time.Now()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, 0, err
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return players, execTime, nil
}

// scanPlayer reads one roster row. Every column except the player name is
// nullable in the scraped stats tables; NULLs come back as zero values, and
// an empty region later renders as UNKNOWN.
func scanPlayer(rows *sql.Rows) (models.Player, error) {
	var (
		name, org, mapID, agent, region         sql.NullString
		rds, tk, td, ta, tfk, tfd               sql.NullInt64
		acs, kd, adr, kpr, apr, fkpr, fdpr      sql.NullFloat64
		headshot, clutchSuccess, clutchesWonPct sql.NullFloat64
	)

	if err := rows.Scan(
		&name, &org, &rds, &acs, &kd,
		&adr, &kpr, &apr,
		&fkpr, &fdpr, &headshot,
		&clutchSuccess, &clutchesWonPct, &tk, &td,
		&ta, &tfk, &tfd, &mapID, &agent, &region,
	); err != nil {
		return models.Player{}, err
	}

	return models.Player{
		Name:                    name.String,
		Org:                     org.String,
		RoundsPlayed:            int(rds.Int64),
		AverageCombatScore:      acs.Float64,
		KillDeathRatio:          kd.Float64,
		AverageDamagePerRound:   adr.Float64,
		KillsPerRound:           kpr.Float64,
		AssistsPerRound:         apr.Float64,
		FirstKillsPerRound:      fkpr.Float64,
		FirstDeathsPerRound:     fdpr.Float64,
		HeadshotPercentage:      headshot.Float64,
		ClutchSuccessPercentage: clutchSuccess.Float64,
		ClutchesWonPlayed:       clutchesWonPct.Float64,
		TotalKills:              int(tk.Int64),
		TotalDeaths:             int(td.Int64),
		TotalAssists:            int(ta.Int64),
		TotalFirstKills:         int(tfk.Int64),
		TotalFirstDeaths:        int(tfd.Int64),
		MapID:                   mapID.String,
		Agent:                   agent.String,
		Region:                  region.String,
	}, nil
}
