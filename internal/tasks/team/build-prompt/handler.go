// internal/tasks/team/build-prompt/handler.go
package buildprompt

import (
	"context"
	"fmt"
	"strings"

	"team-builder/internal/common/logger"
	"team-builder/internal/models"
)

const (
	TaskType = "build-prompt"
)

type Handler struct {
	logger logger.Logger
}

func NewHandler(log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// execute renders the full agent prompt: one stat block per player, the
// submission type, optional constraints, and the five analysis tasks.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}
	if len(input.Players) == 0 {
		return nil, fmt.Errorf("players cannot be empty")
	}

	var playerInfo strings.Builder
	for _, player := range input.Players {
		playerInfo.WriteString(formatPlayer(player))
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Build a team for a VALORANT esports team based on the following player data:\n\n")
	fmt.Fprintf(&prompt, "%s\n\n", playerInfo.String())
	fmt.Fprintf(&prompt, "Team Submission Type: %s\n", input.TeamType)

	if input.AdditionalConstraints != "" {
		fmt.Fprintf(&prompt, "Additional Constraints: %s\n\n", input.AdditionalConstraints)
	}

	prompt.WriteString(
		"For each team composition, perform the following tasks:\n" +
			"1. Assign roles to each player on the team and explain their contribution.\n" +
			"2. Specify Offensive vs. Defensive roles.\n" +
			"3. Categorize each agent (Duelist, Sentinel, Controller, Initiator).\n" +
			"4. Assign a team IGL (In-Game Leader) and explain their role as the primary strategist and shotcaller.\n" +
			"5. Provide insights on team strategy and hypothesize team strengths and weaknesses.\n")

	return &Output{
		Prompt:      prompt.String(),
		PlayerCount: len(input.Players),
	}, nil
}

func formatPlayer(player models.Player) string {
	role := player.Role()

	region := "UNKNOWN"
	if player.Region != "" {
		region = strings.ToUpper(player.Region)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Player Name: %s\n", player.Name)
	fmt.Fprintf(&b, "Organization: %s\n", player.Org)
	fmt.Fprintf(&b, "Rounds Played: %d\n", player.RoundsPlayed)
	fmt.Fprintf(&b, "Average Combat Score: %v\n", player.AverageCombatScore)
	fmt.Fprintf(&b, "Kill/Death Ratio: %v\n", player.KillDeathRatio)
	fmt.Fprintf(&b, "Average Damage Per Round: %v\n", player.AverageDamagePerRound)
	fmt.Fprintf(&b, "Kills Per Round: %v\n", player.KillsPerRound)
	fmt.Fprintf(&b, "Assists Per Round: %v\n", player.AssistsPerRound)
	fmt.Fprintf(&b, "First Kills Per Round: %v\n", player.FirstKillsPerRound)
	fmt.Fprintf(&b, "First Deaths Per Round: %v\n", player.FirstDeathsPerRound)
	fmt.Fprintf(&b, "Headshot Percentage: %v%%\n", player.HeadshotPercentage)
	fmt.Fprintf(&b, "Clutch Success Percentage: %v%%\n", player.ClutchSuccessPercentage)
	fmt.Fprintf(&b, "Clutches Won/Played: %.2f\n", player.ClutchesWonPlayed)
	fmt.Fprintf(&b, "Total Kills: %d\n", player.TotalKills)
	fmt.Fprintf(&b, "Total Deaths: %d\n", player.TotalDeaths)
	fmt.Fprintf(&b, "Total Assists: %d\n", player.TotalAssists)
	fmt.Fprintf(&b, "Total First Kills: %d\n", player.TotalFirstKills)
	fmt.Fprintf(&b, "Total First Deaths: %d\n", player.TotalFirstDeaths)
	fmt.Fprintf(&b, "Map ID: %s\n", player.MapID)
	fmt.Fprintf(&b, "Agent: %s (%s)\n", player.Agent, role)
	fmt.Fprintf(&b, "Region: %s\n", region)
	b.WriteString("-----\n")
	return b.String()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
