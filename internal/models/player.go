// internal/models/player.go
package models

// AgentRole is the tactical category of a VALORANT agent.
type AgentRole string

const (
	RoleDuelist    AgentRole = "Duelist"
	RoleSentinel   AgentRole = "Sentinel"
	RoleController AgentRole = "Controller"
	RoleInitiator  AgentRole = "Initiator"
	RoleUndefined  AgentRole = "Undefined"
)

// roleCategory pairs a role with the agents that play it. Order matters:
// Viper is listed under both Sentinel and Controller, and the first match
// wins.
type roleCategory struct {
	Role   AgentRole
	Agents []string
}

var roleCategories = []roleCategory{
	{RoleDuelist, []string{"Jett", "Phoenix", "Reyna", "Raze", "Yoru", "Neon"}},
	{RoleSentinel, []string{"Sage", "Cypher", "Killjoy", "Viper"}},
	{RoleController, []string{"Omen", "Astra", "Brimstone", "Viper"}},
	{RoleInitiator, []string{"Sova", "Breach", "Skye", "KAY/O", "Fade"}},
}

// AssignRole maps an agent name to its tactical role.
func AssignRole(agent string) AgentRole {
	for _, cat := range roleCategories {
		for _, a := range cat.Agents {
			if a == agent {
				return cat.Role
			}
		}
	}
	return RoleUndefined
}

// Player is one scouted player record from the players table.
type Player struct {
	Name                    string  `json:"player"`
	Org                     string  `json:"org"`
	RoundsPlayed            int     `json:"rds"`
	AverageCombatScore      float64 `json:"averageCombatScore"`
	KillDeathRatio          float64 `json:"killDeaths"`
	AverageDamagePerRound   float64 `json:"averageDamagePerRound"`
	KillsPerRound           float64 `json:"killsPerRound"`
	AssistsPerRound         float64 `json:"assistsPerRound"`
	FirstKillsPerRound      float64 `json:"firstKillsPerRound"`
	FirstDeathsPerRound     float64 `json:"firstDeathsPerRound"`
	HeadshotPercentage      float64 `json:"headshotPercentage"`
	ClutchSuccessPercentage float64 `json:"clutchSuccessPercentage"`
	ClutchesWonPlayed       float64 `json:"clutchWonPlayed"`
	TotalKills              int     `json:"totalKills"`
	TotalDeaths             int     `json:"totalDeaths"`
	TotalAssists            int     `json:"totalAssists"`
	TotalFirstKills         int     `json:"totalFirstKills"`
	TotalFirstDeaths        int     `json:"totalFirstDeaths"`
	MapID                   string  `json:"mapId"`
	Agent                   string  `json:"agent"`
	Region                  string  `json:"region"`
}

// Role returns the tactical role for the player's agent.
func (p Player) Role() AgentRole {
	return AssignRole(p.Agent)
}
