// internal/tasks/team/validate-constraints/config.go
package validateconstraints

type Config struct {
	MinDistinctRegions int
	MinSeedPlayers     int
}

func LoadConfig() *Config {
	return &Config{
		MinDistinctRegions: 3,
		MinSeedPlayers:     1,
	}
}
