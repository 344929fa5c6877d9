// internal/tasks/data-access/search-players/config.go
package searchplayers

import "time"

type Config struct {
	Timeout time.Duration
	Index   string
	Size    int
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		Index:   "players",
		Size:    20,
	}
}
