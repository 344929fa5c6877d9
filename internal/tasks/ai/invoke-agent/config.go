// internal/tasks/ai/invoke-agent/config.go
package invokeagent

import "time"

type Config struct {
	Timeout    time.Duration
	MaxRetries int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    90 * time.Second,
		MaxRetries: 1,
	}
}
