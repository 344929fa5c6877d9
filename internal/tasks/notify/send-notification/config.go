// internal/tasks/notify/send-notification/config.go
package sendnotification

import "time"

type Config struct {
	EmailEnabled bool
	SNSEnabled   bool
	FromEmail    string
	ToEmail      string
	TopicARN     string
	AWSRegion    string
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
