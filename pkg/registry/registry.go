// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"os"
)

// LoadRegistry reads a task registry from a JSON file. Deployments that
// override timeouts ship their own registry file.
func LoadRegistry(path string) (*TaskRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg TaskRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// Default returns the built-in catalog of pipeline tasks.
func Default() *TaskRegistry {
	return &TaskRegistry{
		Version:     "1.0.0",
		LastUpdated: "2026-08-20",
		Tasks: []Task{
			{
				ID:          "query-players",
				DisplayName: "Query Players",
				Description: "Fetches the candidate roster from PostgreSQL for a team submission type",
				Category:    "data-access",
				TaskType:    "query-players",
				ErrorCodes:  []string{"INVALID_TEAM_TYPE", "ROSTER_EMPTY", "ROSTER_QUERY_FAILED", "QUERY_TIMEOUT"},
				Timeout:     "30s",
				Retries:     3,
				Tags:        []string{"postgres", "roster"},
			},
			{
				ID:          "search-players",
				DisplayName: "Search Players",
				Description: "Full-text player lookup over the Elasticsearch player index",
				Category:    "data-access",
				TaskType:    "search-players",
				ErrorCodes:  []string{"SEARCH_QUERY_FAILED", "SEARCH_TIMEOUT"},
				Timeout:     "10s",
				Retries:     3,
				Tags:        []string{"elasticsearch", "search"},
			},
			{
				ID:          "validate-constraints",
				DisplayName: "Validate Constraints",
				Description: "Checks roster composition rules for mixed-gender and cross-regional submissions",
				Category:    "team",
				TaskType:    "validate-constraints",
				ErrorCodes:  []string{"CONSTRAINT_VIOLATION"},
				Timeout:     "5s",
				Retries:     1,
				Tags:        []string{"roster", "validation"},
			},
			{
				ID:          "build-prompt",
				DisplayName: "Build Prompt",
				Description: "Assembles the agent prompt from player stat blocks and submission constraints",
				Category:    "team",
				TaskType:    "build-prompt",
				ErrorCodes:  []string{"VALIDATION_FAILED"},
				Timeout:     "5s",
				Retries:     1,
				Tags:        []string{"prompt"},
			},
			{
				ID:          "invoke-agent",
				DisplayName: "Invoke Agent",
				Description: "Calls the Bedrock agent and collects the completion, citations, and trace stream",
				Category:    "ai",
				TaskType:    "invoke-agent",
				ErrorCodes:  []string{"AGENT_INVOKE_FAILED", "AGENT_TIMEOUT"},
				Timeout:     "90s",
				Retries:     1,
				Tags:        []string{"bedrock", "agent"},
			},
			{
				ID:          "send-notification",
				DisplayName: "Send Notification",
				Description: "Delivers the finished composition over SES email and SNS",
				Category:    "notify",
				TaskType:    "send-notification",
				ErrorCodes:  []string{"NOTIFICATION_SEND_FAILED"},
				Timeout:     "30s",
				Retries:     3,
				Tags:        []string{"ses", "sns"},
			},
		},
	}
}
