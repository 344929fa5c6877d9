// internal/tasks/notify/send-notification/models.go
package sendnotification

import "team-builder/internal/models"

type Input struct {
	SessionID   string `json:"sessionId"`
	TeamType    string `json:"teamType"`
	Composition string `json:"composition"`

	// Per-request override. When Channel is set only that channel fires;
	// Recipient replaces the configured email destination.
	Channel   string `json:"channel,omitempty"`
	Recipient string `json:"recipient,omitempty"`
}

type Output struct {
	NotificationID string                    `json:"notificationId"`
	Status         models.NotificationStatus `json:"status"`
	SentAt         string                    `json:"sentAt"` // ISO 8601
}

// Statuses
const (
	StatusSent     = models.NotificationStatusSent
	StatusFailed   = models.NotificationStatusFailed
	StatusDisabled = models.NotificationStatusDisabled
)
