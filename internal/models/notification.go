// internal/models/notification.go
package models

// NotificationChannel selects the delivery mechanism for a submission
// receipt.
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelSNS   NotificationChannel = "sns"
)

// NotificationStatus is the delivery outcome reported back to the caller.
type NotificationStatus string

const (
	NotificationStatusSent     NotificationStatus = "sent"
	NotificationStatusDisabled NotificationStatus = "disabled"
	NotificationStatusFailed   NotificationStatus = "failed"
)
