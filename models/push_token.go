package models

import (
	"regexp"
	"time"
)

// PushToken is a per-device delivery token registered with the push
// gateway. A user may hold any number of active tokens at once. Tokens
// are never deleted on failure, only flipped inactive, so a device that
// re-registers with the same token cannot race a delete.
type PushToken struct {
	ID         string    `gorm:"primary_key" json:"id"`
	UserID     string    `gorm:"index" json:"userID"`
	Token      string    `gorm:"index" json:"token"`
	DeviceType string    `json:"deviceType"`
	DeviceName string    `json:"deviceName"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

var pushTokenFormat = regexp.MustCompile(`^ExponentPushToken\[[A-Za-z0-9_-]+\]$`)

// ValidPushTokenFormat reports whether the token matches the gateway's
// token format. Tokens that fail this check are skipped before any
// delivery attempt is made.
func ValidPushTokenFormat(token string) bool {
	return pushTokenFormat.MatchString(token)
}
