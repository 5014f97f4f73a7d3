package models

// Settings represents application-wide settings
type Settings struct {
	Timezone             string `json:"timezone"`              // IANA timezone used for date keys and reminder times
	NotificationsEnabled bool   `json:"notifications_enabled"` // whether reminder notifications are emitted
	RetentionDays        int    `json:"retention_days"`        // daily checks older than this many days may be purged
	FireTimeoutSec       int    `json:"fire_timeout_sec"`      // time budget for a single reminder fire
}
