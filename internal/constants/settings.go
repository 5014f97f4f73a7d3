package constants

const (
	SettingTimezone             = "timezone"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingRetentionDays        = "retention_days"
	SettingFireTimeoutSec       = "fire_timeout_sec"

	DefaultTimezone             = ReferenceTimezone
	DefaultNotificationsEnabled = true
	DefaultRetentionDays        = 90
	DefaultFireTimeoutSec       = 10

	// WorkoutPrefPrefix prefixes the per-day workout flag key.
	WorkoutPrefPrefix = "workout_"
)
