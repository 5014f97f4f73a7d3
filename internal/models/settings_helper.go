package models

import (
	"fmt"

	"github.com/julianstephens/dosely/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingRetentionDays:
			if _, err := fmt.Sscanf(value, "%d", &settings.RetentionDays); err != nil {
				return Settings{}, fmt.Errorf("parsing retention_days: %w", err)
			}
		case constants.SettingFireTimeoutSec:
			if _, err := fmt.Sscanf(value, "%d", &settings.FireTimeoutSec); err != nil {
				return Settings{}, fmt.Errorf("parsing fire_timeout_sec: %w", err)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingNotificationsEnabled: fmt.Sprintf("%v", settings.NotificationsEnabled),
		constants.SettingRetentionDays:        fmt.Sprintf("%d", settings.RetentionDays),
		constants.SettingFireTimeoutSec:       fmt.Sprintf("%d", settings.FireTimeoutSec),
	}
}

// DefaultSettings returns the settings written by init.
func DefaultSettings() Settings {
	return Settings{
		Timezone:             constants.DefaultTimezone,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		RetentionDays:        constants.DefaultRetentionDays,
		FireTimeoutSec:       constants.DefaultFireTimeoutSec,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.RetentionDays == 0 {
		settings.RetentionDays = constants.DefaultRetentionDays
	}
	if settings.FireTimeoutSec == 0 {
		settings.FireTimeoutSec = constants.DefaultFireTimeoutSec
	}
}
