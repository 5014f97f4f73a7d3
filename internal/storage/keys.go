package storage

import "github.com/julianstephens/dosely/internal/constants"

// WorkoutFlagKey is the preference key holding the workout flag for a date.
func WorkoutFlagKey(dateKey string) string {
	return constants.WorkoutPrefPrefix + dateKey
}
