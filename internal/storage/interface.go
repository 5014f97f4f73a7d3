package storage

import (
	"context"

	"github.com/julianstephens/dosely/internal/models"
)

// Provider is the record store: items, assignments, daily checks, the per-day workout
// preference and application settings. Every call may block on I/O.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error

	// Items
	GetAllItems(ctx context.Context) ([]models.Item, error)
	// InsertItems inserts items in order and returns their assigned ids in the same order.
	InsertItems(ctx context.Context, items []models.Item) ([]int64, error)
	UpdateItem(ctx context.Context, item models.Item) error
	// DeleteItem removes the item and its assignments.
	DeleteItem(ctx context.Context, id int64) error
	ClearItems(ctx context.Context) error

	// Assignments
	// GetAllAssignments returns assignments in insertion order.
	GetAllAssignments(ctx context.Context) ([]models.Assignment, error)
	InsertAssignments(ctx context.Context, assignments []models.Assignment) error
	DeleteAssignmentsForItem(ctx context.Context, itemID int64) error
	ClearAssignments(ctx context.Context) error

	// Daily checks
	GetChecksForDayPart(ctx context.Context, dateKey string, part models.DayPart) ([]models.DailyCheck, error)
	// UpsertCheck inserts or replaces the check for (date, item, day-part).
	UpsertCheck(ctx context.Context, check models.DailyCheck) error
	// PurgeChecksBefore deletes checks with a date key earlier than keepFrom.
	PurgeChecksBefore(ctx context.Context, keepFrom string) (int64, error)
	GetAllChecks(ctx context.Context) ([]models.DailyCheck, error)

	// Preferences
	// GetWorkoutFlag returns false when no flag was stored for the date.
	GetWorkoutFlag(ctx context.Context, dateKey string) (bool, error)
	SetWorkoutFlag(ctx context.Context, dateKey string, on bool) error

	// Utils
	GetConfigPath() string
}
