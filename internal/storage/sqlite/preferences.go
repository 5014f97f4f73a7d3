package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/julianstephens/dosely/internal/storage"
)

func (s *Store) GetWorkoutFlag(ctx context.Context, dateKey string) (bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM preferences WHERE key = ?", storage.WorkoutFlagKey(dateKey)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

func (s *Store) SetWorkoutFlag(ctx context.Context, dateKey string, on bool) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO preferences (key, value) VALUES (?, ?)",
		storage.WorkoutFlagKey(dateKey), strconv.FormatBool(on))
	return err
}
