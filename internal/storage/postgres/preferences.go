package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/julianstephens/dosely/internal/storage"
)

func (s *Store) GetWorkoutFlag(ctx context.Context, dateKey string) (bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM preferences WHERE key = $1", storage.WorkoutFlagKey(dateKey)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

func (s *Store) SetWorkoutFlag(ctx context.Context, dateKey string, on bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		storage.WorkoutFlagKey(dateKey), strconv.FormatBool(on))
	return err
}
