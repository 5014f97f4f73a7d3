package postgres

import (
	"context"
	"fmt"

	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/storage"
)

func (s *Store) GetChecksForDayPart(ctx context.Context, dateKey string, part models.DayPart) ([]models.DailyCheck, error) {
	encoded, err := part.Encode()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date_key, item_id, day_part, checked
		FROM checks WHERE date_key = $1 AND day_part = $2`, dateKey, encoded)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChecks(rows)
}

func (s *Store) GetAllChecks(ctx context.Context) ([]models.DailyCheck, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date_key, item_id, day_part, checked
		FROM checks ORDER BY date_key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChecks(rows)
}

func scanChecks(rows storage.RowScanner) ([]models.DailyCheck, error) {
	var checks []models.DailyCheck
	for rows.Next() {
		var c models.DailyCheck
		var part string
		if err := rows.Scan(&c.DateKey, &c.ItemID, &part, &c.Checked); err != nil {
			return nil, err
		}
		p, err := models.ParseDayPart(part)
		if err != nil {
			return nil, fmt.Errorf("check for item %d on %s: %w", c.ItemID, c.DateKey, err)
		}
		c.DayPart = p
		checks = append(checks, c)
	}
	return checks, rows.Err()
}

func (s *Store) UpsertCheck(ctx context.Context, check models.DailyCheck) error {
	part, err := check.DayPart.Encode()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO checks (date_key, item_id, day_part, checked)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (date_key, item_id, day_part) DO UPDATE SET checked = EXCLUDED.checked`,
		check.DateKey, check.ItemID, part, check.Checked)
	return err
}

func (s *Store) PurgeChecksBefore(ctx context.Context, keepFrom string) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM checks WHERE date_key < $1", keepFrom)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
