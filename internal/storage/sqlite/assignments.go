package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/dosely/internal/models"
)

func (s *Store) GetAllAssignments(ctx context.Context) ([]models.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, day_part, slot_index, days_json
		FROM assignments ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		var a models.Assignment
		var part string
		var days sql.NullString
		if err := rows.Scan(&a.ItemID, &part, &a.SlotIndex, &days); err != nil {
			return nil, err
		}
		a.DayPart, err = models.ParseDayPart(part)
		if err != nil {
			return nil, fmt.Errorf("assignment for item %d: %w", a.ItemID, err)
		}
		if days.Valid {
			v := days.String
			a.DaysJSON = &v
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

func (s *Store) InsertAssignments(ctx context.Context, assignments []models.Assignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO assignments (item_id, day_part, slot_index, days_json)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range assignments {
		if err := a.Validate(); err != nil {
			return err
		}
		part, err := a.DayPart.Encode()
		if err != nil {
			return err
		}
		var days sql.NullString
		if a.DaysJSON != nil {
			days = sql.NullString{String: *a.DaysJSON, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, a.ItemID, part, a.SlotIndex, days); err != nil {
			return fmt.Errorf("failed to insert assignment (%d, %s, %d): %w", a.ItemID, part, a.SlotIndex, err)
		}
	}

	return tx.Commit()
}

func (s *Store) DeleteAssignmentsForItem(ctx context.Context, itemID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM assignments WHERE item_id = ?", itemID)
	return err
}

func (s *Store) ClearAssignments(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM assignments")
	return err
}
