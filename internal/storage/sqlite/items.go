package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/dosely/internal/models"
)

func (s *Store) GetAllItems(ctx context.Context) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, sort_default, sort_workout, workout_related
		FROM items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var it models.Item
		var sortWorkout sql.NullInt64
		if err := rows.Scan(&it.ID, &it.Name, &it.SortDefault, &sortWorkout, &it.WorkoutRelated); err != nil {
			return nil, err
		}
		if sortWorkout.Valid {
			v := int(sortWorkout.Int64)
			it.SortWorkout = &v
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

func (s *Store) InsertItems(ctx context.Context, items []models.Item) ([]int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO items (name, sort_default, sort_workout, workout_related)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, err
		}
		res, err := stmt.ExecContext(ctx, it.Name, it.SortDefault, nullableInt(it.SortWorkout), it.WorkoutRelated)
		if err != nil {
			return nil, fmt.Errorf("failed to insert item %q: %w", it.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) UpdateItem(ctx context.Context, item models.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE items SET name = ?, sort_default = ?, sort_workout = ?, workout_related = ?
		WHERE id = ?`,
		item.Name, item.SortDefault, nullableInt(item.SortWorkout), item.WorkoutRelated, item.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("item %d not found", item.ID)
	}
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM assignments WHERE item_id = ?", id); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("item %d not found", id)
	}

	return tx.Commit()
}

func (s *Store) ClearItems(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM items")
	return err
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
