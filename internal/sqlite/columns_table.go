// This file implements column persistence for the SQLite backend. Column
// positions are written here only on insert; every later change goes through
// the column position store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

const columnColumns = "column_id, board_id, name, position, created_at, updated_at"

// InsertColumn stores c at c.Position in board c.BoardID.
func (s *session) InsertColumn(ctx context.Context, c *types.Column) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Position < 1 {
		return fmt.Errorf("%w: %d", types.ErrInvalidPosition, c.Position)
	}
	id, err := newID()
	if err != nil {
		return err
	}
	now := s.now()
	c.ColumnID = id
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err = s.tx.ExecContext(ctx,
		"INSERT INTO columns ("+columnColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		c.ColumnID, c.BoardID, c.Name, c.Position, timestamp(c.CreatedAt), timestamp(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting column: %w", err)
	}
	return nil
}

// GetColumn returns the column with the given ID.
func (s *session) GetColumn(ctx context.Context, id string) (*types.Column, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	row := s.tx.QueryRowContext(ctx, "SELECT "+columnColumns+" FROM columns WHERE column_id = ?", id)
	c, err := hydrateColumn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting column %s: %w", id, err)
	}
	return c, nil
}

// ListColumns returns the board's columns by ascending position.
func (s *session) ListColumns(ctx context.Context, boardID string) ([]*types.Column, error) {
	rows, err := s.tx.QueryContext(ctx,
		"SELECT "+columnColumns+" FROM columns WHERE board_id = ? ORDER BY position ASC",
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing columns: %w", err)
	}
	defer rows.Close()

	results := []*types.Column{}
	for rows.Next() {
		c, err := hydrateColumn(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating column: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating columns: %w", err)
	}
	return results, nil
}

// UpdateColumn writes the column name.
func (s *session) UpdateColumn(ctx context.Context, c *types.Column) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.UpdatedAt = s.now()
	err := mustAffectOne(s.tx.ExecContext(ctx,
		"UPDATE columns SET name = ?, updated_at = ? WHERE column_id = ?",
		c.Name, timestamp(c.UpdatedAt), c.ColumnID,
	))
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return fmt.Errorf("updating column: %w", err)
	}
	return err
}

// DeleteColumn removes the column and, by cascade, its tasks.
func (s *session) DeleteColumn(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	err := mustAffectOne(s.tx.ExecContext(ctx, "DELETE FROM columns WHERE column_id = ?", id))
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return fmt.Errorf("deleting column: %w", err)
	}
	return err
}

func hydrateColumn(row scanner) (*types.Column, error) {
	var c types.Column
	var createdAt, updatedAt string
	if err := row.Scan(&c.ColumnID, &c.BoardID, &c.Name, &c.Position, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if c.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
