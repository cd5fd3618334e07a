// This file implements board persistence for the SQLite backend.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

const boardColumns = "board_id, project_id, name, description, created_at, updated_at"

// CreateBoard inserts b under b.ProjectID.
// Returns ErrNotFound if the project does not exist.
func (s *session) CreateBoard(ctx context.Context, b *types.Board) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if _, err := s.GetProject(ctx, b.ProjectID); err != nil {
		return err
	}
	id, err := newID()
	if err != nil {
		return err
	}
	now := s.now()
	b.BoardID = id
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err = s.tx.ExecContext(ctx,
		"INSERT INTO boards ("+boardColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		b.BoardID, b.ProjectID, b.Name, b.Description, timestamp(b.CreatedAt), timestamp(b.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting board: %w", err)
	}
	return nil
}

// GetBoard returns the board with the given ID.
func (s *session) GetBoard(ctx context.Context, id string) (*types.Board, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	row := s.tx.QueryRowContext(ctx, "SELECT "+boardColumns+" FROM boards WHERE board_id = ?", id)
	b, err := hydrateBoard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting board %s: %w", id, err)
	}
	return b, nil
}

// ListBoards returns the project's boards, oldest first.
func (s *session) ListBoards(ctx context.Context, projectID string) ([]*types.Board, error) {
	rows, err := s.tx.QueryContext(ctx,
		"SELECT "+boardColumns+" FROM boards WHERE project_id = ? ORDER BY created_at ASC, board_id ASC",
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing boards: %w", err)
	}
	defer rows.Close()

	results := []*types.Board{}
	for rows.Next() {
		b, err := hydrateBoard(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating board: %w", err)
		}
		results = append(results, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating boards: %w", err)
	}
	return results, nil
}

// DeleteBoard removes the board, its columns and their tasks.
func (s *session) DeleteBoard(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	err := mustAffectOne(s.tx.ExecContext(ctx, "DELETE FROM boards WHERE board_id = ?", id))
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return fmt.Errorf("deleting board: %w", err)
	}
	return err
}

func hydrateBoard(row scanner) (*types.Board, error) {
	var b types.Board
	var createdAt, updatedAt string
	if err := row.Scan(&b.BoardID, &b.ProjectID, &b.Name, &b.Description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if b.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
