// This file implements task persistence for the SQLite backend. Task
// positions are written here only on insert; every later change goes through
// the task position store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

const taskColumns = "task_id, column_id, title, description, position, priority, completed, due_date, created_at, updated_at"

// InsertTask stores t at t.Position in column t.ColumnID. An empty priority
// defaults to medium.
func (s *session) InsertTask(ctx context.Context, t *types.Task) error {
	if t.Priority == "" {
		t.Priority = types.PriorityMedium
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if t.Position < 1 {
		return fmt.Errorf("%w: %d", types.ErrInvalidPosition, t.Position)
	}
	id, err := newID()
	if err != nil {
		return err
	}
	now := s.now()
	t.TaskID = id
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err = s.tx.ExecContext(ctx,
		"INSERT INTO tasks ("+taskColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		t.TaskID, t.ColumnID, t.Title, t.Description, t.Position, t.Priority, t.Completed,
		dueDateValue(t), timestamp(t.CreatedAt), timestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

// GetTask returns the task with the given ID.
func (s *session) GetTask(ctx context.Context, id string) (*types.Task, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	row := s.tx.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE task_id = ?", id)
	t, err := hydrateTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	return t, nil
}

// ListTasks returns the column's tasks by ascending position.
func (s *session) ListTasks(ctx context.Context, columnID string) ([]*types.Task, error) {
	rows, err := s.tx.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE column_id = ? ORDER BY position ASC",
		columnID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	results := []*types.Task{}
	for rows.Next() {
		t, err := hydrateTask(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating task: %w", err)
		}
		results = append(results, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return results, nil
}

// UpdateTask writes title, description, priority, completed and due date.
func (s *session) UpdateTask(ctx context.Context, t *types.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.UpdatedAt = s.now()
	err := mustAffectOne(s.tx.ExecContext(ctx,
		"UPDATE tasks SET title = ?, description = ?, priority = ?, completed = ?, due_date = ?, updated_at = ? WHERE task_id = ?",
		t.Title, t.Description, t.Priority, t.Completed, dueDateValue(t), timestamp(t.UpdatedAt), t.TaskID,
	))
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return fmt.Errorf("updating task: %w", err)
	}
	return err
}

// DeleteTask removes the task.
func (s *session) DeleteTask(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	err := mustAffectOne(s.tx.ExecContext(ctx, "DELETE FROM tasks WHERE task_id = ?", id))
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return fmt.Errorf("deleting task: %w", err)
	}
	return err
}

// dueDateValue returns the stored form of the due date, NULL when unset.
func dueDateValue(t *types.Task) *string {
	if t.DueDate == nil {
		return nil
	}
	v := timestamp(*t.DueDate)
	return &v
}

func hydrateTask(row scanner) (*types.Task, error) {
	var t types.Task
	var dueDate sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(&t.TaskID, &t.ColumnID, &t.Title, &t.Description, &t.Position,
		&t.Priority, &t.Completed, &dueDate, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if dueDate.Valid {
		due, err := parseTimestamp("due_date", dueDate.String)
		if err != nil {
			return nil, err
		}
		t.DueDate = &due
	}
	if t.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
