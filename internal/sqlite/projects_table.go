// This file implements project persistence for the SQLite backend. Deleting a
// project cascades to its boards, their columns and their tasks through the
// schema's foreign keys.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

const projectColumns = "project_id, owner_id, name, description, color, archived, created_at, updated_at"

// CreateProject inserts p, assigning a UUID v7 and timestamps.
func (s *session) CreateProject(ctx context.Context, p *types.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	id, err := newID()
	if err != nil {
		return err
	}
	now := s.now()
	p.ProjectID = id
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err = s.tx.ExecContext(ctx,
		"INSERT INTO projects ("+projectColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		p.ProjectID, p.OwnerID, p.Name, p.Description, p.Color, p.Archived,
		timestamp(p.CreatedAt), timestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

// GetProject returns the project with the given ID.
func (s *session) GetProject(ctx context.Context, id string) (*types.Project, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	row := s.tx.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE project_id = ?", id)
	p, err := hydrateProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}
	return p, nil
}

// ListProjects returns the owner's projects, oldest first.
func (s *session) ListProjects(ctx context.Context, ownerID string) ([]*types.Project, error) {
	rows, err := s.tx.QueryContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE owner_id = ? ORDER BY created_at ASC, project_id ASC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	results := []*types.Project{}
	for rows.Next() {
		p, err := hydrateProject(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating project: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return results, nil
}

// UpdateProject writes name, description, color and archived.
func (s *session) UpdateProject(ctx context.Context, p *types.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = s.now()
	err := mustAffectOne(s.tx.ExecContext(ctx,
		"UPDATE projects SET name = ?, description = ?, color = ?, archived = ?, updated_at = ? WHERE project_id = ?",
		p.Name, p.Description, p.Color, p.Archived, timestamp(p.UpdatedAt), p.ProjectID,
	))
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return fmt.Errorf("updating project: %w", err)
	}
	return err
}

// DeleteProject removes the project and everything beneath it.
func (s *session) DeleteProject(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	err := mustAffectOne(s.tx.ExecContext(ctx, "DELETE FROM projects WHERE project_id = ?", id))
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return fmt.Errorf("deleting project: %w", err)
	}
	return err
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func hydrateProject(row scanner) (*types.Project, error) {
	var p types.Project
	var createdAt, updatedAt string
	if err := row.Scan(&p.ProjectID, &p.OwnerID, &p.Name, &p.Description, &p.Color, &p.Archived, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
