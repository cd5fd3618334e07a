package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// rankSpec describes where one ranked kind keeps its positions.
type rankSpec struct {
	kind     types.Kind
	table    string
	idCol    string
	scopeCol string
	// ownerSQL selects the owning project's owner_id for one scope ID.
	ownerSQL string
}

// rankSpecs maps each ranked kind to its table layout.
var rankSpecs = map[types.Kind]rankSpec{
	types.KindColumn: {
		kind:     types.KindColumn,
		table:    "columns",
		idCol:    "column_id",
		scopeCol: "board_id",
		ownerSQL: `SELECT p.owner_id FROM boards b
JOIN projects p ON p.project_id = b.project_id
WHERE b.board_id = ?`,
	},
	types.KindTask: {
		kind:     types.KindTask,
		table:    "tasks",
		idCol:    "task_id",
		scopeCol: "column_id",
		ownerSQL: `SELECT p.owner_id FROM columns c
JOIN boards b ON b.board_id = c.board_id
JOIN projects p ON p.project_id = b.project_id
WHERE c.column_id = ?`,
	},
}

// Compile-time interface check: positionStore must implement PositionStore.
var _ types.PositionStore = (*positionStore)(nil)

// positionStore implements types.PositionStore for one kind on one
// transaction.
type positionStore struct {
	tx   *sql.Tx
	spec rankSpec
}

func (ps *positionStore) Kind() types.Kind { return ps.spec.kind }

// Get returns the entity's current placement.
func (ps *positionStore) Get(ctx context.Context, id string) (types.Ranked, error) {
	if id == "" {
		return types.Ranked{}, types.ErrInvalidID
	}
	r := types.Ranked{ID: id}
	err := ps.tx.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s, position FROM %s WHERE %s = ?", ps.spec.scopeCol, ps.spec.table, ps.spec.idCol),
		id,
	).Scan(&r.ScopeID, &r.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Ranked{}, types.ErrNotFound
	}
	if err != nil {
		return types.Ranked{}, fmt.Errorf("getting %s placement: %w", ps.spec.kind, err)
	}
	return r, nil
}

// MaxPosition returns the highest position in the scope, or 0 when empty.
func (ps *positionStore) MaxPosition(ctx context.Context, scopeID string) (int, error) {
	var max int
	err := ps.tx.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(position), 0) FROM %s WHERE %s = ?", ps.spec.table, ps.spec.scopeCol),
		scopeID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("querying max %s position: %w", ps.spec.kind, err)
	}
	return max, nil
}

// ShiftRange adds delta to every position in [low, high] of the scope; high 0
// means unbounded. SQLite checks UNIQUE per row, so the shift first moves the
// range to negative positions and then flips them back; the index never
// observes two rows on one position.
func (ps *positionStore) ShiftRange(ctx context.Context, scopeID string, low, high, delta int) error {
	if delta != 1 && delta != -1 {
		return fmt.Errorf("%w: shift delta %d", types.ErrInvalidData, delta)
	}
	if low < 1 || (high != 0 && high < low) {
		return fmt.Errorf("%w: shift range [%d, %d]", types.ErrInvalidPosition, low, high)
	}
	if delta < 0 && low < 2 {
		return fmt.Errorf("%w: shifting position %d down leaves the ranking", types.ErrInvalidPosition, low)
	}

	where := fmt.Sprintf("%s = ? AND position >= ?", ps.spec.scopeCol)
	args := []any{-delta, scopeID, low}
	if high != 0 {
		where += " AND position <= ?"
		args = append(args, high)
	}

	// position = -(position + delta), written as -position - delta.
	stage := fmt.Sprintf("UPDATE %s SET position = -position + ? WHERE %s", ps.spec.table, where)
	if _, err := ps.tx.ExecContext(ctx, stage, args...); err != nil {
		return fmt.Errorf("staging %s shift: %w", ps.spec.kind, err)
	}
	restore := fmt.Sprintf("UPDATE %s SET position = -position WHERE %s = ? AND position < 0", ps.spec.table, ps.spec.scopeCol)
	if _, err := ps.tx.ExecContext(ctx, restore, scopeID); err != nil {
		return fmt.Errorf("restoring %s shift: %w", ps.spec.kind, err)
	}
	return nil
}

// ListOrdered returns the scope's placements by ascending position.
func (ps *positionStore) ListOrdered(ctx context.Context, scopeID string) ([]types.Ranked, error) {
	rows, err := ps.tx.QueryContext(ctx,
		fmt.Sprintf("SELECT %s, position FROM %s WHERE %s = ? ORDER BY position ASC", ps.spec.idCol, ps.spec.table, ps.spec.scopeCol),
		scopeID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing %s positions: %w", ps.spec.kind, err)
	}
	defer rows.Close()

	results := []types.Ranked{}
	for rows.Next() {
		r := types.Ranked{ScopeID: scopeID}
		if err := rows.Scan(&r.ID, &r.Position); err != nil {
			return nil, fmt.Errorf("scanning %s position: %w", ps.spec.kind, err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s positions: %w", ps.spec.kind, err)
	}
	return results, nil
}

// Park moves the entity to position 0 in its current scope.
func (ps *positionStore) Park(ctx context.Context, id string) error {
	err := mustAffectOne(ps.tx.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET position = 0 WHERE %s = ?", ps.spec.table, ps.spec.idCol),
		id,
	))
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return fmt.Errorf("parking %s: %w", ps.spec.kind, err)
	}
	return err
}

// Place writes the entity's scope and position.
func (ps *positionStore) Place(ctx context.Context, id, scopeID string, position int) error {
	if position < 1 {
		return fmt.Errorf("%w: %d", types.ErrInvalidPosition, position)
	}
	err := mustAffectOne(ps.tx.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET %s = ?, position = ? WHERE %s = ?", ps.spec.table, ps.spec.scopeCol, ps.spec.idCol),
		scopeID, position, id,
	))
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return fmt.Errorf("placing %s: %w", ps.spec.kind, err)
	}
	return err
}

// ScopeOwner returns the owner_id of the project containing the scope.
func (ps *positionStore) ScopeOwner(ctx context.Context, scopeID string) (string, error) {
	if scopeID == "" {
		return "", types.ErrInvalidID
	}
	var owner string
	err := ps.tx.QueryRowContext(ctx, ps.spec.ownerSQL, scopeID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", types.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolving %s owner: %w", ps.spec.kind.ScopeKind(), err)
	}
	return owner, nil
}
