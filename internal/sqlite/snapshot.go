// Snapshot export and import. A snapshot is one JSONL file per table; rows
// are written in dependency order so Import can replay them with foreign keys
// enabled.
package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// snapshotTables maps JSONL files to tables and their columns. Order matters:
// referenced tables come first.
var snapshotTables = []struct {
	file    string
	table   string
	orderBy string
	columns []string
}{
	{"projects.jsonl", "projects", "created_at, project_id",
		[]string{"project_id", "owner_id", "name", "description", "color", "archived", "created_at", "updated_at"}},
	{"boards.jsonl", "boards", "created_at, board_id",
		[]string{"board_id", "project_id", "name", "description", "created_at", "updated_at"}},
	{"columns.jsonl", "columns", "board_id, position",
		[]string{"column_id", "board_id", "name", "position", "created_at", "updated_at"}},
	{"tasks.jsonl", "tasks", "column_id, position",
		[]string{"task_id", "column_id", "title", "description", "position", "priority", "completed", "due_date", "created_at", "updated_at"}},
}

// Export writes every table to dir as JSONL, one file per table, each
// replaced atomically. All files are read from one transaction.
func (b *Backend) Export(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	return b.View(ctx, func(s types.Session) error {
		ss := s.(*session)
		for _, st := range snapshotTables {
			records, err := ss.dumpTable(ctx, st.table, st.columns, st.orderBy)
			if err != nil {
				return err
			}
			if err := writeJSONL(filepath.Join(dir, st.file), records); err != nil {
				return fmt.Errorf("writing %s: %w", st.file, err)
			}
			b.log.WithFields(logrus.Fields{"table": st.table, "rows": len(records)}).Debug("exported table")
		}
		return nil
	})
}

// Import loads a snapshot written by Export into an empty database. The load
// is one transaction and is rejected if any scope's positions are not dense.
func (b *Backend) Import(ctx context.Context, dir string) error {
	return b.Update(ctx, func(s types.Session) error {
		ss := s.(*session)

		var existing int
		if err := ss.tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects").Scan(&existing); err != nil {
			return fmt.Errorf("checking for existing data: %w", err)
		}
		if existing > 0 {
			return fmt.Errorf("%w: database already holds %d projects", types.ErrInvalidData, existing)
		}

		for _, st := range snapshotTables {
			records, err := readJSONL(filepath.Join(dir, st.file))
			if err != nil {
				return err
			}
			if err := ss.insertRecords(ctx, st.table, st.columns, records); err != nil {
				return fmt.Errorf("loading %s: %w", st.file, err)
			}
			b.log.WithFields(logrus.Fields{"table": st.table, "rows": len(records)}).Debug("imported table")
		}

		for _, kind := range types.Kinds {
			if err := ss.checkDensity(ctx, rankSpecs[kind]); err != nil {
				return err
			}
		}
		return nil
	})
}

// dumpTable reads the listed columns of every row as JSON objects.
func (s *session) dumpTable(ctx context.Context, table string, columns []string, orderBy string) ([]json.RawMessage, error) {
	rows, err := s.tx.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", strings.Join(columns, ", "), table, orderBy))
	if err != nil {
		return nil, fmt.Errorf("querying %s for export: %w", table, err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", table, err)
		}
		rec := make(map[string]any, len(columns))
		for i, col := range columns {
			rec[col] = values[i]
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s row: %w", table, err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s for export: %w", table, err)
	}
	return records, nil
}

// insertRecords inserts JSONL records into table. Unknown fields are ignored
// and missing fields are stored as NULL.
func (s *session) insertRecords(ctx context.Context, table string, columns []string, records []json.RawMessage) error {
	if len(records) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := s.tx.PrepareContext(ctx,
		fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for i, rec := range records {
		var obj map[string]any
		if err := json.Unmarshal(rec, &obj); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		args := make([]any, len(columns))
		for j, col := range columns {
			args[j] = obj[col]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	return nil
}

// checkDensity verifies that every scope of spec's kind holds exactly the
// positions 1..N.
func (s *session) checkDensity(ctx context.Context, spec rankSpec) error {
	var scope string
	err := s.tx.QueryRowContext(ctx, fmt.Sprintf(
		"SELECT %[1]s FROM %[2]s GROUP BY %[1]s HAVING MIN(position) != 1 OR MAX(position) != COUNT(*) LIMIT 1",
		spec.scopeCol, spec.table,
	)).Scan(&scope)
	if err == nil {
		return fmt.Errorf("%w: %s %s positions are not 1..N", types.ErrInvalidPosition, spec.kind.ScopeKind(), scope)
	}
	if isNoRows(err) {
		return nil
	}
	return fmt.Errorf("checking %s density: %w", spec.kind, err)
}
