package sqlite

import (
	"database/sql"
	"fmt"
)

// Schema DDL for all tables. Timestamps are RFC 3339 text in UTC.
const (
	createProjects = `CREATE TABLE IF NOT EXISTS projects (
    project_id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '',
    archived INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createBoards = `CREATE TABLE IF NOT EXISTS boards (
    board_id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (project_id) REFERENCES projects(project_id) ON DELETE CASCADE
);`

	createColumns = `CREATE TABLE IF NOT EXISTS columns (
    column_id TEXT PRIMARY KEY,
    board_id TEXT NOT NULL,
    name TEXT NOT NULL,
    position INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (board_id) REFERENCES boards(board_id) ON DELETE CASCADE
);`

	createTasks = `CREATE TABLE IF NOT EXISTS tasks (
    task_id TEXT PRIMARY KEY,
    column_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL,
    priority TEXT NOT NULL DEFAULT 'medium',
    completed INTEGER NOT NULL DEFAULT 0,
    due_date TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (column_id) REFERENCES columns(column_id) ON DELETE CASCADE
);`
)

// Index DDL. The UNIQUE position indexes back the density invariant: no two
// members of one scope may ever hold the same position at statement end.
const (
	idxProjectsOwner   = `CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owner_id);`
	idxBoardsProject   = `CREATE INDEX IF NOT EXISTS idx_boards_project ON boards(project_id);`
	idxColumnsPosition = `CREATE UNIQUE INDEX IF NOT EXISTS idx_columns_position ON columns(board_id, position);`
	idxTasksPosition   = `CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_position ON tasks(column_id, position);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createProjects,
	createBoards,
	createColumns,
	createTasks,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxProjectsOwner,
	idxBoardsProject,
	idxColumnsPosition,
	idxTasksPosition,
}

// applySchema creates any missing tables and indexes. It is safe to run on
// every attach.
func applySchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaDDL {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	for _, stmt := range indexDDL {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return tx.Commit()
}
