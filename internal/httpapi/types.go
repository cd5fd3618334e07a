// Package httpapi serves the taskboard operations over HTTP with Echo.
// Every /api route needs a bearer JWT; its sub claim is the caller id handed
// to the board service.
package httpapi

import (
	"context"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Authenticator is implemented by types able to extract user IDs from headers.
type Authenticator interface {
	UserIDFromAuthHeader(string) (string, error)
}

// Board is the set of board operations the handlers call.
type Board interface {
	CreateProject(ctx context.Context, caller string, p types.Project) (*types.Project, error)
	GetProject(ctx context.Context, caller, projectID string) (*types.Project, error)
	ListProjects(ctx context.Context, caller string) ([]*types.Project, error)
	UpdateProject(ctx context.Context, caller, projectID string, edit types.ProjectEdit) (*types.Project, error)
	DeleteProject(ctx context.Context, caller, projectID string) error

	CreateBoard(ctx context.Context, caller string, b types.Board) (*types.Board, error)
	GetBoard(ctx context.Context, caller, boardID string) (*types.Board, error)
	ListBoards(ctx context.Context, caller, projectID string) ([]*types.Board, error)
	DeleteBoard(ctx context.Context, caller, boardID string) error

	CreateColumn(ctx context.Context, caller, boardID, name string, position *int) (*types.Column, error)
	ListColumns(ctx context.Context, caller, boardID string) ([]*types.Column, error)
	UpdateColumn(ctx context.Context, caller, columnID string, name *string, position *int) (*types.Column, error)
	DeleteColumn(ctx context.Context, caller, columnID string) error

	CreateTask(ctx context.Context, caller string, draft types.Task, position *int) (*types.Task, error)
	ListTasks(ctx context.Context, caller, columnID string) ([]*types.Task, error)
	UpdateTask(ctx context.Context, caller, taskID string, edit types.TaskEdit, columnID string, position *int) (*types.Task, error)
	DeleteTask(ctx context.Context, caller, taskID string) error
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// updateProjectRequest changes only the fields that are present.
type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Archived    *bool   `json:"archived"`
}

type createBoardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type createColumnRequest struct {
	Name     string `json:"name"`
	Position *int   `json:"position"`
}

// updateColumnRequest renames and/or moves a column in one transaction.
type updateColumnRequest struct {
	Name     *string `json:"name"`
	Position *int    `json:"position"`
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date"`
	Position    *int    `json:"position"`
}

// updateTaskRequest edits and/or moves a task in one transaction. ColumnID
// selects a different column.
type updateTaskRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Priority     *string `json:"priority"`
	Completed    *bool   `json:"completed"`
	DueDate      *string `json:"due_date"`
	ClearDueDate bool    `json:"clear_due_date"`
	ColumnID     string  `json:"column_id"`
	Position     *int    `json:"position"`
}

type errorResponse struct {
	Error string `json:"error"`
}
