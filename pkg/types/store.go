package types

import (
	"context"
	"errors"
)

// Store defines the backend-agnostic storage access used by the board
// service. Callers attach to a backend, run work in sessions, and detach when
// done.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, Update and View return ErrDetached.
	Detach() error

	// Update runs fn inside one write transaction. The transaction commits
	// when fn returns nil and rolls back on any error; nothing fn wrote is
	// visible if it fails.
	Update(ctx context.Context, fn func(Session) error) error

	// View runs fn inside one read-only transaction.
	View(ctx context.Context, fn func(Session) error) error
}

// Session is the unit of work handed to Store.Update and Store.View. All
// methods run on the session's transaction.
type Session interface {
	// Positions returns the position store for the given ranked kind.
	Positions(kind Kind) (PositionStore, error)

	CreateProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context, ownerID string) ([]*Project, error)
	UpdateProject(ctx context.Context, p *Project) error
	DeleteProject(ctx context.Context, id string) error

	CreateBoard(ctx context.Context, b *Board) error
	GetBoard(ctx context.Context, id string) (*Board, error)
	ListBoards(ctx context.Context, projectID string) ([]*Board, error)
	DeleteBoard(ctx context.Context, id string) error

	// InsertColumn stores a new column at c.Position. The caller has already
	// opened the slot in the board's ranking.
	InsertColumn(ctx context.Context, c *Column) error
	GetColumn(ctx context.Context, id string) (*Column, error)
	ListColumns(ctx context.Context, boardID string) ([]*Column, error)
	// UpdateColumn writes the column's non-positional fields. BoardID and
	// Position are ignored.
	UpdateColumn(ctx context.Context, c *Column) error
	// DeleteColumn removes the column and its tasks. It does not compact the
	// board's ranking.
	DeleteColumn(ctx context.Context, id string) error

	// InsertTask stores a new task at t.Position. The caller has already
	// opened the slot in the column's ranking.
	InsertTask(ctx context.Context, t *Task) error
	GetTask(ctx context.Context, id string) (*Task, error)
	ListTasks(ctx context.Context, columnID string) ([]*Task, error)
	// UpdateTask writes the task's non-positional fields. ColumnID and
	// Position are ignored.
	UpdateTask(ctx context.Context, t *Task) error
	// DeleteTask removes the task. It does not compact the column's ranking.
	DeleteTask(ctx context.Context, id string) error
}

// PositionStore reads and shifts the position ranking of one ranked kind.
// Every method runs on the transaction of the Session that produced it.
type PositionStore interface {
	// Kind returns the ranked kind this store serves.
	Kind() Kind

	// Get returns the placement of the entity with the given ID.
	// Returns ErrNotFound if no such entity exists.
	Get(ctx context.Context, id string) (Ranked, error)

	// MaxPosition returns the highest position among the scope's live
	// members, or 0 if the scope is empty.
	MaxPosition(ctx context.Context, scopeID string) (int, error)

	// ShiftRange adds delta to the position of every member of the scope
	// whose position lies in [low, high]. A high of 0 means unbounded.
	// A downward shift must start at 2 or above.
	ShiftRange(ctx context.Context, scopeID string, low, high, delta int) error

	// ListOrdered returns the scope's members ordered by position ascending.
	ListOrdered(ctx context.Context, scopeID string) ([]Ranked, error)

	// Park moves the entity to position 0 of its current scope so range
	// shifts never collide with it.
	Park(ctx context.Context, id string) error

	// Place writes the entity's final scope and position.
	Place(ctx context.Context, id, scopeID string, position int) error

	// ScopeOwner returns the owner of the project that contains the scope.
	// Returns ErrNotFound if the scope does not exist.
	ScopeOwner(ctx context.Context, scopeID string) (string, error)
}

// Store lifecycle errors.
var (
	ErrDetached        = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrUnknownKind     = errors.New("unknown ranked kind")
)
