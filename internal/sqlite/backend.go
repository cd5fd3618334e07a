// Package sqlite implements the SQLite storage backend for taskboard.
//
// The database file is the source of truth. Every Store.Update runs in one
// IMMEDIATE transaction, so concurrent writers serialize at BEGIN and a
// position plan is always computed against the rows it will shift.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// DatabaseFile is the name of the SQLite file created inside DataDir.
const DatabaseFile = "taskboard.db"

// Compile-time interface check: Backend must implement Store.
var _ types.Store = (*Backend)(nil)

// Backend implements the Store interface on a SQLite database file.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	log      *logrus.Logger

	// now is the clock used for created_at and updated_at; tests pin it.
	now func() time.Time
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
// A nil logger selects logrus.StandardLogger().
func NewBackend(log *logrus.Logger) *Backend {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Backend{
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Attach opens (or creates) the database in config.DataDir and applies the
// schema. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)
	db, err := sql.Open("sqlite", dsn(dbPath, config.GetBusyTimeoutMS()))
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return fmt.Errorf("applying schema: %w", err)
	}

	b.db = db
	b.config = config
	b.config.DataDir = dataDir
	b.attached = true

	b.log.WithFields(logrus.Fields{
		"path":            dbPath,
		"busy_timeout_ms": config.GetBusyTimeoutMS(),
	}).Debug("store attached")
	return nil
}

// Detach closes the database. After Detach, Update and View return
// ErrDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	b.log.Debug("store detached")
	return nil
}

// Update runs fn in a write transaction. Any error from fn, or a failure to
// commit, rolls the whole transaction back. Lock contention and stale-plan
// constraint violations are reported as ErrConflict.
func (b *Backend) Update(ctx context.Context, fn func(types.Session) error) error {
	return b.run(ctx, fn)
}

// View runs fn in a transaction that is always rolled back.
func (b *Backend) View(ctx context.Context, fn func(types.Session) error) error {
	return b.run(ctx, func(s types.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		return errViewDone
	})
}

// errViewDone makes run roll back a successful View without reporting an error.
var errViewDone = errors.New("view done")

func (b *Backend) run(ctx context.Context, fn func(types.Session) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("beginning transaction: %w", err))
	}
	defer tx.Rollback()

	if err := fn(&session{tx: tx, now: b.now, log: b.log}); err != nil {
		if errors.Is(err, errViewDone) {
			return nil
		}
		return classify(err)
	}

	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("committing transaction: %w", err))
	}
	return nil
}

// dsn builds the modernc.org/sqlite connection string. Foreign keys are
// enabled on every pooled connection and every transaction begins IMMEDIATE.
func dsn(path string, busyTimeoutMS int) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeoutMS))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}

// newID generates a UUID v7 for entity IDs.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	return id.String(), nil
}
