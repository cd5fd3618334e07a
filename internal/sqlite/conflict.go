package sqlite

import (
	"errors"
	"fmt"
	"strings"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// classify maps SQLite failures that mean "another writer got there first"
// onto types.ErrConflict, keeping the original error in the chain. Lock
// contention that outlasted the busy timeout and a UNIQUE violation on a
// position index (a plan computed against stale rows) both qualify.
func classify(err error) error {
	if err == nil || errors.Is(err, types.ErrConflict) {
		return err
	}
	if isConflict(err) {
		return fmt.Errorf("%w: %w", types.ErrConflict, err)
	}
	return err
}

func isConflict(err error) bool {
	var se *sqlitedrv.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	if se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
}
