package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Compile-time interface check: session must implement Session.
var _ types.Session = (*session)(nil)

// session implements types.Session on one open transaction. It is valid only
// inside the Update or View callback that received it.
type session struct {
	tx  *sql.Tx
	now func() time.Time
	log *logrus.Logger
}

// Positions returns the position store for kind, bound to this session's
// transaction.
func (s *session) Positions(kind types.Kind) (types.PositionStore, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownKind, kind)
	}
	return &positionStore{tx: s.tx, spec: rankSpecs[kind]}, nil
}

// timestamp formats t for storage.
func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTimestamp parses a stored timestamp.
func parseTimestamp(field, v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", field, err)
	}
	return t, nil
}

// mustAffectOne converts a zero-row write into ErrNotFound.
func mustAffectOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
