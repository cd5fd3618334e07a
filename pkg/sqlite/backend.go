// Package sqlite provides the public factory for the SQLite taskboard store.
// Implementation details stay in internal/sqlite.
package sqlite

import (
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/taskboard/internal/sqlite"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// DatabaseFile is the name of the database created inside Config.DataDir.
const DatabaseFile = sqlite.DatabaseFile

// NewBackend creates a new SQLite store. The store is not attached; call
// Attach with a Config to open the database. A nil logger selects
// logrus.StandardLogger().
//
// Example:
//
//	store := sqlite.NewBackend(nil)
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: dataDir,
//	})
//	defer store.Detach()
func NewBackend(log *logrus.Logger) types.Store {
	return sqlite.NewBackend(log)
}
