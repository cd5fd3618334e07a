package sqlite

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// quietLogger discards log output in tests.
func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// setupBackend attaches a Backend to a fresh data directory and detaches it
// when the test ends.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend(quietLogger())
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })
	return b
}

// fixture is a project with one board, used as a base for column and task
// tests.
type fixture struct {
	project *types.Project
	board   *types.Board
}

func seedBoard(t *testing.T, b *Backend) fixture {
	t.Helper()
	var f fixture
	require.NoError(t, b.Update(context.Background(), func(s types.Session) error {
		f.project = &types.Project{OwnerID: "alice", Name: "Roadmap"}
		if err := s.CreateProject(context.Background(), f.project); err != nil {
			return err
		}
		f.board = &types.Board{ProjectID: f.project.ProjectID, Name: "Q4"}
		return s.CreateBoard(context.Background(), f.board)
	}))
	return f
}

// seedColumns inserts columns named after names at positions 1..N.
func seedColumns(t *testing.T, b *Backend, boardID string, names ...string) []*types.Column {
	t.Helper()
	cols := make([]*types.Column, len(names))
	require.NoError(t, b.Update(context.Background(), func(s types.Session) error {
		for i, name := range names {
			cols[i] = &types.Column{BoardID: boardID, Name: name, Position: i + 1}
			if err := s.InsertColumn(context.Background(), cols[i]); err != nil {
				return err
			}
		}
		return nil
	}))
	return cols
}

// seedTasks inserts tasks named after titles at positions 1..N.
func seedTasks(t *testing.T, b *Backend, columnID string, titles ...string) []*types.Task {
	t.Helper()
	tasks := make([]*types.Task, len(titles))
	require.NoError(t, b.Update(context.Background(), func(s types.Session) error {
		for i, title := range titles {
			tasks[i] = &types.Task{ColumnID: columnID, Title: title, Position: i + 1}
			if err := s.InsertTask(context.Background(), tasks[i]); err != nil {
				return err
			}
		}
		return nil
	}))
	return tasks
}

// taskOrder returns the titles of a column's tasks by position.
func taskOrder(t *testing.T, b *Backend, columnID string) []string {
	t.Helper()
	var titles []string
	require.NoError(t, b.View(context.Background(), func(s types.Session) error {
		tasks, err := s.ListTasks(context.Background(), columnID)
		if err != nil {
			return err
		}
		for _, task := range tasks {
			titles = append(titles, task.Title)
		}
		return nil
	}))
	return titles
}
