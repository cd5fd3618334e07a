package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func TestProjects_CreateGetList(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	var alice1, alice2, bob *types.Project
	require.NoError(t, b.Update(ctx, func(s types.Session) error {
		alice1 = &types.Project{OwnerID: "alice", Name: "One"}
		alice2 = &types.Project{OwnerID: "alice", Name: "Two", Color: "#ff0000"}
		bob = &types.Project{OwnerID: "bob", Name: "Other"}
		for _, p := range []*types.Project{alice1, alice2, bob} {
			if err := s.CreateProject(ctx, p); err != nil {
				return err
			}
		}
		return nil
	}))
	assert.NotEmpty(t, alice1.ProjectID)
	assert.False(t, alice1.CreatedAt.IsZero())

	require.NoError(t, b.View(ctx, func(s types.Session) error {
		got, err := s.GetProject(ctx, alice2.ProjectID)
		require.NoError(t, err)
		assert.Equal(t, "Two", got.Name)
		assert.Equal(t, "#ff0000", got.Color)
		assert.Equal(t, "alice", got.OwnerID)

		list, err := s.ListProjects(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, list, 2)
		for _, p := range list {
			assert.Equal(t, "alice", p.OwnerID)
		}

		list, err = s.ListProjects(ctx, "carol")
		require.NoError(t, err)
		assert.Empty(t, list)
		return nil
	}))
}

func TestProjects_Validation(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		project types.Project
		wantErr error
	}{
		{"empty name", types.Project{OwnerID: "alice", Name: "  "}, types.ErrInvalidName},
		{"missing owner", types.Project{Name: "x"}, types.ErrInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.Update(ctx, func(s types.Session) error {
				p := tt.project
				return s.CreateProject(ctx, &p)
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProjects_UpdateAndDelete(t *testing.T) {
	b := setupBackend(t)
	f := seedBoard(t, b)
	ctx := context.Background()

	require.NoError(t, b.Update(ctx, func(s types.Session) error {
		f.project.Name = "Renamed"
		f.project.Archived = true
		return s.UpdateProject(ctx, f.project)
	}))
	require.NoError(t, b.View(ctx, func(s types.Session) error {
		got, err := s.GetProject(ctx, f.project.ProjectID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.True(t, got.Archived)
		return nil
	}))

	err := b.Update(ctx, func(s types.Session) error {
		return s.UpdateProject(ctx, &types.Project{ProjectID: "missing", OwnerID: "alice", Name: "x"})
	})
	assert.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, b.Update(ctx, func(s types.Session) error {
		return s.DeleteProject(ctx, f.project.ProjectID)
	}))
	err = b.Update(ctx, func(s types.Session) error {
		return s.DeleteProject(ctx, f.project.ProjectID)
	})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestBoards_CreateRequiresProject(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	err := b.Update(ctx, func(s types.Session) error {
		return s.CreateBoard(ctx, &types.Board{ProjectID: "missing", Name: "Q1"})
	})
	assert.ErrorIs(t, err, types.ErrNotFound)

	f := seedBoard(t, b)
	require.NoError(t, b.View(ctx, func(s types.Session) error {
		boards, err := s.ListBoards(ctx, f.project.ProjectID)
		require.NoError(t, err)
		require.Len(t, boards, 1)
		assert.Equal(t, "Q4", boards[0].Name)

		got, err := s.GetBoard(ctx, f.board.BoardID)
		require.NoError(t, err)
		assert.Equal(t, f.project.ProjectID, got.ProjectID)
		return nil
	}))
}

func TestColumns_InsertRejectsPositionBelowOne(t *testing.T) {
	b := setupBackend(t)
	f := seedBoard(t, b)
	ctx := context.Background()

	err := b.Update(ctx, func(s types.Session) error {
		return s.InsertColumn(ctx, &types.Column{BoardID: f.board.BoardID, Name: "Todo", Position: 0})
	})
	assert.ErrorIs(t, err, types.ErrInvalidPosition)
}

func TestColumns_InsertDuplicatePositionConflicts(t *testing.T) {
	b := setupBackend(t)
	f := seedBoard(t, b)
	seedColumns(t, b, f.board.BoardID, "Todo")
	ctx := context.Background()

	err := b.Update(ctx, func(s types.Session) error {
		return s.InsertColumn(ctx, &types.Column{BoardID: f.board.BoardID, Name: "Doing", Position: 1})
	})
	assert.ErrorIs(t, err, types.ErrConflict)
}

func TestColumns_UpdateLeavesPosition(t *testing.T) {
	b := setupBackend(t)
	f := seedBoard(t, b)
	cols := seedColumns(t, b, f.board.BoardID, "Todo", "Doing")
	ctx := context.Background()

	require.NoError(t, b.Update(ctx, func(s types.Session) error {
		c := *cols[1]
		c.Name = "In Progress"
		c.Position = 7
		return s.UpdateColumn(ctx, &c)
	}))
	require.NoError(t, b.View(ctx, func(s types.Session) error {
		got, err := s.GetColumn(ctx, cols[1].ColumnID)
		require.NoError(t, err)
		assert.Equal(t, "In Progress", got.Name)
		assert.Equal(t, 2, got.Position)
		return nil
	}))
}

func TestColumns_DeleteCascadesToTasks(t *testing.T) {
	b := setupBackend(t)
	f := seedBoard(t, b)
	cols := seedColumns(t, b, f.board.BoardID, "Todo")
	tasks := seedTasks(t, b, cols[0].ColumnID, "a", "b")
	ctx := context.Background()

	require.NoError(t, b.Update(ctx, func(s types.Session) error {
		return s.DeleteColumn(ctx, cols[0].ColumnID)
	}))
	require.NoError(t, b.View(ctx, func(s types.Session) error {
		_, err := s.GetTask(ctx, tasks[0].TaskID)
		assert.ErrorIs(t, err, types.ErrNotFound)
		return nil
	}))
}

func TestProjects_DeleteCascadesToEverything(t *testing.T) {
	b := setupBackend(t)
	f := seedBoard(t, b)
	cols := seedColumns(t, b, f.board.BoardID, "Todo")
	tasks := seedTasks(t, b, cols[0].ColumnID, "a")
	ctx := context.Background()

	require.NoError(t, b.Update(ctx, func(s types.Session) error {
		return s.DeleteProject(ctx, f.project.ProjectID)
	}))
	require.NoError(t, b.View(ctx, func(s types.Session) error {
		_, err := s.GetBoard(ctx, f.board.BoardID)
		assert.ErrorIs(t, err, types.ErrNotFound)
		_, err = s.GetColumn(ctx, cols[0].ColumnID)
		assert.ErrorIs(t, err, types.ErrNotFound)
		_, err = s.GetTask(ctx, tasks[0].TaskID)
		assert.ErrorIs(t, err, types.ErrNotFound)
		return nil
	}))
}

func TestTasks_InsertDefaultsAndRoundTrip(t *testing.T) {
	b := setupBackend(t)
	f := seedBoard(t, b)
	col := seedColumns(t, b, f.board.BoardID, "Todo")[0]
	ctx := context.Background()
	due := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)

	task := &types.Task{ColumnID: col.ColumnID, Title: "Write docs", Position: 1, DueDate: &due}
	require.NoError(t, b.Update(ctx, func(s types.Session) error {
		return s.InsertTask(ctx, task)
	}))
	assert.Equal(t, types.PriorityMedium, task.Priority)

	require.NoError(t, b.View(ctx, func(s types.Session) error {
		got, err := s.GetTask(ctx, task.TaskID)
		require.NoError(t, err)
		assert.Equal(t, "Write docs", got.Title)
		assert.Equal(t, types.PriorityMedium, got.Priority)
		assert.False(t, got.Completed)
		require.NotNil(t, got.DueDate)
		assert.True(t, due.Equal(*got.DueDate))
		return nil
	}))
}

func TestTasks_InsertValidation(t *testing.T) {
	b := setupBackend(t)
	f := seedBoard(t, b)
	col := seedColumns(t, b, f.board.BoardID, "Todo")[0]
	ctx := context.Background()

	tests := []struct {
		name    string
		task    types.Task
		wantErr error
	}{
		{"empty title", types.Task{Title: "", Position: 1}, types.ErrInvalidName},
		{"bad priority", types.Task{Title: "x", Priority: "urgent", Position: 1}, types.ErrInvalidPriority},
		{"position zero", types.Task{Title: "x", Position: 0}, types.ErrInvalidPosition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.Update(ctx, func(s types.Session) error {
				task := tt.task
				task.ColumnID = col.ColumnID
				return s.InsertTask(ctx, &task)
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTasks_UpdateLeavesPlacement(t *testing.T) {
	b := setupBackend(t)
	f := seedBoard(t, b)
	cols := seedColumns(t, b, f.board.BoardID, "Todo", "Done")
	tasks := seedTasks(t, b, cols[0].ColumnID, "a", "b")
	ctx := context.Background()

	require.NoError(t, b.Update(ctx, func(s types.Session) error {
		task := *tasks[0]
		task.Title = "a2"
		task.Completed = true
		task.Priority = types.PriorityHigh
		task.ColumnID = cols[1].ColumnID
		task.Position = 9
		return s.UpdateTask(ctx, &task)
	}))
	require.NoError(t, b.View(ctx, func(s types.Session) error {
		got, err := s.GetTask(ctx, tasks[0].TaskID)
		require.NoError(t, err)
		assert.Equal(t, "a2", got.Title)
		assert.True(t, got.Completed)
		assert.Equal(t, types.PriorityHigh, got.Priority)
		assert.Equal(t, cols[0].ColumnID, got.ColumnID)
		assert.Equal(t, 1, got.Position)
		assert.Nil(t, got.DueDate)
		return nil
	}))
}

func TestTasks_DeleteDoesNotCompact(t *testing.T) {
	b := setupBackend(t)
	f := seedBoard(t, b)
	col := seedColumns(t, b, f.board.BoardID, "Todo")[0]
	tasks := seedTasks(t, b, col.ColumnID, "a", "b", "c")
	ctx := context.Background()

	require.NoError(t, b.Update(ctx, func(s types.Session) error {
		return s.DeleteTask(ctx, tasks[0].TaskID)
	}))
	require.NoError(t, b.View(ctx, func(s types.Session) error {
		list, err := s.ListTasks(ctx, col.ColumnID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, 2, list[0].Position)
		assert.Equal(t, 3, list[1].Position)
		return nil
	}))
}

func TestSession_EmptyIDs(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	require.NoError(t, b.View(ctx, func(s types.Session) error {
		_, err := s.GetProject(ctx, "")
		assert.ErrorIs(t, err, types.ErrInvalidID)
		_, err = s.GetBoard(ctx, "")
		assert.ErrorIs(t, err, types.ErrInvalidID)
		_, err = s.GetColumn(ctx, "")
		assert.ErrorIs(t, err, types.ErrInvalidID)
		_, err = s.GetTask(ctx, "")
		assert.ErrorIs(t, err, types.ErrInvalidID)
		return nil
	}))
}
