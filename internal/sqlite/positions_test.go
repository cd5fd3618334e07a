package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func TestPositionStore_MaxPosition(t *testing.T) {
	b := setupBackend(t)
	f := seedBoard(t, b)
	cols := seedColumns(t, b, f.board.BoardID, "Todo", "Doing")
	seedTasks(t, b, cols[0].ColumnID, "a", "b", "c")

	require.NoError(t, b.View(context.Background(), func(s types.Session) error {
		ctx := context.Background()
		colPS, err := s.Positions(types.KindColumn)
		require.NoError(t, err)
		taskPS, err := s.Positions(types.KindTask)
		require.NoError(t, err)

		max, err := colPS.MaxPosition(ctx, f.board.BoardID)
		require.NoError(t, err)
		assert.Equal(t, 2, max)

		max, err = taskPS.MaxPosition(ctx, cols[0].ColumnID)
		require.NoError(t, err)
		assert.Equal(t, 3, max)

		max, err = taskPS.MaxPosition(ctx, cols[1].ColumnID)
		require.NoError(t, err)
		assert.Equal(t, 0, max, "empty scope")
		return nil
	}))
}

func TestPositionStore_ShiftRange(t *testing.T) {
	tests := []struct {
		name      string
		low, high int
		delta     int
		want      map[string]int
	}{
		{name: "bounded down", low: 3, high: 4, delta: -1, want: map[string]int{"a": 1, "c": 2, "d": 3, "e": 5}},
		{name: "unbounded up", low: 2, high: 0, delta: +1, want: map[string]int{"a": 1, "c": 4, "d": 5, "e": 6}},
		{name: "unbounded down", low: 3, high: 0, delta: -1, want: map[string]int{"a": 1, "c": 2, "d": 3, "e": 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setupBackend(t)
			f := seedBoard(t, b)
			col := seedColumns(t, b, f.board.BoardID, "Todo")[0]
			tasks := seedTasks(t, b, col.ColumnID, "a", "b", "c", "d", "e")

			// Remove b without compacting so position 2 is free.
			err := b.Update(context.Background(), func(s types.Session) error {
				ctx := context.Background()
				if err := s.DeleteTask(ctx, tasks[1].TaskID); err != nil {
					return err
				}
				ps, err := s.Positions(types.KindTask)
				if err != nil {
					return err
				}
				return ps.ShiftRange(ctx, col.ColumnID, tt.low, tt.high, tt.delta)
			})
			require.NoError(t, err)

			got := map[string]int{}
			require.NoError(t, b.View(context.Background(), func(s types.Session) error {
				list, err := s.ListTasks(context.Background(), col.ColumnID)
				for _, task := range list {
					got[task.Title] = task.Position
				}
				return err
			}))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPositionStore_ShiftOntoOccupiedPositionConflicts(t *testing.T) {
	b := setupBackend(t)
	f := seedBoard(t, b)
	col := seedColumns(t, b, f.board.BoardID, "Todo")[0]
	seedTasks(t, b, col.ColumnID, "a", "b", "c")

	err := b.Update(context.Background(), func(s types.Session) error {
		ps, err := s.Positions(types.KindTask)
		if err != nil {
			return err
		}
		// b onto 3 while c still holds it.
		return ps.ShiftRange(context.Background(), col.ColumnID, 2, 2, +1)
	})
	require.ErrorIs(t, err, types.ErrConflict)
	assert.Equal(t, []string{"a", "b", "c"}, taskOrder(t, b, col.ColumnID))
}

func TestPositionStore_ShiftRangeRejectsBadInput(t *testing.T) {
	b := setupBackend(t)
	f := seedBoard(t, b)

	err := b.Update(context.Background(), func(s types.Session) error {
		ps, err := s.Positions(types.KindColumn)
		require.NoError(t, err)
		assert.ErrorIs(t, ps.ShiftRange(context.Background(), f.board.BoardID, 1, 0, 2), types.ErrInvalidData)
		assert.ErrorIs(t, ps.ShiftRange(context.Background(), f.board.BoardID, 0, 0, 1), types.ErrInvalidPosition)
		assert.ErrorIs(t, ps.ShiftRange(context.Background(), f.board.BoardID, 4, 2, 1), types.ErrInvalidPosition)
		// Shifting position 1 down would write 0, the parking slot.
		assert.ErrorIs(t, ps.ShiftRange(context.Background(), f.board.BoardID, 1, 3, -1), types.ErrInvalidPosition)
		return nil
	})
	require.NoError(t, err)
}

func TestPositionStore_ParkAndPlace(t *testing.T) {
	b := setupBackend(t)
	f := seedBoard(t, b)
	cols := seedColumns(t, b, f.board.BoardID, "Todo", "Doing", "Done")

	// Move Todo to the end by hand: park, close the gap, place.
	require.NoError(t, b.Update(context.Background(), func(s types.Session) error {
		ctx := context.Background()
		ps, err := s.Positions(types.KindColumn)
		require.NoError(t, err)
		require.NoError(t, ps.Park(ctx, cols[0].ColumnID))
		require.NoError(t, ps.ShiftRange(ctx, f.board.BoardID, 2, 3, -1))
		return ps.Place(ctx, cols[0].ColumnID, f.board.BoardID, 3)
	}))

	require.NoError(t, b.View(context.Background(), func(s types.Session) error {
		ps, err := s.Positions(types.KindColumn)
		require.NoError(t, err)
		list, err := ps.ListOrdered(context.Background(), f.board.BoardID)
		require.NoError(t, err)
		assert.Equal(t, []types.Ranked{
			{ID: cols[1].ColumnID, ScopeID: f.board.BoardID, Position: 1},
			{ID: cols[2].ColumnID, ScopeID: f.board.BoardID, Position: 2},
			{ID: cols[0].ColumnID, ScopeID: f.board.BoardID, Position: 3},
		}, list)

		r, err := ps.Get(context.Background(), cols[0].ColumnID)
		require.NoError(t, err)
		assert.Equal(t, 3, r.Position)
		return nil
	}))
}

func TestPositionStore_MissingEntity(t *testing.T) {
	b := setupBackend(t)
	err := b.Update(context.Background(), func(s types.Session) error {
		ctx := context.Background()
		ps, err := s.Positions(types.KindTask)
		require.NoError(t, err)
		_, err = ps.Get(ctx, "nope")
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.ErrorIs(t, ps.Park(ctx, "nope"), types.ErrNotFound)
		assert.ErrorIs(t, ps.Place(ctx, "nope", "col", 1), types.ErrNotFound)
		assert.ErrorIs(t, ps.Place(ctx, "nope", "col", 0), types.ErrInvalidPosition)
		_, err = ps.Get(ctx, "")
		assert.ErrorIs(t, err, types.ErrInvalidID)
		return nil
	})
	require.NoError(t, err)
}

func TestPositionStore_ScopeOwner(t *testing.T) {
	b := setupBackend(t)
	f := seedBoard(t, b)
	col := seedColumns(t, b, f.board.BoardID, "Todo")[0]

	require.NoError(t, b.View(context.Background(), func(s types.Session) error {
		ctx := context.Background()
		colPS, _ := s.Positions(types.KindColumn)
		taskPS, _ := s.Positions(types.KindTask)

		owner, err := colPS.ScopeOwner(ctx, f.board.BoardID)
		require.NoError(t, err)
		assert.Equal(t, "alice", owner)

		owner, err = taskPS.ScopeOwner(ctx, col.ColumnID)
		require.NoError(t, err)
		assert.Equal(t, "alice", owner)

		_, err = taskPS.ScopeOwner(ctx, f.board.BoardID)
		assert.ErrorIs(t, err, types.ErrNotFound, "a board ID is not a task scope")
		_, err = colPS.ScopeOwner(ctx, "")
		assert.ErrorIs(t, err, types.ErrInvalidID)
		return nil
	}))
}
