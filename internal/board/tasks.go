package board

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// CreateTask adds draft to column draft.ColumnID. Position, ID and
// timestamps on draft are ignored; a nil position appends and a position past
// the end is clamped to the end.
func (s *Service) CreateTask(ctx context.Context, caller string, draft types.Task, position *int) (*types.Task, error) {
	t := &types.Task{
		ColumnID:    draft.ColumnID,
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    draft.Priority,
		Completed:   draft.Completed,
		DueDate:     draft.DueDate,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	err := s.store.Update(ctx, func(sess types.Session) error {
		ps, err := sess.Positions(types.KindTask)
		if err != nil {
			return err
		}
		if t.Position, err = s.openSlot(ctx, ps, caller, t.ColumnID, position); err != nil {
			return err
		}
		return sess.InsertTask(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"kind": types.KindTask, "id": t.TaskID, "scope": t.ColumnID, "to": t.Position}).Info("task created")
	return t, nil
}

// MoveTask moves a task to position in columnID. An empty columnID keeps the
// task in its column, where positions outside 1..N fail with
// types.ErrInvalidPosition. Moving to another column clamps the position to
// that column's end, and a nil position appends there.
func (s *Service) MoveTask(ctx context.Context, caller, taskID, columnID string, position *int) (*types.Task, error) {
	var t *types.Task
	err := s.store.Update(ctx, func(sess types.Session) error {
		ps, err := sess.Positions(types.KindTask)
		if err != nil {
			return err
		}
		if _, err := s.relocate(ctx, ps, caller, taskID, columnID, position); err != nil {
			return err
		}
		t, err = sess.GetTask(ctx, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// EditTask applies edit to a task's fields. Placement is never changed.
func (s *Service) EditTask(ctx context.Context, caller, taskID string, edit types.TaskEdit) (*types.Task, error) {
	var t *types.Task
	err := s.store.Update(ctx, func(sess types.Session) error {
		ps, err := sess.Positions(types.KindTask)
		if err != nil {
			return err
		}
		t, err = editTask(ctx, sess, ps, caller, taskID, edit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTask applies edit and then moves the task as MoveTask does, in one
// transaction. If the move is rejected the edit is not kept either.
func (s *Service) UpdateTask(ctx context.Context, caller, taskID string, edit types.TaskEdit, columnID string, position *int) (*types.Task, error) {
	var t *types.Task
	err := s.store.Update(ctx, func(sess types.Session) error {
		ps, err := sess.Positions(types.KindTask)
		if err != nil {
			return err
		}
		if _, err := editTask(ctx, sess, ps, caller, taskID, edit); err != nil {
			return err
		}
		if _, err := s.relocate(ctx, ps, caller, taskID, columnID, position); err != nil {
			return err
		}
		t, err = sess.GetTask(ctx, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func editTask(ctx context.Context, sess types.Session, ps types.PositionStore, caller, taskID string, edit types.TaskEdit) (*types.Task, error) {
	if _, err := locate(ctx, ps, caller, taskID); err != nil {
		return nil, err
	}
	t, err := sess.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := edit.Apply(t); err != nil {
		return nil, err
	}
	if err := sess.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTask removes a task and closes the gap in its column.
func (s *Service) DeleteTask(ctx context.Context, caller, taskID string) error {
	return s.store.Update(ctx, func(sess types.Session) error {
		ps, err := sess.Positions(types.KindTask)
		if err != nil {
			return err
		}
		return s.remove(ctx, ps, caller, taskID, sess.DeleteTask)
	})
}

// ListTasks returns the column's tasks by ascending position.
func (s *Service) ListTasks(ctx context.Context, caller, columnID string) ([]*types.Task, error) {
	var list []*types.Task
	err := s.store.View(ctx, func(sess types.Session) error {
		ps, err := sess.Positions(types.KindTask)
		if err != nil {
			return err
		}
		if err := authorize(ctx, ps, caller, columnID); err != nil {
			return err
		}
		list, err = sess.ListTasks(ctx, columnID)
		return err
	})
	return list, err
}
