package board

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// CreateColumn adds a column named name to the board. A nil position appends
// it; a position past the end is clamped to the end.
func (s *Service) CreateColumn(ctx context.Context, caller, boardID, name string, position *int) (*types.Column, error) {
	c := &types.Column{BoardID: boardID, Name: name}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	err := s.store.Update(ctx, func(sess types.Session) error {
		ps, err := sess.Positions(types.KindColumn)
		if err != nil {
			return err
		}
		if c.Position, err = s.openSlot(ctx, ps, caller, boardID, position); err != nil {
			return err
		}
		return sess.InsertColumn(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"kind": types.KindColumn, "id": c.ColumnID, "scope": boardID, "to": c.Position}).Info("column created")
	return c, nil
}

// MoveColumn reorders a column within its board. A nil position leaves it in
// place. Positions outside 1..N fail with types.ErrInvalidPosition.
func (s *Service) MoveColumn(ctx context.Context, caller, columnID string, position *int) (*types.Column, error) {
	var c *types.Column
	err := s.store.Update(ctx, func(sess types.Session) error {
		ps, err := sess.Positions(types.KindColumn)
		if err != nil {
			return err
		}
		if _, err := s.relocate(ctx, ps, caller, columnID, "", position); err != nil {
			return err
		}
		c, err = sess.GetColumn(ctx, columnID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// RenameColumn changes a column's name without touching its position.
func (s *Service) RenameColumn(ctx context.Context, caller, columnID, name string) (*types.Column, error) {
	var c *types.Column
	err := s.store.Update(ctx, func(sess types.Session) error {
		ps, err := sess.Positions(types.KindColumn)
		if err != nil {
			return err
		}
		c, err = renameColumn(ctx, sess, ps, caller, columnID, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateColumn renames the column when name is non-nil and then reorders it
// as MoveColumn does, in one transaction. If the move is rejected the rename
// is not kept either.
func (s *Service) UpdateColumn(ctx context.Context, caller, columnID string, name *string, position *int) (*types.Column, error) {
	var c *types.Column
	err := s.store.Update(ctx, func(sess types.Session) error {
		ps, err := sess.Positions(types.KindColumn)
		if err != nil {
			return err
		}
		if name != nil {
			if _, err := renameColumn(ctx, sess, ps, caller, columnID, *name); err != nil {
				return err
			}
		}
		if _, err := s.relocate(ctx, ps, caller, columnID, "", position); err != nil {
			return err
		}
		c, err = sess.GetColumn(ctx, columnID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func renameColumn(ctx context.Context, sess types.Session, ps types.PositionStore, caller, columnID, name string) (*types.Column, error) {
	if _, err := locate(ctx, ps, caller, columnID); err != nil {
		return nil, err
	}
	c, err := sess.GetColumn(ctx, columnID)
	if err != nil {
		return nil, err
	}
	c.Name = name
	if err := sess.UpdateColumn(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteColumn removes a column and its tasks, then closes the gap in the
// board's ranking.
func (s *Service) DeleteColumn(ctx context.Context, caller, columnID string) error {
	return s.store.Update(ctx, func(sess types.Session) error {
		ps, err := sess.Positions(types.KindColumn)
		if err != nil {
			return err
		}
		return s.remove(ctx, ps, caller, columnID, sess.DeleteColumn)
	})
}

// ListColumns returns the board's columns by ascending position.
func (s *Service) ListColumns(ctx context.Context, caller, boardID string) ([]*types.Column, error) {
	var list []*types.Column
	err := s.store.View(ctx, func(sess types.Session) error {
		ps, err := sess.Positions(types.KindColumn)
		if err != nil {
			return err
		}
		if err := authorize(ctx, ps, caller, boardID); err != nil {
			return err
		}
		list, err = sess.ListColumns(ctx, boardID)
		return err
	})
	return list, err
}
