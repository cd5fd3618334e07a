// Package board implements the taskboard operations: project and board CRUD,
// and the ordering engine for columns within a board and tasks within a
// column.
//
// Every operation runs in one store transaction. Position changes are planned
// by package sequence and applied through the session's PositionStore, so a
// failed operation never leaves a partial shift behind.
package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/taskboard/internal/sequence"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Service runs board operations on behalf of a caller. The caller is the
// owner id compared against each project's OwnerID; a mismatch is reported
// as types.ErrNotFound.
type Service struct {
	store types.Store
	log   *logrus.Logger
}

// NewService returns a Service over an attached store.
// A nil logger selects logrus.StandardLogger().
func NewService(store types.Store, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: store, log: log}
}

// authorize checks that caller owns the project containing scope. A missing
// scope and a foreign one produce the same error.
func authorize(ctx context.Context, ps types.PositionStore, caller, scope string) error {
	owner, err := ps.ScopeOwner(ctx, scope)
	if err != nil {
		return err
	}
	if owner != caller {
		return fmt.Errorf("%s %s: %w", ps.Kind().ScopeKind(), scope, types.ErrNotFound)
	}
	return nil
}

// locate loads the placement of id and checks ownership of its scope.
func locate(ctx context.Context, ps types.PositionStore, caller, id string) (types.Ranked, error) {
	cur, err := ps.Get(ctx, id)
	if err != nil {
		return types.Ranked{}, err
	}
	if err := authorize(ctx, ps, caller, cur.ScopeID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			// Name the entity, not its scope.
			return types.Ranked{}, fmt.Errorf("%s %s: %w", ps.Kind(), id, types.ErrNotFound)
		}
		return types.Ranked{}, err
	}
	return cur, nil
}

// openSlot makes room for a new entity in scope and returns the position it
// must be inserted at. A nil position appends.
func (s *Service) openSlot(ctx context.Context, ps types.PositionStore, caller, scope string, position *int) (int, error) {
	if err := authorize(ctx, ps, caller, scope); err != nil {
		return 0, err
	}
	max, err := ps.MaxPosition(ctx, scope)
	if err != nil {
		return 0, err
	}
	plan, err := sequence.Plan(sequence.Request{NewScope: scope, NewPosition: position, MaxPosition: max})
	if err != nil {
		return 0, err
	}
	if err := applyShifts(ctx, ps, plan.Shifts); err != nil {
		return 0, err
	}
	return plan.Target, nil
}

// relocate moves entity id to position in newScope. An empty newScope keeps
// the entity in its current scope. It returns the final placement.
func (s *Service) relocate(ctx context.Context, ps types.PositionStore, caller, id, newScope string, position *int) (types.Ranked, error) {
	cur, err := locate(ctx, ps, caller, id)
	if err != nil {
		return types.Ranked{}, err
	}

	dest := cur.ScopeID
	if newScope != "" && newScope != cur.ScopeID {
		if err := authorize(ctx, ps, caller, newScope); err != nil {
			return types.Ranked{}, err
		}
		dest = newScope
	}

	max, err := ps.MaxPosition(ctx, dest)
	if err != nil {
		return types.Ranked{}, err
	}
	plan, err := sequence.Plan(sequence.Request{
		OldScope:    cur.ScopeID,
		OldPosition: cur.Position,
		NewScope:    dest,
		NewPosition: position,
		MaxPosition: max,
	})
	if err != nil {
		return types.Ranked{}, err
	}
	if plan.Noop() {
		return cur, nil
	}

	if err := ps.Park(ctx, id); err != nil {
		return types.Ranked{}, err
	}
	if err := applyShifts(ctx, ps, plan.Shifts); err != nil {
		return types.Ranked{}, err
	}
	if err := ps.Place(ctx, id, plan.Scope, plan.Target); err != nil {
		return types.Ranked{}, err
	}

	s.log.WithFields(logrus.Fields{
		"kind":  ps.Kind(),
		"id":    id,
		"scope": plan.Scope,
		"from":  cur.Position,
		"to":    plan.Target,
	}).Debug("entity moved")
	return types.Ranked{ID: id, ScopeID: plan.Scope, Position: plan.Target}, nil
}

// remove deletes entity id with del and closes the gap it leaves.
func (s *Service) remove(ctx context.Context, ps types.PositionStore, caller, id string, del func(context.Context, string) error) error {
	cur, err := locate(ctx, ps, caller, id)
	if err != nil {
		return err
	}
	if err := del(ctx, id); err != nil {
		return err
	}
	if err := applyShifts(ctx, ps, []sequence.Shift{sequence.Compact(cur.ScopeID, cur.Position)}); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"kind":  ps.Kind(),
		"id":    id,
		"scope": cur.ScopeID,
		"from":  cur.Position,
	}).Debug("entity removed")
	return nil
}

func applyShifts(ctx context.Context, ps types.PositionStore, shifts []sequence.Shift) error {
	for _, sh := range shifts {
		if err := ps.ShiftRange(ctx, sh.Scope, sh.Low, sh.High, sh.Delta); err != nil {
			return fmt.Errorf("applying shift %s: %w", sh, err)
		}
	}
	return nil
}
