// Package sequence plans position changes for entities ranked within a scope.
//
// A scope's members hold the positions 1..N with no gaps or duplicates. Plan
// turns one insert, reorder or cross-scope move into the range shifts that
// keep that true, plus the entity's final position. The package is pure; the
// caller applies the shifts and the entity's placement in one transaction.
package sequence

import (
	"fmt"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Unbounded as a Shift's High means the range has no upper limit.
const Unbounded = 0

// Shift adds Delta to every member of Scope whose position lies in
// [Low, High]. High == Unbounded means every position from Low upward.
type Shift struct {
	Scope string
	Low   int
	High  int
	Delta int
}

func (s Shift) String() string {
	high := "∞"
	if s.High != Unbounded {
		high = fmt.Sprint(s.High)
	}
	return fmt.Sprintf("%s[%d..%s]%+d", s.Scope, s.Low, high, s.Delta)
}

// Request describes one placement change.
//
// OldScope is empty when the entity is being created. NewScope is the
// destination; an empty NewScope means the entity stays in OldScope.
// NewPosition is nil when the caller did not ask for a position: a reorder
// becomes a no-op and an insert appends. MaxPosition is the current highest
// position in the destination scope, which for a move inside one scope
// includes the entity itself.
type Request struct {
	OldScope    string
	OldPosition int
	NewScope    string
	NewPosition *int
	MaxPosition int
}

// Outcome is the result of planning a Request.
type Outcome struct {
	// Scope and Target are the entity's final placement.
	Scope  string
	Target int
	// Shifts are applied in order before the entity is placed.
	Shifts []Shift
}

// Noop reports whether the plan leaves every position unchanged.
func (p Outcome) Noop() bool {
	return len(p.Shifts) == 0
}

// Position returns a pointer to n, for building Requests.
func Position(n int) *int {
	return &n
}

// Plan computes the shifts and final position for req.
// Returns types.ErrInvalidPosition when the requested position is below 1, or
// above MaxPosition for a move inside the same scope; no plan is produced.
func Plan(req Request) (Outcome, error) {
	newScope := req.NewScope
	if newScope == "" {
		newScope = req.OldScope
	}

	switch {
	case req.OldScope == "":
		return planInsert(newScope, req.NewPosition, req.MaxPosition)
	case newScope == req.OldScope:
		return planReorder(newScope, req.OldPosition, req.NewPosition, req.MaxPosition)
	default:
		return planMove(req.OldScope, req.OldPosition, newScope, req.NewPosition, req.MaxPosition)
	}
}

// Compact returns the shift that closes the gap left at position p of scope
// once its holder has been removed.
func Compact(scope string, p int) Shift {
	return Shift{Scope: scope, Low: p + 1, High: Unbounded, Delta: -1}
}

// planReorder handles a move inside one scope.
func planReorder(scope string, old int, requested *int, max int) (Outcome, error) {
	if requested == nil || *requested == old {
		return Outcome{Scope: scope, Target: old}, nil
	}
	target := *requested
	if target < 1 || target > max {
		return Outcome{}, fmt.Errorf("%w: %d not in [1, %d]", types.ErrInvalidPosition, target, max)
	}

	var shift Shift
	if target > old {
		// Moving later: the siblings in (old, target] each step back one.
		shift = Shift{Scope: scope, Low: old + 1, High: target, Delta: -1}
	} else {
		// Moving earlier: the siblings in [target, old) each step forward one.
		shift = Shift{Scope: scope, Low: target, High: old - 1, Delta: +1}
	}
	return Outcome{Scope: scope, Target: target, Shifts: []Shift{shift}}, nil
}

// planMove handles a move between scopes: compact the old scope, then open a
// slot in the new one.
func planMove(oldScope string, old int, newScope string, requested *int, max int) (Outcome, error) {
	target, err := clampInsert(requested, max)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Scope:  newScope,
		Target: target,
		Shifts: []Shift{
			Compact(oldScope, old),
			{Scope: newScope, Low: target, High: Unbounded, Delta: +1},
		},
	}, nil
}

// planInsert handles a newly created entity.
func planInsert(scope string, requested *int, max int) (Outcome, error) {
	target, err := clampInsert(requested, max)
	if err != nil {
		return Outcome{}, err
	}
	plan := Outcome{Scope: scope, Target: target}
	if target <= max {
		plan.Shifts = []Shift{{Scope: scope, Low: target, High: Unbounded, Delta: +1}}
	}
	return plan, nil
}

// clampInsert resolves the slot for an entity entering a scope whose highest
// position is max. Unset appends; anything past the end is clamped to it.
func clampInsert(requested *int, max int) (int, error) {
	appendAt := max + 1
	if requested == nil {
		return appendAt, nil
	}
	if *requested < 1 {
		return 0, fmt.Errorf("%w: %d is below 1", types.ErrInvalidPosition, *requested)
	}
	return min(*requested, appendAt), nil
}
