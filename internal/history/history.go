// Package history keeps the undo/redo stacks around the present layout.
package history

import "github.com/piwi3910/drawerfit/internal/model"

const defaultMaxDepth = 100

// Store owns the present layout plus bounded past and future stacks.
// Every snapshot is cloned on the way in and out, so callers never alias
// a stored state.
type Store struct {
	past    *ring // Oldest first
	present model.LayoutState
	future  *ring // Next redo first
}

// New creates a Store holding initial with room for depth undo steps.
// depth <= 0 selects the default of 100.
func New(initial model.LayoutState, depth int) *Store {
	if depth <= 0 {
		depth = defaultMaxDepth
	}
	return &Store{
		past:    newRing(depth),
		present: initial.Clone(),
		future:  newRing(depth),
	}
}

// Push makes next the present state. The old present moves onto the past
// stack, evicting the oldest entry when full, and the future is cleared.
func (s *Store) Push(next model.LayoutState) {
	s.past.pushBack(s.present)
	s.present = next.Clone()
	s.future.clear()
}

// Undo restores the most recent past state. It reports false and changes
// nothing when there is nothing to undo.
func (s *Store) Undo() bool {
	prev, ok := s.past.popBack()
	if !ok {
		return false
	}
	s.future.pushFront(s.present)
	s.present = prev
	return true
}

// Redo re-applies the next future state. It reports false and changes
// nothing when there is nothing to redo.
func (s *Store) Redo() bool {
	next, ok := s.future.popFront()
	if !ok {
		return false
	}
	s.past.pushBack(s.present)
	s.present = next
	return true
}

// Present returns a copy of the current state.
func (s *Store) Present() model.LayoutState {
	return s.present.Clone()
}

// CanUndo returns true if there is at least one state to undo.
func (s *Store) CanUndo() bool {
	return s.past.len() > 0
}

// CanRedo returns true if there is at least one state to redo.
func (s *Store) CanRedo() bool {
	return s.future.len() > 0
}

// PastLen returns the number of undoable states.
func (s *Store) PastLen() int { return s.past.len() }

// FutureLen returns the number of redoable states.
func (s *Store) FutureLen() int { return s.future.len() }

// Depth returns the maximum number of undoable states.
func (s *Store) Depth() int { return s.past.cap() }

// Reset replaces the present state and drops all history.
func (s *Store) Reset(state model.LayoutState) {
	s.past.clear()
	s.future.clear()
	s.present = state.Clone()
}
