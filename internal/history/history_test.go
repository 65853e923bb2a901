package history

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/piwi3910/drawerfit/internal/model"
)

func layoutWith(n int) model.LayoutState {
	s := model.NewLayoutState(24, 18)
	s.LayoutTitle = fmt.Sprintf("state %d", n)
	for i := 0; i < n; i++ {
		s.Placements = append(s.Placements, model.Placement{
			ID: fmt.Sprintf("p%d", i), BinID: "bin-1x1", X: float64(i),
		})
	}
	return s
}

func TestNewStore(t *testing.T) {
	s := New(layoutWith(0), 0)
	if s.Depth() != defaultMaxDepth {
		t.Errorf("expected depth %d, got %d", defaultMaxDepth, s.Depth())
	}
	if s.CanUndo() {
		t.Error("new store should not be undoable")
	}
	if s.CanRedo() {
		t.Error("new store should not be redoable")
	}
}

func TestPushAndUndo(t *testing.T) {
	s := New(layoutWith(0), 10)
	s.Push(layoutWith(1))

	if !s.CanUndo() {
		t.Fatal("should be able to undo after push")
	}
	if got := len(s.Present().Placements); got != 1 {
		t.Errorf("expected 1 placement, got %d", got)
	}
	if !s.Undo() {
		t.Fatal("undo should succeed")
	}
	if got := len(s.Present().Placements); got != 0 {
		t.Errorf("expected 0 placements after undo, got %d", got)
	}
	if s.FutureLen() != 1 {
		t.Errorf("expected 1 redo entry, got %d", s.FutureLen())
	}
}

func TestPushClearsRedo(t *testing.T) {
	s := New(layoutWith(0), 10)
	s.Push(layoutWith(1))
	s.Undo()
	if !s.CanRedo() {
		t.Fatal("should be able to redo after undo")
	}

	s.Push(layoutWith(2))
	if s.CanRedo() {
		t.Error("redo stack should be cleared after push")
	}
}

func TestUndoRedoEmptyAreNoOps(t *testing.T) {
	s := New(layoutWith(3), 10)
	before := s.Present()

	if s.Undo() {
		t.Error("undo on empty history should return false")
	}
	if s.Redo() {
		t.Error("redo on empty history should return false")
	}
	if !reflect.DeepEqual(before, s.Present()) {
		t.Error("present must not change on empty undo/redo")
	}
}

func TestMaxDepthEvictsOldest(t *testing.T) {
	s := New(layoutWith(0), 3)
	for i := 1; i <= 5; i++ {
		s.Push(layoutWith(i))
	}
	if s.PastLen() != 3 {
		t.Fatalf("expected past length 3, got %d", s.PastLen())
	}

	// Oldest surviving entry is state 2: states 0 and 1 were evicted
	for s.Undo() {
	}
	if got := s.Present().LayoutTitle; got != "state 2" {
		t.Errorf("expected oldest surviving state 2, got %q", got)
	}
}

func TestDefaultCapacityIsHundred(t *testing.T) {
	s := New(layoutWith(0), 0)
	for i := 1; i <= 150; i++ {
		s.Push(layoutWith(i % 5))
	}
	if s.PastLen() != 100 {
		t.Errorf("expected past capped at 100, got %d", s.PastLen())
	}
	undone := 0
	for s.Undo() {
		undone++
	}
	if undone != 100 {
		t.Errorf("expected 100 undos, got %d", undone)
	}
	if s.FutureLen() != 100 {
		t.Errorf("expected 100 redo entries, got %d", s.FutureLen())
	}
}

func TestUndoRedoSymmetry(t *testing.T) {
	const n = 25
	s := New(layoutWith(0), 100)
	var presents []model.LayoutState
	presents = append(presents, s.Present())
	for i := 1; i <= n; i++ {
		s.Push(layoutWith(i))
		presents = append(presents, s.Present())
	}

	for i := n - 1; i >= 0; i-- {
		if !s.Undo() {
			t.Fatalf("undo %d failed", n-i)
		}
		if !reflect.DeepEqual(presents[i], s.Present()) {
			t.Fatalf("undo to state %d produced %q", i, s.Present().LayoutTitle)
		}
	}
	for i := 1; i <= n; i++ {
		if !s.Redo() {
			t.Fatalf("redo %d failed", i)
		}
		if !reflect.DeepEqual(presents[i], s.Present()) {
			t.Fatalf("redo to state %d produced %q", i, s.Present().LayoutTitle)
		}
	}
	if s.CanRedo() {
		t.Error("should not be able to redo further")
	}
}

func TestStoredStatesAreIsolated(t *testing.T) {
	next := layoutWith(1)
	s := New(layoutWith(0), 10)
	s.Push(next)

	next.Placements[0].X = 99
	if s.Present().Placements[0].X != 0 {
		t.Error("store should not alias the pushed state")
	}

	p := s.Present()
	p.Placements[0].X = 42
	if s.Present().Placements[0].X != 0 {
		t.Error("Present should return a copy")
	}
}

func TestReset(t *testing.T) {
	s := New(layoutWith(0), 10)
	s.Push(layoutWith(1))
	s.Push(layoutWith(2))
	s.Undo()

	s.Reset(layoutWith(4))
	if s.CanUndo() || s.CanRedo() {
		t.Error("after reset, should not be able to undo or redo")
	}
	if len(s.Present().Placements) != 4 {
		t.Error("reset should replace the present state")
	}
}

func TestRingWrapsAround(t *testing.T) {
	r := newRing(3)
	for i := 0; i < 5; i++ {
		r.pushBack(layoutWith(i))
	}
	if r.len() != 3 || r.at(0).LayoutTitle != "state 2" || r.at(2).LayoutTitle != "state 4" {
		t.Fatalf("unexpected ring contents after wrap: len=%d front=%q", r.len(), r.at(0).LayoutTitle)
	}

	r.pushFront(layoutWith(9))
	if r.len() != 3 || r.at(0).LayoutTitle != "state 9" || r.at(2).LayoutTitle != "state 3" {
		t.Errorf("pushFront on a full ring should evict the back: %q..%q", r.at(0).LayoutTitle, r.at(2).LayoutTitle)
	}

	if s, ok := r.popFront(); !ok || s.LayoutTitle != "state 9" {
		t.Errorf("popFront returned %q", s.LayoutTitle)
	}
	if s, ok := r.popBack(); !ok || s.LayoutTitle != "state 3" {
		t.Errorf("popBack returned %q", s.LayoutTitle)
	}
	r.clear()
	if _, ok := r.popBack(); ok {
		t.Error("cleared ring should be empty")
	}
}
