package history

import "github.com/piwi3910/drawerfit/internal/model"

// ring is a fixed-capacity deque of layout snapshots.
// Pushing onto a full ring evicts from the opposite end.
type ring struct {
	buf   []model.LayoutState
	head  int // Index of the front element
	count int
}

func newRing(capacity int) *ring {
	if capacity < 1 {
		capacity = 1
	}
	return &ring{buf: make([]model.LayoutState, capacity)}
}

func (r *ring) len() int { return r.count }

func (r *ring) cap() int { return len(r.buf) }

func (r *ring) at(i int) model.LayoutState {
	return r.buf[(r.head+i)%len(r.buf)]
}

// pushBack appends s, evicting the front element when full.
func (r *ring) pushBack(s model.LayoutState) {
	if r.count == len(r.buf) {
		r.buf[r.head] = model.LayoutState{}
		r.head = (r.head + 1) % len(r.buf)
		r.count--
	}
	r.buf[(r.head+r.count)%len(r.buf)] = s
	r.count++
}

// pushFront prepends s, evicting the back element when full.
func (r *ring) pushFront(s model.LayoutState) {
	if r.count == len(r.buf) {
		r.count--
		r.buf[(r.head+r.count)%len(r.buf)] = model.LayoutState{}
	}
	r.head = (r.head - 1 + len(r.buf)) % len(r.buf)
	r.buf[r.head] = s
	r.count++
}

func (r *ring) popBack() (model.LayoutState, bool) {
	if r.count == 0 {
		return model.LayoutState{}, false
	}
	i := (r.head + r.count - 1) % len(r.buf)
	s := r.buf[i]
	r.buf[i] = model.LayoutState{}
	r.count--
	return s, true
}

func (r *ring) popFront() (model.LayoutState, bool) {
	if r.count == 0 {
		return model.LayoutState{}, false
	}
	s := r.buf[r.head]
	r.buf[r.head] = model.LayoutState{}
	r.head = (r.head + 1) % len(r.buf)
	r.count--
	return s, true
}

func (r *ring) clear() {
	for i := range r.buf {
		r.buf[i] = model.LayoutState{}
	}
	r.head = 0
	r.count = 0
}
