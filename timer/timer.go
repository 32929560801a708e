// Package timer schedules one-shot callbacks against simulation time.
package timer

import "sort"

// Handle identifies a scheduled timer. The zero Handle is never active.
type Handle uint64

func (h Handle) Valid() bool {
	return h != 0
}

type entry struct {
	handle   Handle
	duration float64
	elapsed  float64
	fn       func()
}

// Manager owns pending timers. It is advanced explicitly by the frame loop and
// is not safe for concurrent use.
type Manager struct {
	next    Handle
	pending map[Handle]*entry
}

func NewManager() *Manager {
	return &Manager{pending: make(map[Handle]*entry)}
}

// SetTimer schedules fn to run once after seconds of simulation time.
func (m *Manager) SetTimer(seconds float64, fn func()) Handle {
	if m == nil {
		return 0
	}
	if m.pending == nil {
		m.pending = make(map[Handle]*entry)
	}
	if seconds < 0 {
		seconds = 0
	}
	m.next++
	m.pending[m.next] = &entry{handle: m.next, duration: seconds, fn: fn}
	return m.next
}

// IsActive reports whether h is scheduled and has not fired.
func (m *Manager) IsActive(h Handle) bool {
	if m == nil || !h.Valid() {
		return false
	}
	_, ok := m.pending[h]
	return ok
}

// Elapsed returns seconds since h was scheduled, or -1 when h is not active.
func (m *Manager) Elapsed(h Handle) float64 {
	if m == nil {
		return -1
	}
	e, ok := m.pending[h]
	if !ok {
		return -1
	}
	return e.elapsed
}

// Remaining returns seconds until h fires, or -1 when h is not active.
func (m *Manager) Remaining(h Handle) float64 {
	if m == nil {
		return -1
	}
	e, ok := m.pending[h]
	if !ok {
		return -1
	}
	return e.duration - e.elapsed
}

// Clear cancels h without running its callback.
func (m *Manager) Clear(h Handle) bool {
	if m == nil {
		return false
	}
	if _, ok := m.pending[h]; !ok {
		return false
	}
	delete(m.pending, h)
	return true
}

// Len returns the number of pending timers.
func (m *Manager) Len() int {
	if m == nil {
		return 0
	}
	return len(m.pending)
}

// Advance moves every pending timer forward by dt seconds and runs the
// callbacks of those that expired, in scheduling order. Callbacks may schedule
// new timers; those start counting on the next Advance.
func (m *Manager) Advance(dt float64) {
	if m == nil || len(m.pending) == 0 || dt < 0 {
		return
	}

	var expired []*entry
	for _, e := range m.pending {
		e.elapsed += dt
		if e.elapsed >= e.duration {
			expired = append(expired, e)
		}
	}
	if len(expired) == 0 {
		return
	}

	sort.Slice(expired, func(i, j int) bool { return expired[i].handle < expired[j].handle })
	for _, e := range expired {
		delete(m.pending, e.handle)
	}
	for _, e := range expired {
		if e.fn != nil {
			e.fn()
		}
	}
}
