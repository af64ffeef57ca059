package app

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time view of the poll loop.
type Snapshot struct {
	State               State     `json:"state"`
	Cursor              int64     `json:"cursor"`
	Cycles              int       `json:"cycles"`
	Notifications       int       `json:"notifications"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	StartedAt           time.Time `json:"started_at"`
	LastCycleAt         time.Time `json:"last_cycle_at"`
	LastVerdict         string    `json:"last_verdict,omitempty"`
	LastError           string    `json:"last_error,omitempty"`
}

// Healthy reports whether the most recent cycle finished without an error.
func (s Snapshot) Healthy() bool {
	return s.ConsecutiveFailures == 0
}

// Status is written by the poll loop and read by status reporters.
type Status struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewStatus() *Status {
	return &Status{}
}

func (s *Status) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Status) start(cursor int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Cursor = cursor
	s.snap.StartedAt = at
}

func (s *Status) enter(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.State = state
}

func (s *Status) notified(verdict string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Notifications++
	s.snap.LastVerdict = verdict
}

func (s *Status) succeeded(cursor int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Cycles++
	s.snap.Cursor = cursor
	s.snap.LastCycleAt = at
	s.snap.ConsecutiveFailures = 0
	s.snap.LastError = ""
}

func (s *Status) failed(err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Cycles++
	s.snap.LastCycleAt = at
	s.snap.ConsecutiveFailures++
	s.snap.LastError = err.Error()
}
