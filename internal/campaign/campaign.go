// Package campaign provides thread-safe run state shared between the
// placement pipeline and the progress UI.
package campaign

import (
	"sync"
	"time"

	"github.com/litescript/ls-astfield/internal/place"
)

// Phase identifies the stage a placement run is in.
type Phase string

const (
	PhaseIdle    Phase = "IDLE"
	PhaseLoading Phase = "LOADING"
	PhaseBinning Phase = "BINNING"
	PhasePlacing Phase = "PLACING"
	PhaseWriting Phase = "WRITING"
	PhaseDone    Phase = "DONE"
	PhaseFailed  Phase = "FAILED"
)

// BinEvent records one completed bin.
type BinEvent struct {
	Timestamp time.Time
	Bin       int
	Bins      int
	RowsDone  int
}

// Manager holds shared run state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	phase     Phase
	startedAt time.Time
	updatedAt time.Time

	binsDone  int
	binsTotal int
	rowsDone  int
	rowsTotal int

	// Event log (ring buffer)
	events       []BinEvent
	maxEvents    int
	eventWriteAt int

	err error
}

// Config holds configuration for the campaign manager.
type Config struct {
	MaxEvents int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{MaxEvents: 50}
}

// NewManager creates a new campaign manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		phase:     PhaseIdle,
		maxEvents: maxEvents,
		events:    make([]BinEvent, 0, maxEvents),
	}
}

// Start marks the run begun and resets progress.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.phase = PhaseLoading
	m.startedAt = now
	m.updatedAt = now
	m.binsDone, m.binsTotal = 0, 0
	m.rowsDone, m.rowsTotal = 0, 0
	m.events = m.events[:0]
	m.eventWriteAt = 0
	m.err = nil
}

// SetPhase updates the run phase.
func (m *Manager) SetPhase(p Phase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phase = p
	m.updatedAt = time.Now()
}

// Report records placement progress. It has the signature of
// place.Options.Progress so it can be wired in directly.
func (m *Manager) Report(p place.Progress) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.phase = PhasePlacing
	m.updatedAt = now
	m.binsDone = p.Bin + 1
	m.binsTotal = p.Bins
	m.rowsDone = p.RowsDone
	m.rowsTotal = p.RowsTotal

	m.addEvent(BinEvent{
		Timestamp: now,
		Bin:       p.Bin,
		Bins:      p.Bins,
		RowsDone:  p.RowsDone,
	})
}

// Finish records the terminal phase and any error.
func (m *Manager) Finish(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updatedAt = time.Now()
	m.err = err
	if err != nil {
		m.phase = PhaseFailed
	} else {
		m.phase = PhaseDone
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e BinEvent) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot is an immutable copy of run state.
type Snapshot struct {
	Phase     Phase
	StartedAt time.Time
	UpdatedAt time.Time
	BinsDone  int
	BinsTotal int
	RowsDone  int
	RowsTotal int
	Events    []BinEvent
	Err       error
}

// Fraction is rows done over rows total, in [0, 1].
func (s Snapshot) Fraction() float64 {
	if s.RowsTotal <= 0 {
		return 0
	}
	return float64(s.RowsDone) / float64(s.RowsTotal)
}

// Terminal reports whether the run has finished, either way.
func (s Snapshot) Terminal() bool {
	return s.Phase == PhaseDone || s.Phase == PhaseFailed
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Phase:     m.phase,
		StartedAt: m.startedAt,
		UpdatedAt: m.updatedAt,
		BinsDone:  m.binsDone,
		BinsTotal: m.binsTotal,
		RowsDone:  m.rowsDone,
		RowsTotal: m.rowsTotal,
		Events:    m.eventsOrdered(),
		Err:       m.err,
	}
}

// RecentEvents returns the last n events, oldest first.
func (m *Manager) RecentEvents(n int) []BinEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.eventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// eventsOrdered returns events in chronological order.
func (m *Manager) eventsOrdered() []BinEvent {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]BinEvent, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]BinEvent, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}
