// Package state provides thread-safe state shared by the chart viewer and server.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-skychart/internal/chart"
)

// EventType represents the type of build event.
type EventType string

const (
	EventBuilt        EventType = "BUILT"
	EventFailed       EventType = "FAILED"
	EventEdgesDropped EventType = "EDGES_DROPPED"
)

// Event records something that happened during a build.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Instant   time.Time `json:"instant"`
	Stars     int       `json:"stars,omitempty"`
	Dropped   int       `json:"dropped,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// TimeSeries is a single data point with timestamp.
type TimeSeries struct {
	Timestamp time.Time
	Value     float64
}

// Magnitude limits accepted by AdjustMagnitude.
const (
	MinMagnitude = -2.0
	MaxMagnitude = 12.0
)

// Settings are the viewer's adjustable chart parameters.
type Settings struct {
	MagnitudeLimit float64
	Lines          bool
	Offset         time.Duration // added to the base instant
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	current       *chart.Result
	lastBuild     time.Time
	lastError     error
	buildDuration time.Duration
	builds        int

	settings Settings

	// Build durations in seconds
	history       []TimeSeries
	maxHistoryLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen int
	MaxEvents     int
	Settings      Settings
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen: 60,
		MaxEvents:     50,
		Settings: Settings{
			MagnitudeLimit: chart.DefaultMagnitudeLimit,
			Lines:          true,
		},
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	maxHistory := cfg.MaxHistoryLen
	if maxHistory <= 0 {
		maxHistory = 60
	}
	return &Manager{
		settings:      cfg.Settings,
		maxHistoryLen: maxHistory,
		maxEvents:     maxEvents,
		events:        make([]Event, 0, maxEvents),
	}
}

// Update records the outcome of a build. A failed build keeps the previous
// chart on screen.
func (m *Manager) Update(res *chart.Result, instant time.Time, elapsed time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.lastBuild = now
	m.lastError = err
	m.buildDuration = elapsed
	m.builds++

	m.history = append(m.history, TimeSeries{Timestamp: now, Value: elapsed.Seconds()})
	if len(m.history) > m.maxHistoryLen {
		m.history = m.history[1:]
	}

	if err != nil {
		m.addEvent(Event{Type: EventFailed, Timestamp: now, Instant: instant, Error: err.Error()})
		return
	}
	if res == nil {
		return
	}

	m.current = res
	m.addEvent(Event{Type: EventBuilt, Timestamp: now, Instant: instant, Stars: len(res.Scene.Stars)})
	if n := len(res.Warnings); n > 0 {
		m.addEvent(Event{Type: EventEdgesDropped, Timestamp: now, Instant: instant, Dropped: n})
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Result        *chart.Result
	LastBuild     time.Time
	LastError     error
	BuildDuration time.Duration
	Builds        int
	Settings      Settings
	History       []TimeSeries
	Events        []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := make([]TimeSeries, len(m.history))
	copy(history, m.history)

	return Snapshot{
		Result:        m.current,
		LastBuild:     m.lastBuild,
		LastError:     m.lastError,
		BuildDuration: m.buildDuration,
		Builds:        m.builds,
		Settings:      m.settings,
		History:       history,
		Events:        m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// Settings returns the current chart settings.
func (m *Manager) Settings() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// AdjustMagnitude moves the magnitude limit by delta, clamped to
// [MinMagnitude, MaxMagnitude], and returns the new settings.
func (m *Manager) AdjustMagnitude(delta float64) Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	lim := m.settings.MagnitudeLimit + delta
	lim = max(MinMagnitude, min(MaxMagnitude, lim))
	m.settings.MagnitudeLimit = lim
	return m.settings
}

// ToggleLines switches constellation lines on or off.
func (m *Manager) ToggleLines() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.Lines = !m.settings.Lines
	return m.settings
}

// Step moves the chart instant by d.
func (m *Manager) Step(d time.Duration) Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.Offset += d
	return m.settings
}

// HasData returns true once a build has succeeded.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
