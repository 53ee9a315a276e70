package cterm

import "sync"

// MemoryScrollback is a bounded, in-memory ScrollbackProvider backed by a
// ring buffer. Once the line count reaches the configured maximum, pushing
// a new line evicts the oldest one (FIFO). A maximum of 0 means unbounded.
//
// This is the default storage a host reaches for when it doesn't need to
// persist scrollback to disk or a remote store; it is safe for concurrent
// use.
type MemoryScrollback struct {
	mu    sync.Mutex
	lines [][]Cell
	max   int
}

var _ ScrollbackProvider = (*MemoryScrollback)(nil)

// NewMemoryScrollback creates a scrollback ring holding at most max lines.
// A max <= 0 means unbounded.
func NewMemoryScrollback(max int) *MemoryScrollback {
	return &MemoryScrollback{max: max}
}

// Push appends a line, evicting the oldest line first if at capacity.
func (m *MemoryScrollback) Push(line []Cell) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]Cell, len(line))
	copy(cp, line)

	m.lines = append(m.lines, cp)
	if m.max > 0 && len(m.lines) > m.max {
		drop := len(m.lines) - m.max
		m.lines = m.lines[drop:]
	}
}

// Len returns the number of stored lines.
func (m *MemoryScrollback) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lines)
}

// Line returns the line at index, 0 being the oldest.
func (m *MemoryScrollback) Line(index int) []Cell {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.lines) {
		return nil
	}
	return m.lines[index]
}

// Clear discards all stored lines.
func (m *MemoryScrollback) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = nil
}

// SetMaxLines sets the capacity, trimming the oldest lines if the new
// maximum is smaller than the current length. A max <= 0 means unbounded.
func (m *MemoryScrollback) SetMaxLines(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.max = max
	if max > 0 && len(m.lines) > max {
		drop := len(m.lines) - max
		m.lines = m.lines[drop:]
	}
}

// MaxLines returns the current capacity (0 means unbounded).
func (m *MemoryScrollback) MaxLines() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.max
}
