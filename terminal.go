package cterm

import (
	"fmt"
	"sync"
	"syscall"
)

// TerminalEventKind identifies which field of a TerminalEvent is populated.
type TerminalEventKind int

const (
	EventTitleChanged TerminalEventKind = iota
	EventBell
	EventContentChanged
	EventProcessExited
	EventClipboardRequest
	EventFileTransfer
)

// ClipboardOperation describes an OSC 52 clipboard read or write request
// raised while draining events.
type ClipboardOperation struct {
	Clipboard byte
	Write     bool
	Data      []byte
}

// TerminalEvent is one item Terminal.Process returns after driving the
// parser. Only the field matching Kind is meaningful.
type TerminalEvent struct {
	Kind        TerminalEventKind
	Title       string
	ExitCode    int
	Clipboard   ClipboardOperation
	Transfer    *FileTransfer
}

// Terminal composes a Screen, an optional PTY, and an event queue, and is
// the single type a UI layer interacts with. Screen alone has no notion
// of a child process; Terminal adds that plus the request/response
// plumbing a host needs to actually render and drive one.
type Terminal struct {
	mu sync.Mutex

	screen *Screen
	pty    *PTY

	events []TerminalEvent

	scrollOffset int
}

// NewTerminal creates a Terminal backed by a Screen only, with no PTY.
// Useful for tests and for replaying recorded sessions.
func NewTerminal(rows, cols int, opts ...Option) *Terminal {
	t := &Terminal{}
	t.screen = NewScreen(append([]Option{WithSize(rows, cols)}, t.wrapEventOptions(opts)...)...)
	return t
}

// NewTerminalWithShell creates a Terminal and spawns cfg's shell under a
// PTY sized rows x cols, wiring its output into the Screen and draining
// its exit into a ProcessExited event.
func NewTerminalWithShell(rows, cols int, cfg PTYConfig, opts ...Option) (*Terminal, error) {
	t := NewTerminal(rows, cols, opts...)

	p, err := StartPTY(cfg, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("start shell: %w", err)
	}
	t.pty = p

	go t.readLoop()

	return t, nil
}

// wrapEventOptions installs event-queue shim providers ahead of the
// caller's own options. Clipboard activity always surfaces through
// Process's returned events, and the caller's clipboard provider (if any)
// is still called. Bell and SetTitle activity surfaces as events only when
// the caller passes no WithBell/WithTitle option: a caller-supplied bell or
// title provider replaces the shim.
func (t *Terminal) wrapEventOptions(opts []Option) []Option {
	wrapped := []Option{
		WithBell(&eventBellShim{term: t}),
		WithTitle(&eventTitleShim{term: t}),
	}
	wrapped = append(wrapped, opts...)
	// Wrap whatever clipboard provider the caller configured (or none) so
	// reads/writes still surface as events.
	wrapped = append(wrapped, func(s *Screen) {
		inner := s.clipboardProvider
		s.clipboardProvider = &eventClipboardShim{term: t, inner: inner}
	})
	return wrapped
}

func (t *Terminal) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := t.pty.Read(buf)
		if n > 0 {
			// Write before taking t.mu: the event shims lock it themselves.
			t.screen.Write(buf[:n])
			t.mu.Lock()
			t.pushEventLocked(TerminalEvent{Kind: EventContentChanged})
			t.drainFileTransfersLocked()
			t.mu.Unlock()
		}
		if err != nil {
			t.mu.Lock()
			code := -1
			if t.pty != nil {
				if c, werr := t.pty.Wait(); werr == nil {
					code = c
				}
			}
			t.pushEventLocked(TerminalEvent{Kind: EventProcessExited, ExitCode: code})
			t.mu.Unlock()
			return
		}
	}
}

// Process drives the parser over data (typically freshly read PTY output
// for callers managing their own read loop) and returns every event
// queued as a result, clearing the queue.
func (t *Terminal) Process(data []byte) []TerminalEvent {
	// Write before taking t.mu: the event shims lock it themselves.
	t.screen.Write(data)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.pushEventLocked(TerminalEvent{Kind: EventContentChanged})
	t.drainFileTransfersLocked()

	events := t.events
	t.events = nil
	return events
}

func (t *Terminal) drainFileTransfersLocked() {
	for _, xfer := range t.screen.PendingFileTransfers() {
		t.pushEventLocked(TerminalEvent{Kind: EventFileTransfer, Transfer: xfer})
	}
}

func (t *Terminal) pushEvent(ev TerminalEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pushEventLocked(ev)
}

func (t *Terminal) pushEventLocked(ev TerminalEvent) {
	t.events = append(t.events, ev)
}

// Write forwards bytes to the PTY (child process stdin). Returns an error
// if there is no live PTY.
func (t *Terminal) Write(data []byte) error {
	if t.pty == nil {
		return fmt.Errorf("write: no pty attached")
	}
	_, err := t.pty.Write(data)
	return err
}

// HandleKey encodes a key event into the bytes that should be written to
// the PTY, consulting the Screen's current application-cursor-keys (DECCKM)
// and linefeed/newline (LNM) modes. Returns nil if the key produces no
// output (e.g. a bare Super chord).
func (t *Terminal) HandleKey(ev KeyEvent) []byte {
	appCursor := t.screen.HasMode(ModeCursorKeys)
	lnm := t.screen.HasMode(ModeLineFeedNewLine)
	return EncodeKey(ev, appCursor, lnm)
}

// Resize resizes the Screen and, if a PTY is attached, propagates the new
// size to the child process.
func (t *Terminal) Resize(rows, cols int) error {
	t.screen.Resize(rows, cols)
	if t.pty != nil {
		return t.pty.Resize(rows, cols)
	}
	return nil
}

// Find searches the Screen's visible grid and scrollback.
func (t *Terminal) Find(pattern string, caseSensitive, useRegex bool) []SearchResult {
	return t.screen.Find(pattern, caseSensitive, useRegex)
}

// ScrollToLine sets the scroll offset (lines of scrollback above the
// viewport) so that absolute line is visible, clamped to scrollback depth.
func (t *Terminal) ScrollToLine(line int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	scrollbackLen := t.screen.ScrollbackLen()
	offset := line
	if line < 0 {
		offset = scrollbackLen + line + 1
	}
	if offset < 0 {
		offset = 0
	}
	if offset > scrollbackLen {
		offset = scrollbackLen
	}
	t.scrollOffset = offset
}

// ScrollOffset returns the current scroll offset set by ScrollToLine.
func (t *Terminal) ScrollOffset() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scrollOffset
}

// SendSignal delivers an OS signal to the child process group. Returns an
// error if there is no live PTY.
func (t *Terminal) SendSignal(sig syscall.Signal) error {
	if t.pty == nil {
		return fmt.Errorf("send signal: no pty attached")
	}
	return t.pty.SendSignal(sig)
}

// Screen returns the underlying Screen for read access (rendering, cell
// inspection, selection, snapshots).
func (t *Terminal) Screen() *Screen {
	return t.screen
}

// Close tears down the attached PTY, if any.
func (t *Terminal) Close() error {
	if t.pty == nil {
		return nil
	}
	return t.pty.Close()
}

// --- event-queue provider shims ---

type eventBellShim struct{ term *Terminal }

func (s *eventBellShim) Ring() {
	s.term.pushEvent(TerminalEvent{Kind: EventBell})
}

type eventTitleShim struct{ term *Terminal }

func (s *eventTitleShim) SetTitle(title string) {
	s.term.pushEvent(TerminalEvent{Kind: EventTitleChanged, Title: title})
}
func (s *eventTitleShim) PushTitle() {}
func (s *eventTitleShim) PopTitle()  {}

type eventClipboardShim struct {
	term  *Terminal
	inner ClipboardProvider
}

func (s *eventClipboardShim) Read(clipboard byte) string {
	s.term.pushEvent(TerminalEvent{
		Kind:      EventClipboardRequest,
		Clipboard: ClipboardOperation{Clipboard: clipboard, Write: false},
	})
	if s.inner != nil {
		return s.inner.Read(clipboard)
	}
	return ""
}

func (s *eventClipboardShim) Write(clipboard byte, data []byte) {
	s.term.pushEvent(TerminalEvent{
		Kind:      EventClipboardRequest,
		Clipboard: ClipboardOperation{Clipboard: clipboard, Write: true, Data: data},
	})
	if s.inner != nil {
		s.inner.Write(clipboard, data)
	}
}
