// Package cterm provides a VT-compatible terminal emulator core: ANSI
// sequence parsing, grid/scrollback state, and an optional PTY-backed
// driver for running a real shell under it.
//
// This package emulates a terminal without any display, making it ideal for:
//   - Testing terminal applications without a GUI
//   - Building terminal multiplexers and recorders
//   - Creating terminal-based web applications
//   - Automated testing of CLI tools
//   - Screen scraping and automation
//
// # Quick Start
//
// Create a screen and write ANSI sequences to it:
//
//	term := cterm.NewScreen()
//	term.WriteString("\x1b[31mHello \x1b[32mWorld\x1b[0m!")
//	fmt.Println(term.String()) // "Hello World!"
//
// # Architecture
//
// The package is organized around these core types:
//
//   - [Screen]: the emulator that processes ANSI sequences into grid state
//   - [Terminal]: composes a Screen with a PTY and child process, and is
//     the type a UI layer drives (Process/Write/HandleKey/Resize)
//   - [Grid]: a 2D grid of cells with scrollback support
//   - [Cell]: a single character with colors and attributes
//   - [Cursor]: tracks position and rendering style
//
// # Screen
//
// Screen is the parser entry point. It implements [io.Writer] so you can
// write raw bytes containing ANSI escape sequences directly:
//
//	term := cterm.NewScreen(
//	    cterm.WithSize(24, 80),                  // 24 rows, 80 columns
//	    cterm.WithScrollback(storage),            // enable scrollback
//	    cterm.WithResponse(os.Stdout),            // handle terminal responses
//	)
//
//	// Process output from a command
//	cmd := exec.Command("ls", "-la", "--color")
//	cmd.Stdout = term
//	cmd.Run()
//
//	// Read the result
//	for row := 0; row < term.Rows(); row++ {
//	    fmt.Println(term.LineContent(row))
//	}
//
// # Terminal
//
// Terminal wraps a Screen with a spawned shell and turns parser activity
// into a drained event queue instead of direct callbacks, matching a
// host's typical read/render loop:
//
//	t, err := cterm.NewTerminalWithShell(24, 80, cterm.PTYConfig{Shell: "/bin/bash"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer t.Close()
//
//	for _, ev := range t.Process(chunk) {
//	    switch ev.Kind {
//	    case cterm.EventBell:
//	        beep()
//	    case cterm.EventTitleChanged:
//	        setWindowTitle(ev.Title)
//	    case cterm.EventProcessExited:
//	        return
//	    }
//	}
//
//	// Keyboard input is encoded according to the screen's current modes
//	// (application cursor keys, linefeed/newline) and written to the PTY:
//	t.Write(t.HandleKey(cterm.KeyEvent{Key: cterm.KeyUp}))
//
// # Dual Grids
//
// Screen maintains two buffers:
//
//   - Primary buffer: normal mode with optional scrollback storage
//   - Alternate buffer: used by full-screen apps (vim, less, htop), no scrollback
//
// Applications switch buffers via ANSI sequences (CSI ?1049h/l). Check which
// buffer is active:
//
//	if term.IsAlternateScreen() {
//	    // Full-screen app is running
//	}
//
// # Cells and Attributes
//
// Each cell stores a character with styling information:
//
//	cell := term.Cell(row, col)
//	if cell != nil {
//	    fmt.Printf("Char: %c\n", cell.Char)
//	    fmt.Printf("Bold: %v\n", cell.HasFlag(cterm.CellFlagBold))
//	    fmt.Printf("FG: %v\n", cell.Fg)
//	    fmt.Printf("BG: %v\n", cell.Bg)
//	}
//
// Cell flags include: Bold, Dim, Italic, Underline, Blink, Reverse, Hidden, Strike.
//
// # Colors
//
// Colors are stored using Go's [image/color] interface. The package supports:
//
//   - Named colors (indices 0-15 for standard ANSI colors)
//   - 256-color palette (indices 0-255)
//   - True color (24-bit RGB via [color.RGBA])
//
// Cells keep colors as stored. Snapshots render them as "#rrggbb" strings,
// resolving named and indexed colors against the built-in palette.
//
// # Scrollback
//
// Lines scrolled off the top of the primary buffer can be stored for later access.
// Implement [ScrollbackProvider] or use the built-in memory storage:
//
//	// In-memory scrollback with 10000 line limit
//	storage := cterm.NewMemoryScrollback(10000)
//	term := cterm.NewScreen(cterm.WithScrollback(storage))
//
//	// Access scrollback
//	for i := 0; i < term.ScrollbackLen(); i++ {
//	    line := term.ScrollbackLine(i) // []Cell
//	}
//
// # Terminal Responses
//
// [ResponseProvider] writes terminal responses back to the driving side
// (cursor position reports, DA1/DA2, DSR, OSC 1337 user-var acks):
//
//	term := cterm.NewScreen(cterm.WithResponse(os.Stdout))
//
// # Providers
//
// Providers handle terminal events and queries. All are optional with no-op defaults:
//
//   - [BellProvider]: handles bell/beep events
//   - [TitleProvider]: handles window title changes (OSC 0/1/2)
//   - [ClipboardProvider]: handles clipboard operations (OSC 52)
//   - [NotificationProvider]: handles desktop notifications (OSC 99)
//   - [ScrollbackProvider]: stores lines scrolled off screen
//   - [RecordingProvider]: captures raw input for replay
//   - [SizeProvider]: provides pixel dimensions for queries
//   - [ShellIntegrationProvider]: handles semantic prompt marks (OSC 133)
//
// Example with providers:
//
//	term := cterm.NewScreen(
//	    cterm.WithResponse(os.Stdout),
//	    cterm.WithBell(&MyBellHandler{}),
//	    cterm.WithTitle(&MyTitleHandler{}),
//	)
//
// # Middleware
//
// Middleware intercepts ANSI handler calls for custom behavior:
//
//	mw := &cterm.Middleware{
//	    Input: func(r rune, next func(rune)) {
//	        log.Printf("Input: %c", r)
//	        next(r) // call default handler
//	    },
//	    Bell: func(next func()) {
//	        log.Println("Bell!")
//	        // don't call next() to suppress the bell
//	    },
//	}
//	term := cterm.NewScreen(cterm.WithMiddleware(mw))
//
// # Screen Modes
//
// Various terminal behaviors are controlled by mode flags:
//
//	term.HasMode(cterm.ModeLineWrap)       // auto line wrap enabled?
//	term.HasMode(cterm.ModeShowCursor)     // cursor visible?
//	term.HasMode(cterm.ModeBracketedPaste) // bracketed paste enabled?
//	term.HasMode(cterm.ModeCursorKeys)     // DECCKM application cursor keys?
//
// See [ScreenMode] for all available modes.
//
// # Dirty Tracking
//
// Track which cells changed for efficient rendering:
//
//	if term.HasDirty() {
//	    for _, pos := range term.DirtyCells() {
//	        // redraw cell at pos.Row, pos.Col
//	    }
//	    term.ClearDirty()
//	}
//
// # Selection
//
// Manage text selections for copy/paste, in character, word, or line mode:
//
//	term.SetSelectionMode(
//	    cterm.Position{Row: 0, Col: 0},
//	    cterm.Position{Row: 2, Col: 10},
//	    cterm.SelectionWord,
//	)
//	text := term.GetSelectedText()
//	term.ClearSelection()
//
// # Search
//
// Find text in the visible screen or scrollback, as a plain substring or a
// regular expression, returning the matched column range on each line:
//
//	for _, m := range term.Find("error", false, false) {
//	    fmt.Printf("Found at line %d, cols %d-%d\n", m.Line, m.StartCol, m.EndCol)
//	}
//
// # Snapshots
//
// Capture the terminal state for serialization or rendering:
//
//	// Text only (smallest)
//	snap := term.Snapshot(cterm.SnapshotDetailText)
//
//	// With style segments (good for HTML rendering)
//	snap := term.Snapshot(cterm.SnapshotDetailStyled)
//
//	// Full cell data (complete state, includes image references)
//	snap := term.Snapshot(cterm.SnapshotDetailFull)
//
//	// Convert to JSON
//	data, _ := json.Marshal(snap)
//
// Snapshot cell attributes are booleans: Underline is set for any of the
// five underline styles and Blink for either blink rate, without telling
// them apart. Snapshot cells carry no underline color and no image
// reference; image placements are listed in Snapshot.Images.
//
// # Image Support
//
// The terminal supports inline images via Sixel and Kitty graphics protocols,
// and streamed image transfers via iTerm2's OSC 1337 File= protocol:
//
//	// Check if images are enabled
//	if term.SixelEnabled() || term.KittyEnabled() {
//	    // process image sequences
//	}
//
//	// Access stored images
//	for _, placement := range term.ImagePlacements() {
//	    img := term.Image(placement.ImageID)
//	    // img.Data contains RGBA pixels
//	}
//
//	// Configure image memory budget
//	term.SetImageMaxMemory(100 * 1024 * 1024) // 100MB
//
// # Soft Fonts
//
// DECDLD-downloaded character sets (DRCS) are stored per charset slot.
// Printed characters are kept in cells as received; the screen does not
// substitute glyphs, and a renderer reads the font with SoftFont:
//
//	term.LoadSoftFont(cterm.CharsetIndex(0), params, data)
//	font, ok := term.SoftFont(cterm.CharsetIndex(0))
//
// # User Variables and Desktop Notifications
//
// iTerm2's OSC 1337 SetUserVar and Kitty's OSC 99 desktop notifications are
// both exposed directly and parsed from the wire:
//
//	name := term.GetUserVar("SHELL_PID")
//	term.SetNotificationProvider(&MyNotifier{})
//
// # Shell Integration
//
// Track shell prompts and command output (OSC 133):
//
//	term := cterm.NewScreen(
//	    cterm.WithShellIntegration(&MyHandler{}),
//	)
//
//	nextAbsRow := term.NextPromptRow(currentAbsRow, -1)
//	prevAbsRow := term.PrevPromptRow(currentAbsRow, -1)
//
//	// Get last command output
//	output := term.GetLastCommandOutput()
//
// # Auto-Resize Mode
//
// In auto-resize mode, the grid grows instead of scrolling:
//
//	term := cterm.NewScreen(cterm.WithAutoResize())
//
//	// Capture complete output without truncation
//	cmd.Stdout = term
//	cmd.Run()
//
//	// Grid has grown to fit all output
//	fmt.Printf("Total rows: %d\n", term.Rows())
//
// # Thread Safety
//
// All Screen and Terminal methods are safe for concurrent use. Internal
// locking protects state, but if you need to perform multiple operations
// atomically, use your own synchronization.
//
// # Supported ANSI Sequences
//
// The terminal supports a comprehensive set of ANSI escape sequences including:
//
//   - Cursor movement (CUU, CUD, CUF, CUB, CUP, HVP, etc.)
//   - Cursor save/restore (DECSC, DECRC)
//   - Erase commands (ED, EL, ECH)
//   - Insert/delete (ICH, DCH, IL, DL)
//   - Scrolling (SU, SD, DECSTBM)
//   - Character attributes (SGR) with full color support
//   - Screen modes (DECSET, DECRST)
//   - Device status reports (DSR)
//   - Alternate screen buffer
//   - Bracketed paste mode
//   - Mouse reporting
//   - Window title (OSC 0/1/2)
//   - Clipboard (OSC 52)
//   - Hyperlinks (OSC 8)
//   - Shell integration (OSC 133)
//   - Sixel and Kitty graphics, DECDLD soft fonts
//   - iTerm2 OSC 1337 (File= transfers, SetUserVar=)
//   - Kitty OSC 99 desktop notifications
//
// For the complete list of supported sequences, see the [go-ansicode] package
// documentation.
//
// [go-ansicode]: https://github.com/danielgatis/go-ansicode
package cterm
