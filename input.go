package cterm

import "strconv"

// Key identifies a logical keyboard key the input encoder understands.
// It deliberately mirrors a physical keyboard rather than a rune, since
// several keys (arrows, function keys, Home/End) have no rune of their own.
type Key int

const (
	KeyUnknown Key = iota
	KeyRune        // Rune holds the actual character (letters, digits, punctuation, space)
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyBackspace
	KeyEnter
	KeyTab
	KeyEscape
)

// Modifiers is a bitmask of keyboard modifier keys held during a key event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModCtrl
	ModSuper
)

// KeyEvent describes one key press to be encoded into PTY input bytes.
type KeyEvent struct {
	Key  Key
	Rune rune // valid when Key == KeyRune
	Mods Modifiers
}

var ctrlSpecialBytes = map[rune]byte{
	'[': 0x1b, '3': 0x1b,
	'\\': 0x1c, '4': 0x1c,
	']': 0x1d, '5': 0x1d,
	'^': 0x1e, '6': 0x1e,
	'_': 0x1f, '7': 0x1f, '/': 0x1f,
	' ': 0x00, '2': 0x00, '@': 0x00,
	'?': 0x7f, '8': 0x7f,
}

// EncodeKey translates a key event into the byte sequence a real terminal
// would send to the child process, given whether application cursor-key
// mode (DECCKM) and newline mode (LNM) are currently active. It returns
// nil for keys that the host should handle itself (bare ModSuper chords).
func EncodeKey(ev KeyEvent, applicationCursorKeys, lineFeedNewLine bool) []byte {
	if ev.Mods&ModSuper != 0 && ev.Mods&^ModSuper == 0 {
		return nil
	}

	switch ev.Key {
	case KeyRune:
		return encodeRune(ev.Rune, ev.Mods)
	case KeyEnter:
		if lineFeedNewLine {
			return []byte{0x0d, 0x0a}
		}
		return []byte{0x0d}
	case KeyBackspace:
		return []byte{0x7f}
	case KeyTab:
		if ev.Mods&ModShift != 0 {
			return []byte("\x1b[Z")
		}
		return []byte{0x09}
	case KeyEscape:
		return []byte{0x1b}
	case KeyUp:
		return encodeCursorKey('A', ev.Mods, applicationCursorKeys)
	case KeyDown:
		return encodeCursorKey('B', ev.Mods, applicationCursorKeys)
	case KeyRight:
		return encodeCursorKey('C', ev.Mods, applicationCursorKeys)
	case KeyLeft:
		return encodeCursorKey('D', ev.Mods, applicationCursorKeys)
	case KeyHome:
		return encodeCursorKey('H', ev.Mods, applicationCursorKeys)
	case KeyEnd:
		return encodeCursorKey('F', ev.Mods, applicationCursorKeys)
	case KeyF1:
		return encodeFunctionKeyLow('P', ev.Mods)
	case KeyF2:
		return encodeFunctionKeyLow('Q', ev.Mods)
	case KeyF3:
		return encodeFunctionKeyLow('R', ev.Mods)
	case KeyF4:
		return encodeFunctionKeyLow('S', ev.Mods)
	case KeyF5:
		return encodeFunctionKeyHigh(15, ev.Mods)
	case KeyF6:
		return encodeFunctionKeyHigh(17, ev.Mods)
	case KeyF7:
		return encodeFunctionKeyHigh(18, ev.Mods)
	case KeyF8:
		return encodeFunctionKeyHigh(19, ev.Mods)
	case KeyF9:
		return encodeFunctionKeyHigh(20, ev.Mods)
	case KeyF10:
		return encodeFunctionKeyHigh(21, ev.Mods)
	case KeyF11:
		return encodeFunctionKeyHigh(23, ev.Mods)
	case KeyF12:
		return encodeFunctionKeyHigh(24, ev.Mods)
	case KeyPageUp:
		return encodeTildeKey(5, ev.Mods)
	case KeyPageDown:
		return encodeTildeKey(6, ev.Mods)
	case KeyInsert:
		return encodeTildeKey(2, ev.Mods)
	case KeyDelete:
		return encodeTildeKey(3, ev.Mods)
	}
	return nil
}

func encodeRune(r rune, mods Modifiers) []byte {
	if mods&ModCtrl != 0 && mods&ModAlt == 0 {
		lower := r
		if lower >= 'A' && lower <= 'Z' {
			lower = lower - 'A' + 'a'
		}
		if b, ok := ctrlSpecialBytes[lower]; ok {
			return []byte{b}
		}
		if lower >= 'a' && lower <= 'z' {
			return []byte{byte(lower-'a') + 1}
		}
	}

	if mods&ModAlt != 0 {
		out := []byte{0x1b}
		return append(out, []byte(string(r))...)
	}

	return []byte(string(r))
}

// modifierParam computes the CSI modifier parameter:
// 1 + shift(1) + alt(2) + ctrl(4) + super(8).
func modifierParam(mods Modifiers) int {
	n := 1
	if mods&ModShift != 0 {
		n += 1
	}
	if mods&ModAlt != 0 {
		n += 2
	}
	if mods&ModCtrl != 0 {
		n += 4
	}
	if mods&ModSuper != 0 {
		n += 8
	}
	return n
}

func encodeCursorKey(final byte, mods Modifiers, applicationCursorKeys bool) []byte {
	if mods == 0 {
		if applicationCursorKeys {
			return []byte{0x1b, 'O', final}
		}
		return []byte{0x1b, '[', final}
	}
	return []byte("\x1b[1;" + strconv.Itoa(modifierParam(mods)) + string(final))
}

func encodeFunctionKeyLow(final byte, mods Modifiers) []byte {
	if mods == 0 {
		return []byte{0x1b, 'O', final}
	}
	return []byte("\x1b[1;" + strconv.Itoa(modifierParam(mods)) + string(final))
}

func encodeFunctionKeyHigh(num int, mods Modifiers) []byte {
	return encodeTildeKey(num, mods)
}

func encodeTildeKey(num int, mods Modifiers) []byte {
	if mods == 0 {
		return []byte("\x1b[" + strconv.Itoa(num) + "~")
	}
	return []byte("\x1b[" + strconv.Itoa(num) + ";" + strconv.Itoa(modifierParam(mods)) + "~")
}

// WrapBracketedPaste wraps text in the bracketed-paste markers. Callers
// (the Terminal layer, or a host feeding clipboard content to the PTY)
// invoke this only when ModeBracketedPaste is active on the Screen.
func WrapBracketedPaste(text []byte) []byte {
	out := make([]byte, 0, len(text)+12)
	out = append(out, "\x1b[200~"...)
	out = append(out, text...)
	out = append(out, "\x1b[201~"...)
	return out
}
