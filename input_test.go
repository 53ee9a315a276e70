package cterm

import (
	"bytes"
	"testing"
)

func TestEncodeKeyPlainRune(t *testing.T) {
	out := EncodeKey(KeyEvent{Key: KeyRune, Rune: 'a'}, false, false)
	if !bytes.Equal(out, []byte("a")) {
		t.Errorf("expected 'a', got %q", out)
	}
}

func TestEncodeKeyCtrlLetter(t *testing.T) {
	out := EncodeKey(KeyEvent{Key: KeyRune, Rune: 'c', Mods: ModCtrl}, false, false)
	if !bytes.Equal(out, []byte{0x03}) {
		t.Errorf("expected ETX (0x03), got %v", out)
	}
}

func TestEncodeKeyCtrlSpecialPunctuation(t *testing.T) {
	cases := map[rune]byte{
		'[':  0x1b,
		'\\': 0x1c,
		']':  0x1d,
		'^':  0x1e,
		'_':  0x1f,
		' ':  0x00,
		'?':  0x7f,
	}
	for r, want := range cases {
		out := EncodeKey(KeyEvent{Key: KeyRune, Rune: r, Mods: ModCtrl}, false, false)
		if len(out) != 1 || out[0] != want {
			t.Errorf("ctrl+%q: expected %#x, got %v", r, want, out)
		}
	}
}

func TestEncodeKeyAltPrefixesEscape(t *testing.T) {
	out := EncodeKey(KeyEvent{Key: KeyRune, Rune: 'x', Mods: ModAlt}, false, false)
	if !bytes.Equal(out, []byte{0x1b, 'x'}) {
		t.Errorf("expected ESC x, got %v", out)
	}
}

func TestEncodeKeyBareSuperReturnsNil(t *testing.T) {
	out := EncodeKey(KeyEvent{Key: KeyRune, Rune: 'a', Mods: ModSuper}, false, false)
	if out != nil {
		t.Errorf("expected nil for bare super chord, got %v", out)
	}
}

func TestEncodeKeyArrowsRespectDECCKM(t *testing.T) {
	normal := EncodeKey(KeyEvent{Key: KeyUp}, false, false)
	if !bytes.Equal(normal, []byte("\x1b[A")) {
		t.Errorf("expected CSI A in normal mode, got %q", normal)
	}

	application := EncodeKey(KeyEvent{Key: KeyUp}, true, false)
	if !bytes.Equal(application, []byte("\x1bOA")) {
		t.Errorf("expected SS3 A in application mode, got %q", application)
	}
}

func TestEncodeKeyArrowWithModifier(t *testing.T) {
	out := EncodeKey(KeyEvent{Key: KeyRight, Mods: ModShift}, false, false)
	if !bytes.Equal(out, []byte("\x1b[1;2C")) {
		t.Errorf("expected CSI 1;2 C, got %q", out)
	}
}

func TestEncodeKeyHomeEnd(t *testing.T) {
	home := EncodeKey(KeyEvent{Key: KeyHome}, false, false)
	if !bytes.Equal(home, []byte("\x1b[H")) {
		t.Errorf("expected CSI H, got %q", home)
	}
	end := EncodeKey(KeyEvent{Key: KeyEnd}, true, false)
	if !bytes.Equal(end, []byte("\x1bOF")) {
		t.Errorf("expected SS3 F in application mode, got %q", end)
	}
}

func TestEncodeKeyFunctionKeysLowVsHigh(t *testing.T) {
	f1 := EncodeKey(KeyEvent{Key: KeyF1}, false, false)
	if !bytes.Equal(f1, []byte("\x1bOP")) {
		t.Errorf("expected SS3 P for F1, got %q", f1)
	}

	f5 := EncodeKey(KeyEvent{Key: KeyF5}, false, false)
	if !bytes.Equal(f5, []byte("\x1b[15~")) {
		t.Errorf("expected CSI 15~ for F5, got %q", f5)
	}

	f1Ctrl := EncodeKey(KeyEvent{Key: KeyF1, Mods: ModCtrl}, false, false)
	if !bytes.Equal(f1Ctrl, []byte("\x1b[1;5P")) {
		t.Errorf("expected CSI 1;5 P for ctrl+F1, got %q", f1Ctrl)
	}
}

func TestEncodeKeyPageAndEditKeys(t *testing.T) {
	pgUp := EncodeKey(KeyEvent{Key: KeyPageUp}, false, false)
	if !bytes.Equal(pgUp, []byte("\x1b[5~")) {
		t.Errorf("expected CSI 5~, got %q", pgUp)
	}
	del := EncodeKey(KeyEvent{Key: KeyDelete, Mods: ModCtrl}, false, false)
	if !bytes.Equal(del, []byte("\x1b[3;5~")) {
		t.Errorf("expected CSI 3;5~ for ctrl+delete, got %q", del)
	}
}

func TestEncodeKeyEnterRespectsLNM(t *testing.T) {
	cr := EncodeKey(KeyEvent{Key: KeyEnter}, false, false)
	if !bytes.Equal(cr, []byte{0x0d}) {
		t.Errorf("expected bare CR, got %v", cr)
	}
	crlf := EncodeKey(KeyEvent{Key: KeyEnter}, false, true)
	if !bytes.Equal(crlf, []byte{0x0d, 0x0a}) {
		t.Errorf("expected CR LF under LNM, got %v", crlf)
	}
}

func TestEncodeKeyBackspaceAndTab(t *testing.T) {
	bs := EncodeKey(KeyEvent{Key: KeyBackspace}, false, false)
	if !bytes.Equal(bs, []byte{0x7f}) {
		t.Errorf("expected DEL, got %v", bs)
	}

	tab := EncodeKey(KeyEvent{Key: KeyTab}, false, false)
	if !bytes.Equal(tab, []byte{0x09}) {
		t.Errorf("expected TAB, got %v", tab)
	}

	shiftTab := EncodeKey(KeyEvent{Key: KeyTab, Mods: ModShift}, false, false)
	if !bytes.Equal(shiftTab, []byte("\x1b[Z")) {
		t.Errorf("expected CSI Z for shift+tab, got %q", shiftTab)
	}
}

func TestWrapBracketedPaste(t *testing.T) {
	out := WrapBracketedPaste([]byte("hello"))
	want := "\x1b[200~hello\x1b[201~"
	if string(out) != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}
