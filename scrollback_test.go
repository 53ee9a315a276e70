package cterm

import "testing"

func makeLine(r rune) []Cell {
	return []Cell{{Char: r}}
}

func TestMemoryScrollbackPushAndLen(t *testing.T) {
	s := NewMemoryScrollback(3)

	s.Push(makeLine('A'))
	s.Push(makeLine('B'))

	if s.Len() != 2 {
		t.Errorf("expected 2 lines, got %d", s.Len())
	}
	if s.Line(0)[0].Char != 'A' {
		t.Errorf("expected 'A' at index 0, got '%c'", s.Line(0)[0].Char)
	}
}

func TestMemoryScrollbackEviction(t *testing.T) {
	s := NewMemoryScrollback(2)

	s.Push(makeLine('A'))
	s.Push(makeLine('B'))
	s.Push(makeLine('C'))

	if s.Len() != 2 {
		t.Fatalf("expected capacity to cap at 2, got %d", s.Len())
	}
	if s.Line(0)[0].Char != 'B' {
		t.Errorf("expected oldest line evicted, got '%c' at 0", s.Line(0)[0].Char)
	}
	if s.Line(1)[0].Char != 'C' {
		t.Errorf("expected 'C' at 1, got '%c'", s.Line(1)[0].Char)
	}
}

func TestMemoryScrollbackUnbounded(t *testing.T) {
	s := NewMemoryScrollback(0)

	for i := 0; i < 10; i++ {
		s.Push(makeLine(rune('0' + i)))
	}

	if s.Len() != 10 {
		t.Errorf("expected unbounded growth, got %d lines", s.Len())
	}
}

func TestMemoryScrollbackOutOfRange(t *testing.T) {
	s := NewMemoryScrollback(5)
	s.Push(makeLine('A'))

	if s.Line(-1) != nil {
		t.Error("expected nil for negative index")
	}
	if s.Line(5) != nil {
		t.Error("expected nil for index beyond length")
	}
}

func TestMemoryScrollbackClear(t *testing.T) {
	s := NewMemoryScrollback(5)
	s.Push(makeLine('A'))
	s.Push(makeLine('B'))

	s.Clear()

	if s.Len() != 0 {
		t.Errorf("expected 0 lines after clear, got %d", s.Len())
	}
}

func TestMemoryScrollbackSetMaxLinesTrims(t *testing.T) {
	s := NewMemoryScrollback(0)
	for i := 0; i < 5; i++ {
		s.Push(makeLine(rune('A' + i)))
	}

	s.SetMaxLines(2)

	if s.Len() != 2 {
		t.Fatalf("expected trimming to 2 lines, got %d", s.Len())
	}
	if s.Line(0)[0].Char != 'D' {
		t.Errorf("expected 'D' to survive trim, got '%c'", s.Line(0)[0].Char)
	}
	if s.MaxLines() != 2 {
		t.Errorf("expected MaxLines 2, got %d", s.MaxLines())
	}
}
