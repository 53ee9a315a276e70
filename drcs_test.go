package cterm

import (
	"strings"
	"testing"
)

func TestNewSoftFont(t *testing.T) {
	f := NewSoftFont(8, 10)

	if f.Width != 8 || f.Height != 10 {
		t.Errorf("expected 8x10 matrix, got %dx%d", f.Width, f.Height)
	}
	if f.Glyphs == nil {
		t.Fatal("expected Glyphs map to be initialized")
	}
	if len(f.Glyphs) != 0 {
		t.Errorf("expected no glyphs defined yet, got %d", len(f.Glyphs))
	}
}

func TestSoftFontGlyphUndefined(t *testing.T) {
	f := NewSoftFont(6, 6)

	if rows, ok := f.Glyph('A'); ok || rows != nil {
		t.Errorf("expected undefined glyph lookup to return (nil, false), got (%v, %v)", rows, ok)
	}
}

func TestSoftFontGlyphDefined(t *testing.T) {
	f := NewSoftFont(6, 6)
	f.Glyphs['A'] = []uint32{1, 2, 3}

	rows, ok := f.Glyph('A')
	if !ok {
		t.Fatal("expected glyph to be defined")
	}
	if len(rows) != 3 || rows[0] != 1 || rows[1] != 2 || rows[2] != 3 {
		t.Errorf("unexpected rows: %v", rows)
	}
}

// solidColumnByte is the sixel byte that lights all six bits in a band
// (0x3F + 0x3F == '~').
const solidColumnByte = '~'

// dscs is a single-byte charset designator outside the sixel glyph alphabet
// (0x3F-0x7E), so ParseDECDLD strips it before decoding glyph columns.
const dscs = "%"

func TestParseDECDLDSingleGlyphSingleBand(t *testing.T) {
	// Pfn=0 Pcn=0 Pe=0 Pcmw=2 Pss=0 Pt=0 Pcmh=6 Pcss=0: a single 2x6 glyph
	// starting at SPACE (0x20), two solid columns.
	params := []int64{0, 0, 0, 2, 0, 0, 6, 0}
	data := []byte(dscs + string([]byte{solidColumnByte, solidColumnByte}))

	font, count, err := ParseDECDLD(params, data)
	if err != nil {
		t.Fatalf("ParseDECDLD: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 glyph defined, got %d", count)
	}

	rows, ok := font.Glyph(' ')
	if !ok {
		t.Fatal("expected glyph at SPACE to be defined")
	}
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows))
	}
	for r, row := range rows {
		if row != 0b11 {
			t.Errorf("row %d: expected both columns lit (0b11), got %b", r, row)
		}
	}
}

func TestParseDECDLDMultipleGlyphs(t *testing.T) {
	// Pcn=1 means start at code point 1, shifted to printable range (SPACE+1).
	params := []int64{0, 1, 0, 1, 0, 0, 6, 0}
	data := []byte(dscs + string([]byte{solidColumnByte}) + "/" + string([]byte{'?'}))

	font, count, err := ParseDECDLD(params, data)
	if err != nil {
		t.Fatalf("ParseDECDLD: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 glyphs defined, got %d", count)
	}

	first, ok := font.Glyph('!')
	if !ok {
		t.Fatal("expected first glyph defined")
	}
	if first[0] != 1 {
		t.Errorf("expected first glyph column lit, got %b", first[0])
	}

	second, ok := font.Glyph('"')
	if !ok {
		t.Fatal("expected second glyph defined")
	}
	for r, row := range second {
		if row != 0 {
			t.Errorf("row %d: expected blank column ('?' = no bits), got %b", r, row)
		}
	}
}

func TestParseDECDLDEmptyGlyphSkipsCodePoint(t *testing.T) {
	params := []int64{0, 0, 0, 1, 0, 0, 6, 0}
	data := []byte(dscs + "/" + string([]byte{solidColumnByte}))

	font, count, err := ParseDECDLD(params, data)
	if err != nil {
		t.Fatalf("ParseDECDLD: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 code points consumed (one empty), got %d", count)
	}
	if _, ok := font.Glyph(' '); ok {
		t.Error("expected empty glyph definition to leave SPACE undefined")
	}
	if _, ok := font.Glyph('!'); !ok {
		t.Error("expected the glyph after the empty slot to be defined")
	}
}

func TestParseDECDLDRepeatPrefix(t *testing.T) {
	params := []int64{0, 0, 0, 3, 0, 0, 6, 0}
	data := []byte(dscs + "!3" + string([]byte{solidColumnByte}))

	font, _, err := ParseDECDLD(params, data)
	if err != nil {
		t.Fatalf("ParseDECDLD: %v", err)
	}

	rows, ok := font.Glyph(' ')
	if !ok {
		t.Fatal("expected glyph to be defined")
	}
	for r, row := range rows {
		if row != 0b111 {
			t.Errorf("row %d: expected 3 repeated columns lit, got %b", r, row)
		}
	}
}

func TestParseDECDLDMultiBandTallGlyph(t *testing.T) {
	// Height 12 needs two 6-pixel bands separated by ';'.
	params := []int64{0, 0, 0, 1, 0, 0, 12, 0}
	data := []byte(dscs + string([]byte{solidColumnByte}) + ";" + string([]byte{solidColumnByte}))

	font, _, err := ParseDECDLD(params, data)
	if err != nil {
		t.Fatalf("ParseDECDLD: %v", err)
	}

	rows, ok := font.Glyph(' ')
	if !ok {
		t.Fatal("expected glyph to be defined")
	}
	if len(rows) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(rows))
	}
	for r, row := range rows {
		if row != 1 {
			t.Errorf("row %d: expected column lit in both bands, got %b", r, row)
		}
	}
}

func TestParseDECDLDDefaultsWhenParamsOmitted(t *testing.T) {
	font, _, err := ParseDECDLD(nil, []byte(dscs+string([]byte{solidColumnByte})))
	if err != nil {
		t.Fatalf("ParseDECDLD: %v", err)
	}
	if font.Width != 8 || font.Height != 10 {
		t.Errorf("expected default 8x10 matrix when Pcmw/Pcmh omitted, got %dx%d", font.Width, font.Height)
	}
}

func TestScreenLoadSoftFont(t *testing.T) {
	term := NewScreen()

	params := []int64{0, 0, 0, 1, 0, 0, 6, 0}
	data := []byte(dscs + string([]byte{solidColumnByte}))

	if err := term.LoadSoftFont(CharsetIndexG1, params, data); err != nil {
		t.Fatalf("LoadSoftFont: %v", err)
	}

	font, ok := term.SoftFont(CharsetIndexG1)
	if !ok {
		t.Fatal("expected soft font to be installed in G1")
	}
	if _, ok := font.Glyph(' '); !ok {
		t.Error("expected installed font to contain the parsed glyph")
	}

	if term.charsets[CharsetIndexG1] != CharsetDRCS {
		t.Errorf("expected G1 charset marked CharsetDRCS, got %v", term.charsets[CharsetIndexG1])
	}
}

func TestScreenSoftFontNotLoaded(t *testing.T) {
	term := NewScreen()

	if _, ok := term.SoftFont(CharsetIndexG2); ok {
		t.Error("expected no soft font installed by default")
	}
}

func TestLoadSoftFontMiddleware(t *testing.T) {
	middlewareCalled := false
	var interceptedIndex CharsetIndex

	term := NewScreen(WithMiddleware(&Middleware{
		LoadSoftFont: func(index CharsetIndex, params []int64, data []byte, next func(CharsetIndex, []int64, []byte)) {
			middlewareCalled = true
			interceptedIndex = index
			next(CharsetIndexG3, params, data)
		},
	}))

	params := []int64{0, 0, 0, 1, 0, 0, 6, 0}
	if err := term.LoadSoftFont(CharsetIndexG0, params, []byte(dscs+string([]byte{solidColumnByte}))); err != nil {
		t.Fatalf("LoadSoftFont: %v", err)
	}

	if !middlewareCalled {
		t.Error("expected middleware to be called")
	}
	if interceptedIndex != CharsetIndexG0 {
		t.Errorf("expected middleware to observe G0, got %v", interceptedIndex)
	}
	if _, ok := term.SoftFont(CharsetIndexG3); !ok {
		t.Error("expected the middleware's redirected index (G3) to receive the font")
	}
	if _, ok := term.SoftFont(CharsetIndexG0); ok {
		t.Error("expected the original index (G0) to be untouched since middleware redirected the load")
	}
}

func TestLoadSoftFontMiddlewareBlocks(t *testing.T) {
	term := NewScreen(WithMiddleware(&Middleware{
		LoadSoftFont: func(index CharsetIndex, params []int64, data []byte, next func(CharsetIndex, []int64, []byte)) {
			// don't call next - block the operation
		},
	}))

	params := []int64{0, 0, 0, 1, 0, 0, 6, 0}
	if err := term.LoadSoftFont(CharsetIndexG0, params, []byte(dscs+string([]byte{solidColumnByte}))); err != nil {
		t.Fatalf("LoadSoftFont: %v", err)
	}

	if _, ok := term.SoftFont(CharsetIndexG0); ok {
		t.Error("expected the load to be blocked by middleware")
	}
}

func TestScreenLoadSoftFontReplacesExisting(t *testing.T) {
	term := NewScreen()

	params := []int64{0, 0, 0, 1, 0, 0, 6, 0}
	if err := term.LoadSoftFont(CharsetIndexG0, params, []byte(dscs+string([]byte{solidColumnByte}))); err != nil {
		t.Fatalf("LoadSoftFont: %v", err)
	}
	if err := term.LoadSoftFont(CharsetIndexG0, params, []byte(dscs+string([]byte{'?'}))); err != nil {
		t.Fatalf("LoadSoftFont: %v", err)
	}

	font, ok := term.SoftFont(CharsetIndexG0)
	if !ok {
		t.Fatal("expected soft font to still be installed")
	}
	rows, _ := font.Glyph(' ')
	if rows[0] != 0 {
		t.Errorf("expected second LoadSoftFont call to replace the first, got %b", rows[0])
	}
}

// decdldSequence builds a complete "ESC P <params> { <data> ST" DECDLD wire
// sequence for feeding either drcsInterceptor.feed directly or Screen.Write.
func decdldSequence(params string, data []byte) []byte {
	var buf []byte
	buf = append(buf, 0x1b, 'P')
	buf = append(buf, params...)
	buf = append(buf, '{')
	buf = append(buf, data...)
	buf = append(buf, 0x1b, '\\')
	return buf
}

func TestDRCSInterceptorParsesDECDLD(t *testing.T) {
	in := &drcsInterceptor{loadIndex: CharsetIndexG1}
	seq := decdldSequence("0;0;0;1;0;0;6;0", []byte(dscs+string([]byte{solidColumnByte})))

	var req *drcsLoadRequest
	for _, b := range seq {
		_, r := in.feed(b)
		if r != nil {
			req = r
		}
	}

	if req == nil {
		t.Fatal("expected a completed DECDLD request")
	}
	if req.index != CharsetIndexG1 {
		t.Errorf("expected load index G1, got %v", req.index)
	}
	wantParams := []int64{0, 0, 0, 1, 0, 0, 6, 0}
	if len(req.params) != len(wantParams) {
		t.Fatalf("expected %d params, got %d", len(wantParams), len(req.params))
	}
	for i, p := range wantParams {
		if req.params[i] != p {
			t.Errorf("param %d: expected %d, got %d", i, p, req.params[i])
		}
	}
}

// TestDRCSInterceptorPassesThroughOtherDCS confirms a non-DECDLD DCS final
// byte (here the Sixel introducer, final byte 'q') is replayed byte-for-byte
// so the main decoder still sees it and can fire its own SixelReceived hook.
func TestDRCSInterceptorPassesThroughOtherDCS(t *testing.T) {
	in := &drcsInterceptor{loadIndex: CharsetIndexG1}
	seq := []byte{0x1b, 'P', '0', ';', '1', 'q', '#', '1', 0x1b, '\\'}

	var out []byte
	for _, b := range seq {
		pass, req := in.feed(b)
		out = append(out, pass...)
		if req != nil {
			t.Fatal("did not expect a DECDLD request from a Sixel DCS sequence")
		}
	}

	if string(out) != string(seq) {
		t.Errorf("expected the Sixel DCS sequence to pass through unchanged, got %q want %q", out, seq)
	}
}

func TestDRCSInterceptorPlainBytesPassThrough(t *testing.T) {
	in := &drcsInterceptor{loadIndex: CharsetIndexG1}

	var out []byte
	for _, b := range []byte("hello") {
		pass, req := in.feed(b)
		out = append(out, pass...)
		if req != nil {
			t.Fatal("did not expect a DECDLD request from plain text")
		}
	}

	if string(out) != "hello" {
		t.Errorf("expected plain bytes to pass through unchanged, got %q", out)
	}
}

// TestScreenWriteLoadsDECDLD confirms LoadSoftFont is reachable from the raw
// byte stream through Screen.Write, not just by calling LoadSoftFont
// directly — the DECDLD sequence is pulled off the wire by drcsInterceptor
// ahead of the main decoder and applied before Write returns.
func TestScreenWriteLoadsDECDLD(t *testing.T) {
	term := NewScreen()

	seq := decdldSequence("0;0;0;1;0;0;6;0", []byte(dscs+string([]byte{solidColumnByte})))
	if _, err := term.Write(seq); err != nil {
		t.Fatalf("Write: %v", err)
	}

	font, ok := term.SoftFont(CharsetIndexG1)
	if !ok {
		t.Fatal("expected Write to have installed a soft font in G1")
	}
	if _, ok := font.Glyph(' '); !ok {
		t.Error("expected installed font to contain the parsed glyph")
	}
}

// TestScreenWriteDECDLDDoesNotSwallowSurroundingText confirms the
// interceptor only steals the bytes belonging to the DECDLD sequence
// itself, leaving surrounding plain text to reach the grid normally.
func TestScreenWriteDECDLDDoesNotSwallowSurroundingText(t *testing.T) {
	term := NewScreen(WithSize(3, 80))

	var data []byte
	data = append(data, []byte("AB")...)
	data = append(data, decdldSequence("0;0;0;1;0;0;6;0", []byte(dscs+string([]byte{solidColumnByte})))...)
	data = append(data, []byte("CD")...)

	if _, err := term.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if _, ok := term.SoftFont(CharsetIndexG1); !ok {
		t.Fatal("expected the embedded DECDLD sequence to still install a soft font")
	}
	if got := term.LineContent(0); !strings.HasPrefix(got, "ABCD") {
		t.Errorf("expected surrounding text 'ABCD' to reach the grid untouched, got %q", got)
	}
}
