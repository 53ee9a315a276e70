package cterm

import (
	"bytes"
	"strings"
)

// SoftFont is a dynamically redefinable character set loaded via DECDLD
// (DCS Pfn;Pcn;Pe;Pcmw;Pss;Pt;Pcmh;Pcss{ Dscs sixel-glyph-data ST).
//
// Each glyph is stored as a row-major bitmap: Glyphs[r] is one pixel row,
// bit i (from the left) set means the pixel at column i is lit. Width and
// Height give the character matrix size in pixels, matching Pcmw/Pcmh.
type SoftFont struct {
	Width   int
	Height  int
	Glyphs  map[rune][]uint32 // rune -> rows of column bits (LSB = leftmost column)
}

// NewSoftFont creates an empty soft font with the given character matrix size.
func NewSoftFont(width, height int) *SoftFont {
	return &SoftFont{
		Width:  width,
		Height: height,
		Glyphs: make(map[rune][]uint32),
	}
}

// Glyph returns the bitmap rows for r, and whether r has been defined.
func (f *SoftFont) Glyph(r rune) ([]uint32, bool) {
	rows, ok := f.Glyphs[r]
	return rows, ok
}

// ParseDECDLD decodes a DECDLD data string into a SoftFont.
//
// params holds the numeric DCS parameters in order: Pfn, Pcn, Pe, Pcmw, Pss,
// Pt, Pcmh, Pcss (trailing omitted parameters default to 0). data is the
// string argument following the introducer, i.e. everything between the DCS
// parameters and the final ST, starting with the Dscs charset designator
// byte(s) followed by one glyph definition per character, separated by '/'.
//
// Glyph columns are encoded exactly like Sixel graphics data: each byte in
// range 0x3F-0x7E encodes up to six vertically stacked pixels (bit 0 is the
// topmost of the six), read left to right as successive columns. A glyph
// taller than six pixels repeats the pattern for the next six-pixel band,
// separated by ';'.
func ParseDECDLD(params []int64, data []byte) (*SoftFont, int, error) {
	get := func(i int) int64 {
		if i < len(params) {
			return params[i]
		}
		return 0
	}

	startChar := int(get(1)) + 32 // Pcn: 0 means start at SPACE (0x20)... DEC numbers chars from 0
	if startChar < 32 {
		startChar = 32
	}
	cmw := int(get(3))
	if cmw <= 0 {
		cmw = 8
	}
	cmh := int(get(6))
	if cmh <= 0 {
		cmh = 10
	}

	// Dscs charset designator is the leading 2-3 bytes of data that are not
	// part of the sixel glyph alphabet (0x3F-0x7E overlaps, so DECDLD
	// requires Dscs to come first and be consumed positionally instead).
	// Real terminals fix Dscs length by its own encoding rules; here only a
	// single leading byte outside '0'..'~' (an intermediate) is stripped. A
	// final designator byte is not stripped and is parsed as glyph data.
	rest := data
	if len(rest) > 0 && (rest[0] < '0' || rest[0] > '~') {
		rest = rest[1:]
	}

	font := NewSoftFont(cmw, cmh)

	glyphDefs := strings.Split(string(rest), "/")
	code := startChar
	for _, def := range glyphDefs {
		if def == "" {
			code++
			continue
		}
		rows := decodeGlyphColumns(def, cmw, cmh)
		font.Glyphs[rune(code)] = rows
		code++
	}

	return font, code - startChar, nil
}

// decodeGlyphColumns decodes one glyph's sixel-style column data into
// row-major bitmap rows, width wide and height tall.
func decodeGlyphColumns(def string, width, height int) []uint32 {
	rows := make([]uint32, height)
	col := 0
	rowBand := 0

	i := 0
	for i < len(def) {
		b := def[i]
		switch b {
		case ';':
			rowBand += 6
			col = 0
			i++
			continue
		case '!':
			// Repeat count prefix: !<count><char>
			j := i + 1
			n := 0
			for j < len(def) && def[j] >= '0' && def[j] <= '9' {
				n = n*10 + int(def[j]-'0')
				j++
			}
			if j < len(def) {
				setGlyphColumn(rows, col, rowBand, def[j], height)
				col++
				for k := 1; k < n; k++ {
					setGlyphColumn(rows, col, rowBand, def[j], height)
					col++
				}
				i = j + 1
			} else {
				i = j
			}
			continue
		}

		if b >= '?' && b <= '~' {
			setGlyphColumn(rows, col, rowBand, b, height)
			col++
		}
		i++
	}

	return rows
}

func setGlyphColumn(rows []uint32, col, rowBand int, b byte, height int) {
	bits := int(b) - '?'
	for bit := 0; bit < 6; bit++ {
		row := rowBand + bit
		if row >= height {
			continue
		}
		if bits&(1<<uint(bit)) != 0 {
			rows[row] |= 1 << uint(col)
		}
	}
}

// --- Screen wiring ---

// LoadSoftFont installs a DECDLD-defined character set into slot index,
// replacing any font previously loaded there, and marks that slot as
// CharsetDRCS. Characters printed while the slot is active are stored in
// cells as received: the Screen does not map them through the soft font's
// glyph table. Renderers read the glyphs with SoftFont.
//
// Like SixelReceived/DesktopNotification/SetUserVar, a Middleware.LoadSoftFont
// hook gets first refusal and can call next to fall through to the default
// install.
func (t *Screen) LoadSoftFont(index CharsetIndex, params []int64, data []byte) error {
	if t.middleware != nil && t.middleware.LoadSoftFont != nil {
		var err error
		t.middleware.LoadSoftFont(index, params, data, func(i CharsetIndex, p []int64, d []byte) {
			err = t.loadSoftFontDirect(i, p, d)
		})
		return err
	}
	return t.loadSoftFontDirect(index, params, data)
}

// loadSoftFontDirect performs the actual DECDLD parse + install, bypassing
// Middleware — the function a Middleware.LoadSoftFont hook's next callback
// invokes.
func (t *Screen) loadSoftFontDirect(index CharsetIndex, params []int64, data []byte) error {
	font, _, err := ParseDECDLD(params, data)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.softFonts == nil {
		t.softFonts = make(map[CharsetIndex]*SoftFont)
	}
	t.softFonts[index] = font
	t.charsets[index] = CharsetDRCS
	return nil
}

// SoftFont returns the soft font loaded into charset slot index, if any.
func (t *Screen) SoftFont(index CharsetIndex) (*SoftFont, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	f, ok := t.softFonts[index]
	return f, ok
}

// loadSoftFontInternal applies a DECDLD load pulled off the wire by
// drcsInterceptor. Malformed data is dropped silently, matching
// sixelReceivedInternal's handling of unparsable Sixel payloads.
func (t *Screen) loadSoftFontInternal(index CharsetIndex, params []int64, data []byte) {
	t.LoadSoftFont(index, params, data)
}

// --- wire-level DECDLD interception ---

// drcsLoadRequest is a complete DCS DECDLD sequence pulled off the byte
// stream by drcsInterceptor, ready for ParseDECDLD/LoadSoftFont.
type drcsLoadRequest struct {
	index  CharsetIndex
	params []int64
	data   []byte
}

type drcsInterceptorState int

const (
	drcsNone drcsInterceptorState = iota
	drcsSawEsc
	drcsInParams // accumulating "Pfn;Pcn;...;Pcss" ahead of the final byte
	drcsInData   // final byte was '{' (DECDLD); buffering payload up to ST/BEL
	drcsNotOurs  // final byte was something else (e.g. 'q', Sixel); passthrough
)

// drcsInterceptor shadows the raw PTY stream ahead of the main ANSI
// decoder, watching specifically for "ESC P Pfn;Pcn;...{ Dscs... ST" (DECDLD)
// the same way osc1337Interceptor watches for "ESC ] 1337 ;
// File=". ansicode.Handler only exposes a named hook for the one DCS
// subtype it parses itself (Sixel, via SixelReceived on final byte 'q');
// any DCS sequence whose final byte isn't 'q' passes through this
// interceptor untouched, so Sixel dispatch is unaffected.
type drcsInterceptor struct {
	state     drcsInterceptorState
	paramsBuf bytes.Buffer
	dataBuf   bytes.Buffer

	// loadIndex is the charset slot a completed DECDLD installs into. Real
	// terminals pick G0-G3 from the Dscs designator bytes in the data
	// itself; this module simplifies to always targeting G1, the slot a
	// host would conventionally designate to the soft font with a
	// following SCS sequence.
	loadIndex CharsetIndex
}

// feed processes one input byte, returning bytes to forward to the
// Screen's decoder verbatim (nil when the byte was consumed) and, once a
// full DECDLD sequence has been buffered, the completed request.
func (d *drcsInterceptor) feed(b byte) (pass []byte, req *drcsLoadRequest) {
	switch d.state {
	case drcsNone:
		if b == 0x1b {
			d.state = drcsSawEsc
			return nil, nil
		}
		return []byte{b}, nil

	case drcsSawEsc:
		if b == 'P' {
			d.state = drcsInParams
			d.paramsBuf.Reset()
			return nil, nil
		}
		d.state = drcsNone
		return []byte{0x1b, b}, nil

	case drcsInParams:
		if b == '{' {
			d.state = drcsInData
			d.dataBuf.Reset()
			return nil, nil
		}
		if b == ';' || (b >= '0' && b <= '9') {
			d.paramsBuf.WriteByte(b)
			return nil, nil
		}
		// Not DECDLD (e.g. the 'q' of a Sixel DCS). Flush the preamble once
		// and fall back to a pure byte-for-byte passthrough so ansicode's
		// own DCS handling (SixelReceived) still fires for it.
		d.state = drcsNotOurs
		return d.flushPreamble(b), nil

	case drcsInData:
		if b == 0x07 || b == 0x1b {
			req = d.finish()
			d.state = drcsNone
			if b == 0x1b {
				d.state = drcsSawEsc
			}
			return nil, req
		}
		d.dataBuf.WriteByte(b)
		return nil, nil

	case drcsNotOurs:
		if b == 0x07 {
			d.state = drcsNone
		} else if b == 0x1b {
			d.state = drcsNone
			return []byte{b}, nil
		}
		return []byte{b}, nil
	}

	return nil, nil
}

// flushPreamble replays "ESC P" plus whatever params were buffered plus b,
// the one-time cost of discovering mid-sequence that this DCS isn't DECDLD.
func (d *drcsInterceptor) flushPreamble(b byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(0x1b)
	buf.WriteByte('P')
	buf.Write(d.paramsBuf.Bytes())
	buf.WriteByte(b)
	return buf.Bytes()
}

func (d *drcsInterceptor) finish() *drcsLoadRequest {
	params := parseDCSParams(d.paramsBuf.String())
	data := make([]byte, d.dataBuf.Len())
	copy(data, d.dataBuf.Bytes())
	return &drcsLoadRequest{index: d.loadIndex, params: params, data: data}
}

// parseDCSParams splits a ';'-separated DCS parameter string into int64s,
// treating empty fields (including an entirely empty string) as 0.
func parseDCSParams(s string) []int64 {
	if s == "" {
		return nil
	}
	fields := strings.Split(s, ";")
	params := make([]int64, len(fields))
	for i, f := range fields {
		var n int64
		for _, c := range f {
			if c < '0' || c > '9' {
				n = 0
				break
			}
			n = n*10 + int64(c-'0')
		}
		params[i] = n
	}
	return params
}
