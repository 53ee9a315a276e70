package cterm

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strconv"
	"strings"
)

// iTermFileTransferSpillThreshold is the accumulated base64 byte count above
// which a streamed OSC 1337 File= payload spills from memory to a temp
// file rather than growing an in-memory buffer without bound.
const iTermFileTransferSpillThreshold = 8 * 1024 * 1024

// osc1337State is the state of the byte-stealing interceptor that shadows
// the raw PTY stream ahead of the main ANSI decoder, watching specifically
// for "ESC ] 1337 ; File= ... BEL|ST" so that arbitrarily large inline
// image / file-transfer payloads never have to pass through the general
// purpose OSC buffer of the main parser.
type osc1337State int

const (
	osc1337None osc1337State = iota
	osc1337SawEsc
	osc1337InCommand // buffering "1337;" prefix check
	osc1337InParams  // buffering "key=val;..." up to the ':' before data
	osc1337InData    // streaming base64 payload
	osc1337NotOurs   // this OSC isn't 1337; pass every byte straight through
)

// FileTransfer describes a completed OSC 1337 File= payload.
type FileTransfer struct {
	Name    string
	Size    int64
	Inline  bool
	Width   string // e.g. "auto", "50%", "10"
	Height  string
	Image   image.Image // decoded only when Inline is true and decoding succeeds
	// SpillPath is set instead of Data when the payload exceeded the
	// in-memory spill threshold; the caller is responsible for cleaning it
	// up once done.
	SpillPath string
	Data      []byte
}

// UserVar is a completed "ESC ] 1337 ; SetUserVar=NAME=BASE64VALUE" update.
type UserVar struct {
	Name  string
	Value string
}

// osc1337Interceptor implements the small parallel state machine described
// above. Screen feeds it one byte at a time ahead of its ansicode.Decoder,
// since neither the File= streaming transfer nor the SetUserVar= assignment
// are part of the general-purpose ANSI/VT vocabulary.
type osc1337Interceptor struct {
	state osc1337State

	cmdBuf    bytes.Buffer // accumulates "1337" digits while checking prefix
	paramsBuf bytes.Buffer // accumulates "Name=..;Size=..;..." text
	dataBuf   bytes.Buffer // in-memory payload accumulator
	spillFile *os.File
	spillSize int64

	pending FileTransfer
}

// feed processes one input byte. It returns:
//   - pass: bytes that should be forwarded to the Screen's decoder verbatim
//     (nil/empty when the byte was consumed by the interceptor)
//   - transfer: non-nil when a complete File= payload just finished
//   - userVar: non-nil when a complete SetUserVar= assignment just finished
func (o *osc1337Interceptor) feed(b byte) (pass []byte, transfer *FileTransfer, userVar *UserVar) {
	switch o.state {
	case osc1337None:
		if b == 0x1b {
			o.state = osc1337SawEsc
			return nil, nil, nil
		}
		return []byte{b}, nil, nil

	case osc1337SawEsc:
		if b == ']' {
			o.state = osc1337InCommand
			o.cmdBuf.Reset()
			return nil, nil, nil
		}
		// Not an OSC introducer; replay both bytes unmodified.
		o.state = osc1337None
		return []byte{0x1b, b}, nil, nil

	case osc1337InCommand:
		if b == ';' {
			if o.cmdBuf.String() == "1337" {
				o.state = osc1337InParams
				o.paramsBuf.Reset()
				return nil, nil, nil
			}
			o.state = osc1337NotOurs
			return o.replayNotOurs(b), nil, nil
		}
		if b >= '0' && b <= '9' {
			o.cmdBuf.WriteByte(b)
			return nil, nil, nil
		}
		// Any other byte means this isn't the literal numeric "1337"
		// command; bail out and replay everything seen so far.
		o.state = osc1337NotOurs
		return o.replayNotOurs(b), nil, nil

	case osc1337InParams:
		if b == ':' {
			if o.parseFileParams(o.paramsBuf.String()) {
				o.state = osc1337InData
				o.dataBuf.Reset()
				o.spillSize = 0
				return nil, nil, nil
			}
			o.state = osc1337NotOurs
			return o.replayNotOurs(b), nil, nil
		}
		if b == 0x07 || b == 0x1b {
			uv := parseUserVar(o.paramsBuf.String())
			o.state = osc1337None
			if b == 0x1b {
				o.state = osc1337SawEsc
			}
			if uv != nil {
				return nil, nil, uv
			}
			// Params without a File= or SetUserVar= payload; not this
			// interceptor's concern, replay untouched.
			o.state = osc1337NotOurs
			return o.replayNotOurs(b), nil, nil
		}
		o.paramsBuf.WriteByte(b)
		return nil, nil, nil

	case osc1337InData:
		if b == 0x07 || b == 0x1b {
			t := o.finishTransfer()
			o.state = osc1337None
			if b == 0x1b {
				o.state = osc1337SawEsc
			}
			return nil, t, nil
		}
		o.appendData(b)
		return nil, nil, nil

	case osc1337NotOurs:
		return o.replayNotOurs(b), nil, nil
	}

	return nil, nil, nil
}

// parseUserVar recognizes "SetUserVar=NAME=BASE64VALUE" and returns nil if
// params doesn't match that shape or the value isn't valid base64.
func parseUserVar(params string) *UserVar {
	const prefix = "SetUserVar="
	if !strings.HasPrefix(params, prefix) {
		return nil
	}
	rest := params[len(prefix):]
	eq := strings.IndexByte(rest, '=')
	if eq < 0 {
		return nil
	}
	name, encoded := rest[:eq], rest[eq+1:]
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	return &UserVar{Name: name, Value: string(decoded)}
}

// replayNotOurs flushes everything buffered so far (as a normal OSC 1337
// passthrough) plus the byte that disqualified fast-path handling, then
// resets to the idle state once the terminator arrives.
func (o *osc1337Interceptor) replayNotOurs(b byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(0x1b)
	buf.WriteByte(']')
	buf.Write(o.cmdBuf.Bytes())
	if o.paramsBuf.Len() > 0 {
		buf.WriteByte(';')
		buf.Write(o.paramsBuf.Bytes())
	}
	buf.WriteByte(b)
	if b == 0x07 || b == 0x1b {
		o.state = osc1337None
	}
	return buf.Bytes()
}

func (o *osc1337Interceptor) parseFileParams(params string) bool {
	o.pending = FileTransfer{Width: "auto", Height: "auto"}
	if !strings.HasPrefix(params, "File=") {
		return false
	}
	found := true
	// The wire format runs "File=" straight into its first argument with no
	// separating ';' (e.g. "File=name=...;size=...;inline=..."), so the
	// first key=value pair has to be pulled out of the "File=" remainder
	// rather than treated as its own ';'-delimited segment.
	rest := params[len("File="):]

	for _, kv := range strings.Split(rest, ";") {
		eq := strings.IndexByte(kv, '=')
		if eq < 0 {
			continue
		}
		key, val := kv[:eq], kv[eq+1:]
		switch key {
		case "name":
			if decoded, err := base64.StdEncoding.DecodeString(val); err == nil {
				o.pending.Name = string(decoded)
			}
		case "size":
			if n, err := strconv.ParseInt(val, 10, 64); err == nil {
				o.pending.Size = n
			}
		case "inline":
			o.pending.Inline = val == "1"
		case "width":
			o.pending.Width = val
		case "height":
			o.pending.Height = val
		}
	}
	return found
}

func (o *osc1337Interceptor) appendData(b byte) {
	if o.spillFile != nil {
		o.spillFile.Write([]byte{b})
		o.spillSize++
		return
	}

	o.dataBuf.WriteByte(b)
	if int64(o.dataBuf.Len()) > iTermFileTransferSpillThreshold {
		f, err := os.CreateTemp("", "cterm-osc1337-*.b64")
		if err == nil {
			f.Write(o.dataBuf.Bytes())
			o.spillFile = f
			o.spillSize = int64(o.dataBuf.Len())
			o.dataBuf.Reset()
		}
	}
}

func (o *osc1337Interceptor) finishTransfer() *FileTransfer {
	t := o.pending

	if o.spillFile != nil {
		t.SpillPath = o.spillFile.Name()
		o.spillFile.Close()
		o.spillFile = nil
		return &t
	}

	raw, err := base64.StdEncoding.DecodeString(o.dataBuf.String())
	if err != nil {
		return &t
	}
	t.Data = raw

	if t.Inline {
		if img, _, err := image.Decode(bytes.NewReader(raw)); err == nil {
			t.Image = img
		}
	}
	return &t
}

// decodeSpilledTransfer base64-decodes a spilled transfer's temp file in
// one pass, for callers that need the bytes after the fact. It does not
// delete the temp file; the caller owns that lifecycle.
func decodeSpilledTransfer(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spilled transfer: %w", err)
	}
	return base64.StdEncoding.DecodeString(string(raw))
}
