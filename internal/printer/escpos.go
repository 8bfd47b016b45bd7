package printer

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ESC/POS command bytes
const (
	esc byte = 0x1B
	gs  byte = 0x1D
	nl  byte = 0x0A
)

// Code page slot selected with ESC t. PC862 (Hebrew) sits at different slots
// depending on the vendor; 21 matches the Epson-compatible firmwares the
// target printers run.
const codePageHebrew byte = 21

// Alignment values for ESC a.
const (
	AlignLeft   byte = 0
	AlignCenter byte = 1
	AlignRight  byte = 2
)

// CommandBuffer builds one ESC/POS job: begin session, set alignment, write
// text, feed, cut, then hand the bytes to the transport in a single commit.
type CommandBuffer struct {
	buf     bytes.Buffer
	encoder *encoding.Encoder
}

// NewCommandBuffer returns an empty job buffer encoding text as PC862.
func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{
		encoder: encoding.ReplaceUnsupported(charmap.CodePage862.NewEncoder()),
	}
}

// Init resets the printer and selects the Hebrew code page.
func (b *CommandBuffer) Init() *CommandBuffer {
	b.buf.Write([]byte{esc, '@'})
	b.buf.Write([]byte{esc, 't', codePageHebrew})
	return b
}

// Align sets the line alignment for subsequent text.
func (b *CommandBuffer) Align(a byte) *CommandBuffer {
	b.buf.Write([]byte{esc, 'a', a})
	return b
}

// Bold toggles emphasized printing.
func (b *CommandBuffer) Bold(on bool) *CommandBuffer {
	var v byte
	if on {
		v = 1
	}
	b.buf.Write([]byte{esc, 'E', v})
	return b
}

// Size sets character width/height multipliers (1 or 2).
func (b *CommandBuffer) Size(width, height byte) *CommandBuffer {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	v := ((width - 1) << 4) | (height - 1)
	b.buf.Write([]byte{gs, '!', v})
	return b
}

// Text writes one line of text followed by a line feed. Directional marks are
// control characters for the renderer, not the paper, and are stripped before
// encoding; runes outside PC862 degrade to the encoder's replacement.
func (b *CommandBuffer) Text(line string) *CommandBuffer {
	cleaned := stripDirectionalMarks(line)
	encoded, err := b.encoder.String(cleaned)
	if err != nil {
		// ReplaceUnsupported should prevent this; fall back to raw bytes
		// rather than dropping the line.
		encoded = cleaned
	}
	b.buf.WriteString(encoded)
	b.buf.WriteByte(nl)
	return b
}

// Feed advances n blank lines.
func (b *CommandBuffer) Feed(n int) *CommandBuffer {
	for i := 0; i < n; i++ {
		b.buf.WriteByte(nl)
	}
	return b
}

// Cut issues a partial paper cut.
func (b *CommandBuffer) Cut() *CommandBuffer {
	b.buf.Write([]byte{gs, 'V', 66, 0})
	return b
}

// Bytes returns the assembled job.
func (b *CommandBuffer) Bytes() []byte {
	return b.buf.Bytes()
}

func stripDirectionalMarks(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\u200e', '\u200f', '\u2066', '\u2067', '\u2068', '\u2069':
			return -1
		}
		return r
	}, s)
}
