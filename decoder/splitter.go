package decoder

import (
	"bytes"
	"errors"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// decodeBufSize bounds one Transform call. The loop in decode grows output
// across calls, so any value above utf8.UTFMax works.
const decodeBufSize = 4096

// Splitter turns arriving byte chunks into complete trimmed lines. It owns
// the streaming UTF-8 decode: a code point split across chunks is held back
// until its remaining bytes arrive. Invalid sequences decode to U+FFFD and a
// leading byte order mark is dropped.
type Splitter struct {
	dec     transform.Transformer
	raw     []byte // bytes not yet decoded (an incomplete code point)
	pending string // decoded text after the last newline
	buf     []byte
	started bool // the start of the stream was checked for a byte order mark
}

// NewSplitter returns a Splitter ready for the first chunk.
func NewSplitter() *Splitter {
	return &Splitter{
		dec: unicode.UTF8.NewDecoder(),
		buf: make([]byte, decodeBufSize),
	}
}

// Write consumes one chunk and returns every line it completed, trimmed of
// surrounding whitespace and in arrival order. Blank lines are returned as
// empty strings. The unterminated remainder stays buffered.
func (s *Splitter) Write(chunk []byte) []string {
	s.raw = append(s.raw, chunk...)
	if !s.dropBOM() {
		return nil
	}
	s.pending += s.decode(false)

	if !strings.Contains(s.pending, "\n") {
		return nil
	}
	lines := strings.Split(s.pending, "\n")
	s.pending = lines[len(lines)-1]
	lines = lines[:len(lines)-1]
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

// Flush decodes whatever bytes remain and returns the buffered remainder as
// one final line. It reports false when nothing but whitespace is left.
// The splitter is empty afterwards.
func (s *Splitter) Flush() (string, bool) {
	s.pending += s.decode(true)
	rest := strings.TrimSpace(s.pending)
	s.pending = ""
	s.started = false
	s.dec.Reset()
	return rest, rest != ""
}

// dropBOM strips a leading byte order mark. It reports false while the
// buffered bytes are too few to tell, which only happens when they are a
// proper prefix of the mark.
func (s *Splitter) dropBOM() bool {
	if s.started {
		return true
	}
	if len(s.raw) < len(bom) && bytes.HasPrefix(bom, s.raw) {
		return false
	}
	s.raw = bytes.TrimPrefix(s.raw, bom)
	s.started = true
	return true
}

// decode runs the transformer over s.raw. Without atEOF an incomplete
// trailing sequence is kept in s.raw for the next chunk.
func (s *Splitter) decode(atEOF bool) string {
	var out strings.Builder
	for {
		nDst, nSrc, err := s.dec.Transform(s.buf, s.raw, atEOF)
		out.Write(s.buf[:nDst])
		s.raw = s.raw[nSrc:]
		if errors.Is(err, transform.ErrShortDst) && (nDst > 0 || nSrc > 0) {
			continue
		}
		break
	}
	if len(s.raw) == 0 {
		s.raw = nil
	} else {
		s.raw = append([]byte(nil), s.raw...)
	}
	return out.String()
}
