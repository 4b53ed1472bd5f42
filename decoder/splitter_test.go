package decoder_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/relay/decoder"
	"github.com/stretchr/testify/assert"
)

func TestSplitter_Write(t *testing.T) {
	t.Parallel()

	t.Run("returns complete lines trimmed", func(t *testing.T) {
		t.Parallel()
		s := decoder.NewSplitter()
		lines := s.Write([]byte("event: token\r\ndata: \"hi\"  \n\n"))
		assert.Equal(t, []string{"event: token", `data: "hi"`, ""}, lines)
	})

	t.Run("keeps unterminated remainder", func(t *testing.T) {
		t.Parallel()
		s := decoder.NewSplitter()
		assert.Equal(t, []string{"first"}, s.Write([]byte("first\nsec")))
		assert.Equal(t, []string{"second"}, s.Write([]byte("ond\n")))
	})

	t.Run("no newline yields nothing", func(t *testing.T) {
		t.Parallel()
		s := decoder.NewSplitter()
		assert.Nil(t, s.Write([]byte("partial line")))
	})

	t.Run("reassembles code point split across chunks", func(t *testing.T) {
		t.Parallel()
		s := decoder.NewSplitter()
		// "é" is 0xC3 0xA9.
		assert.Nil(t, s.Write([]byte("data: h\xc3")))
		assert.Equal(t, []string{"data: héllo"}, s.Write([]byte("\xa9llo\n")))
	})

	t.Run("reassembles four byte code point fed byte by byte", func(t *testing.T) {
		t.Parallel()
		s := decoder.NewSplitter()
		var lines []string
		for _, b := range []byte("ok 🙂\n") {
			lines = append(lines, s.Write([]byte{b})...)
		}
		assert.Equal(t, []string{"ok 🙂"}, lines)
	})

	t.Run("invalid bytes become replacement characters", func(t *testing.T) {
		t.Parallel()
		s := decoder.NewSplitter()
		assert.Equal(t, []string{"a�b"}, s.Write([]byte("a\xffb\n")))
	})

	t.Run("drops leading byte order mark", func(t *testing.T) {
		t.Parallel()
		s := decoder.NewSplitter()
		assert.Equal(t, []string{"data: x"}, s.Write([]byte("\xef\xbb\xbfdata: x\n")))
	})

	t.Run("short first line is returned at once", func(t *testing.T) {
		t.Parallel()
		s := decoder.NewSplitter()
		assert.Equal(t, []string{"a"}, s.Write([]byte("a\n")))
		assert.Equal(t, []string{"bc"}, s.Write([]byte("bc\n")))
	})

	t.Run("drops byte order mark split across chunks", func(t *testing.T) {
		t.Parallel()
		s := decoder.NewSplitter()
		assert.Nil(t, s.Write([]byte("\xef")))
		assert.Nil(t, s.Write([]byte("\xbb")))
		assert.Equal(t, []string{"x"}, s.Write([]byte("\xbfx\n")))
	})

	t.Run("keeps byte order mark after the first bytes", func(t *testing.T) {
		t.Parallel()
		s := decoder.NewSplitter()
		assert.Equal(t, []string{"a\ufeffb"}, s.Write([]byte("a\xef\xbb\xbfb\n")))
	})
}

func TestSplitter_Flush(t *testing.T) {
	t.Parallel()

	t.Run("returns remainder as final line", func(t *testing.T) {
		t.Parallel()
		s := decoder.NewSplitter()
		s.Write([]byte("line\n  tail  "))
		tail, ok := s.Flush()
		assert.True(t, ok)
		assert.Equal(t, "tail", tail)
	})

	t.Run("whitespace remainder is not a line", func(t *testing.T) {
		t.Parallel()
		s := decoder.NewSplitter()
		s.Write([]byte("line\n \r\t"))
		_, ok := s.Flush()
		assert.False(t, ok)
	})

	t.Run("empty after newline terminated input", func(t *testing.T) {
		t.Parallel()
		s := decoder.NewSplitter()
		s.Write([]byte("data: done\n"))
		_, ok := s.Flush()
		assert.False(t, ok)
	})

	t.Run("truncated code point decodes to replacement character", func(t *testing.T) {
		t.Parallel()
		s := decoder.NewSplitter()
		s.Write([]byte("abc\xe4\xb8"))
		tail, ok := s.Flush()
		assert.True(t, ok)
		assert.True(t, strings.HasPrefix(tail, "abc"), "got %q", tail)
		assert.Contains(t, tail, "\uFFFD")
	})

	t.Run("short input held for byte order mark detection is flushed", func(t *testing.T) {
		t.Parallel()
		s := decoder.NewSplitter()
		assert.Nil(t, s.Write([]byte("hi")))
		tail, ok := s.Flush()
		assert.True(t, ok)
		assert.Equal(t, "hi", tail)
	})
}
