// Package decoder turns an upstream prediction body into [relay.Stream]
// snapshots.
//
// The upstream has no single wire contract: it mixes SSE-framed JSON tokens,
// bare text fragments, full-text replacements, agent execution traces and
// control lines. Each line is classified independently (see [Classify]) and
// folded into the running answer (see [Apply]).
package decoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/fwojciec/relay"
)

const readSize = 4096

// stream implements [relay.Stream] by decoding an upstream prediction body
// line by line. Lines completed by one read are queued and turned into
// snapshots one Next call at a time, so the only blocking point is the read.
type stream struct {
	body     io.ReadCloser
	ctx      context.Context
	logger   *slog.Logger
	splitter *Splitter
	acc      Accumulator
	buf      []byte
	lines    []string // completed lines not yet classified
	eof      bool     // body exhausted or failed; lines holds the flushed tail
	readErr  error    // non-EOF read failure, reported after lines drain
	state    relay.StreamState
	err      error // terminal error, if any

	stopWatch func() bool
	closeOnce sync.Once
	closeErr  error
}

// Interface compliance check.
var _ relay.Stream = (*stream)(nil)

// Option configures a stream created by NewStream.
type Option func(*stream)

// WithLogger sets the logger used for per-line debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *stream) { s.logger = l }
}

// NewStream returns a [relay.Stream] that decodes body. The stream owns body
// and closes it on completion, on error, on Close, and as soon as ctx is
// cancelled so that a blocked read returns.
func NewStream(ctx context.Context, body io.ReadCloser, opts ...Option) relay.Stream {
	s := &stream{
		body:     body,
		ctx:      ctx,
		logger:   slog.New(slog.DiscardHandler),
		splitter: NewSplitter(),
		buf:      make([]byte, readSize),
		state:    relay.StreamStateNew,
	}
	for _, o := range opts {
		o(s)
	}
	s.stopWatch = context.AfterFunc(ctx, s.closeBody)
	return s
}

// Next returns the next snapshot. Returns io.EOF after the final snapshot.
func (s *stream) Next() (relay.Snapshot, error) {
	switch s.state {
	case relay.StreamStateComplete:
		return relay.Snapshot{}, io.EOF
	case relay.StreamStateError:
		return relay.Snapshot{}, s.err
	case relay.StreamStateClosed:
		return relay.Snapshot{}, relay.ErrStreamClosed
	}
	s.state = relay.StreamStateStreaming

	for {
		if err := s.ctx.Err(); err != nil {
			s.terminate(err)
			return relay.Snapshot{}, s.err
		}

		for len(s.lines) > 0 {
			line := s.lines[0]
			s.lines = s.lines[1:]
			f := Classify(line)
			changed := s.acc.Apply(f)
			s.logger.Debug("frame", "kind", kind(f), "changed", changed, "line", line)
			if changed {
				return s.acc.Snapshot(), nil
			}
		}

		if s.eof {
			if s.readErr != nil {
				s.terminate(s.readErr)
				return relay.Snapshot{}, s.err
			}
			s.state = relay.StreamStateComplete
			s.release()
			snap := s.acc.Snapshot()
			snap.Final = true
			return snap, nil
		}

		s.read()
	}
}

// read performs one body read and queues the lines it completed. At end of
// body, or on a failure that is not a cancellation, the buffered tail is
// flushed as one last line.
func (s *stream) read() {
	n, err := s.body.Read(s.buf)
	if n > 0 {
		s.lines = append(s.lines, s.splitter.Write(s.buf[:n])...)
	}
	switch {
	case err == nil:
		return
	case s.ctx.Err() != nil:
		// Cancelled; Next terminates without flushing.
		return
	case !errors.Is(err, io.EOF):
		s.readErr = fmt.Errorf("decoder: %w", err)
	}
	if tail, ok := s.splitter.Flush(); ok {
		s.lines = append(s.lines, tail)
	}
	s.eof = true
}

// State returns the current stream state.
func (s *stream) State() relay.StreamState {
	return s.state
}

// Text returns the accumulated text.
func (s *stream) Text() (string, error) {
	if s.state == relay.StreamStateNew {
		return "", fmt.Errorf("decoder: %w", relay.ErrNoData)
	}
	return s.acc.Text(), nil
}

// Close releases the body. Closing before a terminal state moves the stream
// to StreamStateClosed.
func (s *stream) Close() error {
	if s.state != relay.StreamStateComplete && s.state != relay.StreamStateError {
		s.state = relay.StreamStateClosed
	}
	s.release()
	return s.closeErr
}

// terminate records a terminal error and releases the body.
func (s *stream) terminate(err error) {
	s.state = relay.StreamStateError
	s.err = err
	s.release()
	if s.ctx.Err() != nil {
		s.logger.Debug("stream cancelled", "err", err)
	} else {
		s.logger.Warn("stream failed", "err", err)
	}
}

// release stops the context watcher and closes the body.
func (s *stream) release() {
	s.stopWatch()
	s.closeBody()
}

// closeBody closes the body exactly once. It also runs on the context
// watcher goroutine, so it touches only once-guarded fields.
func (s *stream) closeBody() {
	s.closeOnce.Do(func() {
		s.closeErr = s.body.Close()
	})
}
