package mock

import (
	"io"

	"github.com/fwojciec/relay"
)

// Interface compliance check.
var _ relay.Stream = (*Stream)(nil)

// Stream is a test double for relay.Stream.
// Set the function fields for the methods you need. NextFn and TextFn
// panic when nil to catch missing setup. CloseFn and StateFn are nil-safe
// (no-op and zero value) because test code commonly calls defer stream.Close()
// and these methods rarely need custom behavior.
type Stream struct {
	NextFn  func() (relay.Snapshot, error)
	StateFn func() relay.StreamState
	TextFn  func() (string, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (relay.Snapshot, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() relay.StreamState {
	if s.StateFn == nil {
		return relay.StreamStateNew
	}
	return s.StateFn()
}

// Text delegates to TextFn.
func (s *Stream) Text() (string, error) {
	return s.TextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Snapshots returns a Stream that yields snaps in order and then err, or
// io.EOF when err is nil. TextFn reports the last yielded snapshot's text.
func Snapshots(err error, snaps ...relay.Snapshot) *Stream {
	var i int
	var text string
	return &Stream{
		NextFn: func() (relay.Snapshot, error) {
			if i < len(snaps) {
				snap := snaps[i]
				i++
				text = snap.Text
				return snap, nil
			}
			if err != nil {
				return relay.Snapshot{}, err
			}
			return relay.Snapshot{}, io.EOF
		},
		TextFn: func() (string, error) {
			return text, nil
		},
	}
}
