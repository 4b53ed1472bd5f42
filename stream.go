package relay

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, emitting snapshots.
	StreamStateComplete                     // Final snapshot delivered; Next() returns io.EOF.
	StreamStateError                        // Next() returned a non-EOF error.
	StreamStateClosed                       // Close() called before a terminal state.
)

// Snapshot is the complete answer assembled so far. Consumers display it as
// is; it is never a delta.
type Snapshot struct {
	Text string
	// Final marks the unconditional snapshot emitted at normal end of stream.
	Final bool
}

// Stream uses a pull-based iterator pattern. Cancellation flows through the
// context the stream was opened with.
//
// Next() returns one Snapshot per accepted frame, in the order the frames
// arrived, followed by one Snapshot with Final set. After the final snapshot
// it returns io.EOF. On a read failure the buffered tail is still decoded and
// its snapshots delivered before the error; on cancellation the context error
// is returned immediately.
//
// Text() returns the accumulated text. Behavior by stream state:
//   - StreamStateNew: empty string, ErrNoData.
//   - StreamStateStreaming, StreamStateComplete: current text, nil error.
//   - StreamStateError, StreamStateClosed: text as of the last snapshot, nil error.
//
// Close() releases the underlying reader. It is safe to call more than once
// and after the stream reached a terminal state.
type Stream interface {
	Next() (Snapshot, error)
	State() StreamState
	Text() (string, error)
	Close() error
}
