package relay

import (
	"context"
	"io"
)

// Transport opens the raw upstream prediction stream for one request.
// A non-OK upstream response is reported as a *TransportError and no body
// is returned.
type Transport interface {
	Open(ctx context.Context, req Request) (io.ReadCloser, error)
}

// Predictor is a strategy pattern interface for answer sources.
//
// Request is passed by value; implementations must not retain it.
type Predictor interface {
	Stream(ctx context.Context, req Request) (Stream, error)
	Predict(ctx context.Context, req Request) (string, error)
}

// HistoryLoader fetches the stored conversation for a session.
type HistoryLoader interface {
	History(ctx context.Context, sessionID string) ([]Message, error)
}
