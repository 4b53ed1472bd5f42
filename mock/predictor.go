// Package mock provides test doubles for relay interfaces using function fields.
package mock

import (
	"context"
	"io"

	"github.com/fwojciec/relay"
)

// Interface compliance checks.
var (
	_ relay.Predictor     = (*Predictor)(nil)
	_ relay.Transport     = (*Transport)(nil)
	_ relay.HistoryLoader = (*HistoryLoader)(nil)
)

// Predictor is a test double for relay.Predictor.
// Set StreamFn or PredictFn before calling the matching method.
type Predictor struct {
	StreamFn  func(ctx context.Context, req relay.Request) (relay.Stream, error)
	PredictFn func(ctx context.Context, req relay.Request) (string, error)
}

// Stream delegates to StreamFn.
func (p *Predictor) Stream(ctx context.Context, req relay.Request) (relay.Stream, error) {
	return p.StreamFn(ctx, req)
}

// Predict delegates to PredictFn.
func (p *Predictor) Predict(ctx context.Context, req relay.Request) (string, error) {
	return p.PredictFn(ctx, req)
}

// Transport is a test double for relay.Transport.
type Transport struct {
	OpenFn func(ctx context.Context, req relay.Request) (io.ReadCloser, error)
}

// Open delegates to OpenFn.
func (t *Transport) Open(ctx context.Context, req relay.Request) (io.ReadCloser, error) {
	return t.OpenFn(ctx, req)
}

// HistoryLoader is a test double for relay.HistoryLoader.
type HistoryLoader struct {
	HistoryFn func(ctx context.Context, sessionID string) ([]relay.Message, error)
}

// History delegates to HistoryFn.
func (h *HistoryLoader) History(ctx context.Context, sessionID string) ([]relay.Message, error) {
	return h.HistoryFn(ctx, sessionID)
}
