// Package server exposes a Flowise chatflow over HTTP for browser clients.
//
// The stream endpoint passes the upstream prediction body through untouched
// so that clients run their own decoder; predict and history return JSON.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/relay"
)

const (
	streamPath  = "/api/flowise/stream"
	predictPath = "/api/flowise/predict"
	historyPath = "/api/flowise/history"

	shutdownTimeout = 5 * time.Second
	copyBufferSize  = 4096
)

// Server routes proxy requests to the upstream.
type Server struct {
	transport relay.Transport
	predictor relay.Predictor
	history   relay.HistoryLoader
	logger    *slog.Logger
	mux       *http.ServeMux
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a Server. transport serves the raw stream endpoint, predictor
// the non-streaming one and history the history endpoint.
func New(transport relay.Transport, predictor relay.Predictor, history relay.HistoryLoader, opts ...Option) *Server {
	s := &Server{
		transport: transport,
		predictor: predictor,
		history:   history,
		logger:    slog.New(slog.DiscardHandler),
		mux:       http.NewServeMux(),
	}
	for _, o := range opts {
		o(s)
	}
	s.mux.HandleFunc("POST "+streamPath, s.handleStream)
	s.mux.HandleFunc("POST "+predictPath, s.handlePredict)
	s.mux.HandleFunc("GET "+historyPath, s.handleHistory)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// apiRequest is the body accepted by the stream and predict endpoints.
type apiRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"sessionId"`
}

func decodeRequest(r *http.Request) (relay.Request, error) {
	var req apiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return relay.Request{}, err
	}
	return relay.Request{Question: req.Question, SessionID: req.SessionID}, nil
}

// statusOf maps an upstream failure to the status relayed to the client.
func statusOf(err error) int {
	var te *relay.TransportError
	switch {
	case errors.As(err, &te) && te.StatusCode >= 400:
		return te.StatusCode
	case errors.Is(err, relay.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorBody returns the text relayed to the client for err: the upstream
// body for transport errors, the error message otherwise.
func errorBody(err error) string {
	var te *relay.TransportError
	if errors.As(err, &te) {
		return te.Body
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
