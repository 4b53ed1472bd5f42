package server

import (
	"errors"
	"io"
	"net/http"
)

// handleStream relays the upstream prediction body as it arrives. An
// upstream refusal is answered with the upstream status and body text.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	body, err := s.transport.Open(r.Context(), req)
	if err != nil {
		s.logger.Warn("stream refused", "err", err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(statusOf(err))
		_, _ = io.WriteString(w, errorBody(err))
		return
	}
	defer body.Close()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream; charset=utf-8")
	h.Set("Cache-Control", "no-cache, no-transform")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	buf := make([]byte, copyBufferSize)
	var n int64
	for {
		m, rerr := body.Read(buf)
		if m > 0 {
			if _, werr := w.Write(buf[:m]); werr != nil {
				s.logger.Debug("client went away", "err", werr)
				return
			}
			_ = rc.Flush()
			n += int64(m)
		}
		if errors.Is(rerr, io.EOF) {
			s.logger.Debug("stream relayed", "bytes", n)
			return
		}
		if rerr != nil {
			// Headers are already sent; the client sees a truncated body.
			s.logger.Warn("upstream read failed", "err", rerr, "bytes", n)
			return
		}
	}
}
