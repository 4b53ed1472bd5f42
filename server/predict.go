package server

import "net/http"

type predictResponse struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	text, err := s.predictor.Predict(r.Context(), req)
	if err != nil {
		s.logger.Warn("predict failed", "err", err)
		writeJSON(w, statusOf(err), errorResponse{Error: errorBody(err)})
		return
	}
	writeJSON(w, http.StatusOK, predictResponse{Text: text})
}
