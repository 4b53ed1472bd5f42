// Package flowise implements [relay.Predictor], [relay.Transport] and
// [relay.HistoryLoader] for a Flowise chatflow.
//
// Streaming predictions are opened as a raw body and decoded by the
// decoder package; the upstream wire format is documented there.
package flowise

import "encoding/json"

const (
	predictionPath  = "/api/v1/prediction/"
	chatMessagePath = "/api/v1/chatmessage/"

	// errorBodyLimit caps how much of a failed response body is kept in a
	// TransportError.
	errorBodyLimit = 64 << 10
)

// apiRequest is the JSON body sent to the prediction endpoint.
type apiRequest struct {
	Question       string             `json:"question"`
	Streaming      bool               `json:"streaming,omitempty"`
	OverrideConfig *apiOverrideConfig `json:"overrideConfig,omitempty"`
}

type apiOverrideConfig struct {
	SessionID string `json:"sessionId"`
}

// apiPrediction is the non-streaming prediction response. Different
// chatflow types answer in different fields.
type apiPrediction struct {
	Text   json.RawMessage `json:"text"`
	Answer json.RawMessage `json:"answer"`
	Data   json.RawMessage `json:"data"`
}

// apiChatMessage is one stored message returned by the chatmessage endpoint.
type apiChatMessage struct {
	ID          string          `json:"id"`
	Role        string          `json:"role"`
	Content     json.RawMessage `json:"content"`
	CreatedDate string          `json:"createdDate"`
	CreatedAt   string          `json:"createdAt"`
}
