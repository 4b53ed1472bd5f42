package flowise

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/decoder"
)

// Interface compliance checks.
var (
	_ relay.Predictor     = (*Client)(nil)
	_ relay.Transport     = (*Client)(nil)
	_ relay.HistoryLoader = (*Client)(nil)
)

// Client talks to one Flowise chatflow.
type Client struct {
	baseURL    string
	chatflowID string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger for request and stream diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a [Client] for the chatflow chatflowID served at baseURL.
func New(baseURL, chatflowID string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		chatflowID: chatflowID,
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Open sends a streaming prediction request and returns the raw response
// body. The caller owns the body. A non-2xx answer is returned as a
// [*relay.TransportError].
func (c *Client) Open(ctx context.Context, req relay.Request) (io.ReadCloser, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("flowise: %w", err)
	}
	resp, err := c.postPrediction(ctx, req, true)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("prediction stream opened", "status", resp.StatusCode, "session", req.SessionID)
	return resp.Body, nil
}

// Stream opens a streaming prediction and decodes it into snapshots.
func (c *Client) Stream(ctx context.Context, req relay.Request) (relay.Stream, error) {
	body, err := c.Open(ctx, req)
	if err != nil {
		return nil, err
	}
	return decoder.NewStream(ctx, body, decoder.WithLogger(c.logger)), nil
}

// Predict sends a non-streaming prediction request and returns the answer
// text. Chatflows report the answer in text, answer or data; the first of
// them holding a string wins, so null falls through to the next field and
// a response with none yields "".
func (c *Client) Predict(ctx context.Context, req relay.Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("flowise: %w", err)
	}
	resp, err := c.postPrediction(ctx, req, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var p apiPrediction
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return "", fmt.Errorf("flowise: decode prediction: %w", err)
	}
	for _, raw := range []json.RawMessage{p.Text, p.Answer, p.Data} {
		var s *string
		if len(raw) > 0 && json.Unmarshal(raw, &s) == nil && s != nil {
			return *s, nil
		}
	}
	return "", nil
}

func (c *Client) postPrediction(ctx context.Context, req relay.Request, streaming bool) (*http.Response, error) {
	apiReq := apiRequest{Question: req.Question, Streaming: streaming}
	if req.SessionID != "" {
		apiReq.OverrideConfig = &apiOverrideConfig{SessionID: req.SessionID}
	}
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("flowise: %w", err)
	}

	u := c.baseURL + predictionPath + url.PathEscape(c.chatflowID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("flowise: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("flowise: %w", err)
	}
	if err := checkResponse(resp); err != nil {
		c.logger.Warn("prediction refused", "err", err)
		return nil, err
	}
	return resp, nil
}

func (c *Client) authorize(r *http.Request) {
	if c.apiKey != "" {
		r.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// checkResponse turns a non-2xx response into a *relay.TransportError and
// closes its body.
func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 && resp.Body != nil && resp.Body != http.NoBody {
		return nil
	}
	status := resp.StatusCode
	if status >= 200 && status < 300 {
		// A success without a body cannot be streamed.
		status = http.StatusInternalServerError
	}
	te := &relay.TransportError{StatusCode: status}
	if resp.Body != nil {
		defer resp.Body.Close()
		b, err := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		if err != nil && !errors.Is(err, io.EOF) {
			te.Body = fmt.Sprintf("failed to read body: %v", err)
			return te
		}
		te.Body = string(b)
	}
	return te
}
