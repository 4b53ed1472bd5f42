package flowise

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/relay"
	"github.com/google/uuid"
)

// History fetches the stored messages of sessionID and normalizes them.
// An empty sessionID yields no messages without contacting the upstream.
func (c *Client) History(ctx context.Context, sessionID string) ([]relay.Message, error) {
	if sessionID == "" {
		return nil, nil
	}

	u := c.baseURL + chatMessagePath + url.PathEscape(c.chatflowID) + "?" + url.Values{"sessionId": {sessionID}}.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("flowise: %w", err)
	}
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("flowise: %w", err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var raw []apiChatMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("flowise: decode history: %w", err)
	}
	return normalizeHistory(raw, time.Now()), nil
}

// normalizeHistory converts stored upstream messages to canonical form.
// Missing ids get a fresh UUID, any role other than userMessage or user
// becomes assistant, and a missing or unparsable timestamp becomes now.
func normalizeHistory(raw []apiChatMessage, now time.Time) []relay.Message {
	msgs := make([]relay.Message, 0, len(raw))
	for _, m := range raw {
		msg := relay.Message{
			ID:        m.ID,
			Role:      normalizeRole(m.Role),
			Text:      contentText(m.Content),
			CreatedAt: now,
		}
		if msg.ID == "" {
			msg.ID = uuid.NewString()
		}
		for _, ts := range []string{m.CreatedDate, m.CreatedAt} {
			if ts == "" {
				continue
			}
			if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
				msg.CreatedAt = t
				break
			}
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

func normalizeRole(role string) relay.Role {
	switch role {
	case "userMessage", "user":
		return relay.RoleUser
	default:
		return relay.RoleAssistant
	}
}

// contentText returns a string content as is. Other JSON values are kept
// in their encoded form and null or missing content becomes "".
func contentText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
