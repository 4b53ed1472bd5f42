package flowise_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/flowise"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_History(t *testing.T) {
	t.Parallel()

	t.Run("normalizes stored messages", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/v1/chatmessage/flow-1", r.URL.Path)
			assert.Equal(t, "sess 1", r.URL.Query().Get("sessionId"))
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[
				{"id":"m1","role":"userMessage","content":"hi","createdDate":"2025-01-02T03:04:05.000Z"},
				{"id":"m2","role":"apiMessage","content":"hello","createdAt":"2025-01-02T03:04:06Z"},
				{"role":"user","content":null},
				{"id":"m4","role":"tool","content":"x","createdDate":"yesterday"}
			]`))
		}))
		defer srv.Close()

		before := time.Now()
		msgs, err := flowise.New(srv.URL, "flow-1", flowise.WithAPIKey("secret")).History(context.Background(), "sess 1")
		require.NoError(t, err)
		require.Len(t, msgs, 4)

		assert.Equal(t, "m1", msgs[0].ID)
		assert.Equal(t, relay.RoleUser, msgs[0].Role)
		assert.Equal(t, "hi", msgs[0].Text)
		assert.True(t, msgs[0].CreatedAt.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))
		assert.Equal(t, relay.RoleAssistant, msgs[1].Role)
		assert.Equal(t, "hello", msgs[1].Text)
		assert.True(t, msgs[1].CreatedAt.Equal(time.Date(2025, 1, 2, 3, 4, 6, 0, time.UTC)))

		assert.Equal(t, relay.RoleUser, msgs[2].Role)
		assert.Equal(t, "", msgs[2].Text)
		_, err = uuid.Parse(msgs[2].ID)
		assert.NoError(t, err, "missing id should become a UUID")
		assert.False(t, msgs[2].CreatedAt.Before(before))

		assert.Equal(t, relay.RoleAssistant, msgs[3].Role)
		assert.False(t, msgs[3].CreatedAt.Before(before), "unparsable timestamp falls back to now")
	})

	t.Run("empty session id skips the request", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request")
		}))
		defer srv.Close()

		msgs, err := flowise.New(srv.URL, "flow-1").History(context.Background(), "")
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})

	t.Run("upstream error", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := flowise.New(srv.URL, "flow-1").History(context.Background(), "s1")
		assert.ErrorIs(t, err, relay.ErrTransport)
	})
}
