package telegram

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	transporthttp "github.com/pvtsol/shieldwatch/internal/pkg/transport/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_SendMessage(t *testing.T) {
	t.Run("posts the message to the bot endpoint", func(t *testing.T) {
		var (
			gotPath string
			gotBody sendMessageRequest
		)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
		}))
		defer server.Close()

		n := NewNotifier(transporthttp.NewClient(), "test-token", WithBaseURL(server.URL))

		err := n.SendMessage(t.Context(), 100, "Balance change detected:")
		require.NoError(t, err)

		assert.Equal(t, "/bottest-token/sendMessage", gotPath)
		assert.Equal(t, sendMessageRequest{ChatID: 100, Text: "Balance change detected:"}, gotBody)
	})

	t.Run("surfaces a rejected request with its description", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
		}))
		defer server.Close()

		n := NewNotifier(transporthttp.NewClient(), "test-token", WithBaseURL(server.URL))

		err := n.SendMessage(t.Context(), 100, "hello")
		require.ErrorIs(t, err, ErrTelegramRejected)
		assert.ErrorContains(t, err, "chat not found")
	})

	t.Run("fails when the server is unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		n := NewNotifier(transporthttp.NewClient(transporthttp.WithRetryMax(0)), "test-token", WithBaseURL(server.URL))

		assert.Error(t, n.SendMessage(t.Context(), 100, "hello"))
	})
}
