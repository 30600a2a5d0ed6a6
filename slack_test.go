package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSendWebhook(t *testing.T) {
	t.Run("send a webhook containing a message to the given URL", func(t *testing.T) {
		type body map[string]string

		msg := message{Text: "A Zoom meeting has been scheduled"}

		slackAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var payload body
			d := json.NewDecoder(r.Body)
			err := d.Decode(&payload)
			assertNilError(t, err)
			assertEqual(t, payload["text"], msg.Text)
		}))
		defer slackAPI.Close()

		err := NewSlackService(slackAPI.URL).sendWebhook(context.Background(), msg)
		if err != nil {
			t.Fatalf("sendWebhook: %v", err)
		}
	})

	t.Run("returns the webhook's error response", func(t *testing.T) {
		slackAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid_token", http.StatusForbidden)
		}))
		defer slackAPI.Close()

		err := NewSlackService(slackAPI.URL).sendWebhook(context.Background(), message{Text: "hi"})

		var pErr *ProviderError
		require.ErrorAs(t, err, &pErr)
		require.Equal(t, http.StatusForbidden, pErr.StatusCode)
	})
}

func TestSummary(t *testing.T) {
	got := summary(testResult(t))

	require.Equal(t, `A Zoom meeting has been scheduled
When: Friday, May 16 2025 2:30 PM BST (Europe/London)
Join: https://us06web.zoom.us/j/85746065432?pwd=abc
Meeting ID: 85746065432`, got)
	require.NotContains(t, got, "123456")
}
