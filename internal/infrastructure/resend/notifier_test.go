package resend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authkit/authkit/internal/config"
)

func newTestNotifier(endpoint string) *Notifier {
	n := NewNotifier(&config.Config{
		ResendAPIKey:    "re_test_key",
		ResendFromEmail: "noreply@acme.example",
		ResendFromName:  "Acme",
		AppName:         "Acme",
	})
	n.endpoint = endpoint
	n.client = &http.Client{Timeout: time.Second}
	return n
}

func TestSendVerificationEmail(t *testing.T) {
	var got sendRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL)
	err := n.SendVerificationEmail(context.Background(), "a@b.com", "tok123", "https://app.example")
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_test_key", auth)
	assert.Equal(t, "Acme <noreply@acme.example>", got.From)
	assert.Equal(t, []string{"a@b.com"}, got.To)
	assert.Equal(t, "Verify your Acme email", got.Subject)
	assert.Contains(t, got.HTML, "https://app.example/verify-email?token=tok123")
}

func TestSendPasswordResetEmail_APIErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid from address"})
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL)
	err := n.SendPasswordResetEmail(context.Background(), "a@b.com", "tok123", "https://app.example")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from address")
}
