package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/egyw/foodify-auth/internal/config"
	"github.com/egyw/foodify-auth/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMailer(t *testing.T, handler http.HandlerFunc) *Mailer {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewMailer(config.Mailer{
		APIKey:  "test-api-key",
		BaseURL: srv.URL,
		From:    "Foodify <no-reply@foodify.example>",
	}, logger.Nop())
}

func TestSendOTPEmail_Success(t *testing.T) {
	var gotAuth string
	var gotBody sendRequest

	m := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(sendResponse{ID: "mail-1"})
	})

	err := m.SendOTPEmail(context.Background(), "budi@example.com", "123456", 3*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-api-key", gotAuth)
	assert.Equal(t, []string{"budi@example.com"}, gotBody.To)
	assert.Contains(t, gotBody.HTML, "123456")
	assert.Contains(t, gotBody.HTML, "3 minutes")
}

func TestSendOTPEmail_ProviderRejection(t *testing.T) {
	m := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	err := m.SendOTPEmail(context.Background(), "budi@example.com", "123456", 3*time.Minute)
	assert.Error(t, err)
}

func TestSendOTPEmail_TransportFailure(t *testing.T) {
	m := NewMailer(config.Mailer{
		APIKey:  "test-api-key",
		BaseURL: "http://127.0.0.1:1", // nothing listens here
		From:    "Foodify <no-reply@foodify.example>",
	}, logger.Nop())

	err := m.SendOTPEmail(context.Background(), "budi@example.com", "123456", 3*time.Minute)
	assert.Error(t, err)
}
