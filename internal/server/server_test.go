package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aid-portal/beneficiary_portal/internal/config"
	"github.com/aid-portal/beneficiary_portal/internal/logging"
	"github.com/aid-portal/beneficiary_portal/internal/routes"
	"github.com/aid-portal/beneficiary_portal/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(routes.Deps{
		Cfg: config.Config{
			AppName:       "BeneficiaryPortal",
			AppEnv:        "development",
			Port:          "0",
			StoreBackend:  config.BackendMemory,
			SessionSecret: "test-secret",
			SessionTTL:    time.Hour,
			OTPTTL:        time.Minute,
		},
		Backend: store.NewMemory().Backend,
		Logger:  logging.Discard(),
	})
	require.NoError(t, err)
	return srv
}

func TestPing(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("X-Request-ID", "abc")
	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "abc", body["request_id"])
}

func TestErrorsAreJSON(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])
}

func TestNewRejectsMissingBackend(t *testing.T) {
	_, err := New(routes.Deps{Cfg: config.Config{AppEnv: "development"}, Logger: logging.Discard()})
	assert.Error(t, err)
}
