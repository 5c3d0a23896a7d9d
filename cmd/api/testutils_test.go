package main

import (
	"bytes"
	"encoding/json"
	"io"
	"movieapp/proj/internal/api/tasks"
	"movieapp/proj/internal/config"
	"movieapp/proj/internal/lib/logger"
	"movieapp/proj/internal/services"
	"movieapp/proj/internal/storage/memory"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testOptions struct {
	tmdbURL    string
	tmdbAPIKey string
	limiter    config.Limiter
}

func newTestConfig(opts testOptions) *config.Config {
	return &config.Config{
		AppSecret: "test-secret",
		Limiter:   opts.limiter,
		Auth:      config.Auth{TokenTTL: 30 * time.Minute},
		Clients: config.ClientsConfig{
			TMDB: config.TMDB{
				APIKey:  opts.tmdbAPIKey,
				BaseURL: opts.tmdbURL,
				Timeout: 2 * time.Second,
			},
		},
		Server:  config.Server{ShutdownTimeout: time.Second},
		BgTasks: config.BgTasks{Workers: 1, QueueSize: 10},
	}
}

func NewTestApplication(t *testing.T, opts *testOptions) *Application {
	t.Helper()
	if opts == nil {
		opts = &testOptions{}
	}
	cfg := newTestConfig(*opts)
	log := logger.Discard()
	svcs, err := services.New(log, cfg, services.FromMemory(memory.New()), tasks.New(log, 1, 10))
	require.NoError(t, err)
	return NewApplication(cfg, log, svcs)
}

type testResponse struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Data    map[string]json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, handler http.Handler, method, target string, body any, token string) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	var resp testResponse
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func decodeField(t *testing.T, resp testResponse, key string, dst any) {
	t.Helper()
	raw, ok := resp.Data[key]
	require.True(t, ok, "response data has no %q", key)
	require.NoError(t, json.Unmarshal(raw, dst))
}

// registerAndLogin creates an account and returns a bearer token for it.
func registerAndLogin(t *testing.T, handler http.Handler, email string) string {
	t.Helper()
	rec, _ := doRequest(t, handler, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    email,
		"username": strings.Split(email, "@")[0],
		"password": "supersecret",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	form := url.Values{"username": {email}, "password": {"supersecret"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	loginRec := httptest.NewRecorder()
	handler.ServeHTTP(loginRec, req)
	require.Equal(t, http.StatusOK, loginRec.Code)
	var resp testResponse
	require.NoError(t, json.Unmarshal(loginRec.Body.Bytes(), &resp))
	var token string
	decodeField(t, resp, "access_token", &token)
	return token
}
