package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pocketworld/internal/api"
	"github.com/mcoot/pocketworld/internal/api/response"
	"github.com/mcoot/pocketworld/internal/factory"
	"github.com/mcoot/pocketworld/internal/model"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	require.NoError(t, app.InventoryService.EnsureCatalogue(context.Background()))

	router := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		AccountService:   app.AccountService,
		InventoryService: app.InventoryService,
		WSHandler:        app.WSHandler,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// register creates an account and returns its auth response
func (ts *testServer) register(t *testing.T, username, password string) response.AuthResponse {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var auth response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &auth))
	return auth
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRegister(t *testing.T) {
	ts := newTestServer(t)

	auth := ts.register(t, "redtrainer", "pikapika123")
	assert.Equal(t, "redtrainer", auth.Account.Username)
	assert.Equal(t, "player", auth.Account.Role)
	assert.NotEmpty(t, auth.Token)
	assert.NotEmpty(t, auth.Account.ID)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing username", map[string]string{"password": "longenough"}},
		{"missing password", map[string]string{"username": "redtrainer"}},
		{"short username", map[string]string{"username": "ab", "password": "longenough"}},
		{"short password", map[string]string{"username": "redtrainer", "password": "short"}},
		{"bad email", map[string]string{"username": "redtrainer", "password": "longenough", "email": "not-an-email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/auth/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "redtrainer", "pikapika123")

	rr := ts.request(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "redtrainer",
		"password": "different123",
	}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "USERNAME_EXISTS")
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "redtrainer", "pikapika123")

	rr := ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "redtrainer",
		"password": "pikapika123",
	}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var auth response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &auth))
	assert.NotEmpty(t, auth.Token)
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "redtrainer", "pikapika123")

	rr := ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "redtrainer",
		"password": "wrongpassword",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_CREDENTIALS")
}

func TestLoginUnknownUsername(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "nobody",
		"password": "whatever123",
	}, "")
	// Unknown usernames answer the same as wrong passwords
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_CREDENTIALS")
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.register(t, "redtrainer", "pikapika123")

	rr := ts.request(http.MethodPost, "/api/v1/auth/logout", nil, auth.Token)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.register(t, "redtrainer", "pikapika123")

	rr := ts.request(http.MethodGet, "/api/v1/auth/me", nil, auth.Token)
	require.Equal(t, http.StatusOK, rr.Code)

	var acct response.Account
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &acct))
	assert.Equal(t, "redtrainer", acct.Username)
	assert.Equal(t, auth.Account.ID, acct.ID)
}

func TestGetMeRejectsDeactivatedAccount(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.register(t, "redtrainer", "pikapika123")

	// Deactivate behind the still-valid token; the next request must fail
	ctx := context.Background()
	acct, err := ts.app.Storage.GetAccount(ctx, model.PlayerID(auth.Account.ID))
	require.NoError(t, err)
	acct.IsActive = false
	require.NoError(t, ts.app.Storage.SaveAccount(ctx, acct))

	rr := ts.request(http.MethodGet, "/api/v1/auth/me", nil, auth.Token)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/inventory", nil, auth.Token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestGetMeRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/auth/me", nil, "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetInventoryHasStarterKit(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.register(t, "redtrainer", "pikapika123")

	rr := ts.request(http.MethodGet, "/api/v1/inventory", nil, auth.Token)
	require.Equal(t, http.StatusOK, rr.Code)

	var inv response.InventoryResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &inv))
	assert.Len(t, inv.Items, 2)
}

func TestGetCreaturesHasStarter(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.register(t, "redtrainer", "pikapika123")

	rr := ts.request(http.MethodGet, "/api/v1/creatures", nil, auth.Token)
	require.Equal(t, http.StatusOK, rr.Code)

	var creatures response.CreaturesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &creatures))
	require.Len(t, creatures.Creatures, 1)
	assert.Equal(t, 5, creatures.Creatures[0].Level)
	assert.Contains(t, []int{1, 4, 7}, creatures.Creatures[0].SpeciesID)
}

func TestInventoryRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/inventory", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
