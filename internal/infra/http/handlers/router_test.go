package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arpitk/portfolio-backend/internal/entity"
	"github.com/arpitk/portfolio-backend/internal/infra/auth"
	"github.com/arpitk/portfolio-backend/internal/usecase"
)

const testAdminSecret = "s3cret"

func noLeads() []*entity.Lead {
	return []*entity.Lead{}
}

type testEnv struct {
	router     http.Handler
	repo       *MockLeadRepository
	dispatcher *recordingDispatcher
	store      *auth.TokenStore
	codec      *auth.ClaimsCodec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cvPath := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(cvPath, []byte("%PDF-1.4 test"), 0o644))
	return newTestEnvWithCVPath(t, cvPath)
}

func newTestEnvWithCVPath(t *testing.T, cvPath string) *testEnv {
	t.Helper()

	repo := new(MockLeadRepository)
	dispatcher := &recordingDispatcher{}

	store := auth.NewTokenStore(time.Hour)
	codec := auth.NewClaimsCodec("jwt-test-secret", time.Hour)
	gate := auth.NewGate(
		auth.NewSecretVerifier(testAdminSecret),
		auth.NewLegacyTokenVerifier(store),
		auth.NewClaimsVerifier(codec),
	)

	submitUC := usecase.NewSubmitContactUseCase(repo, dispatcher, "")
	cvUC := usecase.NewRequestCVUseCase(repo, dispatcher, "", cvPath)

	router := NewRouter(RouterDeps{
		Contact:     NewContactHandler(submitUC, cvUC),
		Auth:        NewAuthHandler(testAdminSecret, store, codec, gate),
		Admin:       NewAdminLeadHandler(repo),
		Health:      NewHealthHandler(nil, nil),
		Gate:        gate,
		CORSOrigins: []string{"*"},
	})

	return &testEnv{router: router, repo: repo, dispatcher: dispatcher, store: store, codec: codec}
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAdminRoutesRejectMissingCredentials(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/admin/leads/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestAdminRoutesRejectWrongSecret(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/admin/leads/?admin_key=wrong", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesForbidNonAdminRole(t *testing.T) {
	env := newTestEnv(t)

	token, _, err := env.codec.Issue("viewer", "viewer")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/leads/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := env.do(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminSecretGrantsAccess(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("List", mock.Anything).Return(noLeads(), nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/admin/leads/?admin_key="+testAdminSecret, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLegacyLoginUseRevokeCycle(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("List", mock.Anything).Return(noLeads(), nil)

	// login with the correct secret yields an opaque token
	form := url.Values{"password": {testAdminSecret}}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login/legacy", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := jsonBody(t, rec)
	assert.Equal(t, true, body["is_admin"])
	token, ok := body["admin_token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	// the token opens an admin endpoint
	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/admin/leads/?admin_token="+token, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// revoke it
	rec = env.do(httptest.NewRequest(http.MethodPost, "/api/admin/logout?admin_token="+token, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "logged_out", jsonBody(t, rec)["status"])

	// the same token is now refused
	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/admin/leads/?admin_token="+token, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLegacyLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{"password": {"nope"}}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login/legacy", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := env.do(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTLoginAndMe(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"password":"`+testAdminSecret+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := jsonBody(t, rec)
	assert.Equal(t, "bearer", body["token_type"])
	assert.InDelta(t, 3600, body["expires_in"], 1)
	token, ok := body["access_token"].(string)
	require.True(t, ok)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	me := jsonBody(t, rec)
	assert.Equal(t, "admin", me["user"])
	assert.Equal(t, "admin", me["role"])
	assert.Equal(t, "jwt", me["auth_type"])
}

func TestJWTLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := env.do(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// no token material in the refusal
	assert.NotContains(t, rec.Body.String(), "access_token")
}

func TestValidateEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/admin/validate?admin_key="+testAdminSecret, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := jsonBody(t, rec)
	assert.Equal(t, true, body["is_admin"])
	assert.Equal(t, "legacy", body["auth_type"])

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/admin/validate?admin_token=bogus", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutUnknownTokenIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/admin/logout?admin_token=never-issued", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "logged_out", jsonBody(t, rec)["status"])
}

func TestHealthEndpointWithoutDependencies(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "not configured", body.Dependencies["database"])
	assert.Equal(t, "not configured", body.Dependencies["rabbitmq"])
}
