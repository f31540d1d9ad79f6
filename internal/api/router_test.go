package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/devforge/auth-service/internal/core/service"
	"github.com/devforge/auth-service/internal/infrastructure/db/memory"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	tokens, err := service.NewTokenService(testSecret, "HS256", 30*time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	authService, err := service.NewAuthService(memory.NewUserRepository(), tokens)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	return NewRouter(Dependencies{
		AuthService: authService,
		Verifier:    tokens,
		Log:         zerolog.Nop(),
	})
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func doLogin(t *testing.T, e *echo.Echo, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func doMe(t *testing.T, e *echo.Echo, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// TestRouter_FullAuthFlow walks the whole credential lifecycle end to end:
// register, duplicate register, login, authorized /me, tampered token.
func TestRouter_FullAuthFlow(t *testing.T) {
	e := newTestServer(t)

	// Register alice.
	rec := doJSON(t, e, http.MethodPost, "/register", `{"username":"alice","password":"secret123","email":"alice@example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "scrypt") {
		t.Fatalf("register response leaked the password hash: %s", rec.Body.String())
	}

	// Duplicate username is a 400 conflict regardless of password.
	rec = doJSON(t, e, http.MethodPost, "/register", `{"username":"alice","password":"otherpass9"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400, got %d", rec.Code)
	}

	// Login with the right credentials yields a bearer token.
	rec = doLogin(t, e, "alice", "secret123")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var tokenResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &tokenResp); err != nil {
		t.Fatalf("invalid login response: %v", err)
	}
	if tokenResp.AccessToken == "" || tokenResp.TokenType != "bearer" {
		t.Fatalf("unexpected token response: %+v", tokenResp)
	}

	// The token authorizes /me.
	rec = doMe(t, e, tokenResp.AccessToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("/me: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var me struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("invalid /me response: %v", err)
	}
	if me.Username != "alice" || me.Email != "alice@example.com" {
		t.Fatalf("unexpected /me payload: %+v", me)
	}

	// One appended character breaks the signature.
	rec = doMe(t, e, tokenResp.AccessToken+"x")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("tampered token: expected 401, got %d", rec.Code)
	}
	if rec.Header().Get(echo.HeaderWWWAuthenticate) != "Bearer" {
		t.Fatalf("tampered token: missing WWW-Authenticate challenge")
	}
}

// TestRouter_LoginFailuresAreIndistinguishable asserts the anti-enumeration
// contract: unknown username and wrong password return byte-identical 401s.
func TestRouter_LoginFailuresAreIndistinguishable(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/register", `{"username":"alice","password":"secret123"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}

	unknown := doLogin(t, e, "ghost", "whatever123")
	wrong := doLogin(t, e, "alice", "wrongpass99")

	if unknown.Code != http.StatusUnauthorized || wrong.Code != http.StatusUnauthorized {
		t.Fatalf("expected both 401, got %d and %d", unknown.Code, wrong.Code)
	}
	if unknown.Body.String() != wrong.Body.String() {
		t.Fatalf("401 bodies differ: %q vs %q", unknown.Body.String(), wrong.Body.String())
	}
}

func TestRouter_RegisterValidation(t *testing.T) {
	e := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing username", `{"password":"secret123"}`},
		{"missing password", `{"username":"bob"}`},
		{"short password", `{"username":"bob","password":"short"}`},
		{"bad email", `{"username":"bob","password":"secret123","email":"not-an-email"}`},
	}
	for _, tc := range cases {
		rec := doJSON(t, e, http.MethodPost, "/register", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}

func TestRouter_Health(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "ok" {
		t.Fatalf("unexpected health payload: %+v", resp)
	}
}

func TestRouter_MeWithoutToken(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
