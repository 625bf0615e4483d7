package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(baseURL string) Config {
	return Config{
		APIBaseURL:     baseURL,
		SocketURL:      "ws://127.0.0.1:0/ws",
		RequestTimeout: 2 * time.Second,
		DialTimeout:    2 * time.Second,
	}
}

func newTestSessionStore(t *testing.T, baseURL string) (*SessionStore, *CredentialStore) {
	t.Helper()
	creds := newTestStore(t)
	return NewSessionStore(testConfig(baseURL), creds, testLogger()), creds
}

func TestInitializeWithoutCredential(t *testing.T) {
	sessions, _ := newTestSessionStore(t, "http://127.0.0.1:0")
	if err := sessions.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, ok := sessions.Current(); ok {
		t.Fatalf("expected empty session")
	}
}

func TestInitializeWithValidCredential(t *testing.T) {
	sessions, creds := newTestSessionStore(t, "http://127.0.0.1:0")
	token := makeToken(t, jwt.MapClaims{
		"sub":  "42",
		"name": "Aria",
		"role": "mestre",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	if err := creds.Save(token); err != nil {
		t.Fatalf("seed credential: %v", err)
	}

	if err := sessions.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	session, ok := sessions.Current()
	if !ok {
		t.Fatalf("expected populated session")
	}
	if session.Role != RoleMestre || session.Name != "Aria" || session.UserID != "42" || session.Token != token {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestInitializeDiscardsExpiredCredential(t *testing.T) {
	sessions, creds := newTestSessionStore(t, "http://127.0.0.1:0")
	token := makeToken(t, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	if err := creds.Save(token); err != nil {
		t.Fatalf("seed credential: %v", err)
	}

	if err := sessions.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, ok := sessions.Current(); ok {
		t.Fatalf("expected empty session for expired credential")
	}
	stored, err := creds.Token()
	if err != nil {
		t.Fatalf("read slot: %v", err)
	}
	if stored != "" {
		t.Fatalf("expected cleared slot, got %q", stored)
	}
}

func TestInitializeDiscardsMalformedCredential(t *testing.T) {
	sessions, creds := newTestSessionStore(t, "http://127.0.0.1:0")
	if err := creds.Save("garbage"); err != nil {
		t.Fatalf("seed credential: %v", err)
	}

	if err := sessions.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, ok := sessions.Current(); ok {
		t.Fatalf("expected empty session for malformed credential")
	}
	if stored, _ := creds.Token(); stored != "" {
		t.Fatalf("expected cleared slot, got %q", stored)
	}
}

func TestLoginSuccessPersistsCredential(t *testing.T) {
	token := makeToken(t, jwt.MapClaims{
		"sub":  "7",
		"name": "MrCap",
		"role": "player",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "mrcap" || body["password"] != "senha" {
			t.Errorf("unexpected credentials: %+v", body)
		}
		_ = json.NewEncoder(w).Encode(LoginResult{Sucesso: true, Mensagem: "Bem-vindo!", Token: token, Role: RolePlayer})
	}))
	defer backend.Close()

	sessions, creds := newTestSessionStore(t, backend.URL)
	result := sessions.Login(context.Background(), "mrcap", "senha")
	if !result.Sucesso {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Mensagem != "Bem-vindo!" {
		t.Fatalf("expected backend message passed through, got %q", result.Mensagem)
	}

	stored, err := creds.Token()
	if err != nil {
		t.Fatalf("read slot: %v", err)
	}
	if stored != token {
		t.Fatalf("slot should hold exactly the issued credential")
	}
	session, ok := sessions.Current()
	if !ok || session.Name != "MrCap" || session.Role != RolePlayer {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestLoginFailureReturnsBackendMessage(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(LoginResult{Sucesso: false, Mensagem: "Usuário ou senha inválidos."})
	}))
	defer backend.Close()

	sessions, creds := newTestSessionStore(t, backend.URL)
	result := sessions.Login(context.Background(), "mrcap", "errada")
	if result.Sucesso {
		t.Fatalf("expected failure")
	}
	if result.Mensagem != "Usuário ou senha inválidos." {
		t.Fatalf("expected backend message verbatim, got %q", result.Mensagem)
	}
	if _, ok := sessions.Current(); ok {
		t.Fatalf("expected empty session after failed login")
	}
	if stored, _ := creds.Token(); stored != "" {
		t.Fatalf("slot should stay empty after failed login")
	}
}

func TestLoginTransportFailureIsSynthesized(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close()

	sessions, _ := newTestSessionStore(t, backend.URL)
	result := sessions.Login(context.Background(), "mrcap", "senha")
	if result.Sucesso {
		t.Fatalf("expected synthesized failure")
	}
	if result.Mensagem == "" {
		t.Fatalf("expected a user-facing message")
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	sessions, creds := newTestSessionStore(t, "http://127.0.0.1:0")
	token := makeToken(t, jwt.MapClaims{"sub": "7", "role": "player", "exp": time.Now().Add(time.Hour).Unix()})
	if err := creds.Save(token); err != nil {
		t.Fatalf("seed credential: %v", err)
	}
	if err := sessions.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if err := sessions.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := sessions.Logout(); err != nil {
		t.Fatalf("repeated logout: %v", err)
	}

	if _, ok := sessions.Current(); ok {
		t.Fatalf("expected empty session")
	}
	if stored, _ := creds.Token(); stored != "" {
		t.Fatalf("expected cleared slot, got %q", stored)
	}
}

func TestLogoutSurfacesClearFailure(t *testing.T) {
	sessions, creds := newTestSessionStore(t, "http://127.0.0.1:0")
	token := makeToken(t, jwt.MapClaims{"sub": "7", "role": "player", "exp": time.Now().Add(time.Hour).Unix()})
	if err := creds.Save(token); err != nil {
		t.Fatalf("seed credential: %v", err)
	}
	if err := sessions.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	// A closed store makes the slot unclearable.
	if err := creds.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	if err := sessions.Logout(); err == nil {
		t.Fatalf("expected an error when the slot cannot be cleared")
	}
	if _, ok := sessions.Current(); ok {
		t.Fatalf("in-memory session must be emptied regardless")
	}
}
