package client

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// SessionStore owns the current identity. It is constructed once at
// application start and passed by reference to every consumer; there is no
// package-level session state.
type SessionStore struct {
	mu      sync.RWMutex
	current *Session

	creds      *CredentialStore
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// NewSessionStore builds a session store over the persisted credential slot.
func NewSessionStore(cfg Config, creds *CredentialStore, logger *slog.Logger) *SessionStore {
	return &SessionStore{
		creds:      creds,
		baseURL:    cfg.APIBaseURL,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
		now:        time.Now,
	}
}

// Initialize derives the session from the persisted credential, if any.
// An expired or malformed credential is discarded and the slot cleared;
// the session simply stays empty.
func (s *SessionStore) Initialize() error {
	token, err := s.creds.Token()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	claims, ok := DecodeCredential(token)
	if !ok || claims.Expired(s.now()) {
		s.logger.Info("discarding stored credential", slog.Bool("decoded", ok))
		if err := s.creds.Clear(); err != nil {
			return err
		}
		return nil
	}

	s.mu.Lock()
	s.current = &Session{
		Token:  token,
		Role:   claims.Role,
		Name:   claims.Name,
		UserID: claims.Subject,
	}
	s.mu.Unlock()
	return nil
}

// Login exchanges credentials with the backend. On success the credential is
// persisted and the session populated. The backend result is returned to the
// caller for display regardless of outcome; a transport failure is
// synthesized into a failed result rather than an error.
func (s *SessionStore) Login(ctx context.Context, username, password string) LoginResult {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/login", bytes.NewReader(body))
	if err != nil {
		return LoginResult{Mensagem: "Erro de conexão com o servidor."}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("login request", slog.String("error", err.Error()))
		return LoginResult{Mensagem: "Erro de conexão com o servidor."}
	}
	defer resp.Body.Close()

	var result LoginResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		s.logger.Error("decode login response", slog.String("error", err.Error()))
		return LoginResult{Mensagem: "Erro de conexão com o servidor."}
	}

	if result.Sucesso && result.Token != "" && result.Role != "" {
		// Persist first so the slot and the in-memory session never
		// disagree for more than one synchronous step.
		if err := s.creds.Save(result.Token); err != nil {
			s.logger.Error("persist credential", slog.String("error", err.Error()))
			return LoginResult{Mensagem: "Erro ao guardar a credencial."}
		}

		claims, _ := DecodeCredential(result.Token)
		s.mu.Lock()
		s.current = &Session{
			Token:  result.Token,
			Role:   result.Role,
			Name:   claims.Name,
			UserID: claims.Subject,
		}
		s.mu.Unlock()
		s.logger.Info("logged in", slog.String("user", claims.Name), slog.String("role", string(result.Role)))
	}

	return result
}

// Logout clears the persisted credential and empties the session.
// Idempotent. The in-memory session is emptied even when clearing the slot
// fails; the error reports a slot that may still hold a credential.
func (s *SessionStore) Logout() error {
	err := s.creds.Clear()
	if err != nil {
		s.logger.Error("clear credential", slog.String("error", err.Error()))
	}
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return err
}

// Current returns the active session, if one exists.
func (s *SessionStore) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}
