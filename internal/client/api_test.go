package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestAPI(t *testing.T, backend *httptest.Server) (*API, *SessionStore, *CredentialStore) {
	t.Helper()
	creds := newTestStore(t)
	cfg := testConfig(backend.URL)
	sessions := NewSessionStore(cfg, creds, testLogger())
	return NewAPI(cfg, sessions, creds, testLogger()), sessions, creds
}

func seedSession(t *testing.T, sessions *SessionStore, creds *CredentialStore) string {
	t.Helper()
	token := makeToken(t, jwt.MapClaims{
		"sub":  "7",
		"name": "MrCap",
		"role": "player",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	if err := creds.Save(token); err != nil {
		t.Fatalf("seed credential: %v", err)
	}
	if err := sessions.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return token
}

func TestRequestCarriesCredentialHeader(t *testing.T) {
	var gotToken, gotContentType string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("x-access-token")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewEncoder(w).Encode([]Sala{})
	}))
	defer backend.Close()

	api, sessions, creds := newTestAPI(t, backend)
	token := seedSession(t, sessions, creds)

	if _, err := api.Salas(context.Background()); err != nil {
		t.Fatalf("salas: %v", err)
	}
	if gotToken != token {
		t.Fatalf("expected credential header, got %q", gotToken)
	}
	if gotContentType != "application/json" {
		t.Fatalf("expected json content type, got %q", gotContentType)
	}
}

func TestUnauthorizedResponseForcesLogout(t *testing.T) {
	var mu sync.Mutex
	var tokens []string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		tokens = append(tokens, r.Header.Get("x-access-token"))
		mu.Unlock()
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer backend.Close()

	api, sessions, creds := newTestAPI(t, backend)
	seedSession(t, sessions, creds)

	_, err := api.Salas(context.Background())
	if err == nil {
		t.Fatalf("expected error from unauthorized response")
	}
	if _, ok := sessions.Current(); ok {
		t.Fatalf("expected session teardown after 401")
	}

	// A later call still happens, now with no valid credential attached.
	_, _ = api.Salas(context.Background())
	mu.Lock()
	defer mu.Unlock()
	if len(tokens) != 2 {
		t.Fatalf("expected two requests, got %d", len(tokens))
	}
	if tokens[1] != "" {
		t.Fatalf("expected empty credential after logout, got %q", tokens[1])
	}
}

func TestFichaByIDNotFound(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer backend.Close()

	api, sessions, creds := newTestAPI(t, backend)
	seedSession(t, sessions, creds)

	_, err := api.FichaByID(context.Background(), 404)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBackendErrorMessageSurfacesVerbatim(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(StatusResult{Mensagem: "Nome da sala já em uso."})
	}))
	defer backend.Close()

	api, sessions, creds := newTestAPI(t, backend)
	seedSession(t, sessions, creds)

	_, err := api.CriarSala(context.Background(), "Taverna", "")
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if backendErr.Mensagem != "Nome da sala já em uso." {
		t.Fatalf("expected verbatim message, got %q", backendErr.Mensagem)
	}
}

func TestCatalogReadsAreUnauthenticated(t *testing.T) {
	var sawToken bool
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-access-token") != "" {
			sawToken = true
		}
		_ = json.NewEncoder(w).Encode([]Monstro{{ID: 1, Nome: "Goblin"}})
	}))
	defer backend.Close()

	api, sessions, creds := newTestAPI(t, backend)
	seedSession(t, sessions, creds)

	monstros, err := api.Monstros(context.Background())
	if err != nil {
		t.Fatalf("monstros: %v", err)
	}
	if len(monstros) != 1 || monstros[0].Nome != "Goblin" {
		t.Fatalf("unexpected catalog: %+v", monstros)
	}
	if sawToken {
		t.Fatalf("catalog read must not carry the credential")
	}
}

func TestCatalogUpdateRoundTrip(t *testing.T) {
	var mu sync.Mutex
	stored := map[int64]Monstro{7: {ID: 7, Nome: "Goblin", VidaMaxima: 7, Defesa: 13, DanoDado: "1d6", XPOferecido: 50}}
	var sawToken string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			if r.URL.Path != "/api/monstros/7" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			sawToken = r.Header.Get("x-access-token")
			var monstro Monstro
			_ = json.NewDecoder(r.Body).Decode(&monstro)
			stored[monstro.ID] = monstro
			_ = json.NewEncoder(w).Encode(StatusResult{Sucesso: true})
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode([]Monstro{stored[7]})
		}
	}))
	defer backend.Close()

	api, sessions, creds := newTestAPI(t, backend)
	token := seedSession(t, sessions, creds)

	updated := Monstro{ID: 7, Nome: "Goblin Chefe", VidaMaxima: 21, Defesa: 15, DanoDado: "2d6", XPOferecido: 150}
	if err := api.AtualizarMonstro(context.Background(), updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	mu.Lock()
	gotToken := sawToken
	mu.Unlock()
	if gotToken != token {
		t.Fatalf("update must carry the credential, got %q", gotToken)
	}

	monstros, err := api.Monstros(context.Background())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(monstros) != 1 || monstros[0].Nome != "Goblin Chefe" || monstros[0].VidaMaxima != 21 {
		t.Fatalf("unexpected catalog after update: %+v", monstros)
	}
}

func TestFichaSaveRoundTrip(t *testing.T) {
	var mu sync.Mutex
	stored := map[int64]Ficha{}
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			var ficha Ficha
			_ = json.NewDecoder(r.Body).Decode(&ficha)
			stored[ficha.ID] = ficha
			_ = json.NewEncoder(w).Encode(StatusResult{Sucesso: true, Mensagem: "Ficha atualizada!"})
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(stored[3])
		}
	}))
	defer backend.Close()

	api, sessions, creds := newTestAPI(t, backend)
	seedSession(t, sessions, creds)

	editor := NewFichaEditor(sampleFicha())
	editor.AjustarAtributo("forca", 2)
	editor.AdicionarPericia("Furtividade")

	result, err := api.AtualizarFicha(context.Background(), editor.Ficha())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !result.Sucesso {
		t.Fatalf("expected success, got %+v", result)
	}
	editor.MarkSaved()

	reloaded, err := api.FichaByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Atributos["forca"] != 10 {
		t.Fatalf("forca = %d after round trip, want 10", reloaded.Atributos["forca"])
	}
	if len(reloaded.Pericias) != 2 || reloaded.Pericias[1] != "Furtividade" {
		t.Fatalf("unexpected skills after round trip: %v", reloaded.Pericias)
	}
}
