package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// ErrNotFound signals a 404 from the backend.
var ErrNotFound = errors.New("not found")

// BackendError carries a backend-reported failure message verbatim.
type BackendError struct {
	Status   int
	Mensagem string
}

func (e *BackendError) Error() string {
	if e.Mensagem != "" {
		return e.Mensagem
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// StatusResult mirrors the backend's generic success/message envelope.
type StatusResult struct {
	Sucesso  bool   `json:"sucesso"`
	Mensagem string `json:"mensagem"`
}

// API decorates outgoing requests with the stored credential and performs
// them. An unauthorized response forces session teardown before the error is
// returned, so callers must tolerate failures that arrive after logout has
// already fired. This is the only bridge between data operations and
// session expiry.
type API struct {
	baseURL    string
	httpClient *http.Client
	sessions   *SessionStore
	creds      *CredentialStore
	logger     *slog.Logger
}

// NewAPI builds the REST client over the given session store.
func NewAPI(cfg Config, sessions *SessionStore, creds *CredentialStore, logger *slog.Logger) *API {
	return &API{
		baseURL:    cfg.APIBaseURL,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		sessions:   sessions,
		creds:      creds,
		logger:     logger,
	}
}

// do performs one request against the /api surface. The credential is read
// fresh from the slot on every call rather than cached, so a logout that
// races an in-flight call at worst sends a credential that is being
// invalidated, which the 401 handling below already tolerates.
func (a *API) do(ctx context.Context, method, endpoint string, body any, authenticated bool) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+"/api"+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if authenticated {
		token, err := a.creds.Token()
		if err != nil {
			return nil, err
		}
		req.Header.Set("x-access-token", token)
	}

	start := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error("request", slog.String("method", method), slog.String("endpoint", endpoint), slog.String("error", err.Error()))
		return nil, err
	}
	a.logger.Info("request", slog.String("method", method), slog.String("endpoint", endpoint), slog.Int("status", resp.StatusCode), slog.Duration("duration", time.Since(start)))

	if resp.StatusCode == http.StatusUnauthorized {
		if err := a.sessions.Logout(); err != nil {
			a.logger.Error("forced logout", slog.String("error", err.Error()))
		}
	}
	return resp, nil
}

// doJSON performs a request and decodes the response body into out, which
// may be nil when the caller only cares about success.
func (a *API) doJSON(ctx context.Context, method, endpoint string, body, out any) error {
	resp, err := a.do(ctx, method, endpoint, body, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		var status StatusResult
		_ = json.NewDecoder(resp.Body).Decode(&status)
		return &BackendError{Status: resp.StatusCode, Mensagem: status.Mensagem}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Registrar creates a new account.
func (a *API) Registrar(ctx context.Context, username, password string) (StatusResult, error) {
	var result StatusResult
	body := map[string]string{"username": username, "password": password}
	resp, err := a.do(ctx, http.MethodPost, "/registrar", body, false)
	if err != nil {
		return StatusResult{}, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return StatusResult{}, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}

// Salas lists the rooms available to the current user.
func (a *API) Salas(ctx context.Context) ([]Sala, error) {
	var salas []Sala
	if err := a.doJSON(ctx, http.MethodGet, "/salas", nil, &salas); err != nil {
		return nil, err
	}
	return salas, nil
}

// CriarSala creates a room. An empty senha creates a public room.
func (a *API) CriarSala(ctx context.Context, nome, senha string) (StatusResult, error) {
	var result StatusResult
	body := map[string]string{"nome": nome, "senha": senha}
	if err := a.doJSON(ctx, http.MethodPost, "/salas", body, &result); err != nil {
		return StatusResult{}, err
	}
	return result, nil
}

// VerificarSenha checks a room password before entry.
func (a *API) VerificarSenha(ctx context.Context, salaID int64, senha string) (StatusResult, error) {
	var result StatusResult
	body := map[string]any{"sala_id": salaID, "senha": senha}
	if err := a.doJSON(ctx, http.MethodPost, "/salas/verificar-senha", body, &result); err != nil {
		return StatusResult{}, err
	}
	return result, nil
}

// Fichas lists the current user's character sheets.
func (a *API) Fichas(ctx context.Context) ([]Ficha, error) {
	var fichas []Ficha
	if err := a.doJSON(ctx, http.MethodGet, "/fichas", nil, &fichas); err != nil {
		return nil, err
	}
	return fichas, nil
}

// FichaByID fetches one character sheet. Returns ErrNotFound when the sheet
// no longer exists, which callers use to fail closed on stale selections.
func (a *API) FichaByID(ctx context.Context, id int64) (Ficha, error) {
	var ficha Ficha
	if err := a.doJSON(ctx, http.MethodGet, "/fichas/"+strconv.FormatInt(id, 10), nil, &ficha); err != nil {
		return Ficha{}, err
	}
	return ficha, nil
}

// CriarFicha creates a character sheet.
func (a *API) CriarFicha(ctx context.Context, ficha Ficha) (StatusResult, error) {
	var result StatusResult
	if err := a.doJSON(ctx, http.MethodPost, "/fichas", ficha, &result); err != nil {
		return StatusResult{}, err
	}
	return result, nil
}

// AtualizarFicha sends the whole sheet as a full replace.
func (a *API) AtualizarFicha(ctx context.Context, ficha Ficha) (StatusResult, error) {
	var result StatusResult
	endpoint := "/fichas/" + strconv.FormatInt(ficha.ID, 10)
	if err := a.doJSON(ctx, http.MethodPut, endpoint, ficha, &result); err != nil {
		return StatusResult{}, err
	}
	return result, nil
}

// ApagarFicha deletes a character sheet.
func (a *API) ApagarFicha(ctx context.Context, id int64) error {
	return a.doJSON(ctx, http.MethodDelete, "/fichas/"+strconv.FormatInt(id, 10), nil, nil)
}

// Anotacoes fetches a room's shared notes.
func (a *API) Anotacoes(ctx context.Context, salaID int64) (Anotacoes, error) {
	var notas Anotacoes
	endpoint := "/salas/" + strconv.FormatInt(salaID, 10) + "/anotacoes"
	if err := a.doJSON(ctx, http.MethodGet, endpoint, nil, &notas); err != nil {
		return Anotacoes{}, err
	}
	return notas, nil
}

// SalvarAnotacoes replaces a room's shared notes.
func (a *API) SalvarAnotacoes(ctx context.Context, salaID int64, notas string) error {
	endpoint := "/salas/" + strconv.FormatInt(salaID, 10) + "/anotacoes"
	return a.doJSON(ctx, http.MethodPut, endpoint, Anotacoes{Notas: notas}, nil)
}

// Inventario lists a room's shared inventory from one character's view.
func (a *API) Inventario(ctx context.Context, salaID, fichaID int64) ([]ItemInventario, error) {
	var itens []ItemInventario
	endpoint := fmt.Sprintf("/salas/%d/inventario?ficha_id=%d", salaID, fichaID)
	if err := a.doJSON(ctx, http.MethodGet, endpoint, nil, &itens); err != nil {
		return nil, err
	}
	return itens, nil
}

// AdicionarItemInventario adds an item to a room's shared inventory.
func (a *API) AdicionarItemInventario(ctx context.Context, salaID, fichaID int64, nome, descricao string) error {
	endpoint := "/salas/" + strconv.FormatInt(salaID, 10) + "/inventario"
	body := map[string]any{"ficha_id": fichaID, "nome_item": nome, "descricao": descricao}
	return a.doJSON(ctx, http.MethodPost, endpoint, body, nil)
}

// DescartarItemInventario removes an item from a room's shared inventory.
func (a *API) DescartarItemInventario(ctx context.Context, itemID int64) error {
	return a.doJSON(ctx, http.MethodDelete, "/inventario-sala/"+strconv.FormatInt(itemID, 10), nil, nil)
}

// Monstros lists the bestiary catalog. Catalog reads are public.
func (a *API) Monstros(ctx context.Context) ([]Monstro, error) {
	var monstros []Monstro
	if err := a.publicGet(ctx, "/monstros", &monstros); err != nil {
		return nil, err
	}
	return monstros, nil
}

// Itens lists the item catalog. Catalog reads are public.
func (a *API) Itens(ctx context.Context) ([]Item, error) {
	var itens []Item
	if err := a.publicGet(ctx, "/itens", &itens); err != nil {
		return nil, err
	}
	return itens, nil
}

// Habilidades lists the skill catalog. Catalog reads are public.
func (a *API) Habilidades(ctx context.Context) ([]Habilidade, error) {
	var habilidades []Habilidade
	if err := a.publicGet(ctx, "/habilidades", &habilidades); err != nil {
		return nil, err
	}
	return habilidades, nil
}

func (a *API) publicGet(ctx context.Context, endpoint string, out any) error {
	resp, err := a.do(ctx, http.MethodGet, endpoint, nil, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

// CriarMonstro adds a bestiary entry. Mestre only.
func (a *API) CriarMonstro(ctx context.Context, monstro Monstro) error {
	return a.doJSON(ctx, http.MethodPost, "/monstros", monstro, nil)
}

// AtualizarMonstro replaces a bestiary entry. Mestre only.
func (a *API) AtualizarMonstro(ctx context.Context, monstro Monstro) error {
	return a.doJSON(ctx, http.MethodPut, "/monstros/"+strconv.FormatInt(monstro.ID, 10), monstro, nil)
}

// ApagarMonstro removes a bestiary entry. Mestre only.
func (a *API) ApagarMonstro(ctx context.Context, id int64) error {
	return a.doJSON(ctx, http.MethodDelete, "/monstros/"+strconv.FormatInt(id, 10), nil, nil)
}

// CriarItem adds an item catalog entry. Mestre only.
func (a *API) CriarItem(ctx context.Context, item Item) error {
	return a.doJSON(ctx, http.MethodPost, "/itens", item, nil)
}

// AtualizarItem replaces an item catalog entry. Mestre only.
func (a *API) AtualizarItem(ctx context.Context, item Item) error {
	return a.doJSON(ctx, http.MethodPut, "/itens/"+strconv.FormatInt(item.ID, 10), item, nil)
}

// ApagarItem removes an item catalog entry. Mestre only.
func (a *API) ApagarItem(ctx context.Context, id int64) error {
	return a.doJSON(ctx, http.MethodDelete, "/itens/"+strconv.FormatInt(id, 10), nil, nil)
}

// CriarHabilidade adds a skill catalog entry. Mestre only.
func (a *API) CriarHabilidade(ctx context.Context, habilidade Habilidade) error {
	return a.doJSON(ctx, http.MethodPost, "/habilidades", habilidade, nil)
}

// AtualizarHabilidade replaces a skill catalog entry. Mestre only.
func (a *API) AtualizarHabilidade(ctx context.Context, habilidade Habilidade) error {
	return a.doJSON(ctx, http.MethodPut, "/habilidades/"+strconv.FormatInt(habilidade.ID, 10), habilidade, nil)
}

// ApagarHabilidade removes a skill catalog entry. Mestre only.
func (a *API) ApagarHabilidade(ctx context.Context, id int64) error {
	return a.doJSON(ctx, http.MethodDelete, "/habilidades/"+strconv.FormatInt(id, 10), nil, nil)
}
