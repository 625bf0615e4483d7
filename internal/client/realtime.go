package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// TargetAll is the sentinel target meaning "every player in the room".
const TargetAll = "all"

var (
	// ErrNoFichaSelecionada signals a room join attempted without a
	// previously selected character.
	ErrNoFichaSelecionada = errors.New("no character selected")
	// ErrChannelClosed signals an emit without an open channel.
	ErrChannelClosed = errors.New("channel is not open")
	// ErrXPInvalido signals a GM XP grant with a missing target or a
	// non-positive quantity.
	ErrXPInvalido = errors.New("invalid xp grant")
)

// EntryKind discriminates the chat/event log union.
type EntryKind int

const (
	EntryText EntryKind = iota
	EntryError
	EntrySystem
	EntryDice
)

// LogEntry is one chat/event log item. The log is append-only for the
// lifetime of a room visit and re-seeded wholesale on join from the
// server-provided history.
type LogEntry struct {
	Kind      EntryKind
	User      string
	Text      string
	Comando   string
	Resultado string
}

func (e LogEntry) String() string {
	switch e.Kind {
	case EntryError:
		return "[erro] " + e.Text
	case EntrySystem:
		return "* " + e.Text
	case EntryDice:
		if e.User != "" {
			return fmt.Sprintf("%s rolou %s: %s", e.User, e.Comando, e.Resultado)
		}
		return fmt.Sprintf("%s: %s", e.Comando, e.Resultado)
	default:
		if e.User != "" {
			return e.User + ": " + e.Text
		}
		return e.Text
	}
}

// Event is the closed union of inbound channel events, decoded once at the
// channel boundary.
type Event interface{ isEvent() }

// HistoryEvent carries the replayed log delivered right after a join.
type HistoryEvent struct{ Entries []LogEntry }

// MessageEvent carries one live log entry.
type MessageEvent struct{ Entry LogEntry }

// MestreStatusEvent flips the local "is game master for this room" flag.
type MestreStatusEvent struct{ Mestre bool }

// XPUpdateEvent carries an externally granted XP change for one sheet.
type XPUpdateEvent struct {
	FichaID        int64 `json:"ficha_id"`
	XPAtual        int   `json:"xp_atual"`
	XPProximoNivel int   `json:"xp_proximo_nivel"`
}

func (HistoryEvent) isEvent()      {}
func (MessageEvent) isEvent()      {}
func (MestreStatusEvent) isEvent() {}
func (XPUpdateEvent) isEvent()     {}

// ChannelState tracks the per-room-visit lifecycle.
type ChannelState int

const (
	StateDisconnected ChannelState = iota
	StateConnecting
	StateJoined
)

// envelope frames every message on the wire.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinPayload struct {
	Token   string `json:"token"`
	SalaID  int64  `json:"sala_id"`
	FichaID int64  `json:"ficha_id"`
}

type chatPayload struct {
	SalaID  int64  `json:"sala_id"`
	Message string `json:"message"`
	FichaID int64  `json:"ficha_id"`
}

type dicePayload struct {
	SalaID  int64  `json:"sala_id"`
	Comando string `json:"comando"`
	FichaID int64  `json:"ficha_id"`
}

type xpPayload struct {
	Token      string `json:"token"`
	SalaID     int64  `json:"sala_id"`
	AlvoID     string `json:"alvo_id"`
	Quantidade int    `json:"quantidade"`
}

// Channel is the real-time session controller: one duplex connection per
// room visit. It joins with identity plus character selection, merges
// inbound events into the local log, and exposes fire-and-forget emits.
// Success of an emit is only ever inferred from a resulting event echoed
// back through the shared channel.
type Channel struct {
	socketURL   string
	dialTimeout time.Duration
	logger      *slog.Logger

	// writeMu serializes writes to the connection (required by
	// gorilla/websocket).
	writeMu sync.Mutex
	conn    *websocket.Conn

	mu          sync.Mutex
	state       ChannelState
	closed      bool
	entries     []LogEntry
	pending     []LogEntry
	historyDone bool
	mestre      bool
	token       string
	salaID      int64
	fichaID     int64

	events chan Event
}

// NewChannel builds a disconnected controller for one room visit.
func NewChannel(cfg Config, logger *slog.Logger) *Channel {
	return &Channel{
		socketURL:   cfg.SocketURL,
		dialTimeout: cfg.DialTimeout,
		logger:      logger,
		events:      make(chan Event, 64),
	}
}

// closeEvents closes the events channel at most once and marks the channel
// permanently unusable.
func (c *Channel) closeEvents() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.events)
}

// Join opens the channel and announces the session in the given room. A
// missing character selection produces exactly one local error entry and
// opens no connection. The events channel is closed when the connection
// ends, so callers can range over Events until teardown. A Channel is good
// for one visit; after any failure or teardown, Join reports the channel
// closed and a fresh Channel must be built.
func (c *Channel) Join(ctx context.Context, session Session, salaID, fichaID int64) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrChannelClosed
	}
	c.mu.Unlock()

	if fichaID == 0 {
		c.appendLocal(LogEntry{Kind: EntryError, Text: "Nenhuma ficha selecionada para entrar na sala."})
		c.closeEvents()
		return ErrNoFichaSelecionada
	}

	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return errors.New("channel already open")
	}
	c.state = StateConnecting
	c.token = session.Token
	c.salaID = salaID
	c.fichaID = fichaID
	c.mu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: c.dialTimeout}
	conn, _, err := dialer.DialContext(ctx, c.socketURL, nil)
	if err != nil {
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		c.appendLocal(LogEntry{Kind: EntryError, Text: "Erro de conexão com o servidor da sala."})
		c.closeEvents()
		return fmt.Errorf("dial channel: %w", err)
	}

	c.writeMu.Lock()
	c.conn = conn
	c.writeMu.Unlock()

	if err := c.emit("join_room", joinPayload{Token: session.Token, SalaID: salaID, FichaID: fichaID}); err != nil {
		conn.Close()
		c.writeMu.Lock()
		c.conn = nil
		c.writeMu.Unlock()
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		c.closeEvents()
		return err
	}

	c.mu.Lock()
	c.state = StateJoined
	c.mu.Unlock()
	c.logger.Info("joined room", slog.Int64("sala", salaID), slog.Int64("ficha", fichaID))

	go c.readLoop(conn)
	return nil
}

func (c *Channel) readLoop(conn *websocket.Conn) {
	defer func() {
		conn.Close()
		c.writeMu.Lock()
		c.conn = nil
		c.writeMu.Unlock()
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		c.closeEvents()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info("channel closed", slog.String("reason", err.Error()))
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Error("decode frame", slog.String("error", err.Error()))
			continue
		}
		c.handle(env)
	}
}

// handle decodes one inbound envelope into the closed event union and
// merges it into local state.
func (c *Channel) handle(env envelope) {
	switch env.Event {
	case "historico":
		var raw []json.RawMessage
		if err := json.Unmarshal(env.Data, &raw); err != nil {
			c.logger.Error("decode history", slog.String("error", err.Error()))
			return
		}
		entries := make([]LogEntry, 0, len(raw))
		for _, item := range raw {
			entries = append(entries, decodeLogEntry(item))
		}

		// Replay replaces the log wholesale. Live entries that raced
		// ahead of the replay were buffered and are appended after
		// it, preserving arrival order.
		c.mu.Lock()
		c.entries = append(entries, c.pending...)
		c.pending = nil
		c.historyDone = true
		snapshot := append([]LogEntry(nil), c.entries...)
		c.mu.Unlock()
		c.events <- HistoryEvent{Entries: snapshot}

	case "message":
		entry := decodeLogEntry(env.Data)
		c.mu.Lock()
		if c.historyDone {
			c.entries = append(c.entries, entry)
		} else {
			c.pending = append(c.pending, entry)
		}
		c.mu.Unlock()
		c.events <- MessageEvent{Entry: entry}

	case "status_mestre":
		var mestre bool
		if err := json.Unmarshal(env.Data, &mestre); err != nil {
			c.logger.Error("decode mestre status", slog.String("error", err.Error()))
			return
		}
		c.mu.Lock()
		c.mestre = mestre
		c.mu.Unlock()
		c.events <- MestreStatusEvent{Mestre: mestre}

	case "xp_update":
		var update XPUpdateEvent
		if err := json.Unmarshal(env.Data, &update); err != nil {
			c.logger.Error("decode xp update", slog.String("error", err.Error()))
			return
		}
		c.events <- update

	default:
		c.logger.Info("unknown event", slog.String("event", env.Event))
	}
}

// decodeLogEntry turns a wire payload into a typed log entry. Payloads are
// either a bare string or an object carrying one of the known shapes.
func decodeLogEntry(raw json.RawMessage) LogEntry {
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return LogEntry{Kind: EntryText, Text: plain}
	}

	var obj struct {
		User      string `json:"user"`
		Text      string `json:"text"`
		Message   string `json:"message"`
		Error     string `json:"error"`
		System    string `json:"system"`
		Comando   string `json:"comando"`
		Resultado any    `json:"resultado"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return LogEntry{Kind: EntryError, Text: "mensagem ilegível do servidor"}
	}

	switch {
	case obj.Error != "":
		return LogEntry{Kind: EntryError, Text: obj.Error}
	case obj.System != "":
		return LogEntry{Kind: EntrySystem, Text: obj.System}
	case obj.Comando != "":
		resultado := ""
		if obj.Resultado != nil {
			resultado = fmt.Sprint(obj.Resultado)
		}
		return LogEntry{Kind: EntryDice, User: obj.User, Comando: obj.Comando, Resultado: resultado}
	default:
		text := obj.Text
		if text == "" {
			text = obj.Message
		}
		return LogEntry{Kind: EntryText, User: obj.User, Text: text}
	}
}

// SendMessage emits a chat message. Blank messages are ignored.
func (c *Channel) SendMessage(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	c.mu.Lock()
	salaID, fichaID := c.salaID, c.fichaID
	c.mu.Unlock()
	return c.emit("send_message", chatPayload{SalaID: salaID, Message: text, FichaID: fichaID})
}

// RollDice emits a dice command. Blank commands are ignored; the server
// resolves the roll and echoes the result back as an event.
func (c *Channel) RollDice(comando string) error {
	comando = strings.TrimSpace(comando)
	if comando == "" {
		return nil
	}
	c.mu.Lock()
	salaID, fichaID := c.salaID, c.fichaID
	c.mu.Unlock()
	return c.emit("roll_dice", dicePayload{SalaID: salaID, Comando: comando, FichaID: fichaID})
}

// DarXP emits a GM XP grant for one character or, with TargetAll, for every
// player in the room. An invalid quantity, missing target, or missing
// channel surfaces a local-only error entry and never reaches the server.
func (c *Channel) DarXP(alvoID string, quantidade int) error {
	if alvoID == "" || quantidade <= 0 || !c.open() {
		c.appendLocal(LogEntry{Kind: EntryError, Text: "Erro: Conexão perdida ou XP inválido."})
		return ErrXPInvalido
	}
	c.mu.Lock()
	token, salaID := c.token, c.salaID
	c.mu.Unlock()
	return c.emit("mestre_dar_xp", xpPayload{Token: token, SalaID: salaID, AlvoID: alvoID, Quantidade: quantidade})
}

func (c *Channel) open() bool {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn != nil
}

func (c *Channel) emit(event string, data any) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil {
		return ErrChannelClosed
	}
	if err := c.conn.WriteJSON(envelope{Event: event, Data: encoded}); err != nil {
		c.logger.Error("emit", slog.String("event", event), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func (c *Channel) appendLocal(entry LogEntry) {
	c.mu.Lock()
	c.entries = append(c.entries, entry)
	c.mu.Unlock()
}

// Leave tears the channel down unconditionally. No reconnection is ever
// attempted. Safe to call more than once.
func (c *Channel) Leave() {
	c.writeMu.Lock()
	conn := c.conn
	c.writeMu.Unlock()
	if conn != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	}
}

// Events delivers decoded inbound events in arrival order. The channel is
// closed on teardown.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// Entries returns a snapshot of the log in arrival order.
func (c *Channel) Entries() []LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]LogEntry(nil), c.entries...)
}

// Mestre reports whether the server has flagged this connection as the
// room's game master.
func (c *Channel) Mestre() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mestre
}

// State returns the current lifecycle state.
func (c *Channel) State() ChannelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
