package server

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"sync"
	"time"

	"fodinha-game/internal/bots"
	"fodinha-game/internal/database"
	"fodinha-game/internal/game"
	"fodinha-game/internal/protocol"
	"fodinha-game/internal/shared"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// clientMessage is a helper struct to pass messages along with the client reference.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

// ResultStore persists finished matches.
type ResultStore interface {
	Insert(ctx context.Context, result database.MatchResult) error
	GetAll(ctx context.Context) ([]database.MatchResult, error)
	GetByID(ctx context.Context, id string) (database.MatchResult, error)
	GetByPlayer(ctx context.Context, playerName string) ([]database.MatchResult, error)
}

// Settings shape every table the hub creates.
type Settings struct {
	Seats    int
	Lives    int
	BotLevel string
	Pacing   game.Pacing
}

// humanSeat is the seat each connection plays; the rest of the table is automated.
const humanSeat = "player-1"

// Hub manages WebSocket connections and the table each one plays at.
type Hub struct {
	clients        map[*Client]bool
	processMessage chan clientMessage
	register       chan *Client
	unregister     chan *Client
	done           chan struct{}
	clientMu       sync.RWMutex
	settings       Settings
	store          ResultStore
	log            logrus.FieldLogger
}

// newClient prepares a client for registration.
func (h *Hub) newClient(conn *websocket.Conn) *Client {
	id := uuid.NewString()
	return &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 256),
		ID:     id,
		SeatID: humanSeat,
		log:    h.log.WithField("client", id),
	}
}

// NewHub creates a new Hub instance. store may be nil, in which case results are not kept.
func NewHub(settings Settings, store ResultStore, log logrus.FieldLogger) *Hub {
	return &Hub{
		clients:        make(map[*Client]bool),
		processMessage: make(chan clientMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		done:           make(chan struct{}),
		settings:       settings,
		store:          store,
		log:            log,
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.clientMu.RLock()
	defer h.clientMu.RUnlock()
	return len(h.clients)
}

// Run starts the Hub's main loop and returns once ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.clientMu.Lock()
			h.clients[client] = true
			h.clientMu.Unlock()
			client.log.WithField("addr", client.remoteAddr()).Info("Client connected.")
			h.startGame(client, protocol.NewGamePayload{})

		case client := <-h.unregister:
			h.clientMu.Lock()
			_, exists := h.clients[client]
			delete(h.clients, client)
			h.clientMu.Unlock()
			if !exists {
				continue
			}
			// The game must stop sending before the channel closes.
			if client.game != nil {
				client.game.Close()
			}
			close(client.send)
			client.log.Info("Client disconnected.")

		case clientMsg := <-h.processMessage:
			h.clientMu.RLock()
			_, exists := h.clients[clientMsg.client]
			h.clientMu.RUnlock()
			if exists {
				h.handleMessage(clientMsg.client, clientMsg.message)
			}
		}
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	h.clientMu.Lock()
	defer h.clientMu.Unlock()
	for client := range h.clients {
		if client.game != nil {
			client.game.Close()
		}
		close(client.send)
		delete(h.clients, client)
	}
	h.log.Info("Hub stopped.")
}

// dispatch hands a client message to the hub loop. It reports false once the hub has stopped.
func (h *Hub) dispatch(client *Client, msg protocol.Message) bool {
	select {
	case h.processMessage <- clientMessage{client: client, message: msg}:
		return true
	case <-h.done:
		return false
	}
}

// drop asks the hub loop to unregister client.
func (h *Hub) drop(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// handleMessage processes a message received from a client.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	if client.game == nil && msg.Type != protocol.TypeNewGame && msg.Type != protocol.TypePing {
		h.sendError(client, protocol.ErrorPayload{Code: protocol.CodeNoGame, Message: "No table, send new_game."})
		return
	}
	switch msg.Type {
	case protocol.TypeNewGame:
		var payload protocol.NewGamePayload
		if !h.decode(client, msg, &payload) {
			return
		}
		h.startGame(client, payload)
	case protocol.TypeSelectMode:
		var payload protocol.SelectModePayload
		if !h.decode(client, msg, &payload) {
			return
		}
		h.reply(client, client.game.SelectMode(payload.Mode))
	case protocol.TypeSubmitBid:
		var payload protocol.SubmitBidPayload
		if !h.decode(client, msg, &payload) {
			return
		}
		h.reply(client, client.game.SubmitBid(client.SeatID, payload.Amount))
	case protocol.TypePlayCard:
		var payload protocol.PlayCardPayload
		if !h.decode(client, msg, &payload) {
			return
		}
		card, err := payload.Card()
		if err != nil {
			h.sendError(client, protocol.ErrorPayload{Code: protocol.CodeBadRequest, Message: err.Error()})
			return
		}
		h.reply(client, client.game.PlayCard(client.SeatID, card))
	case protocol.TypeRequestState:
		h.sendState(client, client.game.ID, client.game.State())
	case protocol.TypePing:
		if pong, err := protocol.NewMessage(protocol.TypePong, nil); err == nil {
			h.sendToClient(client, pong)
		}
	default:
		client.log.WithField("type", msg.Type).Warn("Received unknown message type.")
		h.sendError(client, protocol.ErrorPayload{Code: protocol.CodeBadRequest, Message: "Unknown message type."})
	}
}

func (h *Hub) decode(client *Client, msg protocol.Message, dst any) bool {
	if len(msg.Payload) == 0 {
		return true
	}
	if err := json.Unmarshal(msg.Payload, dst); err != nil {
		client.log.WithError(err).WithField("type", msg.Type).Debug("Invalid payload.")
		h.sendError(client, protocol.ErrorPayload{Code: protocol.CodeBadRequest, Message: "Invalid " + msg.Type + " message format."})
		return false
	}
	return true
}

// reply reports a rejected command. Accepted commands answer through game events.
func (h *Hub) reply(client *Client, err error) {
	if err != nil {
		h.sendError(client, protocol.NewError(err))
	}
}

// startGame discards the client's table and seats it at a new one.
func (h *Hub) startGame(client *Client, payload protocol.NewGamePayload) {
	level := payload.BotLevel
	if level == "" {
		level = h.settings.BotLevel
	}
	players := shared.DefaultPlayers(h.settings.Seats, h.settings.Lives)
	policies := make(map[string]game.Policy, len(players)-1)
	for _, p := range players {
		if p.ID == client.SeatID {
			continue
		}
		policy, err := bots.New(level, rand.Uint64())
		if err != nil {
			h.sendError(client, protocol.ErrorPayload{Code: protocol.CodeBadRequest, Message: err.Error()})
			return
		}
		policies[p.ID] = policy
	}

	if client.game != nil {
		client.game.Close()
	}

	var g *game.Game
	g = game.NewGame(game.Options{
		Players:  players,
		Policies: policies,
		Pacing:   h.settings.Pacing,
		Logger:   client.log,
		Send: func(events []game.Event, state game.MatchState) {
			for _, e := range events {
				msg, err := protocol.EventMessage(e)
				if err != nil {
					client.log.WithError(err).Error("Could not encode event.")
					continue
				}
				h.sendToClient(client, msg)
			}
			h.sendState(client, g.ID, state)
		},
		OnFinish: h.saveResult,
	})
	client.game = g
	client.log.WithField("match", g.ID).Info("Table ready.")

	if welcome, err := protocol.NewMessage(protocol.TypeWelcome, protocol.WelcomePayload{
		ClientID: client.ID,
		SeatID:   client.SeatID,
		MatchID:  g.ID,
	}); err == nil {
		h.sendToClient(client, welcome)
	}
	h.sendState(client, g.ID, g.State())

	if payload.Mode != shared.ModeUnset {
		h.reply(client, g.SelectMode(payload.Mode))
	}
}

func (h *Hub) saveResult(summary game.Summary) {
	if h.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	entry := h.log.WithField("match", summary.MatchID)
	if err := h.store.Insert(ctx, database.FromSummary(summary)); err != nil {
		entry.WithError(err).Error("Could not save match result.")
		return
	}
	entry.Info("Match result saved.")
}

func (h *Hub) sendState(client *Client, matchID string, state game.MatchState) {
	msg, err := protocol.NewMessage(protocol.TypeState, protocol.NewStateView(matchID, state, client.SeatID))
	if err != nil {
		client.log.WithError(err).Error("Could not encode state.")
		return
	}
	h.sendToClient(client, msg)
}

func (h *Hub) sendError(client *Client, payload protocol.ErrorPayload) {
	msg, err := protocol.NewMessage(protocol.TypeError, payload)
	if err != nil {
		client.log.WithError(err).Error("Could not encode error.")
		return
	}
	h.sendToClient(client, msg)
}

// sendToClient queues a message without blocking. A client that cannot keep up is dropped.
func (h *Hub) sendToClient(client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		client.log.Warn("Send buffer full, dropping client.")
		go func() {
			h.clientMu.RLock()
			_, stillConnected := h.clients[client]
			h.clientMu.RUnlock()
			if stillConnected {
				h.drop(client)
			}
		}()
	}
}
