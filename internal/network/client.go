package network

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/PocketPet/internal/domain/pet"
	"github.com/MRamiBalles/PocketPet/internal/engine"
	"github.com/MRamiBalles/PocketPet/internal/render"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Time allowed for one action to run against the engine.
	actionTimeout = 5 * time.Second
)

// Inbound action types.
const (
	ActionAdopt = "ADOPT"
	ActionFeed  = "FEED"
	ActionPet   = "PET"
	ActionSleep = "SLEEP"
	ActionReset = "RESET"
)

// OwnerAction represents an incoming command from a client.
type OwnerAction struct {
	Type    string `json:"type"`
	Species string `json:"species,omitempty"` // ADOPT only
	Name    string `json:"name,omitempty"`    // ADOPT only
	Confirm bool   `json:"confirm,omitempty"` // RESET only
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub            *Hub
	conn           *websocket.Conn
	send           chan []byte
	lastActionTime time.Time
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, hub.cfg.ClientSendBuffer),
	}
}

// Register adds the client to the hub. It reports false once the hub has
// stopped.
func (c *Client) Register() bool {
	select {
	case c.hub.register <- c:
		return true
	case <-c.hub.done:
		return false
	}
}

// ReadPump pumps actions from the websocket connection to the engine.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(c.hub.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.metrics.RecordWSError()
				c.hub.logger.Warn("WebSocket read error: " + err.Error())
			}
			break
		}
		c.hub.metrics.RecordWSMessage(true)

		var action OwnerAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Error("Failed to parse OwnerAction from WebSocket. err: " + err.Error())
			c.sendError("malformed action")
			continue
		}

		c.handleOwnerAction(action)
	}
}

func (c *Client) handleOwnerAction(action OwnerAction) {
	// Rate limiting check
	if time.Since(c.lastActionTime) < c.hub.cfg.ActionCooldown {
		c.hub.logger.Warn("Rate limit exceeded for client action " + action.Type)
		c.sendError("slow down")
		return
	}
	c.lastActionTime = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	ctrl := c.hub.ctrl
	var v render.View
	var err error
	switch action.Type {
	case ActionAdopt:
		species, ok := pet.ParseSpecies(action.Species)
		if !ok {
			err = engine.ErrUnknownSpecies
			break
		}
		v, err = ctrl.Adopt(ctx, species, action.Name)
	case ActionFeed:
		v, err = ctrl.Feed(ctx)
	case ActionPet:
		v, err = ctrl.Pet(ctx)
	case ActionSleep:
		v, err = ctrl.Sleep(ctx)
	case ActionReset:
		var done bool
		v, done, err = ctrl.Reset(ctx, engine.ConfirmFunc(func(string) bool { return action.Confirm }))
		if err == nil && !done && v.Adopted {
			err = ErrResetNotConfirmed
		}
	default:
		c.hub.logger.Warn("Unknown OwnerAction type: " + action.Type)
		c.sendError("unknown action " + action.Type)
		return
	}

	if err != nil {
		if !errors.Is(err, engine.ErrUnknownSpecies) && !errors.Is(err, ErrResetNotConfirmed) {
			c.hub.logger.Error("Action " + action.Type + " failed: " + err.Error())
		}
		c.sendError(err.Error())
		return
	}
	// The sender always gets a reply, even when nothing changed. Other
	// clients hear about real changes through the engine's render.
	c.sendView(v, nil)
}

func (c *Client) sendView(v render.View, cue *render.Cue) {
	c.enqueue(Message{Type: MsgTypeView, View: &v, Cue: cue})
}

func (c *Client) sendError(msg string) {
	c.enqueue(Message{Type: MsgTypeError, Error: msg})
}

// enqueue queues a message for this client only. The hub may already have
// closed send during shutdown.
func (c *Client) enqueue(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	defer func() { _ = recover() }()
	select {
	case c.send <- payload:
		c.hub.metrics.RecordWSMessage(false)
	default:
		c.hub.metrics.RecordWSError()
	}
}

// WritePump pumps messages from the hub to the websocket connection.
// Each message goes out as its own text frame.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
