// Package network exposes the pet over HTTP and WebSocket.
package network

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/PocketPet/internal/domain/pet"
	"github.com/MRamiBalles/PocketPet/internal/engine"
	"github.com/MRamiBalles/PocketPet/internal/events"
	"github.com/MRamiBalles/PocketPet/internal/platform/logger"
	"github.com/MRamiBalles/PocketPet/internal/platform/metrics"
	"github.com/MRamiBalles/PocketPet/internal/platform/optimization"
	"github.com/MRamiBalles/PocketPet/internal/render"
)

// Outbound message types.
const (
	MsgTypeView  = "VIEW"
	MsgTypeEvent = "EVENT"
	MsgTypeError = "ERROR"
)

// Message is one outbound WebSocket frame.
type Message struct {
	Type  string           `json:"type"`
	View  *render.View     `json:"view,omitempty"`
	Cue   *render.Cue      `json:"cue,omitempty"`
	Event *events.PetEvent `json:"event,omitempty"`
	Error string           `json:"error,omitempty"`
}

// Controller is what the transport needs from the engine.
type Controller interface {
	View() render.View
	Adopt(ctx context.Context, species pet.Species, name string) (render.View, error)
	Feed(ctx context.Context) (render.View, error)
	Pet(ctx context.Context) (render.View, error)
	Sleep(ctx context.Context) (render.View, error)
	Reset(ctx context.Context, c engine.Confirmer) (render.View, bool, error)
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{} // closed when Run returns
	mu         sync.Mutex

	ctrl     Controller
	cfg      *optimization.Config
	logger   *logger.Logger
	metrics  *metrics.Collector
	upgrader websocket.Upgrader
}

// NewHub initializes a new WebSocket Hub.
func NewHub(ctrl Controller, cfg *optimization.Config, log *logger.Logger) *Hub {
	if cfg == nil {
		cfg = optimization.DefaultConfig()
	}
	return &Hub{
		broadcast:  make(chan []byte, cfg.BroadcastChannelBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		ctrl:       ctrl,
		cfg:        cfg,
		logger:     log,
		metrics:    metrics.Get(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.metrics.RecordWSConnection(1)
			h.logger.Info("New WebSocket client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.metrics.RecordWSConnection(-1)
				h.logger.Info("WebSocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					h.metrics.RecordWSMessage(false)
				default:
					close(client.send)
					delete(h.clients, client)
					h.metrics.RecordWSConnection(-1)
					h.metrics.RecordWSError()
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Render implements engine.Renderer by broadcasting a VIEW frame. It never
// blocks the engine: when the broadcast buffer is full the frame is dropped.
func (h *Hub) Render(f render.Frame) {
	v := f.View
	h.publish(Message{Type: MsgTypeView, View: &v, Cue: f.Cue})
}

// BroadcastEvent serializes a journal entry and sends it to all clients.
func (h *Hub) BroadcastEvent(event events.PetEvent) {
	h.publish(Message{Type: MsgTypeEvent, Event: &event})
}

func (h *Hub) publish(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to serialize " + msg.Type + " for WebSocket broadcast: " + err.Error())
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.metrics.RecordWSError()
		h.logger.Warn("Broadcast buffer full, dropped " + msg.Type + " frame")
	}
}

// StartEventPoller spawns a goroutine to poll the EventLog and push new events to the Hub.
// Events already in the log when the poller starts are not re-sent.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog, interval time.Duration) {
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	lastProcessedEvent := eventLog.Len()

	go func() {
		pollInterval := time.NewTicker(interval)
		defer pollInterval.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				newEvents := eventLog.Since(lastProcessedEvent)
				for _, event := range newEvents {
					h.BroadcastEvent(event)
				}
				lastProcessedEvent += len(newEvents)
			}
		}
	}()
}

// ServeWS upgrades the request and starts the client pumps.
// GET /ws
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	if h.ClientCount() >= h.cfg.MaxClients {
		h.logger.Warn("Rejecting WebSocket client: too many connections")
		http.Error(w, "too many clients", http.StatusServiceUnavailable)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.metrics.RecordWSError()
		h.logger.Error("WebSocket upgrade failed: " + err.Error())
		return
	}

	client := NewClient(h, conn)
	if !client.Register() {
		conn.Close()
		return
	}
	client.sendView(h.ctrl.View(), nil)

	go client.WritePump()
	go client.ReadPump()
}
