package network

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/PocketPet/internal/engine"
	"github.com/MRamiBalles/PocketPet/internal/platform/logger"
	"github.com/MRamiBalles/PocketPet/internal/platform/optimization"
	"github.com/MRamiBalles/PocketPet/internal/render"
)

func startHubServer(t *testing.T, tune ...func(*optimization.Config)) (*httptest.Server, *engine.Engine, *Hub) {
	t.Helper()
	cfg := optimization.DefaultConfig()
	cfg.ActionCooldown = 0
	for _, fn := range tune {
		fn(cfg)
	}

	hubRef := &lateRenderer{}
	eng, el := newTestEngine(t, engine.WithRenderer(hubRef))
	hub := NewHub(eng, cfg, logger.Discard())
	hubRef.hub = hub

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, el, 10*time.Millisecond)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv, eng, hub
}

// lateRenderer forwards to a hub created after the engine.
type lateRenderer struct{ hub *Hub }

func (l *lateRenderer) Render(f render.Frame) { l.hub.Render(f) }

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads frames until one matches or the deadline passes.
func readUntil(t *testing.T, conn *websocket.Conn, match func(Message) bool) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if match(msg) {
			return msg
		}
	}
}

func TestWebSocketInitialView(t *testing.T) {
	srv, _, _ := startHubServer(t)
	conn := dial(t, srv)

	msg := readUntil(t, conn, func(m Message) bool { return m.Type == MsgTypeView })
	if msg.View == nil || !msg.View.ShowAdoption {
		t.Errorf("Expected adoption view on connect, got %+v", msg)
	}
}

func TestWebSocketActionsBroadcast(t *testing.T) {
	srv, eng, _ := startHubServer(t)
	owner := dial(t, srv)
	watcher := dial(t, srv)
	readUntil(t, owner, func(m Message) bool { return m.Type == MsgTypeView })
	readUntil(t, watcher, func(m Message) bool { return m.Type == MsgTypeView })

	owner.WriteJSON(OwnerAction{Type: ActionAdopt, Species: "fox", Name: "Kit"})
	msg := readUntil(t, watcher, func(m Message) bool { return m.Type == MsgTypeView && m.View.Adopted })
	if msg.View.Name != "Kit" {
		t.Errorf("Expected Kit, got %+v", msg.View)
	}

	owner.WriteJSON(OwnerAction{Type: ActionFeed})
	var cued, fed *Message
	readUntil(t, watcher, func(m Message) bool {
		if m.Type == MsgTypeView && m.Cue != nil {
			cued = &m
		}
		if m.Type == MsgTypeEvent && m.Event.Type == "FED" {
			fed = &m
		}
		return cued != nil && fed != nil
	})
	if cued.Cue.FrequencyHz != 700 {
		t.Errorf("Expected feed cue, got %+v", cued.Cue)
	}
	if fed.Event.PetName != "Kit" {
		t.Errorf("Expected FED event for Kit, got %+v", fed.Event)
	}

	if eng.State().Hunger != 10 {
		t.Errorf("Expected hunger 10, got %v", eng.State().Hunger)
	}
}

func TestWebSocketErrors(t *testing.T) {
	srv, _, _ := startHubServer(t)
	conn := dial(t, srv)
	readUntil(t, conn, func(m Message) bool { return m.Type == MsgTypeView })

	conn.WriteMessage(websocket.TextMessage, []byte("{nope"))
	if msg := readUntil(t, conn, func(m Message) bool { return m.Type == MsgTypeError }); msg.Error != "malformed action" {
		t.Errorf("Unexpected error %q", msg.Error)
	}

	conn.WriteJSON(OwnerAction{Type: "DANCE"})
	if msg := readUntil(t, conn, func(m Message) bool { return m.Type == MsgTypeError }); !strings.Contains(msg.Error, "DANCE") {
		t.Errorf("Unexpected error %q", msg.Error)
	}

	conn.WriteJSON(OwnerAction{Type: ActionAdopt, Species: "cat"})
	readUntil(t, conn, func(m Message) bool { return m.Type == MsgTypeView && m.View.Adopted })
	conn.WriteJSON(OwnerAction{Type: ActionReset})
	if msg := readUntil(t, conn, func(m Message) bool { return m.Type == MsgTypeError }); msg.Error != ErrResetNotConfirmed.Error() {
		t.Errorf("Unexpected error %q", msg.Error)
	}
}

func TestWebSocketClientLimit(t *testing.T) {
	srv, _, hub := startHubServer(t, func(c *optimization.Config) { c.MaxClients = 1 })
	dial(t, srv)

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("Expected second client to be rejected")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %+v", resp)
	}
}

func TestWebSocketNoOpActionsStillReply(t *testing.T) {
	srv, _, _ := startHubServer(t)
	conn := dial(t, srv)
	readUntil(t, conn, func(m Message) bool { return m.Type == MsgTypeView })

	for _, a := range []OwnerAction{
		{Type: ActionFeed},
		{Type: ActionPet},
		{Type: ActionSleep},
		{Type: ActionReset},
	} {
		conn.WriteJSON(a)
		msg := readUntil(t, conn, func(m Message) bool { return m.Type == MsgTypeView || m.Type == MsgTypeError })
		if msg.Type != MsgTypeView {
			t.Fatalf("%s without pet: expected VIEW reply, got %+v", a.Type, msg)
		}
		if msg.View.Adopted || msg.Cue != nil {
			t.Errorf("%s without pet: expected silent adoption view, got %+v", a.Type, msg)
		}
	}

	conn.WriteJSON(OwnerAction{Type: ActionAdopt, Species: "cat", Name: "Mochi"})
	readUntil(t, conn, func(m Message) bool { return m.Type == MsgTypeView && m.View.Adopted })
	conn.WriteJSON(OwnerAction{Type: ActionAdopt, Species: "dog", Name: "Rex"})
	msg := readUntil(t, conn, func(m Message) bool { return m.Type == MsgTypeView || m.Type == MsgTypeError })
	if msg.Type != MsgTypeView || msg.View.Name != "Mochi" {
		t.Errorf("Expected second adopt to reply with the existing pet, got %+v", msg)
	}
}

func TestHubStoppedDoesNotBlockClients(t *testing.T) {
	hub := NewHub(nil, optimization.DefaultConfig(), logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	registered := make(chan bool, 1)
	go func() {
		registered <- (&Client{hub: hub, send: make(chan []byte, 1)}).Register()
	}()
	select {
	case ok := <-registered:
		if ok {
			t.Error("Expected registration to be refused after shutdown")
		}
	case <-time.After(time.Second):
		t.Fatal("Register blocked on a stopped hub")
	}
}
