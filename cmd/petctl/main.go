// Package main - petctl
// Remote control for a running pet-server over its WebSocket.
// Sends one owner action, then optionally keeps watching the pet.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/PocketPet/internal/network"
	"github.com/MRamiBalles/PocketPet/internal/render"
)

// Config for petctl.
type Config struct {
	ServerURL string
	Action    network.OwnerAction
	Watch     bool
	Duration  time.Duration
}

// Stats counts frames seen during the session.
type Stats struct {
	Views  int64
	Events int64
	Errors int64
}

func main() {
	serverURL := flag.String("url", "ws://localhost:8080/ws", "WebSocket server URL")
	action := flag.String("action", "", "action to send: adopt, feed, pet, sleep, reset (empty to only watch)")
	species := flag.String("species", "", "species for adopt")
	name := flag.String("name", "", "name for adopt")
	confirm := flag.Bool("confirm", false, "confirm a reset")
	watch := flag.Bool("watch", false, "keep printing frames until interrupted or -duration elapses")
	duration := flag.Duration("duration", 0, "how long to watch (0 = until interrupted)")
	flag.Parse()

	config := Config{
		ServerURL: *serverURL,
		Action: network.OwnerAction{
			Type:    strings.ToUpper(strings.TrimSpace(*action)),
			Species: *species,
			Name:    *name,
			Confirm: *confirm,
		},
		Watch:    *watch || *action == "",
		Duration: *duration,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if config.Duration > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, config.Duration)
		defer stop()
	}

	stats, err := run(ctx, config)
	if err != nil {
		log.Fatalf("petctl: %v", err)
	}
	if config.Watch {
		fmt.Printf("\n📊 Views=%d Events=%d Errors=%d\n",
			atomic.LoadInt64(&stats.Views), atomic.LoadInt64(&stats.Events), atomic.LoadInt64(&stats.Errors))
	}
	if atomic.LoadInt64(&stats.Errors) > 0 {
		os.Exit(1)
	}
}

func run(ctx context.Context, config Config) (*Stats, error) {
	stats := &Stats{}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerURL, nil)
	if err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	}()

	// The server greets every client with the current view.
	if _, err := readFrame(conn, stats); err != nil {
		return stats, err
	}

	if config.Action.Type != "" {
		if err := conn.WriteJSON(config.Action); err != nil {
			return stats, fmt.Errorf("send %s: %w", config.Action.Type, err)
		}
		if !config.Watch {
			// Wait for the reply to our own action.
			for {
				msg, err := readFrame(conn, stats)
				if err != nil {
					return stats, err
				}
				if msg.Type == network.MsgTypeView || msg.Type == network.MsgTypeError {
					return stats, nil
				}
			}
		}
	}

	for {
		if _, err := readFrame(conn, stats); err != nil {
			if ctx.Err() != nil {
				return stats, nil
			}
			return stats, err
		}
	}
}

func readFrame(conn *websocket.Conn, stats *Stats) (network.Message, error) {
	var msg network.Message
	_, data, err := conn.ReadMessage()
	if err != nil {
		return msg, err
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		atomic.AddInt64(&stats.Errors, 1)
		return msg, fmt.Errorf("bad frame: %w", err)
	}
	printMessage(msg, stats)
	return msg, nil
}

func printMessage(msg network.Message, stats *Stats) {
	switch msg.Type {
	case network.MsgTypeView:
		atomic.AddInt64(&stats.Views, 1)
		if msg.Cue != nil {
			fmt.Printf("♪ %s\n", msg.Cue)
		}
		if msg.View != nil {
			fmt.Println(render.Text(*msg.View))
		}
	case network.MsgTypeEvent:
		atomic.AddInt64(&stats.Events, 1)
		if msg.Event != nil {
			fmt.Printf("[%s] %s %s\n", msg.Event.Timestamp.Format(time.TimeOnly), msg.Event.Type, msg.Event.PetName)
		}
	case network.MsgTypeError:
		atomic.AddInt64(&stats.Errors, 1)
		fmt.Printf("❌ %s\n", msg.Error)
	}
}
