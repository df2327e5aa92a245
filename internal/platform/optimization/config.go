// Package optimization provides tuning presets for the realtime transport.
package optimization

import (
	"fmt"
	"time"
)

// Config holds tuned parameters for the WebSocket hub and its clients.
type Config struct {
	// Channel buffer sizes
	BroadcastChannelBuffer int
	ClientSendBuffer       int

	// Peer limits
	MaxMessageSize int64
	ActionCooldown time.Duration // Minimum gap between two actions from one client
	MaxClients     int

	EventPollInterval time.Duration // How often new journal entries are pushed to clients
}

// DefaultConfig returns sensible defaults for production.
func DefaultConfig() *Config {
	return &Config{
		BroadcastChannelBuffer: 64,
		ClientSendBuffer:       32,

		MaxMessageSize: 512,
		ActionCooldown: 150 * time.Millisecond, // Button mashing, not scripting
		MaxClients:     32,

		EventPollInterval: 250 * time.Millisecond,
	}
}

// LowResourceConfig returns minimal settings for small devices.
func LowResourceConfig() *Config {
	return &Config{
		BroadcastChannelBuffer: 8,
		ClientSendBuffer:       4,

		MaxMessageSize: 256,
		ActionCooldown: 500 * time.Millisecond,
		MaxClients:     4,

		EventPollInterval: time.Second,
	}
}

// ForProfile resolves a preset by name.
func ForProfile(name string) (*Config, error) {
	switch name {
	case "", "default":
		return DefaultConfig(), nil
	case "low":
		return LowResourceConfig(), nil
	default:
		return nil, fmt.Errorf("unknown tuning profile %q", name)
	}
}
