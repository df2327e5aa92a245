// Package metrics provides observability for the pet services.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers runtime metrics.
type Collector struct {
	// Tick metrics
	TickCount      int64
	TickLatencySum int64 // nanoseconds
	TickLatencyMax int64
	LastTickTime   time.Time

	// Care metrics
	Evolutions int64
	actions    map[string]int64

	// Persistence metrics
	PersistWrites int64
	PersistLatSum int64
	PersistLatMax int64
	PersistErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{
		StartTime: time.Now(),
		actions:   make(map[string]int64),
	}
}

// Global collector instance
var collector = NewCollector()

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordTick records a tick cycle completion.
func (c *Collector) RecordTick(latency time.Duration) {
	atomic.AddInt64(&c.TickCount, 1)
	atomic.AddInt64(&c.TickLatencySum, int64(latency))
	storeMax(&c.TickLatencyMax, int64(latency))

	c.mu.Lock()
	c.LastTickTime = time.Now()
	c.mu.Unlock()
}

// RecordAction counts one owner action ("feed", "pet", ...).
func (c *Collector) RecordAction(kind string) {
	c.mu.Lock()
	c.actions[kind]++
	c.mu.Unlock()
}

// RecordEvolution counts a stage change.
func (c *Collector) RecordEvolution() {
	atomic.AddInt64(&c.Evolutions, 1)
}

// RecordPersist records a write of the pet record.
func (c *Collector) RecordPersist(latency time.Duration, err error) {
	atomic.AddInt64(&c.PersistWrites, 1)
	atomic.AddInt64(&c.PersistLatSum, int64(latency))
	storeMax(&c.PersistLatMax, int64(latency))

	if err != nil {
		atomic.AddInt64(&c.PersistErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Actions returns a copy of the per-kind action counters.
func (c *Collector) Actions() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]int64, len(c.actions))
	for k, v := range c.actions {
		out[k] = v
	}
	return out
}

func storeMax(addr *int64, v int64) {
	for {
		cur := atomic.LoadInt64(addr)
		if v <= cur || atomic.CompareAndSwapInt64(addr, cur, v) {
			return
		}
	}
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	tickCount := atomic.LoadInt64(&c.TickCount)
	writes := atomic.LoadInt64(&c.PersistWrites)

	var tickAvg, persistAvg float64
	if tickCount > 0 {
		tickAvg = float64(atomic.LoadInt64(&c.TickLatencySum)) / float64(tickCount) / 1e6 // ms
	}
	if writes > 0 {
		persistAvg = float64(atomic.LoadInt64(&c.PersistLatSum)) / float64(writes) / 1e6
	}

	c.mu.RLock()
	lastTick := c.LastTickTime
	c.mu.RUnlock()

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"tick": map[string]interface{}{
			"count":          tickCount,
			"avg_latency_ms": tickAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.TickLatencyMax)) / 1e6,
			"last_tick":      lastTick.Format(time.RFC3339),
		},

		"care": map[string]interface{}{
			"actions":    c.Actions(),
			"evolutions": atomic.LoadInt64(&c.Evolutions),
		},

		"persist": map[string]interface{}{
			"writes":     writes,
			"avg_lat_ms": persistAvg,
			"max_lat_ms": float64(atomic.LoadInt64(&c.PersistLatMax)) / 1e6,
			"errors":     atomic.LoadInt64(&c.PersistErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return collector.Handler()
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return collector.PrometheusHandler()
}

// Handler serves the JSON snapshot of c.
func (c *Collector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		json.NewEncoder(w).Encode(c.Snapshot())
	}
}

// PrometheusHandler serves c in the Prometheus text format.
func (c *Collector) PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		// Tick metrics
		fmt.Fprintf(w, "# HELP pet_tick_count Total tick cycles\n")
		fmt.Fprintf(w, "# TYPE pet_tick_count counter\n")
		fmt.Fprintf(w, "pet_tick_count %d\n\n", atomic.LoadInt64(&c.TickCount))

		fmt.Fprintf(w, "# HELP pet_tick_latency_max_ms Maximum tick latency\n")
		fmt.Fprintf(w, "# TYPE pet_tick_latency_max_ms gauge\n")
		fmt.Fprintf(w, "pet_tick_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.TickLatencyMax))/1e6)

		// Care metrics
		actions := c.Actions()
		kinds := make([]string, 0, len(actions))
		for k := range actions {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		fmt.Fprintf(w, "# HELP pet_actions_total Owner actions by kind\n")
		fmt.Fprintf(w, "# TYPE pet_actions_total counter\n")
		for _, k := range kinds {
			fmt.Fprintf(w, "pet_actions_total{kind=%q} %d\n", k, actions[k])
		}
		fmt.Fprintf(w, "\n")

		fmt.Fprintf(w, "# HELP pet_evolutions_total Stage changes\n")
		fmt.Fprintf(w, "# TYPE pet_evolutions_total counter\n")
		fmt.Fprintf(w, "pet_evolutions_total %d\n\n", atomic.LoadInt64(&c.Evolutions))

		// Persistence metrics
		fmt.Fprintf(w, "# HELP pet_persist_writes_total Pet record writes\n")
		fmt.Fprintf(w, "# TYPE pet_persist_writes_total counter\n")
		fmt.Fprintf(w, "pet_persist_writes_total %d\n\n", atomic.LoadInt64(&c.PersistWrites))

		fmt.Fprintf(w, "# HELP pet_persist_errors_total Failed pet record writes\n")
		fmt.Fprintf(w, "# TYPE pet_persist_errors_total counter\n")
		fmt.Fprintf(w, "pet_persist_errors_total %d\n\n", atomic.LoadInt64(&c.PersistErrors))

		// WebSocket metrics
		fmt.Fprintf(w, "# HELP pet_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE pet_ws_connections gauge\n")
		fmt.Fprintf(w, "pet_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP pet_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE pet_ws_messages_total counter\n")
		fmt.Fprintf(w, "pet_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "pet_ws_messages_total{direction=\"out\"} %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
