package network

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MRamiBalles/PocketPet/internal/events"
	"github.com/MRamiBalles/PocketPet/internal/platform/logger"
)

// History page sizes.
const (
	DefaultHistoryLimit = 200
	MaxHistoryLimit     = 1000
)

// HistoryHandler serves the pet's event journal.
type HistoryHandler struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(el *events.EventLog, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{eventLog: el, logger: log}
}

// HistoryEvent is a journal entry with a readable summary.
type HistoryEvent struct {
	ID        string      `json:"id"`
	Timestamp string      `json:"timestamp"`
	Tick      int64       `json:"tick"`
	Type      string      `json:"type"`
	Actor     string      `json:"actor"`
	PetName   string      `json:"pet_name"`
	Summary   string      `json:"summary"`
	Details   interface{} `json:"details,omitempty"`
}

// HistoryResponse is the API response for the journal.
type HistoryResponse struct {
	TotalEvents int            `json:"total_events"` // Matches before the limit
	Returned    int            `json:"returned"`
	FilteredBy  string         `json:"filtered_by,omitempty"`
	GeneratedAt string         `json:"generated_at"`
	Events      []HistoryEvent `json:"events"`
}

// HandleHistory returns the newest journal entries, optionally filtered.
// GET /api/history?type=FED&since=N&limit=N
func (hh *HistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	since := 0
	if raw := r.URL.Query().Get("since"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid since"})
			return
		}
		since = n
	}
	limit := DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid limit"})
			return
		}
		limit = min(n, MaxHistoryLimit)
	}
	eventType := r.URL.Query().Get("type")

	out := make([]HistoryEvent, 0)
	for _, e := range hh.eventLog.Since(since) {
		if eventType != "" && string(e.Type) != eventType {
			continue
		}
		out = append(out, toHistoryEvent(e))
	}

	total := len(out)
	if total > limit {
		out = out[total-limit:]
	}

	resp := HistoryResponse{
		TotalEvents: total,
		Returned:    len(out),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      out,
	}
	if eventType != "" {
		resp.FilteredBy = eventType
	}
	writeJSON(w, http.StatusOK, resp)
}

// RegisterRoutes sets up the history route.
func (hh *HistoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/history", hh.HandleHistory)
}

func toHistoryEvent(e events.PetEvent) HistoryEvent {
	return HistoryEvent{
		ID:        e.ID,
		Timestamp: e.Timestamp.Format(time.RFC3339),
		Tick:      e.Tick,
		Type:      string(e.Type),
		Actor:     e.ActorID,
		PetName:   e.PetName,
		Summary:   summarize(e),
		Details:   e.Payload,
	}
}

func summarize(e events.PetEvent) string {
	name := e.PetName
	if name == "" {
		name = "The pet"
	}
	switch e.Type {
	case events.EventTypeAdopted:
		return name + " was adopted"
	case events.EventTypeFed:
		return name + " was fed"
	case events.EventTypePetted:
		return name + " was petted"
	case events.EventTypeWoke:
		return name + " woke up"
	case events.EventTypeSlept:
		return name + " went to sleep"
	case events.EventTypeTimeTick:
		return fmt.Sprintf("Time passed (tick %d)", e.Tick)
	case events.EventTypeEvolved:
		return name + " evolved"
	case events.EventTypeReset:
		return name + " is gone"
	default:
		return string(e.Type)
	}
}
