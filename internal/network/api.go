package network

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/MRamiBalles/PocketPet/internal/domain/pet"
	"github.com/MRamiBalles/PocketPet/internal/engine"
	"github.com/MRamiBalles/PocketPet/internal/platform/logger"
	"github.com/MRamiBalles/PocketPet/internal/render"
)

// ErrResetNotConfirmed is returned when a reset arrives without confirmation.
var ErrResetNotConfirmed = errors.New("reset not confirmed")

// API serves the REST surface of the pet.
type API struct {
	ctrl   Controller
	logger *logger.Logger
}

// NewAPI creates the REST handlers.
func NewAPI(ctrl Controller, log *logger.Logger) *API {
	return &API{ctrl: ctrl, logger: log}
}

// AdoptRequest is the payload for choosing a pet.
type AdoptRequest struct {
	Species string `json:"species"`
	Name    string `json:"name"`
}

// ResetRequest is the payload for discarding the pet.
type ResetRequest struct {
	Confirm bool `json:"confirm"`
}

// ActionResponse wraps the view after an action. Warning is set when the
// change applied in memory but could not be persisted.
type ActionResponse struct {
	View    render.View `json:"view"`
	Reset   *bool       `json:"reset,omitempty"`
	Warning string      `json:"warning,omitempty"`
}

// HandlePet serves the view on GET and the "pet" action on POST.
// GET|POST /api/pet
func (a *API) HandlePet(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.jsonSuccess(w, a.ctrl.View())
	case http.MethodPost:
		v, err := a.ctrl.Pet(r.Context())
		a.actionResult(w, v, err)
	default:
		a.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleSpecies lists the adoption choices.
// GET /api/species
func (a *API) HandleSpecies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.jsonSuccess(w, pet.Options())
}

// HandleAdopt chooses species and name.
// POST /api/adopt
func (a *API) HandleAdopt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AdoptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	species, ok := pet.ParseSpecies(req.Species)
	if !ok {
		a.jsonError(w, "Unknown species: "+req.Species, http.StatusBadRequest)
		return
	}

	v, err := a.ctrl.Adopt(r.Context(), species, req.Name)
	if errors.Is(err, engine.ErrUnknownSpecies) {
		a.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	a.actionResult(w, v, err)
}

// HandleFeed feeds the pet.
// POST /api/feed
func (a *API) HandleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	v, err := a.ctrl.Feed(r.Context())
	a.actionResult(w, v, err)
}

// HandleSleep puts the pet to sleep.
// POST /api/sleep
func (a *API) HandleSleep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	v, err := a.ctrl.Sleep(r.Context())
	a.actionResult(w, v, err)
}

// HandleReset discards the pet when the body confirms it. Without a pet it
// is inert and answers with the current view.
// POST /api/reset
func (a *API) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// An empty body is an unconfirmed request.
	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		a.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	v, done, err := a.ctrl.Reset(r.Context(), engine.ConfirmFunc(func(string) bool { return req.Confirm }))
	if err == nil && !done && v.Adopted {
		a.jsonError(w, ErrResetNotConfirmed.Error(), http.StatusPreconditionFailed)
		return
	}

	resp := ActionResponse{View: v, Reset: &done}
	if err != nil {
		resp.Warning = err.Error()
	}
	a.jsonSuccess(w, resp)
}

// RegisterRoutes sets up the pet API routes.
func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/pet", a.HandlePet)
	mux.HandleFunc("/api/species", a.HandleSpecies)
	mux.HandleFunc("/api/adopt", a.HandleAdopt)
	mux.HandleFunc("/api/feed", a.HandleFeed)
	mux.HandleFunc("/api/sleep", a.HandleSleep)
	mux.HandleFunc("/api/reset", a.HandleReset)
}

// actionResult answers 200 with the view. A persistence failure is reported
// as a warning since the in-memory pet already changed.
func (a *API) actionResult(w http.ResponseWriter, v render.View, err error) {
	resp := ActionResponse{View: v}
	if err != nil {
		a.logger.Warn("Action applied but not persisted: " + err.Error())
		resp.Warning = err.Error()
	}
	a.jsonSuccess(w, resp)
}

// jsonError sends an error response.
func (a *API) jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// jsonSuccess sends a success response.
func (a *API) jsonSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
