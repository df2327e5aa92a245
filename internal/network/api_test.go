package network

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MRamiBalles/PocketPet/internal/domain/pet"
	"github.com/MRamiBalles/PocketPet/internal/engine"
	"github.com/MRamiBalles/PocketPet/internal/events"
	"github.com/MRamiBalles/PocketPet/internal/infra/storage"
	"github.com/MRamiBalles/PocketPet/internal/platform/logger"
	"github.com/MRamiBalles/PocketPet/internal/platform/metrics"
)

func newTestEngine(t *testing.T, opts ...engine.Option) (*engine.Engine, *events.EventLog) {
	t.Helper()
	log := logger.Discard()
	el := events.NewEventLog(nil)
	store := engine.NewStore(context.Background(), storage.NewMemoryStateStore(), log)
	all := append([]engine.Option{
		engine.WithScheduler(engine.NewManualScheduler()),
		engine.WithMetrics(metrics.NewCollector()),
	}, opts...)
	return engine.NewEngine(store, el, log, all...), el
}

func newTestMux(t *testing.T) (*http.ServeMux, *engine.Engine) {
	t.Helper()
	eng, el := newTestEngine(t)
	mux := http.NewServeMux()
	NewAPI(eng, logger.Discard()).RegisterRoutes(mux)
	NewHistoryHandler(el, logger.Discard()).RegisterRoutes(mux)
	return mux, eng
}

func do(t *testing.T, mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeAction(t *testing.T, rec *httptest.ResponseRecorder) ActionResponse {
	t.Helper()
	var resp ActionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestGetPetBeforeAdoption(t *testing.T) {
	mux, _ := newTestMux(t)
	rec := do(t, mux, http.MethodGet, "/api/pet", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var view map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&view)
	if view["show_adoption"] != true {
		t.Errorf("Expected adoption view, got %v", view)
	}
}

func TestAdoptAndAct(t *testing.T) {
	mux, eng := newTestMux(t)

	rec := do(t, mux, http.MethodPost, "/api/adopt", `{"species":"Panda","name":" Bao "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if v := decodeAction(t, rec).View; v.Species != pet.SpeciesPanda || v.Name != "Bao" {
		t.Errorf("Unexpected adoption view %+v", v)
	}

	do(t, mux, http.MethodPost, "/api/feed", "")
	do(t, mux, http.MethodPost, "/api/sleep", "")
	v := decodeAction(t, do(t, mux, http.MethodPost, "/api/pet", "")).View
	if v.Sleeping || v.Hunger.Width != 10 || v.Happiness.Width != 80 {
		t.Errorf("Expected awake, fed pet, got %+v", v)
	}
	if eng.State().Happiness != 80 {
		t.Errorf("Expected waking to leave happiness at 80, got %v", eng.State().Happiness)
	}
}

func TestAdoptRejectsUnknownSpecies(t *testing.T) {
	mux, _ := newTestMux(t)
	if rec := do(t, mux, http.MethodPost, "/api/adopt", `{"species":"dragon"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
	if rec := do(t, mux, http.MethodPost, "/api/adopt", `{bad`); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on malformed body, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := newTestMux(t)
	for _, path := range []string{"/api/feed", "/api/sleep", "/api/adopt", "/api/reset"} {
		if rec := do(t, mux, http.MethodGet, path, ""); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET %s: expected 405, got %d", path, rec.Code)
		}
	}
	if rec := do(t, mux, http.MethodDelete, "/api/pet", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE /api/pet: expected 405, got %d", rec.Code)
	}
}

func TestResetFlow(t *testing.T) {
	mux, eng := newTestMux(t)

	rec := do(t, mux, http.MethodPost, "/api/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected inert reset to answer 200, got %d", rec.Code)
	}
	if resp := decodeAction(t, rec); resp.Reset == nil || *resp.Reset {
		t.Errorf("Expected reset=false without a pet, got %+v", resp.Reset)
	}

	do(t, mux, http.MethodPost, "/api/adopt", `{"species":"cat"}`)
	if rec := do(t, mux, http.MethodPost, "/api/reset", `{"confirm":false}`); rec.Code != http.StatusPreconditionFailed {
		t.Errorf("Expected 412 without confirmation, got %d", rec.Code)
	}
	if !eng.State().HasPet() {
		t.Fatal("Expected pet to survive an unconfirmed reset")
	}

	rec = do(t, mux, http.MethodPost, "/api/reset", `{"confirm":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if resp := decodeAction(t, rec); resp.Reset == nil || !*resp.Reset || !resp.View.ShowAdoption {
		t.Errorf("Expected confirmed reset back to adoption, got %+v", resp)
	}
}

func TestSpeciesList(t *testing.T) {
	mux, _ := newTestMux(t)
	var opts []pet.Option
	json.NewDecoder(do(t, mux, http.MethodGet, "/api/species", "").Body).Decode(&opts)
	if len(opts) != 6 || opts[0].Species != pet.SpeciesCat || opts[0].Label != "Cat" {
		t.Errorf("Unexpected species options %+v", opts)
	}
}

func TestHistoryFilters(t *testing.T) {
	mux, _ := newTestMux(t)
	do(t, mux, http.MethodPost, "/api/adopt", `{"species":"dog","name":"Rex"}`)
	do(t, mux, http.MethodPost, "/api/feed", "")
	do(t, mux, http.MethodPost, "/api/feed", "")

	var all HistoryResponse
	json.NewDecoder(do(t, mux, http.MethodGet, "/api/history", "").Body).Decode(&all)
	if all.TotalEvents != 3 || all.Events[0].Summary != "Rex was adopted" {
		t.Errorf("Unexpected history %+v", all)
	}

	var fed HistoryResponse
	json.NewDecoder(do(t, mux, http.MethodGet, "/api/history?type=FED&since=2", "").Body).Decode(&fed)
	if fed.TotalEvents != 1 || fed.FilteredBy != "FED" {
		t.Errorf("Expected one FED event after index 2, got %+v", fed)
	}

	if rec := do(t, mux, http.MethodGet, "/api/history?since=-1", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for negative since, got %d", rec.Code)
	}
}

func TestHistoryLimitKeepsNewest(t *testing.T) {
	mux, _ := newTestMux(t)
	do(t, mux, http.MethodPost, "/api/adopt", `{"species":"fox","name":"Kit"}`)
	for i := 0; i < 4; i++ {
		do(t, mux, http.MethodPost, "/api/feed", "")
	}
	do(t, mux, http.MethodPost, "/api/sleep", "")

	var page HistoryResponse
	json.NewDecoder(do(t, mux, http.MethodGet, "/api/history?limit=2", "").Body).Decode(&page)
	if page.TotalEvents != 6 || page.Returned != 2 || len(page.Events) != 2 {
		t.Fatalf("Expected 2 of 6 events, got %+v", page)
	}
	if page.Events[0].Type != "FED" || page.Events[1].Type != "SLEPT" {
		t.Errorf("Expected the newest events in order, got %s then %s", page.Events[0].Type, page.Events[1].Type)
	}

	for _, bad := range []string{"0", "-3", "lots"} {
		if rec := do(t, mux, http.MethodGet, "/api/history?limit="+bad, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: expected 400, got %d", bad, rec.Code)
		}
	}
}

func TestResetWithEmptyBodyAsksForConfirmation(t *testing.T) {
	mux, eng := newTestMux(t)
	eng.Adopt(context.Background(), pet.SpeciesBunny, "Clover")

	for name, req := range map[string]*http.Request{
		"no body": httptest.NewRequest(http.MethodPost, "/api/reset", nil),
		"chunked": func() *http.Request {
			r := httptest.NewRequest(http.MethodPost, "/api/reset", strings.NewReader(""))
			r.ContentLength = -1
			r.TransferEncoding = []string{"chunked"}
			return r
		}(),
	} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusPreconditionFailed {
			t.Errorf("%s: expected 412, got %d %s", name, rec.Code, rec.Body)
		}
	}
	if rec := do(t, mux, http.MethodPost, "/api/reset", `{"confirm":`); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a truncated body, got %d", rec.Code)
	}
	if !eng.State().HasPet() {
		t.Error("Expected the pet to survive unconfirmed resets")
	}
}
