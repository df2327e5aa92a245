package sim

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/MRamiBalles/PocketPet/internal/platform/logger"
)

func TestDefaultScenariosPass(t *testing.T) {
	var out bytes.Buffer
	r := NewRunner(logger.Discard(), &out)
	results := r.Run(context.Background(), DefaultScenarios())

	if len(results) != len(DefaultScenarios()) {
		t.Fatalf("Expected %d results, got %d", len(DefaultScenarios()), len(results))
	}
	for _, res := range results {
		if !res.Passed {
			t.Errorf("%s failed: %s", res.ScenarioName, res.Reason)
		}
	}
	if !strings.Contains(out.String(), "SCENARIO: Ideal care") {
		t.Errorf("Expected progress output, got:\n%s", out.String())
	}
}

var errNoPet = errors.New("no pet adopted")

func TestFailingScenarioIsReported(t *testing.T) {
	var out bytes.Buffer
	r := NewRunner(logger.Discard(), &out)
	results := r.Run(context.Background(), []Scenario{{
		Name: "Impossible",
		Run: func(h *Harness) error {
			h.Ticks(1)
			if h.State().HasPet() {
				return nil
			}
			return errNoPet
		},
	}})
	if results[0].Passed || results[0].Reason != errNoPet.Error() {
		t.Errorf("Expected failure with reason, got %+v", results[0])
	}
	if results[0].Ticks != 1 {
		t.Errorf("Expected 1 tick recorded, got %d", results[0].Ticks)
	}
}
