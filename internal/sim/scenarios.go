package sim

import (
	"fmt"

	"github.com/MRamiBalles/PocketPet/internal/domain/pet"
	"github.com/MRamiBalles/PocketPet/internal/domain/rules"
)

// DefaultScenarios are the stories pet-sim runs.
func DefaultScenarios() []Scenario {
	return []Scenario{
		Neglect(),
		IdealCare(),
		DeEvolution(),
		SleepRecovery(),
		ResetForgets(),
		ResumeAfterRestart(),
	}
}

// Neglect leaves a pet alone for twenty ticks.
func Neglect() Scenario {
	return Scenario{
		Name:        "Neglect",
		Description: "Adopt, then never care. Needs bottom out and the pet never grows up.",
		Run: func(h *Harness) error {
			if err := h.Adopt(pet.SpeciesFrog, "Hopper"); err != nil {
				return err
			}
			h.Ticks(20)
			st := h.State()
			if st.Hunger != pet.MaxStat || st.Energy != pet.MinStat || st.Happiness != pet.MinStat {
				return fmt.Errorf("expected starving, exhausted and miserable, got %+v", st)
			}
			if st.Stage != pet.StageBaby || len(h.Evolutions()) != 0 {
				return fmt.Errorf("expected no growth, got stage %s with %d evolutions", st.Stage, len(h.Evolutions()))
			}
			if rules.ResolveMood(st) != rules.MoodHungry {
				return fmt.Errorf("expected hungry mood, got %s", rules.ResolveMood(st))
			}
			return nil
		},
	}
}

// careThenTick feeds and pets before each of n ticks.
func careThenTick(h *Harness, n int) {
	for i := 0; i < n; i++ {
		h.Engine.Feed(h.ctx)
		h.Engine.Pet(h.ctx)
		h.Ticks(1)
	}
}

// IdealCare feeds and pets every tick until adulthood.
func IdealCare() Scenario {
	return Scenario{
		Name:        "Ideal care",
		Description: "Feed and pet before every tick. Teen at tick 10, adult at tick 25.",
		Run: func(h *Harness) error {
			if err := h.Adopt(pet.SpeciesCat, "Mochi"); err != nil {
				return err
			}
			careThenTick(h, 9)
			if st := h.State(); st.Stage != pet.StageBaby {
				return fmt.Errorf("expected baby at tick 9, got %s", st.Stage)
			}
			careThenTick(h, 1)
			if st := h.State(); st.Stage != pet.StageTeen {
				return fmt.Errorf("expected teen at tick 10, got %s", st.Stage)
			}
			careThenTick(h, 14)
			if st := h.State(); st.Stage != pet.StageTeen {
				return fmt.Errorf("expected teen at tick 24, got %s", st.Stage)
			}
			careThenTick(h, 1)
			st := h.State()
			if st.Stage != pet.StageAdult || st.Age != rules.AdultMinAge {
				return fmt.Errorf("expected adult at age 5, got %s at %.2f", st.Stage, st.Age)
			}
			evo := h.Evolutions()
			if len(evo) != 2 || evo[0].To != pet.StageTeen || evo[1].To != pet.StageAdult {
				return fmt.Errorf("expected baby->teen->adult, got %+v", evo)
			}
			return nil
		},
	}
}

// DeEvolution grows an adult and then lets hunger climb.
func DeEvolution() Scenario {
	return Scenario{
		Name:        "De-evolution",
		Description: "An adult left hungry for five ticks falls back to teen.",
		Run: func(h *Harness) error {
			if err := h.Adopt(pet.SpeciesPanda, "Bao"); err != nil {
				return err
			}
			careThenTick(h, 25)
			if st := h.State(); st.Stage != pet.StageAdult {
				return fmt.Errorf("expected adult before neglect, got %s", st.Stage)
			}
			h.Ticks(4)
			if st := h.State(); st.Stage != pet.StageAdult || st.Hunger != 50 {
				return fmt.Errorf("expected adult with hunger 50, got %s with %.0f", st.Stage, st.Hunger)
			}
			h.Ticks(1)
			st := h.State()
			if st.Stage != pet.StageTeen || st.Hunger != rules.AdultMaxHunger {
				return fmt.Errorf("expected teen at hunger 60, got %s with %.0f", st.Stage, st.Hunger)
			}
			evo := h.Evolutions()
			last := evo[len(evo)-1]
			if last.From != pet.StageAdult || last.To != pet.StageTeen {
				return fmt.Errorf("expected adult->teen transition, got %+v", last)
			}
			return nil
		},
	}
}

// SleepRecovery lets a pet sleep through five ticks.
func SleepRecovery() Scenario {
	return Scenario{
		Name:        "Sleep recovery",
		Description: "Asleep, energy climbs 3 per tick while hunger climbs 7.",
		Run: func(h *Harness) error {
			if err := h.Adopt(pet.SpeciesBunny, "Clover"); err != nil {
				return err
			}
			h.Engine.Sleep(h.ctx)
			h.Ticks(5)
			st := h.State()
			if st.Hunger != 65 || st.Energy != 85 || st.Happiness != 65 || !st.Sleeping {
				return fmt.Errorf("expected hunger 65 energy 85 happiness 65 asleep, got %+v", st)
			}
			if rules.MoodPhrase(st) != rules.StatusSleeping {
				return fmt.Errorf("expected sleeping status, got %q", rules.MoodPhrase(st))
			}
			return nil
		},
	}
}

// ResetForgets confirms a reset and reloads.
func ResetForgets() Scenario {
	return Scenario{
		Name:        "Reset",
		Description: "A confirmed reset clears storage; the next load starts over.",
		Run: func(h *Harness) error {
			if err := h.Adopt(pet.SpeciesDog, "Rex"); err != nil {
				return err
			}
			h.Ticks(3)
			if _, ok, err := h.Engine.Reset(h.ctx, nil); err != nil || !ok {
				return fmt.Errorf("expected confirmed reset, got ok=%v err=%v", ok, err)
			}
			if st := h.Restart().State(); st != pet.NewState() {
				return fmt.Errorf("expected defaults after reload, got %+v", st)
			}
			return nil
		},
	}
}

// ResumeAfterRestart checks the record survives a restart.
func ResumeAfterRestart() Scenario {
	return Scenario{
		Name:        "Resume",
		Description: "State written by one engine is picked up by the next.",
		Run: func(h *Harness) error {
			if err := h.Adopt(pet.SpeciesFox, "Kit"); err != nil {
				return err
			}
			h.Ticks(3)
			before := h.State()
			after := h.Restart().State()
			if after != before {
				return fmt.Errorf("expected %+v after restart, got %+v", before, after)
			}
			return nil
		},
	}
}
