package rules

import "github.com/MRamiBalles/PocketPet/internal/domain/pet"

// Evolution thresholds.
const (
	AdultMinAge       = 5
	AdultMinHappiness = 60
	AdultMaxHunger    = 60 // exclusive
	TeenMinAge        = 2
	TeenMinHappiness  = 40
)

// DeriveStage computes the stage from scratch. It is not monotonic: an adult
// whose happiness collapses drops back to teen or baby.
func DeriveStage(age, happiness, hunger float64) pet.Stage {
	if age >= AdultMinAge && happiness >= AdultMinHappiness && hunger < AdultMaxHunger {
		return pet.StageAdult
	}
	if age >= TeenMinAge && happiness >= TeenMinHappiness {
		return pet.StageTeen
	}
	return pet.StageBaby
}
