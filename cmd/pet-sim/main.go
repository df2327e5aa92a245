// Package main runs the scripted care scenarios against an in-memory pet.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MRamiBalles/PocketPet/internal/platform/logger"
	"github.com/MRamiBalles/PocketPet/internal/sim"
)

func main() {
	fmt.Println("🐾 POCKETPET - CARE SCENARIO SUITE")
	fmt.Println("==================================")

	runner := sim.NewRunner(logger.NewLoggerTo(io.Discard), os.Stdout)
	results := runner.Run(context.Background(), sim.DefaultScenarios())

	passed, failed := 0, 0
	for _, r := range results {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("📊 SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("   ✅ Passed: %d\n", passed)
	fmt.Printf("   ❌ Failed: %d\n", failed)

	if failed > 0 {
		fmt.Println("\n⚠️  The care rules drifted from the expected curves")
		os.Exit(1)
	}
	fmt.Println("\n✅ All care curves hold")
}
