package main

import (
	"testing"

	"github.com/hikepath/routepipe/pkg/core"
	"github.com/hikepath/routepipe/pkg/routing"
)

func TestSanitizedRouteNameSurvivesValidation(t *testing.T) {
	name := core.SanitizeString("  Ridge Loop \x07")
	if name != "Ridge Loop" {
		t.Errorf("SanitizeString result = %q, want %q", name, "Ridge Loop")
	}
	if err := core.ValidateStringLength(name, 1, 120); err != nil {
		t.Errorf("ValidateStringLength rejected a sanitized name: %v", err)
	}
}

func TestRouteDifficultyEasyForShortFlatRoute(t *testing.T) {
	route := &routing.PlannedRoute{TotalDistanceM: 1000, ElevationGainM: 20}
	if got := routeDifficulty(route); got != "easy" {
		t.Errorf("routeDifficulty = %q, want %q", got, "easy")
	}
}

func TestRouteDifficultyStrenuousForLongClimb(t *testing.T) {
	route := &routing.PlannedRoute{TotalDistanceM: 18000, ElevationGainM: 1200}
	if got := routeDifficulty(route); got != "strenuous" {
		t.Errorf("routeDifficulty = %q, want %q", got, "strenuous")
	}
}

func TestGainComponentScoreSaturatesAt100(t *testing.T) {
	if got := gainComponentScore(5000); got != 100 {
		t.Errorf("gainComponentScore(5000) = %d, want 100", got)
	}
	if got := gainComponentScore(0); got != 0 {
		t.Errorf("gainComponentScore(0) = %d, want 0", got)
	}
}
