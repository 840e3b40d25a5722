package main

import (
	"errors"
	"testing"

	"github.com/hikepath/routepipe/pkg/core"
)

func TestParseBBoxValid(t *testing.T) {
	bbox, err := parseBBox("47.0,11.0,47.1,11.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bbox.South != 47.0 || bbox.West != 11.0 || bbox.North != 47.1 || bbox.East != 11.1 {
		t.Errorf("unexpected bbox: %+v", bbox)
	}
}

func TestParseBBoxMalformed(t *testing.T) {
	cases := []string{"", "not,a,box", "47.1,11.0,47.0,11.1"}
	for _, c := range cases {
		if _, err := parseBBox(c); err == nil {
			t.Errorf("parseBBox(%q): expected error, got nil", c)
		}
	}
}

func TestParseCoordinateValid(t *testing.T) {
	c, err := parseCoordinate("47.5,11.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Lat != 47.5 || c.Lon != 11.5 {
		t.Errorf("unexpected coordinate: %+v", c)
	}
}

func TestParseCoordinateOutOfRange(t *testing.T) {
	if _, err := parseCoordinate("200,11.5"); err == nil {
		t.Error("expected error for out-of-range latitude")
	}
}

func TestErrorCodeExtractsPipelineErrorCode(t *testing.T) {
	err := core.NewError(core.ErrNoRoute, "no path found")
	if got := errorCode(err); got != string(core.ErrNoRoute) {
		t.Errorf("errorCode() = %q, want %q", got, core.ErrNoRoute)
	}
}

func TestErrorCodeFallsBackForPlainErrors(t *testing.T) {
	if got := errorCode(errors.New("boom")); got != "UNKNOWN" {
		t.Errorf("errorCode() = %q, want UNKNOWN", got)
	}
}
