package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/CarlHaze/Necromancer2DGame/internal/game"
	"github.com/CarlHaze/Necromancer2DGame/internal/service"
	"github.com/CarlHaze/Necromancer2DGame/internal/typechart"
)

func TestWriteChart(t *testing.T) {
	var buf bytes.Buffer
	writeChart(&buf, newPrinter(), typechart.Standard())
	out := buf.String()
	if !strings.Contains(out, `Type chart "standard" (9 types)`) {
		t.Fatalf("missing header in %q", out)
	}
	if !strings.Contains(out, "super effective = 1.50") {
		t.Fatalf("missing legend in %q", out)
	}
	if lines := strings.Count(out, "\n"); lines != 12 {
		t.Fatalf("expected header, column row, 9 rows and legend, got %d lines", lines)
	}
}

func TestWriteMatchups(t *testing.T) {
	var buf bytes.Buffer
	roster := []*game.CombatantTemplate{{Name: "Skeleton", Moves: []game.MoveTemplate{
		{Name: "Rattle", Type: game.Bone, Effect: game.EffectDamage},
		{Name: "Harden", Type: game.Bone, Effect: game.EffectBuffStat},
	}}}
	writeMatchups(&buf, newPrinter(), typechart.Standard(), roster)
	out := buf.String()
	if !strings.Contains(out, "Skeleton's Rattle vs Spirit: no effect") {
		t.Fatalf("expected the Bone -> Spirit immunity, got %q", out)
	}
	if strings.Contains(out, "Harden") {
		t.Fatalf("stat moves have no type matchups, got %q", out)
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	writeReport(&buf, newPrinter(), &service.Report{
		RunID:    "run-1", Chart: "standard", Seed: 1234567, Battles: 1000, Elapsed: time.Second,
		Matchups: []service.MatchupResult{{Friendly: "Skeleton", Hostile: "Zombie", Battles: 1000, FriendlyWins: 625, HostileWins: 370, Draws: 5, TotalRounds: 8000}},
	})
	out := buf.String()
	for _, want := range []string{"seed=1,234,567", "battles=1,000", "62.5%", "37.0%", "0.5%", "8.0"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}
