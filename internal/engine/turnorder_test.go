package engine

import (
	"testing"

	"github.com/CarlHaze/Necromancer2DGame/internal/game"
)

func TestTurnOrder_SortsBySpeedAndSkipsFainted(t *testing.T) {
	slow := NewCombatant(tmpl("Slow", game.Bone, 10, 10, 1, 5, strike(40, 5)))
	fast := NewCombatant(tmpl("Fast", game.Bone, 10, 10, 1, 18, strike(40, 5)))
	mid := NewCombatant(tmpl("Mid", game.Bone, 10, 10, 1, 15, strike(40, 5)))
	down := NewCombatant(tmpl("Down", game.Bone, 10, 10, 1, 99, strike(40, 5)))
	down.TakeDamage(10)

	order := TurnOrder([]*Combatant{slow, fast, down, mid}, fixedRand{0})
	if len(order) != 3 || order[0] != fast || order[1] != mid || order[2] != slow {
		t.Fatalf("unexpected order %v", order)
	}

	fast.ModifyStage(game.StatSpeed, -6)
	order = TurnOrder([]*Combatant{slow, fast, mid}, fixedRand{0})
	if order[0] != mid || order[1] != slow || order[2] != fast {
		t.Fatalf("expected order to follow modified speed, got %v", order)
	}
}

func TestTurnOrder_TiesAreRandomized(t *testing.T) {
	a := NewCombatant(tmpl("A", game.Bone, 10, 10, 1, 10, strike(40, 5)))
	b := NewCombatant(tmpl("B", game.Bone, 10, 10, 1, 10, strike(40, 5)))

	// Intn(2) == 0 swaps the pair, 1 keeps roster order.
	if order := TurnOrder([]*Combatant{a, b}, fixedRand{0}); order[0] != b {
		t.Fatalf("expected B first after the shuffle, got %v", order)
	}
	if order := TurnOrder([]*Combatant{a, b}, fixedRand{1}); order[0] != a {
		t.Fatalf("expected A first after the shuffle, got %v", order)
	}
}
