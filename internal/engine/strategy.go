package engine

import (
	"fmt"
	"strings"

	"github.com/CarlHaze/Necromancer2DGame/internal/game"
)

// Option is one legal move for the acting combatant. Targets lists the
// selectable targets for single-target moves and is empty otherwise.
type Option struct {
	Slot      int
	Move      *game.MoveTemplate
	Remaining int
	Targets   []*Combatant
}

// Action selects a move slot and, for single-target moves, a target.
type Action struct {
	Slot   int
	Target *Combatant
}

// Strategy picks an action for a combatant from its legal options. options
// is never empty.
type Strategy interface {
	Choose(actor *Combatant, options []Option, rng Rand) Action
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(actor *Combatant, options []Option, rng Rand) Action

func (f StrategyFunc) Choose(actor *Combatant, options []Option, rng Rand) Action {
	return f(actor, options, rng)
}

type MovePolicy string

const (
	MoveFirstUsable MovePolicy = "first_usable"
	MoveRandom      MovePolicy = "random"
)

type TargetPolicy string

const (
	TargetFirstLiving  TargetPolicy = "first_living"
	TargetRandomLiving TargetPolicy = "random_living"
)

// ParseMovePolicy accepts a policy name; empty means first usable.
func ParseMovePolicy(s string) (MovePolicy, error) {
	switch p := MovePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return MoveFirstUsable, nil
	case MoveFirstUsable, MoveRandom:
		return p, nil
	}
	return "", fmt.Errorf("unknown move policy %q", s)
}

// ParseTargetPolicy accepts a policy name; empty means first living.
func ParseTargetPolicy(s string) (TargetPolicy, error) {
	switch p := TargetPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return TargetFirstLiving, nil
	case TargetFirstLiving, TargetRandomLiving:
		return p, nil
	}
	return "", fmt.Errorf("unknown target policy %q", s)
}

// AIStrategy is the configurable computer-controlled strategy.
type AIStrategy struct {
	Moves   MovePolicy
	Targets TargetPolicy
}

func (s AIStrategy) Choose(actor *Combatant, options []Option, rng Rand) Action {
	opt := options[0]
	if s.Moves == MoveRandom && len(options) > 1 {
		opt = options[rng.Intn(len(options))]
	}
	a := Action{Slot: opt.Slot}
	if len(opt.Targets) > 0 {
		a.Target = opt.Targets[0]
		if s.Targets == TargetRandomLiving && len(opt.Targets) > 1 {
			a.Target = opt.Targets[rng.Intn(len(opt.Targets))]
		}
	}
	return a
}
