package engine

import (
	"fmt"

	"github.com/CarlHaze/Necromancer2DGame/internal/game"
)

// Poison deals fixed damage at the end of each of the carrier's turns.
type Poison struct {
	Damage int
}

func (p *Poison) Name() string              { return string(game.StatusPoison) }
func (p *Poison) Apply(t Target) string     { return t.Name() + " was poisoned" }
func (p *Poison) OnTurnStart(Target) string { return "" }
func (p *Poison) Remove(t Target) string    { return t.Name() + " recovered from poison" }

func (p *Poison) OnTurnEnd(t Target) string {
	dealt := t.TakeDamage(p.Damage)
	return fmt.Sprintf("%s took %d poison damage", t.Name(), dealt)
}

// Regen heals a fixed amount at the start of each of the carrier's turns.
type Regen struct {
	Amount int
}

func (r *Regen) Name() string            { return string(game.StatusRegen) }
func (r *Regen) Apply(t Target) string   { return t.Name() + " began regenerating" }
func (r *Regen) OnTurnEnd(Target) string { return "" }
func (r *Regen) Remove(t Target) string  { return t.Name() + " stopped regenerating" }

func (r *Regen) OnTurnStart(t Target) string {
	healed := t.Heal(r.Amount)
	return fmt.Sprintf("%s regenerated %d HP", t.Name(), healed)
}

// StatShift moves a stat stage while attached and undoes exactly the applied
// change when removed.
type StatShift struct {
	Stat    game.StatType
	Stages  int
	applied int
}

func (s *StatShift) Name() string { return string(game.StatusStatShift) + ":" + string(s.Stat) }

func (s *StatShift) Apply(t Target) string {
	s.applied = t.ModifyStage(s.Stat, s.Stages)
	return fmt.Sprintf("%s %s %+d", t.Name(), s.Stat, s.applied)
}

func (s *StatShift) OnTurnStart(Target) string { return "" }
func (s *StatShift) OnTurnEnd(Target) string   { return "" }

func (s *StatShift) Remove(t Target) string {
	undone := t.ModifyStage(s.Stat, -s.applied)
	s.applied = 0
	return fmt.Sprintf("%s %s %+d", t.Name(), s.Stat, undone)
}

// NewStatusEffect builds a fresh effect for a status spec. Every application
// gets its own instance.
func NewStatusEffect(spec game.StatusSpec) (StatusEffect, error) {
	switch spec.Kind {
	case game.StatusPoison:
		return &Poison{Damage: spec.Potency}, nil
	case game.StatusRegen:
		return &Regen{Amount: spec.Potency}, nil
	case game.StatusStatShift:
		return &StatShift{Stat: spec.Stat, Stages: spec.Potency}, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidStatus, spec.Kind)
}
