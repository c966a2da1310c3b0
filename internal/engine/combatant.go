package engine

import (
	"fmt"

	"github.com/CarlHaze/Necromancer2DGame/internal/constants"
	"github.com/CarlHaze/Necromancer2DGame/internal/game"
)

// Stage bounds shared by every stat.
const (
	MinStage = -6
	MaxStage = 6
)

// Side partitions a roster.
type Side string

const (
	SideFriendly Side = constants.SideFriendly
	SideHostile  Side = constants.SideHostile
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideFriendly {
		return SideHostile
	}
	return SideFriendly
}

// Combatant is the mutable battle state of one participant. The template is
// shared and never written.
type Combatant struct {
	template *game.CombatantTemplate
	side     Side
	index    int

	hp       int
	stages   map[game.StatType]int
	uses     []int
	statuses map[string]*StatusInstance
	order    []string
}

// NewCombatant builds fresh battle state from a template: full HP, neutral
// stages and every move at its maximum uses.
func NewCombatant(t *game.CombatantTemplate) *Combatant {
	if t == nil {
		violate("combatant built from nil template")
	}
	c := &Combatant{template: t}
	c.ResetBattleState()
	return c
}

func newCombatantOnSide(t *game.CombatantTemplate, side Side, index int) *Combatant {
	c := NewCombatant(t)
	c.side = side
	c.index = index
	return c
}

func (c *Combatant) Name() string                      { return c.template.Name }
func (c *Combatant) Type() game.ElementalType          { return c.template.Type }
func (c *Combatant) Template() *game.CombatantTemplate { return c.template }
func (c *Combatant) Side() Side                        { return c.side }
func (c *Combatant) Index() int                        { return c.index }
func (c *Combatant) HP() int                           { return c.hp }
func (c *Combatant) MaxHP() int                        { return c.template.BaseHP }
func (c *Combatant) Fainted() bool                     { return c.hp == 0 }
func (c *Combatant) Stage(s game.StatType) int         { return c.stages[s] }

func (c *Combatant) String() string {
	return fmt.Sprintf("%s[%s#%d %d/%d]", c.Name(), c.side, c.index, c.hp, c.MaxHP())
}

// HPPercent returns current HP as a fraction of max HP in [0,1].
func (c *Combatant) HPPercent() float64 {
	return float64(c.hp) / float64(c.MaxHP())
}

// TakeDamage lowers HP, flooring at zero, and returns the amount actually
// removed. Damage to a fainted combatant is a no-op.
func (c *Combatant) TakeDamage(amount int) int {
	if amount < 0 {
		violate("negative damage %d to %s", amount, c.Name())
	}
	if c.Fainted() {
		return 0
	}
	if amount > c.hp {
		amount = c.hp
	}
	c.hp -= amount
	return amount
}

// Heal raises HP up to max HP and returns the amount restored. A fainted
// combatant cannot be healed.
func (c *Combatant) Heal(amount int) int {
	if amount < 0 {
		violate("negative heal %d to %s", amount, c.Name())
	}
	if c.Fainted() {
		return 0
	}
	if room := c.MaxHP() - c.hp; amount > room {
		amount = room
	}
	c.hp += amount
	return amount
}

// ModifyStage shifts a stat stage, clamped to [MinStage, MaxStage], and
// returns the change actually applied.
func (c *Combatant) ModifyStage(stat game.StatType, delta int) int {
	if !stat.Valid() {
		violate("unknown stat %q", stat)
	}
	before := c.stages[stat]
	after := before + delta
	if after > MaxStage {
		after = MaxStage
	}
	if after < MinStage {
		after = MinStage
	}
	c.stages[stat] = after
	return after - before
}

// Modified returns the base stat scaled by its stage: (2+s)/2 for s >= 0 and
// 2/(2-s) below zero.
func (c *Combatant) Modified(stat game.StatType) int {
	if !stat.Valid() {
		violate("unknown stat %q", stat)
	}
	base := c.template.BaseStat(stat)
	s := c.stages[stat]
	if s < MinStage || s > MaxStage {
		violate("%s stage %d out of range for %s", stat, s, c.Name())
	}
	if s >= 0 {
		return base * (2 + s) / 2
	}
	return base * 2 / (2 - s)
}

// Moves returns the combatant's move templates, indexed by slot.
func (c *Combatant) Moves() []game.MoveTemplate { return c.template.Moves }

// Move returns the template in slot.
func (c *Combatant) Move(slot int) (*game.MoveTemplate, bool) {
	if slot < 0 || slot >= len(c.template.Moves) {
		return nil, false
	}
	return &c.template.Moves[slot], true
}

// RemainingUses returns the uses left for slot, or 0 for an unknown slot.
func (c *Combatant) RemainingUses(slot int) int {
	if slot < 0 || slot >= len(c.uses) {
		return 0
	}
	return c.uses[slot]
}

func (c *Combatant) CanUseMove(slot int) bool {
	return !c.Fainted() && c.RemainingUses(slot) > 0
}

// UseMove spends one use of slot. Nothing changes when it fails.
func (c *Combatant) UseMove(slot int) error {
	m, ok := c.Move(slot)
	if !ok {
		return fmt.Errorf("%s slot %d: %w", c.Name(), slot, ErrUnknownMove)
	}
	if c.Fainted() {
		return fmt.Errorf("%s cannot use %s: %w", c.Name(), m.Name, ErrFainted)
	}
	if c.uses[slot] <= 0 {
		return fmt.Errorf("%s cannot use %s: %w", c.Name(), m.Name, ErrInsufficientResource)
	}
	c.uses[slot]--
	return nil
}

// RestoreUses gives back uses to slot, capped at the move's maximum, and
// returns how many were restored.
func (c *Combatant) RestoreUses(slot, amount int) (int, error) {
	if amount < 0 {
		violate("negative restore %d for %s", amount, c.Name())
	}
	m, ok := c.Move(slot)
	if !ok {
		return 0, fmt.Errorf("%s slot %d: %w", c.Name(), slot, ErrUnknownMove)
	}
	if room := m.MaxUses - c.uses[slot]; amount > room {
		amount = room
	}
	c.uses[slot] += amount
	return amount, nil
}

func (c *Combatant) RestoreAllUses() {
	for i := range c.template.Moves {
		c.uses[i] = c.template.Moves[i].MaxUses
	}
}

// ResetBattleState returns the combatant to its starting condition. Statuses
// are dropped without running their Remove hooks since stages are reset too.
func (c *Combatant) ResetBattleState() {
	c.hp = c.template.BaseHP
	c.stages = make(map[game.StatType]int, len(game.Stats))
	for _, s := range game.Stats {
		c.stages[s] = 0
	}
	c.uses = make([]int, len(c.template.Moves))
	c.RestoreAllUses()
	c.statuses = make(map[string]*StatusInstance)
	c.order = nil
}
