package typechart

import (
	"fmt"
	"sync/atomic"

	"github.com/CarlHaze/Necromancer2DGame/internal/constants"
	"github.com/CarlHaze/Necromancer2DGame/internal/game"
	"github.com/CarlHaze/Necromancer2DGame/internal/logging"
)

// Effectiveness tags returned by Describe.
const (
	TagNoEffect         = "no effect"
	TagSuperEffective   = "super effective"
	TagNotVeryEffective = "not very effective"
)

const (
	Immune  = 0.0
	Neutral = 1.0
)

// Entry sets the multiplier for one attacker/defender pair.
type Entry struct {
	Attacker   game.ElementalType `json:"attacker" yaml:"attacker"`
	Defender   game.ElementalType `json:"defender" yaml:"defender"`
	Multiplier float64            `json:"multiplier" yaml:"multiplier"`
}

type pair struct {
	attacker, defender game.ElementalType
}

// Chart maps attacking type × defending type to a damage multiplier. A Chart
// is immutable after construction and safe for concurrent use.
type Chart struct {
	name    string
	types   []game.ElementalType
	known   map[game.ElementalType]struct{}
	table   map[pair]float64
	super   float64
	notVery float64
	misses  *atomic.Int64
}

// New builds a chart over types. Every pair starts neutral and entries
// override individual pairs; pairs are never mirrored. Each multiplier must be
// one of 0, notVery, 1 or super.
func New(name string, types []game.ElementalType, super, notVery float64, entries []Entry) (*Chart, error) {
	subject := "type chart '" + name + "'"
	if super <= Neutral {
		return nil, game.NewConfigError(subject, "super_effective", "must be above 1, got %v", super)
	}
	if notVery <= Immune || notVery >= Neutral {
		return nil, game.NewConfigError(subject, "not_very_effective", "must be between 0 and 1, got %v", notVery)
	}
	if len(types) == 0 {
		return nil, game.NewConfigError(subject, "types", "at least one type is required")
	}
	c := &Chart{
		name:    name,
		types:   make([]game.ElementalType, 0, len(types)),
		known:   make(map[game.ElementalType]struct{}, len(types)),
		table:   make(map[pair]float64, len(types)*len(types)),
		super:   super,
		notVery: notVery,
		misses:  new(atomic.Int64),
	}
	for _, t := range types {
		if t == "" {
			return nil, game.NewConfigError(subject, "types", "contains an empty type")
		}
		if _, dup := c.known[t]; dup {
			return nil, game.NewConfigError(subject, "types", "duplicate type '%s'", t)
		}
		c.known[t] = struct{}{}
		c.types = append(c.types, t)
	}
	for _, a := range c.types {
		for _, d := range c.types {
			c.table[pair{a, d}] = Neutral
		}
	}
	seen := make(map[pair]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := c.known[e.Attacker]; !ok {
			return nil, game.NewConfigError(subject, "entries", "unknown attacker type '%s'", e.Attacker)
		}
		if _, ok := c.known[e.Defender]; !ok {
			return nil, game.NewConfigError(subject, "entries", "unknown defender type '%s'", e.Defender)
		}
		p := pair{e.Attacker, e.Defender}
		if _, dup := seen[p]; dup {
			return nil, game.NewConfigError(subject, "entries", "duplicate entry %s -> %s", e.Attacker, e.Defender)
		}
		seen[p] = struct{}{}
		if !c.isTier(e.Multiplier) {
			return nil, game.NewConfigError(subject, "entries", "%s -> %s has multiplier %v, expected one of %v", e.Attacker, e.Defender, e.Multiplier, c.Tiers())
		}
		c.table[p] = e.Multiplier
	}
	return c, nil
}

func mustNew(name string, types []game.ElementalType, super, notVery float64, entries []Entry) *Chart {
	c, err := New(name, types, super, notVery, entries)
	if err != nil {
		panic(fmt.Sprintf("built-in chart %s: %v", name, err))
	}
	return c
}

func (c *Chart) isTier(m float64) bool {
	return m == Immune || m == c.notVery || m == Neutral || m == c.super
}

// Effectiveness returns the multiplier for an attacking type hitting a
// defending type. Pairs outside the chart are treated as neutral and counted.
func (c *Chart) Effectiveness(attacker, defender game.ElementalType) float64 {
	if m, ok := c.table[pair{attacker, defender}]; ok {
		return m
	}
	c.misses.Add(1)
	logging.Warn("type chart entry missing; using neutral multiplier", logging.Fields{
		constants.LogFieldChart:    c.name,
		constants.LogFieldAttacker: string(attacker),
		constants.LogFieldDefender: string(defender),
	})
	return Neutral
}

// CanHit reports whether the attacking type deals any damage to the defender.
func (c *Chart) CanHit(attacker, defender game.ElementalType) bool {
	return c.Effectiveness(attacker, defender) > Immune
}

// Describe maps a multiplier to its effectiveness tag. Neutral hits map to "".
func (c *Chart) Describe(multiplier float64) string {
	switch {
	case multiplier == Immune:
		return TagNoEffect
	case multiplier >= c.super:
		return TagSuperEffective
	case multiplier <= c.notVery:
		return TagNotVeryEffective
	}
	return ""
}

func (c *Chart) Name() string { return c.name }

// Types returns the chart's types in declaration order.
func (c *Chart) Types() []game.ElementalType {
	out := make([]game.ElementalType, len(c.types))
	copy(out, c.types)
	return out
}

// Has reports whether t belongs to the chart.
func (c *Chart) Has(t game.ElementalType) bool {
	_, ok := c.known[t]
	return ok
}

func (c *Chart) SuperEffective() float64   { return c.super }
func (c *Chart) NotVeryEffective() float64 { return c.notVery }

// Tiers lists the only values Effectiveness can return, ascending.
func (c *Chart) Tiers() []float64 {
	return []float64{Immune, c.notVery, Neutral, c.super}
}

// Misses counts lookups that fell outside the chart since construction.
func (c *Chart) Misses() int64 { return c.misses.Load() }
