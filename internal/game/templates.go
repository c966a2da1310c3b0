package game

import "strings"

// Limits enforced when validating authored content.
const (
	MaxBasePower   = 200
	MaxAccuracy    = 100
	MaxMoveUses    = 50
	MaxStatChange  = 3
	MaxMoveSlots   = 4
	MaxStatusShift = 6
)

// StatusSpec describes a status a move inflicts on every target it connects
// with. Potency is damage per tick for poison, healing per tick for regen and
// the signed stage shift for stat_shift.
type StatusSpec struct {
	Kind     StatusKind `json:"kind" yaml:"kind"`
	Duration int        `json:"duration" yaml:"duration"`
	Potency  int        `json:"potency" yaml:"potency"`
	Stat     StatType   `json:"stat,omitempty" yaml:"stat,omitempty"`
	Icon     string     `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// MoveTemplate is authored move data. It is shared read-only between every
// combatant that knows the move.
type MoveTemplate struct {
	Name            string        `json:"name" yaml:"name"`
	Type            ElementalType `json:"type" yaml:"type"`
	BasePower       int           `json:"base_power" yaml:"base_power"`
	Accuracy        int           `json:"accuracy" yaml:"accuracy"`
	MaxUses         int           `json:"max_uses" yaml:"max_uses"`
	Effect          EffectKind    `json:"effect" yaml:"effect"`
	Target          TargetKind    `json:"target" yaml:"target"`
	Stat            StatType      `json:"stat,omitempty" yaml:"stat,omitempty"`
	StatChange      int           `json:"stat_change,omitempty" yaml:"stat_change,omitempty"`
	NeverMisses     bool          `json:"never_misses" yaml:"never_misses"`
	IgnoresImmunity bool          `json:"ignores_immunity" yaml:"ignores_immunity"`
	Description     string        `json:"description,omitempty" yaml:"description,omitempty"`
	Inflicts        *StatusSpec   `json:"inflicts,omitempty" yaml:"inflicts,omitempty"`
}

// CombatantTemplate is authored combatant data.
type CombatantTemplate struct {
	Name        string         `json:"name" yaml:"name"`
	Type        ElementalType  `json:"type" yaml:"type"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	BaseHP      int            `json:"hit_points" yaml:"hit_points"`
	Attack      int            `json:"attack" yaml:"attack"`
	Defense     int            `json:"defense" yaml:"defense"`
	Speed       int            `json:"speed" yaml:"speed"`
	Accuracy    int            `json:"accuracy" yaml:"accuracy"`
	Moves       []MoveTemplate `json:"moves" yaml:"moves"`
}

// BaseStat returns the unmodified value of a stage-modifiable stat.
func (c *CombatantTemplate) BaseStat(s StatType) int {
	switch s {
	case StatAttack:
		return c.Attack
	case StatDefense:
		return c.Defense
	case StatSpeed:
		return c.Speed
	case StatAccuracy:
		return c.Accuracy
	}
	return 0
}

// Validate checks the move in isolation. Values out of range are reported,
// never clamped.
func (m *MoveTemplate) Validate() error {
	subject := "move '" + m.Name + "'"
	if strings.TrimSpace(m.Name) == "" {
		return NewConfigError("move", "name", "is required")
	}
	if m.Type == "" {
		return NewConfigError(subject, "type", "is required")
	}
	if m.BasePower < 0 || m.BasePower > MaxBasePower {
		return NewConfigError(subject, "base_power", "must be between 0 and %d, got %d", MaxBasePower, m.BasePower)
	}
	if m.Accuracy < 0 || m.Accuracy > MaxAccuracy {
		return NewConfigError(subject, "accuracy", "must be between 0 and %d, got %d", MaxAccuracy, m.Accuracy)
	}
	if m.MaxUses < 1 || m.MaxUses > MaxMoveUses {
		return NewConfigError(subject, "max_uses", "must be between 1 and %d, got %d", MaxMoveUses, m.MaxUses)
	}
	if !m.Target.Valid() {
		return NewConfigError(subject, "target", "unknown target kind '%s'", m.Target)
	}
	switch m.Effect {
	case EffectDamage:
		if m.BasePower == 0 {
			return NewConfigError(subject, "base_power", "damage moves need a base power above 0")
		}
	case EffectBuffStat, EffectDebuffStat:
		if !m.Stat.Valid() {
			return NewConfigError(subject, "stat", "unknown stat '%s'", m.Stat)
		}
		if m.StatChange == 0 {
			return NewConfigError(subject, "stat_change", "stat moves need a non-zero stat change")
		}
		if m.StatChange < -MaxStatChange || m.StatChange > MaxStatChange {
			return NewConfigError(subject, "stat_change", "must be between -%d and %d, got %d", MaxStatChange, MaxStatChange, m.StatChange)
		}
	default:
		return NewConfigError(subject, "effect", "unknown effect kind '%s'", m.Effect)
	}
	if m.Inflicts != nil {
		if err := m.Inflicts.validate(subject); err != nil {
			return err
		}
	}
	return nil
}

func (s *StatusSpec) validate(subject string) error {
	if !s.Kind.Valid() {
		return NewConfigError(subject, "inflicts.kind", "unknown status kind '%s'", s.Kind)
	}
	if s.Duration < 1 {
		return NewConfigError(subject, "inflicts.duration", "must be at least 1, got %d", s.Duration)
	}
	switch s.Kind {
	case StatusPoison, StatusRegen:
		if s.Potency < 1 {
			return NewConfigError(subject, "inflicts.potency", "must be at least 1, got %d", s.Potency)
		}
	case StatusStatShift:
		if !s.Stat.Valid() {
			return NewConfigError(subject, "inflicts.stat", "unknown stat '%s'", s.Stat)
		}
		if s.Potency == 0 || s.Potency < -MaxStatusShift || s.Potency > MaxStatusShift {
			return NewConfigError(subject, "inflicts.potency", "must be a non-zero shift between -%d and %d, got %d", MaxStatusShift, MaxStatusShift, s.Potency)
		}
	}
	return nil
}

// Validate checks the combatant and every move it carries.
func (c *CombatantTemplate) Validate() error {
	subject := "combatant '" + c.Name + "'"
	if strings.TrimSpace(c.Name) == "" {
		return NewConfigError("combatant", "name", "is required")
	}
	if c.Type == "" {
		return NewConfigError(subject, "type", "is required")
	}
	stats := []struct {
		field string
		value int
	}{
		{"hit_points", c.BaseHP},
		{"attack", c.Attack},
		{"defense", c.Defense},
		{"speed", c.Speed},
		{"accuracy", c.Accuracy},
	}
	for _, s := range stats {
		if s.value <= 0 {
			return NewConfigError(subject, s.field, "must be positive, got %d", s.value)
		}
	}
	if len(c.Moves) == 0 {
		return NewConfigError(subject, "moves", "at least one move is required")
	}
	if len(c.Moves) > MaxMoveSlots {
		return NewConfigError(subject, "moves", "at most %d moves are allowed, got %d", MaxMoveSlots, len(c.Moves))
	}
	for i := range c.Moves {
		if err := c.Moves[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
