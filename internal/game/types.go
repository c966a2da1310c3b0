package game

// ElementalType names the element of a combatant or a move. The set of
// valid values depends on the type chart in use.
type ElementalType string

// Standard nine-type roster.
const (
	Bone     ElementalType = "Bone"
	Plague   ElementalType = "Plague"
	Feral    ElementalType = "Feral"
	Spirit   ElementalType = "Spirit"
	Dark     ElementalType = "Dark"
	Fire     ElementalType = "Fire"
	Living   ElementalType = "Living"
	Holy     ElementalType = "Holy"
	Crushing ElementalType = "Crushing"
)

// Legacy ten-type roster additions (Bone, Plague, Feral, Spirit and Dark are shared).
const (
	Hex      ElementalType = "Hex"
	Infernal ElementalType = "Infernal"
	Frost    ElementalType = "Frost"
	Blight   ElementalType = "Blight"
	Soul     ElementalType = "Soul"
)

// StatType identifies one of the stage-modifiable stats.
type StatType string

const (
	StatAttack   StatType = "attack"
	StatDefense  StatType = "defense"
	StatSpeed    StatType = "speed"
	StatAccuracy StatType = "accuracy"
)

// Stats lists every stage-modifiable stat in a fixed order.
var Stats = []StatType{StatAttack, StatDefense, StatSpeed, StatAccuracy}

// Valid reports whether s is a known stat.
func (s StatType) Valid() bool {
	switch s {
	case StatAttack, StatDefense, StatSpeed, StatAccuracy:
		return true
	}
	return false
}

// EffectKind selects what a move does when it connects.
type EffectKind string

const (
	EffectDamage     EffectKind = "damage"
	EffectBuffStat   EffectKind = "buff_stat"
	EffectDebuffStat EffectKind = "debuff_stat"
)

func (e EffectKind) Valid() bool {
	switch e {
	case EffectDamage, EffectBuffStat, EffectDebuffStat:
		return true
	}
	return false
}

// TargetKind is resolved relative to the user of the move.
type TargetKind string

const (
	TargetEnemy      TargetKind = "enemy"
	TargetSelf       TargetKind = "self"
	TargetAlly       TargetKind = "ally"
	TargetAllEnemies TargetKind = "all_enemies"
	TargetAllAllies  TargetKind = "all_allies"
	TargetAll        TargetKind = "all"
)

func (t TargetKind) Valid() bool {
	switch t {
	case TargetEnemy, TargetSelf, TargetAlly, TargetAllEnemies, TargetAllAllies, TargetAll:
		return true
	}
	return false
}

// SingleTarget reports whether the caller has to pick a specific target.
func (t TargetKind) SingleTarget() bool {
	return t == TargetEnemy || t == TargetAlly
}

// StatusKind names a built-in status effect a move may inflict.
type StatusKind string

const (
	StatusPoison    StatusKind = "poison"
	StatusRegen     StatusKind = "regen"
	StatusStatShift StatusKind = "stat_shift"
)

func (k StatusKind) Valid() bool {
	switch k {
	case StatusPoison, StatusRegen, StatusStatShift:
		return true
	}
	return false
}
