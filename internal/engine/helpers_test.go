package engine

import "github.com/CarlHaze/Necromancer2DGame/internal/game"

// fixedRand returns the same value for every draw, reduced modulo n.
type fixedRand struct{ v int }

func (f fixedRand) Intn(n int) int { return f.v % n }

// seqRand replays a script of values and then returns 0.
type seqRand struct {
	vals []int
	i    int
}

func (s *seqRand) Intn(n int) int {
	if s.i >= len(s.vals) {
		return 0
	}
	v := s.vals[s.i]
	s.i++
	return v % n
}

func tmpl(name string, typ game.ElementalType, hp, atk, def, spd int, moves ...game.MoveTemplate) *game.CombatantTemplate {
	return &game.CombatantTemplate{Name: name, Type: typ, BaseHP: hp, Attack: atk, Defense: def, Speed: spd, Accuracy: 100, Moves: moves}
}

func strike(power, uses int) game.MoveTemplate {
	return game.MoveTemplate{Name: "Strike", Type: game.Living, BasePower: power, Accuracy: 100, MaxUses: uses, Effect: game.EffectDamage, Target: game.TargetEnemy, NeverMisses: true}
}

func statMove(name string, effect game.EffectKind, target game.TargetKind, stat game.StatType, change int) game.MoveTemplate {
	return game.MoveTemplate{Name: name, Type: game.Dark, Accuracy: 100, MaxUses: 50, Effect: effect, Target: target, Stat: stat, StatChange: change, NeverMisses: true}
}

func expectViolation(t interface{ Fatalf(string, ...interface{}) }, fn func()) {
	defer func() {
		r := recover()
		if _, ok := r.(InvariantViolation); !ok {
			t.Fatalf("expected InvariantViolation panic, got %v", r)
		}
	}()
	fn()
}
