package engine

import (
	"math"

	"github.com/CarlHaze/Necromancer2DGame/internal/game"
	"github.com/CarlHaze/Necromancer2DGame/internal/typechart"
)

// DamageScale divides attack × power in the damage formula.
const DamageScale = 50

// MinDamage is dealt by any connecting, non-immune damage move.
const MinDamage = 1

// TargetResult is the outcome of a move against one target.
type TargetResult struct {
	Target        string        `json:"target"`
	Side          Side          `json:"side"`
	Index         int           `json:"index"`
	Hit           bool          `json:"hit"`
	Roll          int           `json:"roll"`
	Damage        int           `json:"damage"`
	Multiplier    float64       `json:"multiplier"`
	Effectiveness string        `json:"effectiveness,omitempty"`
	Immune        bool          `json:"immune"`
	Stat          game.StatType `json:"stat,omitempty"`
	StageChange   int           `json:"stage_change,omitempty"`
	Status        string        `json:"status,omitempty"`
	Fainted       bool          `json:"fainted"`
}

// ComputeDamage applies the damage formula for a connecting hit with a
// non-zero multiplier.
func ComputeDamage(attack, power, defense int, multiplier float64) int {
	base := float64(attack*power)/DamageScale - float64(defense)/2
	dmg := int(math.Round(base * multiplier))
	if dmg < MinDamage {
		dmg = MinDamage
	}
	return dmg
}

// ExecuteMove spends one use of slot and applies the move to each living
// target independently. Nothing changes when the user cannot use the move.
func ExecuteMove(chart *typechart.Chart, rng Rand, user *Combatant, slot int, targets []*Combatant) ([]TargetResult, []HookResult, error) {
	if err := user.UseMove(slot); err != nil {
		return nil, nil, err
	}
	move, _ := user.Move(slot)
	var (
		results []TargetResult
		hooks   []HookResult
	)
	for _, t := range targets {
		if t.Fainted() {
			continue
		}
		tr, applied := executeOn(chart, rng, user, move, t)
		results = append(results, tr)
		hooks = append(hooks, applied...)
	}
	return results, hooks, nil
}

func executeOn(chart *typechart.Chart, rng Rand, user *Combatant, move *game.MoveTemplate, t *Combatant) (TargetResult, []HookResult) {
	tr := TargetResult{Target: t.Name(), Side: t.Side(), Index: t.Index(), Multiplier: typechart.Neutral}
	tr.Roll = rollPercent(rng)
	if !move.NeverMisses && tr.Roll > user.Modified(game.StatAccuracy) {
		return tr, nil
	}
	tr.Hit = true

	switch move.Effect {
	case game.EffectDamage:
		mult := chart.Effectiveness(move.Type, t.Type())
		tr.Multiplier = mult
		if mult == typechart.Immune {
			if !move.IgnoresImmunity {
				tr.Immune = true
				tr.Effectiveness = typechart.TagNoEffect
				tr.Fainted = t.Fainted()
				return tr, nil
			}
			mult = typechart.Neutral
		}
		dmg := ComputeDamage(user.Modified(game.StatAttack), move.BasePower, t.Modified(game.StatDefense), mult)
		tr.Damage = t.TakeDamage(dmg)
		tr.Effectiveness = chart.Describe(mult)
	case game.EffectBuffStat, game.EffectDebuffStat:
		tr.Stat = move.Stat
		tr.StageChange = t.ModifyStage(move.Stat, move.StatChange)
	default:
		violate("move %s has unknown effect %q", move.Name, move.Effect)
	}

	var hooks []HookResult
	if move.Inflicts != nil && !t.Fainted() {
		effect, err := NewStatusEffect(*move.Inflicts)
		if err != nil {
			violate("move %s: %v", move.Name, err)
		}
		hooks, err = t.ApplyStatus(StatusInstance{Effect: effect, Icon: move.Inflicts.Icon, Duration: move.Inflicts.Duration})
		if err != nil {
			violate("move %s: %v", move.Name, err)
		}
		tr.Status = effect.Name()
	}
	tr.Fainted = t.Fainted()
	return tr, hooks
}
