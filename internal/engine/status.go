package engine

import (
	"errors"
	"fmt"

	"github.com/CarlHaze/Necromancer2DGame/internal/game"
)

var ErrInvalidStatus = errors.New("invalid status effect")

// Target is what a status effect may do to the combatant it is attached to.
type Target interface {
	Name() string
	MaxHP() int
	Fainted() bool
	TakeDamage(amount int) int
	Heal(amount int) int
	ModifyStage(stat game.StatType, delta int) int
}

// StatusEffect is a hook set invoked while attached to a combatant. Each hook
// returns a short note for the battle log, or "" when nothing happened.
type StatusEffect interface {
	Name() string
	Apply(t Target) string
	OnTurnStart(t Target) string
	OnTurnEnd(t Target) string
	Remove(t Target) string
}

// StatusInstance is an effect attached to one combatant. Duration counts the
// remaining hook invocations.
type StatusInstance struct {
	Effect   StatusEffect
	Icon     string
	Duration int
}

// StatusView is a read-only snapshot of an attached status.
type StatusView struct {
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	Duration int    `json:"duration"`
}

// HookPhase names the point at which a status hook ran.
type HookPhase string

const (
	PhaseApply     HookPhase = "apply"
	PhaseTurnStart HookPhase = "turn_start"
	PhaseTurnEnd   HookPhase = "turn_end"
	PhaseRemove    HookPhase = "remove"
)

// HookResult records a single hook invocation.
type HookResult struct {
	Combatant string    `json:"combatant"`
	Status    string    `json:"status"`
	Phase     HookPhase `json:"phase"`
	Note      string    `json:"note,omitempty"`
	HPBefore  int       `json:"hp_before"`
	HPAfter   int       `json:"hp_after"`
	Expired   bool      `json:"expired"`
}

// ApplyStatus attaches a status. An existing status with the same name is
// removed first. Fainted combatants take no new statuses.
func (c *Combatant) ApplyStatus(inst StatusInstance) ([]HookResult, error) {
	if inst.Effect == nil {
		return nil, fmt.Errorf("%w: nil effect", ErrInvalidStatus)
	}
	if inst.Duration < 1 {
		return nil, fmt.Errorf("%w: %s duration %d", ErrInvalidStatus, inst.Effect.Name(), inst.Duration)
	}
	if c.Fainted() {
		return nil, nil
	}
	var out []HookResult
	name := inst.Effect.Name()
	if _, ok := c.statuses[name]; ok {
		if r, removed := c.RemoveStatus(name); removed {
			out = append(out, r)
		}
	}
	stored := inst
	c.statuses[name] = &stored
	c.order = append(c.order, name)
	before := c.hp
	note := stored.Effect.Apply(c)
	out = append(out, HookResult{Combatant: c.Name(), Status: name, Phase: PhaseApply, Note: note, HPBefore: before, HPAfter: c.hp})
	return out, nil
}

// RemoveStatus runs the status's Remove hook and detaches it.
func (c *Combatant) RemoveStatus(name string) (HookResult, bool) {
	inst, ok := c.statuses[name]
	if !ok {
		return HookResult{}, false
	}
	before := c.hp
	note := inst.Effect.Remove(c)
	c.detach(name)
	return HookResult{Combatant: c.Name(), Status: name, Phase: PhaseRemove, Note: note, HPBefore: before, HPAfter: c.hp, Expired: true}, true
}

func (c *Combatant) detach(name string) {
	delete(c.statuses, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func (c *Combatant) HasStatus(name string) bool {
	_, ok := c.statuses[name]
	return ok
}

// Statuses lists attached statuses in the order they were applied.
func (c *Combatant) Statuses() []StatusView {
	out := make([]StatusView, 0, len(c.order))
	for _, n := range c.order {
		s := c.statuses[n]
		out = append(out, StatusView{Name: n, Icon: s.Icon, Duration: s.Duration})
	}
	return out
}

// runHooks invokes the turn hook of every attached status. Each invocation
// spends one unit of duration; a status reaching zero is removed. Processing
// stops once the combatant faints.
func (c *Combatant) runHooks(phase HookPhase) []HookResult {
	if c.Fainted() || len(c.order) == 0 {
		return nil
	}
	names := make([]string, len(c.order))
	copy(names, c.order)
	var out []HookResult
	for _, name := range names {
		if c.Fainted() {
			break
		}
		inst, ok := c.statuses[name]
		if !ok {
			continue
		}
		before := c.hp
		var note string
		switch phase {
		case PhaseTurnStart:
			note = inst.Effect.OnTurnStart(c)
		case PhaseTurnEnd:
			note = inst.Effect.OnTurnEnd(c)
		default:
			violate("runHooks called with phase %q", phase)
		}
		inst.Duration--
		out = append(out, HookResult{Combatant: c.Name(), Status: name, Phase: phase, Note: note, HPBefore: before, HPAfter: c.hp})
		if inst.Duration <= 0 {
			if r, removed := c.RemoveStatus(name); removed {
				out = append(out, r)
			}
		}
	}
	return out
}
