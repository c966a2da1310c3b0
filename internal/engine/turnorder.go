package engine

import (
	"sort"

	"github.com/CarlHaze/Necromancer2DGame/internal/game"
)

// TurnOrder returns the living combatants sorted by descending modified
// speed. Ties are broken uniformly at random: the roster is shuffled first and
// the stable sort keeps the shuffled order among equals.
func TurnOrder(roster []*Combatant, rng Rand) []*Combatant {
	order := make([]*Combatant, 0, len(roster))
	for _, c := range roster {
		if !c.Fainted() {
			order = append(order, c)
		}
	}
	for i := len(order) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Modified(game.StatSpeed) > order[j].Modified(game.StatSpeed)
	})
	return order
}
