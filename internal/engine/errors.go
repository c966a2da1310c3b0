package engine

import (
	"errors"
	"fmt"
)

// ErrIllegalAction is matched by every rejected action. A rejected action
// never mutates battle state; the caller chooses again.
var ErrIllegalAction = errors.New("illegal action")

var (
	ErrInsufficientResource = fmt.Errorf("%w: no uses remaining", ErrIllegalAction)
	ErrFainted              = fmt.Errorf("%w: combatant has fainted", ErrIllegalAction)
	ErrUnknownMove          = fmt.Errorf("%w: no move in that slot", ErrIllegalAction)
	ErrInvalidTarget        = fmt.Errorf("%w: invalid target", ErrIllegalAction)
	ErrNoDecisionPending    = fmt.Errorf("%w: no decision pending", ErrIllegalAction)
	ErrBattleOver           = fmt.Errorf("%w: battle is over", ErrIllegalAction)
)

// ErrDecisionRequired is returned by Run when a side without a strategy has
// to act.
var ErrDecisionRequired = errors.New("external decision required")

// InvariantViolation signals an engine bug such as a negative damage amount
// or a stage outside its range. It is raised with panic and never recovered
// by the engine.
type InvariantViolation struct {
	What string
}

func (v InvariantViolation) Error() string { return "engine invariant violated: " + v.What }

func violate(format string, args ...interface{}) {
	panic(InvariantViolation{What: fmt.Sprintf(format, args...)})
}

// Rand is the random source of a battle. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// rollPercent draws a uniform integer in [1,100].
func rollPercent(r Rand) int { return r.Intn(100) + 1 }

func coinFlip(r Rand) bool { return r.Intn(2) == 0 }
