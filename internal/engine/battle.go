package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/CarlHaze/Necromancer2DGame/internal/constants"
	"github.com/CarlHaze/Necromancer2DGame/internal/game"
	"github.com/CarlHaze/Necromancer2DGame/internal/logging"
	"github.com/CarlHaze/Necromancer2DGame/internal/typechart"
)

// Battle states.
const (
	StateAwaitingAction  = "awaiting_action"
	StateResolvingAction = "resolving_action"
	StateBattleOver      = "battle_over"
)

const (
	eventSelect   = "select"
	eventComplete = "complete"
	eventEnd      = "end"
)

type EndReason string

const (
	ReasonVictory        EndReason = "victory"
	ReasonSimultaneousKO EndReason = "simultaneous_ko"
	ReasonRoundCap       EndReason = "round_cap"
)

// Outcome is the final record of a battle. Winner is empty for a draw.
type Outcome struct {
	Winner Side      `json:"winner,omitempty"`
	Draw   bool      `json:"draw"`
	Reason EndReason `json:"reason"`
	Rounds int       `json:"rounds"`
}

// ActionResult records one combatant's turn: its turn-start hooks, the move
// (unless skipped) and its turn-end hooks.
type ActionResult struct {
	Round      int            `json:"round"`
	Actor      string         `json:"actor"`
	Side       Side           `json:"side"`
	Index      int            `json:"index"`
	Move       string         `json:"move,omitempty"`
	Slot       int            `json:"slot"`
	Skipped    bool           `json:"skipped"`
	StartHooks []HookResult   `json:"start_hooks,omitempty"`
	Targets    []TargetResult `json:"targets,omitempty"`
	Effects    []HookResult   `json:"effects,omitempty"`
	EndHooks   []HookResult   `json:"end_hooks,omitempty"`
}

// Decision is returned when a side without a strategy has to act. The battle
// does not move until Submit accepts an action.
type Decision struct {
	Actor   *Combatant
	Round   int
	Options []Option
}

// Config describes a battle. A nil strategy marks that side as externally
// controlled.
type Config struct {
	ID               uuid.UUID
	Friendly         []*game.CombatantTemplate
	Hostile          []*game.CombatantTemplate
	Chart            *typechart.Chart
	Rand             Rand
	FriendlyStrategy Strategy
	HostileStrategy  Strategy
	// MaxRounds ends the battle as a draw once reached. Zero means
	// constants.DefaultMaxRounds.
	MaxRounds int
	Observer  func(ActionResult)
	Quiet     bool
}

// Battle is a single-threaded, cooperative battle. Callers drive it with
// Advance and Submit; it never blocks.
type Battle struct {
	id         uuid.UUID
	chart      *typechart.Chart
	rng        Rand
	maxRounds  int
	observer   func(ActionResult)
	quiet      bool
	sides      map[Side][]*Combatant
	strategies map[Side]Strategy
	machine    *fsm.FSM

	round   int
	order   []*Combatant
	cursor  int
	current *ActionResult
	pending *Decision
	outcome *Outcome
	log     []ActionResult
}

// NewBattle validates the rosters and builds a battle in the
// awaiting_action state.
func NewBattle(cfg Config) (*Battle, error) {
	if cfg.Chart == nil {
		return nil, errors.New("battle requires a type chart")
	}
	if cfg.Rand == nil {
		return nil, errors.New("battle requires a random source")
	}
	if len(cfg.Friendly) == 0 || len(cfg.Hostile) == 0 {
		return nil, game.NewConfigError("battle", "roster", "both sides need at least one combatant")
	}
	if cfg.MaxRounds < 0 {
		return nil, game.NewConfigError("battle", "max_rounds", "must not be negative, got %d", cfg.MaxRounds)
	}
	for _, roster := range [][]*game.CombatantTemplate{cfg.Friendly, cfg.Hostile} {
		for _, t := range roster {
			if t == nil {
				return nil, game.NewConfigError("battle", "roster", "contains a nil combatant")
			}
			if err := t.Validate(); err != nil {
				return nil, err
			}
		}
	}

	b := &Battle{
		id:        cfg.ID,
		chart:     cfg.Chart,
		rng:       cfg.Rand,
		maxRounds: cfg.MaxRounds,
		observer:  cfg.Observer,
		quiet:     cfg.Quiet,
		sides:     make(map[Side][]*Combatant, 2),
		strategies: map[Side]Strategy{
			SideFriendly: cfg.FriendlyStrategy,
			SideHostile:  cfg.HostileStrategy,
		},
	}
	if b.id == uuid.Nil {
		b.id = uuid.New()
	}
	if b.maxRounds == 0 {
		b.maxRounds = constants.DefaultMaxRounds
	}
	for i, t := range cfg.Friendly {
		b.sides[SideFriendly] = append(b.sides[SideFriendly], newCombatantOnSide(t, SideFriendly, i))
	}
	for i, t := range cfg.Hostile {
		b.sides[SideHostile] = append(b.sides[SideHostile], newCombatantOnSide(t, SideHostile, i))
	}

	b.machine = fsm.NewFSM(
		StateAwaitingAction,
		fsm.Events{
			{Name: eventSelect, Src: []string{StateAwaitingAction}, Dst: StateResolvingAction},
			{Name: eventComplete, Src: []string{StateResolvingAction}, Dst: StateAwaitingAction},
			{Name: eventEnd, Src: []string{StateAwaitingAction, StateResolvingAction}, Dst: StateBattleOver},
		},
		fsm.Callbacks{
			"enter_" + StateBattleOver: func(_ context.Context, _ *fsm.Event) { b.logOutcome() },
		},
	)

	if !b.quiet {
		logging.Info("battle started", logging.Fields{
			constants.LogFieldBattleID: b.id.String(),
			constants.SideFriendly:     names(b.sides[SideFriendly]),
			constants.SideHostile:      names(b.sides[SideHostile]),
		})
	}
	return b, nil
}

func (b *Battle) ID() uuid.UUID            { return b.id }
func (b *Battle) Chart() *typechart.Chart  { return b.chart }
func (b *Battle) Round() int               { return b.round }
func (b *Battle) Over() bool               { return b.outcome != nil }
func (b *Battle) Pending() *Decision       { return b.pending }
func (b *Battle) Side(s Side) []*Combatant { return b.sides[s] }

// Phase reports the state machine's current state.
func (b *Battle) Phase() string { return b.machine.Current() }

// Outcome returns the result once the battle is over.
func (b *Battle) Outcome() (Outcome, bool) {
	if b.outcome == nil {
		return Outcome{}, false
	}
	return *b.outcome, true
}

// Log returns every completed turn in order.
func (b *Battle) Log() []ActionResult {
	out := make([]ActionResult, len(b.log))
	copy(out, b.log)
	return out
}

// Advance runs strategy-controlled turns until an external decision is
// needed or the battle ends. It returns the pending decision, or nil once the
// battle is over. An illegal action from a strategy is returned as an error
// and the same actor is asked again on the next call.
func (b *Battle) Advance() (*Decision, error) {
	if b.outcome != nil {
		return nil, ErrBattleOver
	}
	if b.pending != nil {
		return b.pending, nil
	}
	for {
		if b.current == nil {
			actor := b.nextActor()
			if actor == nil {
				return nil, nil
			}
			b.current = &ActionResult{Round: b.round, Actor: actor.Name(), Side: actor.Side(), Index: actor.Index(), Slot: -1}
			b.current.StartHooks = actor.runHooks(PhaseTurnStart)
			b.settle()
			if b.outcome != nil {
				b.endTurn()
				return nil, nil
			}
			if actor.Fainted() {
				b.endTurn()
				continue
			}
		}

		actor := b.order[b.cursor]
		options := b.Options(actor)
		if len(options) == 0 {
			b.current.Skipped = true
			b.current.EndHooks = actor.runHooks(PhaseTurnEnd)
			b.settle()
			b.endTurn()
			if b.outcome != nil {
				return nil, nil
			}
			continue
		}

		strategy := b.strategies[actor.Side()]
		if strategy == nil {
			b.pending = &Decision{Actor: actor, Round: b.round, Options: options}
			return b.pending, nil
		}
		if err := b.resolve(actor, strategy.Choose(actor, options, b.rng)); err != nil {
			return nil, err
		}
		if b.outcome != nil {
			return nil, nil
		}
	}
}

// Submit executes an action for the pending decision. A rejected action
// leaves the battle untouched and the decision pending.
func (b *Battle) Submit(a Action) (ActionResult, error) {
	if b.outcome != nil {
		return ActionResult{}, ErrBattleOver
	}
	if b.pending == nil {
		return ActionResult{}, ErrNoDecisionPending
	}
	if err := b.resolve(b.pending.Actor, a); err != nil {
		return ActionResult{}, err
	}
	b.pending = nil
	return b.log[len(b.log)-1], nil
}

// Run drives the battle to completion. It fails with ErrDecisionRequired if
// an externally controlled side has to act.
func (b *Battle) Run() (Outcome, error) {
	for {
		d, err := b.Advance()
		if errors.Is(err, ErrBattleOver) {
			return *b.outcome, nil
		}
		if err != nil {
			return Outcome{}, err
		}
		if d != nil {
			return Outcome{}, fmt.Errorf("%s must act: %w", d.Actor.Name(), ErrDecisionRequired)
		}
		if b.outcome != nil {
			return *b.outcome, nil
		}
	}
}

// Options lists the legal actions of actor. Single-target moves without a
// living target are left out.
func (b *Battle) Options(actor *Combatant) []Option {
	var out []Option
	allies := b.living(actor.Side())
	enemies := b.living(actor.Side().Opponent())
	for slot := range actor.Moves() {
		if !actor.CanUseMove(slot) {
			continue
		}
		move, _ := actor.Move(slot)
		opt := Option{Slot: slot, Move: move, Remaining: actor.RemainingUses(slot)}
		switch move.Target {
		case game.TargetEnemy:
			opt.Targets = enemies
		case game.TargetAlly:
			opt.Targets = allies
		}
		if move.Target.SingleTarget() && len(opt.Targets) == 0 {
			continue
		}
		out = append(out, opt)
	}
	return out
}

func (b *Battle) nextActor() *Combatant {
	for {
		if b.cursor >= len(b.order) {
			if b.round >= b.maxRounds {
				b.outcome = &Outcome{Draw: true, Reason: ReasonRoundCap, Rounds: b.round}
				b.transition(eventEnd)
				return nil
			}
			b.round++
			b.order = TurnOrder(b.roster(), b.rng)
			b.cursor = 0
			continue
		}
		if c := b.order[b.cursor]; !c.Fainted() {
			return c
		}
		b.cursor++
	}
}

func (b *Battle) resolveTargets(actor *Combatant, a Action) ([]*Combatant, error) {
	move, ok := actor.Move(a.Slot)
	if !ok {
		return nil, fmt.Errorf("%s slot %d: %w", actor.Name(), a.Slot, ErrUnknownMove)
	}
	if actor.Fainted() {
		return nil, fmt.Errorf("%s cannot use %s: %w", actor.Name(), move.Name, ErrFainted)
	}
	if !actor.CanUseMove(a.Slot) {
		return nil, fmt.Errorf("%s cannot use %s: %w", actor.Name(), move.Name, ErrInsufficientResource)
	}
	allies := b.living(actor.Side())
	enemies := b.living(actor.Side().Opponent())
	switch move.Target {
	case game.TargetEnemy:
		if !contains(enemies, a.Target) {
			return nil, fmt.Errorf("%s needs a living enemy: %w", move.Name, ErrInvalidTarget)
		}
		return []*Combatant{a.Target}, nil
	case game.TargetAlly:
		if !contains(allies, a.Target) {
			return nil, fmt.Errorf("%s needs a living ally: %w", move.Name, ErrInvalidTarget)
		}
		return []*Combatant{a.Target}, nil
	case game.TargetSelf:
		return []*Combatant{actor}, nil
	case game.TargetAllEnemies:
		return enemies, nil
	case game.TargetAllAllies:
		return allies, nil
	case game.TargetAll:
		return append(allies, enemies...), nil
	}
	violate("move %s has unknown target kind %q", move.Name, move.Target)
	return nil, nil
}

func (b *Battle) resolve(actor *Combatant, a Action) error {
	targets, err := b.resolveTargets(actor, a)
	if err != nil {
		return err
	}
	b.transition(eventSelect)
	results, effects, err := ExecuteMove(b.chart, b.rng, actor, a.Slot, targets)
	if err != nil {
		b.transition(eventComplete)
		return err
	}
	move, _ := actor.Move(a.Slot)
	b.current.Move = move.Name
	b.current.Slot = a.Slot
	b.current.Targets = results
	b.current.Effects = effects
	b.logFaints(actor, move, results)

	b.settle()
	if b.outcome == nil && !actor.Fainted() {
		b.current.EndHooks = actor.runHooks(PhaseTurnEnd)
		b.settle()
	}
	if b.outcome == nil {
		b.transition(eventComplete)
	}
	b.endTurn()
	return nil
}

// settle checks for the end of the battle. When both sides are wiped out by
// the same action the winner is drawn with a fair coin.
func (b *Battle) settle() {
	if b.outcome != nil {
		return
	}
	friendly := len(b.living(SideFriendly)) > 0
	hostile := len(b.living(SideHostile)) > 0
	switch {
	case friendly && hostile:
		return
	case !friendly && !hostile:
		winner := SideFriendly
		if !coinFlip(b.rng) {
			winner = SideHostile
		}
		b.outcome = &Outcome{Winner: winner, Reason: ReasonSimultaneousKO}
	case friendly:
		b.outcome = &Outcome{Winner: SideFriendly, Reason: ReasonVictory}
	default:
		b.outcome = &Outcome{Winner: SideHostile, Reason: ReasonVictory}
	}
	b.outcome.Rounds = b.round
}

func (b *Battle) endTurn() {
	res := *b.current
	b.log = append(b.log, res)
	b.current = nil
	b.cursor++
	if b.observer != nil {
		b.observer(res)
	}
	if b.outcome != nil {
		b.transition(eventEnd)
	}
}

func (b *Battle) transition(event string) {
	if err := b.machine.Event(context.Background(), event); err != nil {
		violate("battle %s: event %s from %s: %v", b.id, event, b.machine.Current(), err)
	}
}

func (b *Battle) roster() []*Combatant {
	out := make([]*Combatant, 0, len(b.sides[SideFriendly])+len(b.sides[SideHostile]))
	out = append(out, b.sides[SideFriendly]...)
	return append(out, b.sides[SideHostile]...)
}

func (b *Battle) living(s Side) []*Combatant {
	var out []*Combatant
	for _, c := range b.sides[s] {
		if !c.Fainted() {
			out = append(out, c)
		}
	}
	return out
}

func (b *Battle) logFaints(actor *Combatant, move *game.MoveTemplate, results []TargetResult) {
	if b.quiet {
		return
	}
	for _, r := range results {
		if r.Fainted && r.Damage > 0 {
			logging.Info("combatant fainted", logging.Fields{
				constants.LogFieldBattleID: b.id.String(),
				constants.LogFieldRound:    b.round,
				constants.LogFieldActor:    actor.Name(),
				constants.LogFieldMove:     move.Name,
				constants.LogFieldTarget:   r.Target,
			})
		}
	}
}

func (b *Battle) logOutcome() {
	if b.quiet || b.outcome == nil {
		return
	}
	logging.Info("battle over", logging.Fields{
		constants.LogFieldBattleID: b.id.String(),
		constants.LogFieldWinner:   string(b.outcome.Winner),
		constants.LogFieldReason:   string(b.outcome.Reason),
		constants.LogFieldRound:    b.outcome.Rounds,
	})
}

func contains(list []*Combatant, c *Combatant) bool {
	if c == nil {
		return false
	}
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}

func names(list []*Combatant) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Name()
	}
	return out
}
