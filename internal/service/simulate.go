package service

import (
	"errors"
	"math/rand"

	"github.com/google/uuid"

	"github.com/CarlHaze/Necromancer2DGame/internal/config"
	"github.com/CarlHaze/Necromancer2DGame/internal/constants"
	"github.com/CarlHaze/Necromancer2DGame/internal/engine"
	"github.com/CarlHaze/Necromancer2DGame/internal/game"
	"github.com/CarlHaze/Necromancer2DGame/internal/typechart"
)

var (
	ErrNoMatchups = errors.New("at least two combatants are required unless mirror matches are enabled")
	ErrNoChart    = errors.New("a type chart is required")

	// ErrMatchupKeyCollision means two matchups would share stored records.
	ErrMatchupKeyCollision = errors.New("combatant names give two matchups the same key")
)

// Options controls a simulation. Zero values fall back to the defaults in
// internal/constants and the engine's first-usable/first-living policies.
type Options struct {
	BattlesPerMatchup int
	MaxRounds         int
	Seed              int64
	Workers           int
	MovePolicy        engine.MovePolicy
	TargetPolicy      engine.TargetPolicy
	// MirrorMatches adds a matchup of every combatant against itself.
	MirrorMatches bool
}

// OptionsFromConfig maps the content file's simulation block to Options.
func OptionsFromConfig(sim config.Simulation) Options {
	return Options{
		BattlesPerMatchup: sim.BattlesPerMatchup,
		MaxRounds:         sim.MaxRounds,
		Seed:              sim.Seed,
		Workers:           sim.Workers,
		MovePolicy:        sim.MovePolicy,
		TargetPolicy:      sim.TargetPolicy,
		MirrorMatches:     sim.MirrorMatches,
	}
}

func (o Options) withDefaults() Options {
	if o.BattlesPerMatchup <= 0 {
		o.BattlesPerMatchup = constants.DefaultBattlesPerMatchup
	}
	if o.MaxRounds <= 0 {
		o.MaxRounds = constants.DefaultMaxRounds
	}
	if o.Workers <= 0 {
		o.Workers = constants.DefaultWorkers
	}
	if o.MovePolicy == "" {
		o.MovePolicy = engine.MoveFirstUsable
	}
	if o.TargetPolicy == "" {
		o.TargetPolicy = engine.TargetFirstLiving
	}
	return o
}

func (o Options) strategy() engine.Strategy {
	return engine.AIStrategy{Moves: o.MovePolicy, Targets: o.TargetPolicy}
}

// SimulateBattle runs one AI-controlled battle of friendly against hostile to
// completion. The same seed and options always give the same outcome.
func SimulateBattle(chart *typechart.Chart, friendly, hostile *game.CombatantTemplate, opts Options, seed int64) (engine.Outcome, error) {
	return simulate(chart, friendly, hostile, opts.withDefaults(), seed, uuid.Nil)
}

func simulate(chart *typechart.Chart, friendly, hostile *game.CombatantTemplate, opts Options, seed int64, id uuid.UUID) (engine.Outcome, error) {
	if chart == nil {
		return engine.Outcome{}, ErrNoChart
	}
	strategy := opts.strategy()
	b, err := engine.NewBattle(engine.Config{
		ID:               id,
		Friendly:         []*game.CombatantTemplate{friendly},
		Hostile:          []*game.CombatantTemplate{hostile},
		Chart:            chart,
		Rand:             rand.New(rand.NewSource(seed)),
		FriendlyStrategy: strategy,
		HostileStrategy:  strategy,
		MaxRounds:        opts.MaxRounds,
		Quiet:            true,
	})
	if err != nil {
		return engine.Outcome{}, err
	}
	return b.Run()
}

// battleSeed derives the seed of one battle from the run seed so that results
// do not depend on scheduling. It is a splitmix64 step.
func battleSeed(runSeed int64, matchup, battle int) int64 {
	z := uint64(runSeed) + uint64(matchup)<<32 + uint64(battle) + 1
	z *= 0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}
