package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/CarlHaze/Necromancer2DGame/internal/constants"
	"github.com/CarlHaze/Necromancer2DGame/internal/engine"
	"github.com/CarlHaze/Necromancer2DGame/internal/game"
	"github.com/CarlHaze/Necromancer2DGame/internal/keys"
	"github.com/CarlHaze/Necromancer2DGame/internal/logging"
	"github.com/CarlHaze/Necromancer2DGame/internal/typechart"
	"github.com/CarlHaze/Necromancer2DGame/internal/version"
)

// battlesPerTask is the number of battles one worker runs before yielding.
const battlesPerTask = 50

// ResultsRepo is the part of the results ledger the simulator writes to.
type ResultsRepo interface {
	CreateRun(run *game.SimulationRun) error
	SaveBattleRecords(records []game.BattleRecord) error
	FinishRun(runID string, at time.Time) error
}

// Matchup pairs a friendly template with a hostile one.
type Matchup struct {
	Friendly *game.CombatantTemplate
	Hostile  *game.CombatantTemplate
}

func (m Matchup) Key() string {
	return keys.MatchupKey([]string{m.Friendly.Name}, []string{m.Hostile.Name})
}

// Matchups lists every unordered pair of templates in content order, and
// every template against itself when mirror is set.
func Matchups(templates []*game.CombatantTemplate, mirror bool) []Matchup {
	var out []Matchup
	for i := range templates {
		if mirror {
			out = append(out, Matchup{Friendly: templates[i], Hostile: templates[i]})
		}
		for j := i + 1; j < len(templates); j++ {
			out = append(out, Matchup{Friendly: templates[i], Hostile: templates[j]})
		}
	}
	return out
}

// MatchupResult tallies the battles of one matchup.
type MatchupResult struct {
	Key             string `json:"matchup_key"`
	Friendly        string `json:"friendly"`
	Hostile         string `json:"hostile"`
	Battles         int    `json:"battles"`
	FriendlyWins    int    `json:"friendly_wins"`
	HostileWins     int    `json:"hostile_wins"`
	Draws           int    `json:"draws"`
	SimultaneousKOs int    `json:"simultaneous_kos"`
	TotalRounds     int    `json:"total_rounds"`
}

func (m MatchupResult) rate(n int) float64 {
	if m.Battles == 0 {
		return 0
	}
	return float64(n) / float64(m.Battles)
}

func (m MatchupResult) FriendlyWinRate() float64 { return m.rate(m.FriendlyWins) }
func (m MatchupResult) HostileWinRate() float64  { return m.rate(m.HostileWins) }
func (m MatchupResult) DrawRate() float64        { return m.rate(m.Draws) }

func (m MatchupResult) AvgRounds() float64 {
	if m.Battles == 0 {
		return 0
	}
	return float64(m.TotalRounds) / float64(m.Battles)
}

func (m *MatchupResult) add(o engine.Outcome) {
	m.Battles++
	m.TotalRounds += o.Rounds
	switch {
	case o.Draw:
		m.Draws++
	case o.Winner == engine.SideFriendly:
		m.FriendlyWins++
	default:
		m.HostileWins++
	}
	if o.Reason == engine.ReasonSimultaneousKO {
		m.SimultaneousKOs++
	}
}

// Report summarizes a simulation run.
type Report struct {
	RunID    string          `json:"run_id"`
	Seed     int64           `json:"seed"`
	Chart    string          `json:"chart"`
	Battles  int             `json:"battles"`
	Matchups []MatchupResult `json:"matchups"`
	Elapsed  time.Duration   `json:"elapsed"`
}

type task struct {
	matchup    int
	start, end int
}

type taskResult struct {
	outcomes []engine.Outcome
	ids      []uuid.UUID
	seeds    []int64
}

// RunMatchups simulates every matchup of templates opts.BattlesPerMatchup
// times on up to opts.Workers goroutines. Battle seeds derive from opts.Seed
// alone, so a run is reproducible for any worker count. When repo is not nil
// the run and every battle are recorded; a cancelled run is left unfinished
// and its battles are not stored.
func RunMatchups(ctx context.Context, repo ResultsRepo, chart *typechart.Chart, templates []*game.CombatantTemplate, opts Options) (*Report, error) {
	if chart == nil {
		return nil, ErrNoChart
	}
	opts = opts.withDefaults()
	matchups := Matchups(templates, opts.MirrorMatches)
	if len(matchups) == 0 {
		return nil, ErrNoMatchups
	}
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	byKey := make(map[string]int, len(matchups))
	for i, mu := range matchups {
		if j, dup := byKey[mu.Key()]; dup {
			return nil, fmt.Errorf("%w: %s vs %s and %s vs %s are both %q", ErrMatchupKeyCollision,
				matchups[j].Friendly.Name, matchups[j].Hostile.Name, mu.Friendly.Name, mu.Hostile.Name, mu.Key())
		}
		byKey[mu.Key()] = i
	}

	started := time.Now()
	runUUID := uuid.New()
	runID := runUUID.String()
	if repo != nil {
		run := &game.SimulationRun{
			RunID:             runID,
			Seed:              opts.Seed,
			Chart:             chart.Name(),
			BattlesPerMatchup: opts.BattlesPerMatchup,
			MaxRounds:         opts.MaxRounds,
			MovePolicy:        string(opts.MovePolicy),
			TargetPolicy:      string(opts.TargetPolicy),
			EngineVersion:     version.String(),
		}
		if err := repo.CreateRun(run); err != nil {
			return nil, fmt.Errorf("create run: %w", err)
		}
	}
	logging.Info("simulation started", logging.Fields{
		constants.LogFieldRunID:   runID,
		constants.LogFieldChart:   chart.Name(),
		constants.LogFieldBattles: opts.BattlesPerMatchup * len(matchups),
	})

	var tasks []task
	for m := range matchups {
		for s := 0; s < opts.BattlesPerMatchup; s += battlesPerTask {
			e := s + battlesPerTask
			if e > opts.BattlesPerMatchup {
				e = opts.BattlesPerMatchup
			}
			tasks = append(tasks, task{matchup: m, start: s, end: e})
		}
	}
	results := make([]taskResult, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range tasks {
		i := i // per-iteration copy (go 1.21 loop semantics)
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			t := tasks[i]
			mu := matchups[t.matchup]
			key := mu.Key()
			res := taskResult{
				outcomes: make([]engine.Outcome, 0, t.end-t.start),
				ids:      make([]uuid.UUID, 0, t.end-t.start),
				seeds:    make([]int64, 0, t.end-t.start),
			}
			for b := t.start; b < t.end; b++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				seed := battleSeed(opts.Seed, t.matchup, b)
				id := uuid.NewSHA1(runUUID, []byte(fmt.Sprintf("%s/%d", key, b)))
				out, err := simulate(chart, mu.Friendly, mu.Hostile, opts, seed, id)
				if err != nil {
					return fmt.Errorf("matchup %s battle %d: %w", key, b, err)
				}
				res.outcomes = append(res.outcomes, out)
				res.ids = append(res.ids, id)
				res.seeds = append(res.seeds, seed)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logging.Error("simulation aborted", err, logging.Fields{constants.LogFieldRunID: runID})
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{RunID: runID, Seed: opts.Seed, Chart: chart.Name(), Matchups: make([]MatchupResult, len(matchups))}
	for m, mu := range matchups {
		report.Matchups[m] = MatchupResult{Key: mu.Key(), Friendly: mu.Friendly.Name, Hostile: mu.Hostile.Name}
	}
	records := make([]game.BattleRecord, 0, opts.BattlesPerMatchup*len(matchups))
	for i, t := range tasks {
		mr := &report.Matchups[t.matchup]
		for j, out := range results[i].outcomes {
			mr.add(out)
			records = append(records, game.BattleRecord{
				RunID:        runID,
				BattleID:     results[i].ids[j].String(),
				MatchupKey:   mr.Key,
				FriendlyName: mr.Friendly,
				HostileName:  mr.Hostile,
				Winner:       string(out.Winner),
				Draw:         out.Draw,
				Reason:       string(out.Reason),
				Rounds:       out.Rounds,
				Seed:         results[i].seeds[j],
			})
		}
	}
	report.Battles = len(records)

	if repo != nil {
		if err := repo.SaveBattleRecords(records); err != nil {
			return nil, fmt.Errorf("save battle records: %w", err)
		}
		if err := repo.FinishRun(runID, time.Now()); err != nil {
			return nil, fmt.Errorf("finish run: %w", err)
		}
	}
	report.Elapsed = time.Since(started)
	for _, mr := range report.Matchups {
		logging.Info("matchup finished", logging.Fields{
			constants.LogFieldRunID:   runID,
			constants.LogFieldMatchup: mr.Key,
			constants.LogFieldBattles: mr.Battles,
			"friendly_wins":           mr.FriendlyWins,
			"hostile_wins":            mr.HostileWins,
			"draws":                   mr.Draws,
		})
	}
	return report, nil
}
