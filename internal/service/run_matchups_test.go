package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/CarlHaze/Necromancer2DGame/internal/constants"
	"github.com/CarlHaze/Necromancer2DGame/internal/engine"
	"github.com/CarlHaze/Necromancer2DGame/internal/game"
	"github.com/CarlHaze/Necromancer2DGame/internal/typechart"
)

type mockResultsRepo struct {
	runs     []*game.SimulationRun
	records  []game.BattleRecord
	finished map[string]time.Time
	saveErr  error
}

func (m *mockResultsRepo) CreateRun(run *game.SimulationRun) error {
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockResultsRepo) SaveBattleRecords(records []game.BattleRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *mockResultsRepo) FinishRun(runID string, at time.Time) error {
	if m.finished == nil {
		m.finished = make(map[string]time.Time)
	}
	m.finished[runID] = at
	return nil
}

func roster() []*game.CombatantTemplate {
	claw := game.MoveTemplate{Name: "Claw", Type: game.Feral, BasePower: 40, Accuracy: 100, MaxUses: 30, Effect: game.EffectDamage, Target: game.TargetEnemy}
	bite := game.MoveTemplate{Name: "Bite", Type: game.Plague, BasePower: 35, Accuracy: 100, MaxUses: 30, Effect: game.EffectDamage, Target: game.TargetEnemy,
		Inflicts: &game.StatusSpec{Kind: game.StatusPoison, Duration: 3, Potency: 2}}
	rattle := game.MoveTemplate{Name: "Rattle", Type: game.Bone, BasePower: 45, Accuracy: 95, MaxUses: 30, Effect: game.EffectDamage, Target: game.TargetEnemy}
	harden := game.MoveTemplate{Name: "Harden", Type: game.Bone, Accuracy: 100, MaxUses: 5, Effect: game.EffectBuffStat, Target: game.TargetSelf, Stat: game.StatDefense, StatChange: 1, NeverMisses: true}
	return []*game.CombatantTemplate{
		{Name: "Skeleton", Type: game.Bone, BaseHP: 45, Attack: 14, Defense: 10, Speed: 16, Accuracy: 95, Moves: []game.MoveTemplate{rattle, harden}},
		{Name: "Zombie", Type: game.Plague, BaseHP: 70, Attack: 12, Defense: 12, Speed: 6, Accuracy: 90, Moves: []game.MoveTemplate{bite}},
		{Name: "Ghoul", Type: game.Feral, BaseHP: 55, Attack: 16, Defense: 8, Speed: 12, Accuracy: 95, Moves: []game.MoveTemplate{claw}},
	}
}

func TestRunMatchups_RecordsEveryBattle(t *testing.T) {
	repo := &mockResultsRepo{}
	opts := Options{BattlesPerMatchup: 120, Seed: 7, Workers: 3, MovePolicy: engine.MoveRandom}
	report, err := RunMatchups(context.Background(), repo, typechart.Standard(), roster(), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Matchups) != 3 || report.Battles != 360 {
		t.Fatalf("expected 3 matchups and 360 battles, got %d and %d", len(report.Matchups), report.Battles)
	}
	if report.Matchups[0].Key != "skeleton_vs_zombie" || report.Matchups[2].Key != "zombie_vs_ghoul" {
		t.Fatalf("unexpected matchup order %+v", report.Matchups)
	}
	for _, m := range report.Matchups {
		if m.FriendlyWins+m.HostileWins+m.Draws != m.Battles || m.Battles != 120 {
			t.Fatalf("tallies do not add up for %+v", m)
		}
		if rate := m.FriendlyWinRate() + m.HostileWinRate() + m.DrawRate(); rate < 0.999 || rate > 1.001 {
			t.Fatalf("rates should sum to 1, got %v", rate)
		}
		if m.AvgRounds() <= 0 {
			t.Fatalf("expected positive average rounds for %s", m.Key)
		}
	}

	if len(repo.runs) != 1 || repo.runs[0].RunID != report.RunID || repo.runs[0].BattlesPerMatchup != 120 {
		t.Fatalf("unexpected run record %+v", repo.runs)
	}
	if len(repo.records) != 360 {
		t.Fatalf("expected 360 stored records, got %d", len(repo.records))
	}
	seen := make(map[string]bool, len(repo.records))
	for _, r := range repo.records {
		if seen[r.BattleID] {
			t.Fatalf("duplicate battle id %s", r.BattleID)
		}
		seen[r.BattleID] = true
		if r.Draw != (r.Winner == "") {
			t.Fatalf("winner and draw disagree in %+v", r)
		}
		if !r.Draw && r.Winner != constants.SideFriendly && r.Winner != constants.SideHostile {
			t.Fatalf("unexpected winner %q", r.Winner)
		}
	}
	if _, ok := repo.finished[report.RunID]; !ok {
		t.Fatalf("expected the run to be finished")
	}
}

func TestRunMatchups_DeterministicAcrossWorkerCounts(t *testing.T) {
	base := Options{BattlesPerMatchup: 75, Seed: 99, MovePolicy: engine.MoveRandom, TargetPolicy: engine.TargetRandomLiving}
	one, two := base, base
	one.Workers = 1
	two.Workers = 8

	a, err := RunMatchups(context.Background(), nil, typechart.Standard(), roster(), one)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := RunMatchups(context.Background(), nil, typechart.Standard(), roster(), two)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a.Matchups, b.Matchups) {
		t.Fatalf("same seed must give the same tallies:\n%+v\n%+v", a.Matchups, b.Matchups)
	}
	if a.RunID == b.RunID {
		t.Fatalf("every run needs its own ID")
	}
}

func TestRunMatchups_Cancelled(t *testing.T) {
	repo := &mockResultsRepo{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunMatchups(ctx, repo, typechart.Standard(), roster(), Options{BattlesPerMatchup: 500})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(repo.records) != 0 || len(repo.finished) != 0 {
		t.Fatalf("a cancelled run must not be finished or stored")
	}
}

func TestRunMatchups_Validation(t *testing.T) {
	templates := roster()
	if _, err := RunMatchups(context.Background(), nil, typechart.Standard(), templates[:1], Options{}); !errors.Is(err, ErrNoMatchups) {
		t.Fatalf("expected ErrNoMatchups, got %v", err)
	}
	report, err := RunMatchups(context.Background(), nil, typechart.Standard(), templates[:1], Options{BattlesPerMatchup: 10, MirrorMatches: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Matchups) != 1 || report.Matchups[0].Key != "skeleton_vs_skeleton" {
		t.Fatalf("expected one mirror matchup, got %+v", report.Matchups)
	}
	if _, err := RunMatchups(context.Background(), nil, nil, templates, Options{}); !errors.Is(err, ErrNoChart) {
		t.Fatalf("expected ErrNoChart, got %v", err)
	}
	broken := roster()
	broken[1].Moves = nil
	if _, err := RunMatchups(context.Background(), nil, typechart.Standard(), broken, Options{}); !errors.Is(err, game.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestRunMatchups_SaveErrorPropagates(t *testing.T) {
	boom := errors.New("disk full")
	repo := &mockResultsRepo{saveErr: boom}
	if _, err := RunMatchups(context.Background(), repo, typechart.Standard(), roster(), Options{BattlesPerMatchup: 5}); !errors.Is(err, boom) {
		t.Fatalf("expected save error, got %v", err)
	}
	if len(repo.finished) != 0 {
		t.Fatalf("run must stay unfinished when records could not be stored")
	}
}

func TestSimulateBattle_Reproducible(t *testing.T) {
	r := roster()
	opts := Options{MovePolicy: engine.MoveRandom}
	a, err := SimulateBattle(typechart.Standard(), r[0], r[2], opts, 1234)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := SimulateBattle(typechart.Standard(), r[0], r[2], opts, 1234)
	if a != b {
		t.Fatalf("same seed gave %+v and %+v", a, b)
	}
	if a.Rounds == 0 || (a.Winner == "" && !a.Draw) {
		t.Fatalf("expected a finished battle, got %+v", a)
	}
}

func TestSimulateBattle_OverwhelmingFavorite(t *testing.T) {
	r := roster()
	titan := *r[0]
	titan.Name = "Titan"
	titan.Attack = 200
	titan.Speed = 99
	titan.Accuracy = 100
	titan.Moves = []game.MoveTemplate{{Name: "Crush", Type: game.Living, BasePower: 200, Accuracy: 100, MaxUses: 5, Effect: game.EffectDamage, Target: game.TargetEnemy, NeverMisses: true}}
	for seed := int64(0); seed < 20; seed++ {
		out, err := SimulateBattle(typechart.Standard(), &titan, r[1], Options{}, seed)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Winner != engine.SideFriendly || out.Rounds != 1 {
			t.Fatalf("seed %d: expected a first-round friendly win, got %+v", seed, out)
		}
	}
}

func TestBattleSeed_Distinct(t *testing.T) {
	seen := make(map[int64]bool)
	for m := 0; m < 5; m++ {
		for b := 0; b < 200; b++ {
			s := battleSeed(42, m, b)
			if seen[s] {
				t.Fatalf("seed collision at matchup %d battle %d", m, b)
			}
			seen[s] = true
		}
	}
	if battleSeed(42, 0, 0) == battleSeed(43, 0, 0) {
		t.Fatalf("run seed must change battle seeds")
	}
}

func TestRunMatchups_RejectsCollidingKeys(t *testing.T) {
	r := roster()
	lord := *r[0]
	lord.Name = "Bone Lord"
	twin := *r[0]
	twin.Name = "Bone_Lord"
	repo := &mockResultsRepo{}
	_, err := RunMatchups(context.Background(), repo, typechart.Standard(), []*game.CombatantTemplate{&lord, &twin, r[1]}, Options{BattlesPerMatchup: 5})
	if !errors.Is(err, ErrMatchupKeyCollision) {
		t.Fatalf("expected ErrMatchupKeyCollision, got %v", err)
	}
	if len(repo.runs) != 0 || len(repo.records) != 0 {
		t.Fatalf("nothing should be stored for a rejected run")
	}
}
