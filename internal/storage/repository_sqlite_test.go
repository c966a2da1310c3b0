package storage

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/CarlHaze/Necromancer2DGame/internal/constants"
	"github.com/CarlHaze/Necromancer2DGame/internal/game"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	db, err := OpenAndMigrate(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewSQLiteRepository(db)
}

func record(runID, battleID, matchup, winner string, rounds int) game.BattleRecord {
	return game.BattleRecord{
		RunID:      runID,
		BattleID:   battleID,
		MatchupKey: matchup,
		Winner:     winner,
		Draw:       winner == "",
		Rounds:     rounds,
	}
}

func TestRunLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.CreateRun(&game.SimulationRun{RunID: "run-1", Seed: 42, Chart: "standard"}); err != nil {
		t.Fatalf("create run: %v", err)
	}
	run, err := repo.GetRun("run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.Seed != 42 || run.FinishedAt != nil {
		t.Fatalf("unexpected run %+v", run)
	}
	if err := repo.FinishRun("run-1", time.Now()); err != nil {
		t.Fatalf("finish run: %v", err)
	}
	run, _ = repo.GetRun("run-1")
	if run.FinishedAt == nil {
		t.Fatalf("expected finished_at to be set")
	}
	if _, err := repo.GetRun("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	if err := repo.FinishRun("nope", time.Now()); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestMatchupStatsAggregates(t *testing.T) {
	repo := newTestRepo(t)
	repo.CreateRun(&game.SimulationRun{RunID: "run-1"})
	records := []game.BattleRecord{
		record("run-1", "b1", "ghoul_vs_skeleton", constants.SideFriendly, 4),
		record("run-1", "b2", "ghoul_vs_skeleton", constants.SideHostile, 6),
		record("run-1", "b3", "ghoul_vs_skeleton", constants.SideFriendly, 2),
		record("run-1", "b4", "ghoul_vs_zombie", "", 100),
		record("run-2", "b5", "ghoul_vs_zombie", constants.SideFriendly, 3),
	}
	if err := repo.SaveBattleRecords(records); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Re-saving the same battles is a no-op.
	if err := repo.SaveBattleRecords(records[:2]); err != nil {
		t.Fatalf("save duplicate: %v", err)
	}

	stats, err := repo.MatchupStats("run-1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 matchups, got %+v", stats)
	}
	s := stats[0]
	if s.MatchupKey != "ghoul_vs_skeleton" || s.Battles != 3 || s.FriendlyWins != 2 || s.HostileWins != 1 || s.Draws != 0 || s.AvgRounds != 4 {
		t.Fatalf("unexpected stat %+v", s)
	}
	if d := stats[1]; d.Draws != 1 || d.Battles != 1 {
		t.Fatalf("unexpected draw stat %+v", d)
	}
	if n, _ := repo.CountBattles("run-1"); n != 4 {
		t.Fatalf("expected 4 battles, got %d", n)
	}
}

func TestSaveBattleRecordsBatches(t *testing.T) {
	repo := newTestRepo(t)
	records := make([]game.BattleRecord, 0, recordBatchSize*2+5)
	for i := 0; i < cap(records); i++ {
		records = append(records, record("run-1", fmt.Sprintf("b%d", i), "a_vs_b", constants.SideHostile, 1))
	}
	if err := repo.SaveBattleRecords(records); err != nil {
		t.Fatalf("save: %v", err)
	}
	if n, _ := repo.CountBattles("run-1"); n != int64(len(records)) {
		t.Fatalf("expected %d records, got %d", len(records), n)
	}
	if err := repo.SaveBattleRecords(nil); err != nil {
		t.Fatalf("empty save: %v", err)
	}
}

func TestListAndDeleteRuns(t *testing.T) {
	repo := newTestRepo(t)
	for _, id := range []string{"r1", "r2", "r3"} {
		repo.CreateRun(&game.SimulationRun{RunID: id})
	}
	repo.SaveBattleRecords([]game.BattleRecord{record("r2", "b1", "a_vs_b", constants.SideFriendly, 1)})

	runs, err := repo.ListRuns(2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != "r3" || runs[1].RunID != "r2" {
		t.Fatalf("expected newest first, got %+v", runs)
	}

	if err := repo.DeleteRun("r2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n, _ := repo.CountBattles("r2"); n != 0 {
		t.Fatalf("expected records removed, got %d", n)
	}
	if _, err := repo.GetRun("r2"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected run removed, got %v", err)
	}
	if err := repo.DeleteRun("r2"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound on second delete, got %v", err)
	}
}
