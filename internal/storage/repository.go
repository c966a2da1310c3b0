package storage

import (
	"errors"
	"time"

	"github.com/CarlHaze/Necromancer2DGame/internal/game"
)

// ErrRunNotFound is returned when no simulation run has the given ID.
var ErrRunNotFound = errors.New("simulation run not found")

type Repository interface {
	CreateRun(run *game.SimulationRun) error
	// FinishRun stamps the run as complete. Unfinished runs were cancelled
	// or are still in progress.
	FinishRun(runID string, at time.Time) error
	// SaveBattleRecords appends records in batches. Records whose battle ID
	// is already stored are skipped.
	SaveBattleRecords(records []game.BattleRecord) error
	GetRun(runID string) (*game.SimulationRun, error)
	// ListRuns returns the most recent runs first.
	ListRuns(limit int) ([]game.SimulationRun, error)
	// MatchupStats aggregates the records of a run per matchup key, sorted
	// by key.
	MatchupStats(runID string) ([]game.MatchupStat, error)
	CountBattles(runID string) (int64, error)
	// DeleteRun removes a run and all of its records.
	DeleteRun(runID string) error
}
