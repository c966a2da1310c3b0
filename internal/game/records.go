package game

import (
	"time"

	"gorm.io/gorm"
)

// SimulationRun groups the battles produced by one invocation of the matchup
// simulator.
type SimulationRun struct {
	gorm.Model
	RunID             string `json:"run_id" gorm:"uniqueIndex"`
	Seed              int64  `json:"seed"`
	Chart             string `json:"chart"`
	BattlesPerMatchup int    `json:"battles_per_matchup"`
	MaxRounds         int    `json:"max_rounds"`
	MovePolicy        string `json:"move_policy"`
	TargetPolicy      string `json:"target_policy"`
	EngineVersion     string `json:"engine_version"`
	// FinishedAt stays nil while the run is in progress or when it was
	// cancelled before all battles were stored.
	FinishedAt *time.Time `json:"finished_at"`
}

func (SimulationRun) TableName() string { return "simulation_runs" }

// BattleRecord is the persisted outcome of one simulated battle.
type BattleRecord struct {
	gorm.Model
	RunID        string `json:"run_id" gorm:"index"`
	BattleID     string `json:"battle_id" gorm:"uniqueIndex"`
	MatchupKey   string `json:"matchup_key" gorm:"index"`
	FriendlyName string `json:"friendly"`
	HostileName  string `json:"hostile"`
	// Winner is "friendly", "hostile" or empty for a draw.
	Winner string `json:"winner"`
	Draw   bool   `json:"draw"`
	Reason string `json:"reason"`
	Rounds int    `json:"rounds"`
	Seed   int64  `json:"seed"`
}

func (BattleRecord) TableName() string { return "battle_records" }

// MatchupStat is an aggregate over the battle records of one matchup. It is
// computed by queries and never stored.
type MatchupStat struct {
	MatchupKey   string  `json:"matchup_key"`
	Battles      int64   `json:"battles"`
	FriendlyWins int64   `json:"friendly_wins"`
	HostileWins  int64   `json:"hostile_wins"`
	Draws        int64   `json:"draws"`
	AvgRounds    float64 `json:"avg_rounds"`
}
