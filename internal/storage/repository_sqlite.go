package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CarlHaze/Necromancer2DGame/internal/constants"
	"github.com/CarlHaze/Necromancer2DGame/internal/game"
)

// recordBatchSize bounds the rows per INSERT; SQLite caps bound variables
// per statement.
const recordBatchSize = 200

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateRun(run *game.SimulationRun) error {
	return r.db.Create(run).Error
}

func (r *sqliteRepository) FinishRun(runID string, at time.Time) error {
	res := r.db.Model(&game.SimulationRun{}).Where("run_id = ?", runID).Update("finished_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRunNotFound
	}
	return nil
}

func (r *sqliteRepository) SaveBattleRecords(records []game.BattleRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "battle_id"}},
		DoNothing: true,
	}).CreateInBatches(&records, recordBatchSize).Error
}

func (r *sqliteRepository) GetRun(runID string) (*game.SimulationRun, error) {
	var run game.SimulationRun
	if err := r.db.Where("run_id = ?", runID).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return &run, nil
}

func (r *sqliteRepository) ListRuns(limit int) ([]game.SimulationRun, error) {
	var runs []game.SimulationRun
	q := r.db.Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *sqliteRepository) MatchupStats(runID string) ([]game.MatchupStat, error) {
	var stats []game.MatchupStat
	err := r.db.Model(&game.BattleRecord{}).
		Select(`matchup_key,
			COUNT(*) AS battles,
			SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END) AS friendly_wins,
			SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END) AS hostile_wins,
			SUM(CASE WHEN draw THEN 1 ELSE 0 END) AS draws,
			AVG(rounds) AS avg_rounds`, constants.SideFriendly, constants.SideHostile).
		Where("run_id = ?", runID).
		Group("matchup_key").
		Order("matchup_key").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *sqliteRepository) CountBattles(runID string) (int64, error) {
	var n int64
	err := r.db.Model(&game.BattleRecord{}).Where("run_id = ?", runID).Count(&n).Error
	return n, err
}

func (r *sqliteRepository) DeleteRun(runID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("run_id = ?", runID).Delete(&game.BattleRecord{}).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Where("run_id = ?", runID).Delete(&game.SimulationRun{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRunNotFound
		}
		return nil
	})
}
