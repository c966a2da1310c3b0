package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/CarlHaze/Necromancer2DGame/internal/game"
)

// OpenAndMigrate opens the results ledger and keeps its schema current with
// AutoMigrate. Records are only ever appended by the simulator, so no tables
// are dropped on startup.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&game.SimulationRun{}, &game.BattleRecord{}); err != nil {
		return nil, err
	}
	// Stats queries filter by run and group by matchup.
	if execErr := db.Exec("CREATE INDEX IF NOT EXISTS idx_battle_records_run_matchup ON battle_records(run_id, matchup_key);").Error; execErr != nil {
		return nil, execErr
	}
	return db, nil
}
