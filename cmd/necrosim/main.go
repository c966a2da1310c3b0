package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/CarlHaze/Necromancer2DGame/internal/config"
	"github.com/CarlHaze/Necromancer2DGame/internal/constants"
	"github.com/CarlHaze/Necromancer2DGame/internal/logging"
	"github.com/CarlHaze/Necromancer2DGame/internal/service"
	"github.com/CarlHaze/Necromancer2DGame/internal/storage"
	"github.com/CarlHaze/Necromancer2DGame/internal/version"
)

// stopSignals cancel a running simulation; the run is left unfinished.
var stopSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	// Defaults may come from NECRO_CONFIG / NECRO_DB; flags win.
	configFlag := flag.String("config", envOr(constants.EnvConfigPath, constants.DefaultConfigPath), "Path to the content file (.yaml, .yml or .json)")
	dbFlag := flag.String("db", envOr(constants.EnvDBPath, constants.DefaultDBPath), "Path to the results ledger (empty disables storage)")
	battlesFlag := flag.Int("n", 0, "Battles per matchup (overrides the content file)")
	seedFlag := flag.Int64("seed", 0, "Run seed (overrides the content file; random when neither sets it)")
	workersFlag := flag.Int("workers", 0, "Concurrent simulation workers (overrides the content file)")
	chartOnly := flag.Bool("chart-only", false, "Print the type chart and typical matchups, then exit")
	listRuns := flag.Int("list-runs", 0, "List the N most recent stored runs, then exit")
	showRun := flag.String("show-run", "", "Print the stored results of a run, then exit")
	deleteRun := flag.String("delete-run", "", "Delete a stored run and its battles, then exit")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("necrosim %s\n", version.String())
		os.Exit(0)
	}

	p := newPrinter()

	if *listRuns > 0 || *showRun != "" || *deleteRun != "" {
		repo := openLedger(*dbFlag)
		if repo == nil {
			logging.Fatal("ledger commands need a database", nil, logging.Fields{constants.LogFieldPath: *dbFlag})
		}
		switch {
		case *deleteRun != "":
			if err := repo.DeleteRun(*deleteRun); err != nil {
				logging.Fatal("failed to delete run", err, logging.Fields{constants.LogFieldRunID: *deleteRun})
			}
			logging.Info("run deleted", logging.Fields{constants.LogFieldRunID: *deleteRun})
		case *showRun != "":
			run, err := repo.GetRun(*showRun)
			if err != nil {
				logging.Fatal("failed to load run", err, logging.Fields{constants.LogFieldRunID: *showRun})
			}
			stats, err := repo.MatchupStats(run.RunID)
			if err != nil {
				logging.Fatal("failed to aggregate run", err, logging.Fields{constants.LogFieldRunID: run.RunID})
			}
			writeStoredRun(os.Stdout, p, run, stats)
		default:
			runs, err := repo.ListRuns(*listRuns)
			if err != nil {
				logging.Fatal("failed to list runs", err, nil)
			}
			for i := range runs {
				writeStoredRun(os.Stdout, p, &runs[i], nil)
			}
		}
		return
	}

	cfg, err := config.LoadConfig(*configFlag)
	if err != nil {
		logging.Fatal("Missing or invalid battle content", err, logging.Fields{constants.LogFieldPath: *configFlag, "hint": "provide a content file with 'move_list' and 'combatant_list' arrays and an optional 'type_chart' and 'simulation' block"})
	}
	logging.Info("content loaded", logging.Fields{
		constants.LogFieldPath:  *configFlag,
		constants.LogFieldChart: cfg.Chart.Name(),
		"combatants":            len(cfg.Combatants),
		"moves":                 len(cfg.Moves),
	})

	if *chartOnly {
		writeChart(os.Stdout, p, cfg.Chart)
		writeMatchups(os.Stdout, p, cfg.Chart, cfg.Combatants)
		return
	}

	opts := service.OptionsFromConfig(cfg.Simulation)
	if *battlesFlag > 0 {
		opts.BattlesPerMatchup = *battlesFlag
	}
	if *workersFlag > 0 {
		opts.Workers = *workersFlag
	}
	switch {
	case flagSet("seed"):
		opts.Seed = *seedFlag
	case cfg.Simulation.SeedSet:
		// keep the content file's seed
	default:
		opts.Seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), stopSignals...)
	defer stop()

	var results service.ResultsRepo
	ledger := openLedger(*dbFlag)
	if ledger != nil {
		results = ledger
	}
	report, err := service.RunMatchups(ctx, results, cfg.Chart, cfg.Combatants, opts)
	if err != nil {
		logging.Fatal("simulation failed", err, nil)
	}
	writeReport(os.Stdout, p, report)

	if ledger != nil {
		stats, err := ledger.MatchupStats(report.RunID)
		if err != nil {
			logging.Error("failed to read back stored results", err, logging.Fields{constants.LogFieldRunID: report.RunID})
			return
		}
		logging.Info("results stored", logging.Fields{
			constants.LogFieldRunID: report.RunID,
			constants.LogFieldPath:  *dbFlag,
			"matchups":              len(stats),
		})
	}
	if misses := cfg.Chart.Misses(); misses > 0 {
		logging.Warn("type chart lookups fell back to neutral", logging.Fields{constants.LogFieldChart: cfg.Chart.Name(), "misses": misses})
	}
}

// openLedger opens the results database, or returns nil when path is empty.
func openLedger(path string) storage.Repository {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logging.Fatal("Failed to create database directory", err, logging.Fields{constants.LogFieldPath: dir})
		}
	}
	db, err := storage.OpenAndMigrate(path)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{constants.LogFieldPath: path})
	}
	return storage.NewSQLiteRepository(db)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func flagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
