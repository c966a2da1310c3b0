package constants

// Centralized constants for env keys, defaults and log fields.
const (
	// Environment variable keys
	EnvConfigPath = "NECRO_CONFIG"
	EnvDBPath     = "NECRO_DB"

	DefaultConfigPath = "./necro_config.yaml"
	DefaultDBPath     = "./data/necrosim.db"
)

// Simulation defaults used when the content file leaves them out.
const (
	DefaultBattlesPerMatchup = 1000
	DefaultMaxRounds         = 100
	DefaultWorkers           = 4
)

// Battle sides as stored in outcome records.
const (
	SideFriendly = "friendly"
	SideHostile  = "hostile"
)

// Logging field names
const (
	LogFieldBattleID = "battle_id"
	LogFieldRunID    = "run_id"
	LogFieldRound    = "round"
	LogFieldActor    = "actor"
	LogFieldTarget   = "target"
	LogFieldMove     = "move"
	LogFieldWinner   = "winner"
	LogFieldReason   = "reason"
	LogFieldMatchup  = "matchup"
	LogFieldChart    = "chart"
	LogFieldAttacker = "attacker"
	LogFieldDefender = "defender"
	LogFieldPath     = "path"
	LogFieldBattles  = "battles"
)
