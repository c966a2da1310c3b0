package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/CarlHaze/Necromancer2DGame/internal/constants"
	"github.com/CarlHaze/Necromancer2DGame/internal/engine"
	"github.com/CarlHaze/Necromancer2DGame/internal/game"
	"github.com/CarlHaze/Necromancer2DGame/internal/keys"
	"github.com/CarlHaze/Necromancer2DGame/internal/typechart"
)

// Format selects the decoder used for a content file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Default tier values for inline charts that leave them out.
const (
	defaultSuperEffective   = 1.5
	defaultNotVeryEffective = 0.67
)

type chartTable struct {
	Name             string            `json:"name" yaml:"name"`
	SuperEffective   float64           `json:"super_effective" yaml:"super_effective"`
	NotVeryEffective float64           `json:"not_very_effective" yaml:"not_very_effective"`
	Types            []string          `json:"types" yaml:"types"`
	Entries          []typechart.Entry `json:"entries" yaml:"entries"`
}

// chartSpec is either the name of a built-in chart or an inline table.
type chartSpec struct {
	Builtin string
	Table   *chartTable
}

// Custom unmarshalers do not inherit the strict settings of the outer
// decoder, so the table is decoded again with unknown keys rejected.
func (c *chartSpec) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &c.Builtin)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	c.Table = &chartTable{}
	if err := dec.Decode(c.Table); err != nil {
		return fmt.Errorf("type_chart: %w", err)
	}
	return nil
}

func (c *chartSpec) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		return n.Decode(&c.Builtin)
	}
	raw, err := yaml.Marshal(n)
	if err != nil {
		return fmt.Errorf("type_chart: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	c.Table = &chartTable{}
	if err := dec.Decode(c.Table); err != nil {
		return fmt.Errorf("type_chart (line %d): %w", n.Line, err)
	}
	return nil
}

type combatantEntry struct {
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Description string   `json:"description" yaml:"description"`
	HitPoints   int      `json:"hit_points" yaml:"hit_points"`
	Attack      int      `json:"attack" yaml:"attack"`
	Defense     int      `json:"defense" yaml:"defense"`
	Speed       int      `json:"speed" yaml:"speed"`
	Accuracy    int      `json:"accuracy" yaml:"accuracy"`
	Moves       []string `json:"moves" yaml:"moves"`
}

type simulationEntry struct {
	BattlesPerMatchup int    `json:"battles_per_matchup" yaml:"battles_per_matchup"`
	MaxRounds         int    `json:"max_rounds" yaml:"max_rounds"`
	Seed              *int64 `json:"seed" yaml:"seed"`
	Workers           int    `json:"workers" yaml:"workers"`
	MovePolicy        string `json:"move_policy" yaml:"move_policy"`
	TargetPolicy      string `json:"target_policy" yaml:"target_policy"`
	MirrorMatches     bool   `json:"mirror_matches" yaml:"mirror_matches"`
}

type rawConfig struct {
	TypeChart     *chartSpec          `json:"type_chart" yaml:"type_chart"`
	MoveList      []game.MoveTemplate `json:"move_list" yaml:"move_list"`
	CombatantList []combatantEntry    `json:"combatant_list" yaml:"combatant_list"`
	Simulation    *simulationEntry    `json:"simulation" yaml:"simulation"`
}

// Simulation holds the simulator settings with defaults applied. SeedSet is
// false when the file leaves the seed out and the caller should pick one.
type Simulation struct {
	BattlesPerMatchup int
	MaxRounds         int
	Seed              int64
	SeedSet           bool
	Workers           int
	MovePolicy        engine.MovePolicy
	TargetPolicy      engine.TargetPolicy
	MirrorMatches     bool
}

// LoadedConfig is validated battle content ready for the engine.
type LoadedConfig struct {
	Chart      *typechart.Chart
	Moves      []game.MoveTemplate
	Combatants []*game.CombatantTemplate
	Simulation Simulation
}

// Combatant finds a template by name, ignoring case.
func (c *LoadedConfig) Combatant(name string) (*game.CombatantTemplate, bool) {
	key := normalize(name)
	for _, t := range c.Combatants {
		if normalize(t.Name) == key {
			return t, true
		}
	}
	return nil, false
}

// FormatFromPath picks the decoder from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("config file %s: unsupported extension (use .json, .yaml or .yml)", path)
}

// LoadConfig reads the content file at path. It requires the keys
// `move_list` and `combatant_list` (snake_case); `type_chart` defaults to the
// standard chart.
func LoadConfig(path string) (*LoadedConfig, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(b, format, path)
}

// Parse decodes and validates content. source names the input in errors.
func Parse(data []byte, format Format, source string) (*LoadedConfig, error) {
	var rc rawConfig
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&rc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", source, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&rc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", source, err)
		}
	default:
		return nil, fmt.Errorf("config file %s: unknown format %q", source, format)
	}

	chart, err := buildChart(rc.TypeChart)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", source, err)
	}
	if len(rc.MoveList) == 0 {
		return nil, fmt.Errorf("config file %s: %w", source, game.NewConfigError("content", "move_list", "is empty (provide 'move_list' array)"))
	}
	if len(rc.CombatantList) == 0 {
		return nil, fmt.Errorf("config file %s: %w", source, game.NewConfigError("content", "combatant_list", "is empty (provide 'combatant_list' array)"))
	}

	// Cross-entry validation: unique move and combatant names
	// (case-insensitive), every type known to the chart and every move
	// reference resolvable.
	moves := make(map[string]game.MoveTemplate, len(rc.MoveList))
	for i := range rc.MoveList {
		m := rc.MoveList[i]
		m.Name = strings.TrimSpace(m.Name)
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("config file %s: %w", source, err)
		}
		if !chart.Has(m.Type) {
			return nil, fmt.Errorf("config file %s: %w", source,
				game.NewConfigError("move '"+m.Name+"'", "type", "'%s' is not in type chart '%s'", m.Type, chart.Name()))
		}
		key := normalize(m.Name)
		if _, dup := moves[key]; dup {
			return nil, fmt.Errorf("config file %s: %w", source, game.NewConfigError("move_list", "", "duplicate move name '%s'", m.Name))
		}
		moves[key] = m
		rc.MoveList[i] = m
	}

	seen := make(map[string]string, len(rc.CombatantList))
	out := make([]*game.CombatantTemplate, 0, len(rc.CombatantList))
	for _, e := range rc.CombatantList {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("config file %s: %w", source, game.NewConfigError("combatant_list", "", "entry missing 'name'"))
		}
		// Names are unique by their matchup key, so "Bone Lord" and
		// "bone_lord" count as the same combatant.
		key := keys.RosterKey([]string{name})
		if strings.Contains(key, keys.MatchupSeparator) {
			return nil, fmt.Errorf("config file %s: %w", source,
				game.NewConfigError("combatant '"+name+"'", "name", "must not contain '%s'", strings.Trim(keys.MatchupSeparator, "_")))
		}
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("config file %s: %w", source, game.NewConfigError("combatant_list", "", "duplicate combatant name '%s' (same key as '%s')", name, prev))
		}
		seen[key] = name

		t := &game.CombatantTemplate{
			Name:        name,
			Type:        game.ElementalType(strings.TrimSpace(e.Type)),
			Description: strings.TrimSpace(e.Description),
			BaseHP:      e.HitPoints,
			Attack:      e.Attack,
			Defense:     e.Defense,
			Speed:       e.Speed,
			Accuracy:    e.Accuracy,
		}
		for _, ref := range e.Moves {
			m, ok := moves[normalize(ref)]
			if !ok {
				return nil, fmt.Errorf("config file %s: %w", source, game.NewConfigError("combatant '"+name+"'", "", "references unknown move '%s'", ref))
			}
			t.Moves = append(t.Moves, m)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("config file %s: %w", source, err)
		}
		if !chart.Has(t.Type) {
			return nil, fmt.Errorf("config file %s: %w", source,
				game.NewConfigError("combatant '"+name+"'", "type", "'%s' is not in type chart '%s'", t.Type, chart.Name()))
		}
		out = append(out, t)
	}

	sim, err := buildSimulation(rc.Simulation)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", source, err)
	}

	return &LoadedConfig{
		Chart:      chart,
		Moves:      rc.MoveList,
		Combatants: out,
		Simulation: sim,
	}, nil
}

func buildChart(spec *chartSpec) (*typechart.Chart, error) {
	if spec == nil {
		return typechart.Standard(), nil
	}
	if spec.Table == nil {
		return typechart.ByName(spec.Builtin)
	}
	t := spec.Table
	name := strings.TrimSpace(t.Name)
	if name == "" {
		name = "custom"
	}
	super, notVery := t.SuperEffective, t.NotVeryEffective
	if super == 0 {
		super = defaultSuperEffective
	}
	if notVery == 0 {
		notVery = defaultNotVeryEffective
	}
	types := make([]game.ElementalType, 0, len(t.Types))
	for _, s := range t.Types {
		types = append(types, game.ElementalType(strings.TrimSpace(s)))
	}
	return typechart.New(name, types, super, notVery, t.Entries)
}

func buildSimulation(e *simulationEntry) (Simulation, error) {
	sim := Simulation{
		BattlesPerMatchup: constants.DefaultBattlesPerMatchup,
		MaxRounds:         constants.DefaultMaxRounds,
		Workers:           constants.DefaultWorkers,
		MovePolicy:        engine.MoveFirstUsable,
		TargetPolicy:      engine.TargetFirstLiving,
	}
	if e == nil {
		return sim, nil
	}
	const subject = "simulation"
	if e.BattlesPerMatchup < 0 {
		return sim, game.NewConfigError(subject, "battles_per_matchup", "must not be negative, got %d", e.BattlesPerMatchup)
	}
	if e.MaxRounds < 0 {
		return sim, game.NewConfigError(subject, "max_rounds", "must not be negative, got %d", e.MaxRounds)
	}
	if e.Workers < 0 {
		return sim, game.NewConfigError(subject, "workers", "must not be negative, got %d", e.Workers)
	}
	if e.BattlesPerMatchup > 0 {
		sim.BattlesPerMatchup = e.BattlesPerMatchup
	}
	if e.MaxRounds > 0 {
		sim.MaxRounds = e.MaxRounds
	}
	if e.Workers > 0 {
		sim.Workers = e.Workers
	}
	if e.Seed != nil {
		sim.Seed, sim.SeedSet = *e.Seed, true
	}
	var err error
	if sim.MovePolicy, err = engine.ParseMovePolicy(e.MovePolicy); err != nil {
		return sim, game.NewConfigError(subject, "move_policy", "%v", err)
	}
	if sim.TargetPolicy, err = engine.ParseTargetPolicy(e.TargetPolicy); err != nil {
		return sim, game.NewConfigError(subject, "target_policy", "%v", err)
	}
	sim.MirrorMatches = e.MirrorMatches
	return sim, nil
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
