package typechart

import (
	"fmt"
	"strings"

	"github.com/CarlHaze/Necromancer2DGame/internal/game"
)

// Built-in chart names.
const (
	StandardName = "standard"
	LegacyName   = "legacy"
)

const (
	standardSuper   = 1.5
	standardNotVery = 0.67
	legacySuper     = 2.0
	legacyNotVery   = 0.5
)

var standardTypes = []game.ElementalType{
	game.Bone, game.Plague, game.Feral, game.Spirit, game.Dark,
	game.Fire, game.Living, game.Holy, game.Crushing,
}

var legacyTypes = []game.ElementalType{
	game.Bone, game.Plague, game.Feral, game.Spirit, game.Dark,
	game.Hex, game.Infernal, game.Frost, game.Blight, game.Soul,
}

// standardRows lists every non-neutral cell of the nine-type chart, keyed by
// attacker. Living attacks everything neutrally.
var standardRows = map[game.ElementalType]map[game.ElementalType]float64{
	game.Bone: {
		game.Spirit: Immune,
	},
	game.Plague: {
		game.Bone:   standardSuper, game.Plague: standardNotVery, game.Fire: standardNotVery,
		game.Living: standardSuper, game.Holy: standardNotVery,
	},
	game.Feral: {
		game.Plague:   standardSuper, game.Fire: standardNotVery, game.Living: standardSuper,
		game.Crushing: standardNotVery,
	},
	game.Spirit: {
		game.Bone:     Immune, game.Dark: standardSuper, game.Holy: standardNotVery,
		game.Crushing: standardSuper,
	},
	game.Dark: {
		game.Spirit: standardSuper, game.Dark: standardNotVery, game.Living: standardSuper,
		game.Holy:   standardNotVery,
	},
	game.Fire: {
		game.Bone: standardNotVery, game.Plague: standardSuper, game.Feral: standardSuper,
		game.Fire: standardNotVery,
	},
	game.Holy: {
		game.Bone:   standardNotVery, game.Plague: standardSuper, game.Feral: standardNotVery,
		game.Spirit: standardSuper, game.Dark: standardSuper, game.Holy: standardNotVery,
	},
	game.Crushing: {
		game.Bone: standardSuper, game.Feral: standardNotVery, game.Spirit: Immune,
		game.Dark: standardNotVery,
	},
}

// legacySuperPairs and legacyResistedBy describe the ten-type chart. When a
// pair appears in both, the super effective value wins.
var legacySuperPairs = []pair{
	{game.Infernal, game.Frost},
	{game.Frost, game.Plague},
	{game.Soul, game.Dark},
	{game.Soul, game.Spirit},
}

// legacyResistedBy maps a defender to the attackers it resists.
var legacyResistedBy = map[game.ElementalType][]game.ElementalType{
	game.Bone:     {game.Spirit},
	game.Plague:   {game.Infernal},
	game.Feral:    {game.Infernal, game.Bone},
	game.Spirit:   {game.Dark},
	game.Dark:     {game.Soul},
	game.Hex:      {game.Infernal, game.Spirit},
	game.Infernal: {game.Spirit, game.Frost},
	game.Frost:    {game.Infernal, game.Plague},
	game.Blight:   {game.Infernal, game.Bone},
	game.Soul:     {game.Hex, game.Dark},
}

// Standard returns the nine-type chart (1.5 / 0.67). It is the default.
func Standard() *Chart {
	entries := make([]Entry, 0, 32)
	for _, a := range standardTypes {
		for _, d := range standardTypes {
			if m, ok := standardRows[a][d]; ok {
				entries = append(entries, Entry{Attacker: a, Defender: d, Multiplier: m})
			}
		}
	}
	return mustNew(StandardName, standardTypes, standardSuper, standardNotVery, entries)
}

// Legacy returns the ten-type chart (2.0 / 0.5).
func Legacy() *Chart {
	cells := make(map[pair]float64, len(legacySuperPairs)+20)
	for _, p := range legacySuperPairs {
		cells[p] = legacySuper
	}
	for _, d := range legacyTypes {
		for _, a := range legacyResistedBy[d] {
			p := pair{a, d}
			if _, ok := cells[p]; ok {
				continue
			}
			cells[p] = legacyNotVery
		}
	}
	entries := make([]Entry, 0, len(cells))
	for _, a := range legacyTypes {
		for _, d := range legacyTypes {
			if m, ok := cells[pair{a, d}]; ok {
				entries = append(entries, Entry{Attacker: a, Defender: d, Multiplier: m})
			}
		}
	}
	return mustNew(LegacyName, legacyTypes, legacySuper, legacyNotVery, entries)
}

// ByName returns a built-in chart.
func ByName(name string) (*Chart, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StandardName:
		return Standard(), nil
	case LegacyName:
		return Legacy(), nil
	}
	return nil, fmt.Errorf("unknown built-in type chart %q: %w", name, game.ErrConfig)
}
