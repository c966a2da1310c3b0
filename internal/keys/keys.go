package keys

import (
	"sort"
	"strings"
)

// MatchupSeparator joins the two roster keys of a matchup.
const MatchupSeparator = "_vs_"

// RosterKey produces a canonical key for a list of combatant names.
// Behavior: trims names, lower-cases, replaces spaces with underscores,
// sorts the parts and joins with underscore. Suitable for stable DB keys.
func RosterKey(names []string) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		s := strings.TrimSpace(n)
		if s == "" {
			continue
		}
		s = strings.ToLower(strings.Join(strings.Fields(s), "_"))
		parts = append(parts, s)
	}
	sort.Strings(parts)
	return strings.Join(parts, "_")
}

// MatchupKey keys a friendly roster against a hostile roster. Member order
// within a side does not matter; side order does.
func MatchupKey(friendly, hostile []string) string {
	return RosterKey(friendly) + MatchupSeparator + RosterKey(hostile)
}

// SplitMatchupKey returns the friendly and hostile roster keys of a
// matchup key.
func SplitMatchupKey(key string) (friendly, hostile string, ok bool) {
	i := strings.Index(key, MatchupSeparator)
	if i < 0 {
		return "", "", false
	}
	return key[:i], key[i+len(MatchupSeparator):], true
}
