package keys

import "testing"

func TestRosterKey_Canonical(t *testing.T) {
	a := RosterKey([]string{" Zombie ", "Bone  Knight", ""})
	b := RosterKey([]string{"bone knight", "ZOMBIE"})
	if a != b || a != "bone_knight_zombie" {
		t.Fatalf("expected canonical key, got %q and %q", a, b)
	}
}

func TestMatchupKey_KeepsSideOrder(t *testing.T) {
	ab := MatchupKey([]string{"Skeleton"}, []string{"Ghoul"})
	ba := MatchupKey([]string{"Ghoul"}, []string{"Skeleton"})
	if ab == ba {
		t.Fatalf("side order must matter, both were %q", ab)
	}
	f, h, ok := SplitMatchupKey(ab)
	if !ok || f != "skeleton" || h != "ghoul" {
		t.Fatalf("unexpected split %q %q %v", f, h, ok)
	}
	if _, _, ok := SplitMatchupKey("skeleton"); ok {
		t.Fatalf("expected a key without separator to fail")
	}
}
