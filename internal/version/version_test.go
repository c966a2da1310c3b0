package version

import "testing"

func TestString(t *testing.T) {
	old := []string{Version, Commit, Date, Dirty}
	defer func() { Version, Commit, Date, Dirty = old[0], old[1], old[2], old[3] }()

	Version, Commit, Date, Dirty = "dev", "none", "", "false"
	if got := String(); got != "dev" {
		t.Fatalf("expected dev, got %q", got)
	}
	Version, Commit, Date, Dirty = "v1.2.0", "abc123", "2026-01-05", "true"
	if got := String(); got != "v1.2.0+abc123.dirty (2026-01-05)" {
		t.Fatalf("unexpected version string %q", got)
	}
}
