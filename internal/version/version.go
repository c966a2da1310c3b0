package version

// These variables are overridden at build time using -ldflags.
// Keep sensible defaults for local development.
var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
	Dirty   = "false"
)

// String renders the build info for logs and stored simulation runs.
func String() string {
	s := Version
	if Commit != "" && Commit != "none" {
		s += "+" + Commit
		if Dirty == "true" {
			s += ".dirty"
		}
	}
	if Date != "" {
		s += " (" + Date + ")"
	}
	return s
}
