package build

// Set at link time via -ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// FullVersion renders "Version+Commit", e.g. "1.2.0+4f9c2aa".
func FullVersion() string {
	return Version + "+" + Commit
}
