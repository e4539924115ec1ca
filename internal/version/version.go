package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build information, set via ldflags
var (
	// Version is the current version of rotron
	Version = "dev"

	// Commit is the git commit hash
	Commit = "unknown"

	// Date is the build date
	Date = "unknown"

	// BuiltBy indicates how the binary was built
	BuiltBy = "source"
)

// GetVersion returns the current version. Binaries installed with
// "go install module@version" report the module version instead of "dev".
func GetVersion() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
}

// GetFullVersion returns the full version information
func GetFullVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, by: %s, %s)",
		GetVersion(), Commit, Date, BuiltBy, runtime.Version())
}
