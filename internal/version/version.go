package version

import "fmt"

// Name is the program name printed by the version command.
const Name = "mockingbird"

// Version contains the application version information.
// Set it via build-time ldflags:
// go build -ldflags "-X git.home.luguber.info/inful/mockingbird/internal/version.Version=v0.3.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns "name version", with the commit appended when it is known.
func String() string {
	s := fmt.Sprintf("%s %s", Name, Version)
	if GitCommit != "" && GitCommit != "unknown" {
		s += " (" + GitCommit + ")"
	}
	return s
}
