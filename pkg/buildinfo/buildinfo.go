package buildinfo

// Version holds the application's version string.
// It's a `var` so it can be set at compile time using ldflags.
// Example: go build -ldflags="-X github.com/dhelbig/rexsync/pkg/buildinfo.Version=1.0.0"
var Version = "dev"

// Commit holds the VCS revision the binary was built from, also set via ldflags.
var Commit = "unknown"

// Name is the canonical name of the application used for logging and help text.
var Name = "rexsync"
