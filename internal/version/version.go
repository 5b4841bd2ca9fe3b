package version

// Version is the release version, set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/techdocs-core/internal/version.Version=v1.0.0".
var Version = "dev"

// Build metadata, set the same way as Version.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)
