package version

// These are set at build time via:
//
//	go build -ldflags "-X 'github.com/batteryd/batteryd/pkg/version.Version=...' -X 'github.com/batteryd/batteryd/pkg/version.GitCommit=...'"
var (
	Version   = "v0.0.0-dev"
	GitCommit = "unknown"
)
