// Package version exposes build information for the ytranscript binary.
//
// Version, git commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/ytranscript/version.Version=1.0.0" ./cmd/ytranscript
//
// Missing values fall back to the VCS stamp in runtime/debug build info.
// The same build identifies outbound requests through Build.UserAgent.
package version
