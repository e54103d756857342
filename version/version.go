package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
)

// Service is the product name used in user agents and log fields.
const Service = "ytranscript"

// Stamped with -ldflags "-X github.com/kbukum/ytranscript/version.Version=...".
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Build describes the running binary.
type Build struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	Modified  bool   `json:"modified"`
}

type vcsInfo struct {
	goVersion string
	revision  string
	time      string
	modified  bool
}

var readVCS = sync.OnceValue(func() vcsInfo {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return vcsInfo{}
	}
	v := vcsInfo{goVersion: bi.GoVersion}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			v.revision = s.Value
		case "vcs.time":
			v.time = s.Value
		case "vcs.modified":
			v.modified = s.Value == "true"
		}
	}
	return v
})

// Get returns the current build. Stamped values win over VCS settings.
func Get() Build {
	return resolve(readVCS())
}

func resolve(v vcsInfo) Build {
	b := Build{
		Service:   Service,
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildTime,
		GoVersion: v.goVersion,
		Modified:  v.modified,
	}
	if b.Commit == "" {
		b.Commit = v.revision
	}
	if len(b.Commit) > 7 {
		b.Commit = b.Commit[:7]
	}
	if b.BuildTime == "" {
		b.BuildTime = v.time
	}
	if b.Version == "" {
		b.Version = "dev"
	}
	return b
}

// Release reports whether the build was stamped with a clean version.
func (b Build) Release() bool {
	return b.Version != "dev" && !b.Modified && !strings.HasSuffix(b.Version, "-dirty")
}

// Short is the version plus abbreviated commit, e.g. "1.2.0-abc1234".
func (b Build) Short() string {
	s := b.Version
	if b.Commit != "" {
		s += "-" + b.Commit
	}
	if b.Modified {
		s += "-dirty"
	}
	return s
}

// String is the line printed by the version command.
func (b Build) String() string {
	s := fmt.Sprintf("%s %s", b.Service, b.Short())
	if b.BuildTime != "" {
		s += " (built " + b.BuildTime + ")"
	}
	if b.GoVersion != "" {
		s += " " + b.GoVersion
	}
	return s
}

// UserAgent identifies outbound requests, e.g. to the whisper sidecar.
func (b Build) UserAgent() string {
	return b.Service + "/" + b.Short()
}

// Fields returns the build as log fields.
func (b Build) Fields() map[string]interface{} {
	return map[string]interface{}{
		"service":    b.Service,
		"version":    b.Short(),
		"go_version": b.GoVersion,
		"release":    b.Release(),
	}
}

// Short is shorthand for Get().Short().
func Short() string { return Get().Short() }
