package process

import (
	"strings"
	"time"
)

// Result holds the output and status of a completed subprocess.
type Result struct {
	// Stdout is the captured standard output.
	Stdout []byte
	// Stderr is the captured standard error.
	Stderr []byte
	// ExitCode is the process exit code. -1 if the process was killed or
	// never started.
	ExitCode int
	// Duration is how long the process ran.
	Duration time.Duration
}

// Output returns stdout followed by stderr as one string. Tools such as
// yt-dlp print listings on stdout and warnings on stderr; callers scanning
// for markers want both.
func (r *Result) Output() string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	b.Grow(len(r.Stdout) + len(r.Stderr) + 1)
	b.Write(r.Stdout)
	if len(r.Stdout) > 0 && len(r.Stderr) > 0 && r.Stdout[len(r.Stdout)-1] != '\n' {
		b.WriteByte('\n')
	}
	b.Write(r.Stderr)
	return b.String()
}

// StderrTail returns at most n trailing bytes of stderr, trimmed, for logs
// and error details.
func (r *Result) StderrTail(n int) string {
	if r == nil {
		return ""
	}
	s := r.Stderr
	if n > 0 && len(s) > n {
		s = s[len(s)-n:]
	}
	return strings.TrimSpace(string(s))
}
