// Package toolcheck reports whether the external command-line tools the
// resolver shells out to are installed, and which version they are.
package toolcheck

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/kbukum/ytranscript/process"
)

// DefaultVersionTimeout bounds each version probe.
const DefaultVersionTimeout = 10 * time.Second

// Requirement describes one external binary.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	// VersionArgs are passed to Command to print its version. Empty skips
	// the version probe.
	VersionArgs []string
}

// Status reports the availability of a requirement.
type Status struct {
	Requirement
	Available bool
	Path      string
	Version   string
	Detail    string
}

// Lookup resolves a command to a path. exec.LookPath by default.
type Lookup func(file string) (string, error)

// Checker evaluates requirements.
type Checker struct {
	runner  process.Runner
	lookup  Lookup
	timeout time.Duration
}

// Option configures a Checker.
type Option func(*Checker)

// WithLookup replaces the PATH lookup.
func WithLookup(l Lookup) Option {
	return func(c *Checker) { c.lookup = l }
}

// WithVersionTimeout overrides DefaultVersionTimeout.
func WithVersionTimeout(d time.Duration) Option {
	return func(c *Checker) { c.timeout = d }
}

// NewChecker creates a Checker running version probes through runner. A nil
// runner uses a plain process adapter.
func NewChecker(runner process.Runner, opts ...Option) *Checker {
	if runner == nil {
		runner = process.NewAdapter(process.Config{Name: "toolcheck"}, nil)
	}
	c := &Checker{runner: runner, lookup: exec.LookPath, timeout: DefaultVersionTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check evaluates one requirement. A binary that is found but fails its
// version probe is still reported available, with the failure in Detail.
func (c *Checker) Check(ctx context.Context, req Requirement) Status {
	req.Command = strings.TrimSpace(req.Command)
	status := Status{Requirement: req}
	if req.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := c.lookup(req.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		return status
	}
	status.Available = true
	status.Path = path

	if len(req.VersionArgs) == 0 {
		return status
	}
	vctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	res, err := c.runner.Run(vctx, process.Command{Binary: path, Args: req.VersionArgs})
	if err != nil {
		status.Detail = fmt.Sprintf("version probe failed: %v", err)
		return status
	}
	status.Version = firstLine(res.Stdout)
	if status.Version == "" {
		status.Version = firstLine(res.Stderr)
	}
	return status
}

// CheckAll evaluates requirements in order.
func (c *Checker) CheckAll(ctx context.Context, reqs []Requirement) []Status {
	results := make([]Status, 0, len(reqs))
	for _, req := range reqs {
		results = append(results, c.Check(ctx, req))
	}
	return results
}

// Missing returns the required (non-optional) requirements that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}

func firstLine(b []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line
		}
	}
	return ""
}
