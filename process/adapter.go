package process

import (
	"context"
	"time"

	"github.com/kbukum/ytranscript/logger"
)

// Runner executes commands. Adapter is the real implementation; tests swap
// in fakes that return canned output.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cmd Command) (*Result, error)

// Run calls f(ctx, cmd).
func (f RunnerFunc) Run(ctx context.Context, cmd Command) (*Result, error) {
	return f(ctx, cmd)
}

// Config configures a process adapter.
type Config struct {
	// Name identifies this adapter instance in logs.
	Name string `yaml:"name,omitempty" mapstructure:"name"`
	// GracePeriod is the default grace period for SIGTERM→SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period"`
	// Timeout is the default execution timeout. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
}

// Adapter runs commands with adapter-level defaults and logging.
type Adapter struct {
	config Config
	log    *logger.Logger
}

// NewAdapter creates a new process adapter.
func NewAdapter(cfg Config, log *logger.Logger) *Adapter {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Name == "" {
		cfg.Name = "process"
	}
	return &Adapter{config: cfg, log: log.WithComponent(cfg.Name)}
}

// Run executes a command, applying adapter-level defaults.
func (a *Adapter) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.GracePeriod == 0 && a.config.GracePeriod > 0 {
		cmd.GracePeriod = a.config.GracePeriod
	}
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	log := a.log.WithContext(ctx)
	log.Debug("running command", logger.Fields(logger.FieldTool, cmd.Binary, "args", cmd.Args))

	res, err := Run(ctx, cmd)
	if res != nil {
		fields := logger.DurationFields(a.Name(), res.Duration)
		fields[logger.FieldTool] = cmd.Binary
		fields[logger.FieldExitCode] = res.ExitCode
		if err != nil {
			log.Debug("command failed", logger.MergeWithError(fields, err))
		} else {
			log.Debug("command finished", fields)
		}
	}
	return res, err
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return a.config.Name
}
