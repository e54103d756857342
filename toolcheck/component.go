package toolcheck

import (
	"context"
	"sync"

	"github.com/kbukum/ytranscript/component"
	"github.com/kbukum/ytranscript/logger"
)

// Component exposes one requirement to the component registry: it probes
// the tool at start, and Health re-runs the cheap PATH lookup so /ready
// notices a binary that disappeared.
type Component struct {
	req     Requirement
	checker *Checker
	log     *logger.Logger

	mu     sync.RWMutex
	status Status
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a component for req.
func NewComponent(req Requirement, checker *Checker, log *logger.Logger) *Component {
	if log == nil {
		log = logger.NewNop()
	}
	return &Component{req: req, checker: checker, log: log.WithComponent("toolcheck")}
}

// Name returns the requirement name.
func (c *Component) Name() string { return c.req.Name }

// Start probes the tool. A missing tool is logged, not returned: the
// service still starts and readiness reports the problem.
func (c *Component) Start(ctx context.Context) error {
	st := c.checker.Check(ctx, c.req)
	c.mu.Lock()
	c.status = st
	c.mu.Unlock()

	fields := logger.Fields(logger.FieldTool, st.Name, "path", st.Path, "version", st.Version, "detail", st.Detail)
	switch {
	case !st.Available && st.Optional:
		c.log.Info("optional tool unavailable", fields)
	case !st.Available:
		c.log.Warn("required tool unavailable", fields)
	default:
		c.log.Debug("tool available", fields)
	}
	return nil
}

// Stop is a no-op.
func (c *Component) Stop(context.Context) error { return nil }

// Status returns the last probe result.
func (c *Component) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Health reports healthy when the binary is on PATH. A missing optional
// tool is degraded, a missing required tool unhealthy.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.req.Name, Status: component.StatusHealthy}
	if _, err := c.checker.lookup(c.req.Command); err != nil {
		h.Message = "binary " + c.req.Command + " not found"
		if c.req.Optional {
			h.Status = component.StatusDegraded
		} else {
			h.Status = component.StatusUnhealthy
		}
		return h
	}
	h.Message = c.Status().Version
	return h
}

// Describe reports the resolved path and version for the startup summary.
func (c *Component) Describe() component.Description {
	st := c.Status()
	details := st.Path
	if details == "" {
		details = st.Detail
	}
	return component.Description{Name: c.req.Name, Type: "tool", Details: details}
}
