package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/kbukum/ytranscript/component"
)

// Summary renders the startup banner: registered components with their
// live health, and the HTTP routes any server component exposes.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	notes           []string
}

// NewSummary creates a new bootstrap summary.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// AddNote appends a line printed under the tables, e.g. a config warning.
func (s *Summary) AddNote(note string) {
	s.notes = append(s.notes, note)
}

// Render builds the summary text for the components in registry.
func (s *Summary) Render(ctx context.Context, registry *component.Registry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s started in %.2fs\n", s.serviceName, displayVersion(s.version), s.startupDuration.Seconds())

	var components []component.Component
	if registry != nil {
		components = registry.All()
	}
	if len(components) == 0 {
		b.WriteString("no components registered\n")
	} else {
		b.WriteString(renderComponents(ctx, components))
		b.WriteString("\n")
	}

	if routes := collectRoutes(components); len(routes) > 0 {
		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"Method", "Path", "Handler"})
		for _, r := range routes {
			tw.AppendRow(table.Row{r.Method, r.Path, r.Handler})
		}
		b.WriteString(tw.Render())
		b.WriteString("\n")
	}

	for _, note := range s.notes {
		b.WriteString("! " + note + "\n")
	}
	return b.String()
}

func renderComponents(ctx context.Context, components []component.Component) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Component", "Type", "Details", "Health"})
	for _, c := range components {
		desc := component.Description{Name: c.Name()}
		if d, ok := c.(component.Describable); ok {
			desc = d.Describe()
			if desc.Name == "" {
				desc.Name = c.Name()
			}
		}
		details := desc.Details
		if desc.Port > 0 && !strings.Contains(details, fmt.Sprintf(":%d", desc.Port)) {
			details = fmt.Sprintf("%s (:%d)", details, desc.Port)
		}
		tw.AppendRow(table.Row{desc.Name, desc.Type, details, healthLabel(c.Health(ctx))})
	}
	return tw.Render()
}

func collectRoutes(components []component.Component) []component.Route {
	var routes []component.Route
	for _, c := range components {
		if rp, ok := c.(component.RouteProvider); ok {
			routes = append(routes, rp.Routes()...)
		}
	}
	return routes
}

func healthLabel(h component.Health) string {
	label := string(h.Status)
	if h.Message != "" {
		label += ": " + h.Message
	}
	return label
}

func displayVersion(v string) string {
	if v == "" {
		return "dev"
	}
	if strings.HasPrefix(v, "v") || strings.HasPrefix(v, "dev") {
		return v
	}
	return "v" + v
}
