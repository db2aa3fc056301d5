package observability

import (
	"context"

	"github.com/kbukum/iterkit/version"
)

// HealthStatus represents the health state of a stream source or runtime.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
)

// Health describes the health of an individual source.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// RuntimeHealth aggregates the health of long-lived stream sources, such as
// channel feeds or remote producers backing WithRetry streams.
type RuntimeHealth struct {
	Service string       `json:"service"`
	Status  HealthStatus `json:"status"`
	Version string       `json:"version,omitempty"`
	Sources []Health     `json:"sources,omitempty"`
}

// HealthChecker is implemented by sources that can report their health.
type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// NewRuntimeHealth creates a RuntimeHealth with status up. An empty ver
// falls back to the module build version.
func NewRuntimeHealth(service, ver string) *RuntimeHealth {
	if ver == "" {
		ver = version.Short()
	}
	return &RuntimeHealth{
		Service: service,
		Status:  HealthStatusUp,
		Version: ver,
	}
}

// AddSource adds a source health result and degrades overall status if needed.
func (rh *RuntimeHealth) AddSource(h Health) {
	rh.Sources = append(rh.Sources, h)

	switch h.Status {
	case HealthStatusDown:
		rh.Status = HealthStatusDown
	case HealthStatusDegraded:
		if rh.Status != HealthStatusDown {
			rh.Status = HealthStatusDegraded
		}
	}
}
