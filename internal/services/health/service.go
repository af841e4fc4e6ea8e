package health

import (
	"context"
	"maps"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"mietrecht-backend/internal/shared/telemetry"
)

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

const defaultCheckTimeout = 2 * time.Second

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Report is the health payload. OK is true whenever the process serves
// requests; Status reflects dependency checks.
type Report struct {
	OK     bool              `json:"ok"`
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Service encapsulates health-related checks.
type Service struct {
	checks  map[string]Pinger
	timeout time.Duration
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{checks: map[string]Pinger{}, timeout: defaultCheckTimeout}
}

// Register adds a named dependency check. Nil pingers are ignored.
func (s *Service) Register(name string, p Pinger) *Service {
	if p != nil {
		s.checks[name] = p
	}
	return s
}

// WithTimeout sets the per-check timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Status runs all checks concurrently. A failing check marks the report
// degraded without cancelling the others.
func (s *Service) Status(ctx context.Context) Report {
	report := Report{OK: true, Status: StatusOK}
	if len(s.checks) == 0 {
		return report
	}

	names := slices.Sorted(maps.Keys(s.checks))
	results := make([]string, len(names))
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			results[i] = StatusOK
			if err := s.checks[name].Ping(checkCtx); err != nil {
				telemetry.Warn("health.check_failed", map[string]any{"check": name, "error": err})
				results[i] = "error"
			}
			return nil
		})
	}
	_ = g.Wait()

	report.Checks = make(map[string]string, len(names))
	for i, name := range names {
		report.Checks[name] = results[i]
		if results[i] != StatusOK {
			report.Status = StatusDegraded
		}
	}
	return report
}
