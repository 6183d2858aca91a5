// Package health reports readiness of the server's backing services.
package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"newsdesk/pkg/platform/httputil"
)

// CheckFunc reports whether one dependency is reachable.
type CheckFunc func(ctx context.Context) error

// Checker runs named checks concurrently.
type Checker struct {
	timeout time.Duration
	mu      sync.RWMutex
	checks  map[string]CheckFunc
}

func New(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Checker{timeout: timeout, checks: make(map[string]CheckFunc)}
}

// Add registers a check under name.
func (c *Checker) Add(name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = fn
}

// Report is the result of one health run.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Run executes every check and reports "ok" only if all passed.
func (c *Checker) Run(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.mu.RLock()
	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	fns := make([]CheckFunc, len(names))
	for i, name := range names {
		fns[i] = c.checks[name]
	}
	c.mu.RUnlock()

	results := make([]string, len(names))
	var g errgroup.Group
	for i, fn := range fns {
		g.Go(func() error {
			if err := fn(ctx); err != nil {
				results[i] = err.Error()
				return nil
			}
			results[i] = "ok"
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Status: "ok", Checks: make(map[string]string, len(names))}
	for i, name := range names {
		report.Checks[name] = results[i]
		if results[i] != "ok" {
			report.Status = "degraded"
		}
	}
	return report
}

// Handler serves GET /health; a degraded report answers 503.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := c.Run(r.Context())
		status := http.StatusOK
		if report.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, status, report)
	}
}
