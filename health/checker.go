package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Probe actively checks one component
type Probe func(ctx context.Context) Status

// Checker aggregates probes and pushed statuses into the service status
type Checker struct {
	name    string
	timeout time.Duration

	mu       sync.RWMutex
	probes   map[string]Probe
	statuses map[string]Status
}

// NewChecker creates a Checker. Each Check bounds all probes by timeout.
func NewChecker(name string, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Checker{
		name:     name,
		timeout:  timeout,
		probes:   make(map[string]Probe),
		statuses: make(map[string]Status),
	}
}

// Register adds a probe run on every Check
func (c *Checker) Register(name string, probe Probe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes[name] = probe
}

// Set records a pushed status, replacing any previous one for the component
func (c *Checker) Set(status Status) {
	if status.Timestamp.IsZero() {
		status.Timestamp = time.Now()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[status.Component] = status
}

// Check runs every probe concurrently and aggregates the results with the
// pushed statuses. Sub-statuses are ordered by component name.
func (c *Checker) Check(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.mu.RLock()
	subs := make([]Status, 0, len(c.probes)+len(c.statuses))
	for _, s := range c.statuses {
		subs = append(subs, s)
	}
	probes := make(map[string]Probe, len(c.probes))
	for name, p := range c.probes {
		probes[name] = p
	}
	c.mu.RUnlock()

	results := make(chan Status, len(probes))
	for name, probe := range probes {
		go func() {
			status := probe(ctx)
			status.Component = name
			results <- status
		}()
	}
	for range probes {
		subs = append(subs, <-results)
	}

	sort.Slice(subs, func(i, j int) bool { return subs[i].Component < subs[j].Component })
	return Aggregate(c.name, subs)
}

// Handler serves the aggregated status as JSON, with 503 when unhealthy
func (c *Checker) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := c.Check(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if status.IsUnhealthy() {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(status)
	})
}
