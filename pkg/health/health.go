// Package health backs the /livez and /readyz probe endpoints.
//
// Registered checks run on their own tickers in the background; the HTTP
// handlers only read the latest recorded outcome and never execute a check
// inline. A check flips to failing only after failThreshold consecutive
// errors, and back to passing after a single success, so a transient blip
// does not bounce the service out of rotation.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc probes one component. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

const (
	failThreshold = 3
	passThreshold = 1
)

type probeKind int

const (
	liveness probeKind = iota
	readiness
)

// probe carries one check plus its recorded state. The streak counters are
// touched only from the probe's own loop goroutine; passing and lastErr are
// shared with the HTTP handlers and use atomics.
type probe struct {
	kind    probeKind
	name    string
	timeout time.Duration
	check   CheckFunc

	passing atomic.Bool
	lastErr atomic.Pointer[error]

	failStreak int
	passStreak int
}

func (p *probe) observe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.check(ctx)
	p.lastErr.Store(&err)

	if err != nil {
		p.passStreak = 0
		if p.failStreak++; p.failStreak >= failThreshold {
			p.passing.Store(false)
		}
		return
	}

	p.failStreak = 0
	if p.passStreak++; p.passStreak >= passThreshold {
		p.passing.Store(true)
	}
}

func (p *probe) failure() (string, bool) {
	if p.passing.Load() {
		return "", false
	}
	if errp := p.lastErr.Load(); errp != nil && *errp != nil {
		return (*errp).Error(), true
	}
	return "check is unhealthy", true
}

// Health aggregates probes for a service. The zero state is not ready;
// SetReady(true) is expected once startup completes, and SetReady(false)
// takes the service out of rotation during shutdown.
type Health struct {
	ready atomic.Bool

	mu     sync.RWMutex
	probes []*probe
	cancel context.CancelFunc
}

// New creates an empty Health registry.
func New() *Health {
	return &Health{}
}

// AddLivenessCheck registers a check for /livez. Liveness failures mean the
// process itself is wedged (goroutine leak, runaway GC) and should be
// restarted.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, check CheckFunc) {
	h.add(liveness, name, timeout, check)
}

// AddReadinessCheck registers a check for /readyz. Readiness failures mean a
// dependency (the database, typically) is unavailable and traffic should be
// routed elsewhere until it recovers.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, check CheckFunc) {
	h.add(readiness, name, timeout, check)
}

func (h *Health) add(kind probeKind, name string, timeout time.Duration, check CheckFunc) {
	p := &probe{
		kind:    kind,
		name:    name,
		timeout: timeout,
		check:   check,
	}
	// Optimistic until the first observations say otherwise.
	p.passing.Store(true)

	h.mu.Lock()
	h.probes = append(h.probes, p)
	h.mu.Unlock()
}

// Start launches one goroutine per registered probe, each observing at the
// given interval. Register all checks before calling Start.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	probes := h.snapshot(liveness, readiness)
	h.mu.Unlock()

	for _, p := range probes {
		go func(p *probe) {
			p.observe(ctx)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					p.observe(ctx)
				}
			}
		}(p)
	}
}

// Stop cancels the probe goroutines. Safe to call more than once.
func (h *Health) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// SetReady flips the manual readiness gate.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the service should receive traffic: the manual gate
// is open and every readiness probe is passing.
func (h *Health) IsReady() bool {
	if !h.ready.Load() {
		return false
	}

	h.mu.RLock()
	probes := h.snapshot(readiness)
	h.mu.RUnlock()

	for _, p := range probes {
		if !p.passing.Load() {
			return false
		}
	}
	return true
}

// snapshot must be called with mu held.
func (h *Health) snapshot(kinds ...probeKind) []*probe {
	out := make([]*probe, 0, len(h.probes))
	for _, p := range h.probes {
		for _, k := range kinds {
			if p.kind == k {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

type statusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves /livez: 200 while every liveness probe passes,
// otherwise 503 with the failing checks named in the body.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	probes := h.snapshot(liveness)
	h.mu.RUnlock()

	writeStatus(w, failures(probes))
}

// ReadyEndpoint serves /readyz: 200 only when the manual gate is open and
// every readiness probe passes.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	probes := h.snapshot(readiness)
	h.mu.RUnlock()

	failing := failures(probes)
	if !h.ready.Load() {
		failing["_readiness"] = "service is not ready"
	}
	writeStatus(w, failing)
}

func failures(probes []*probe) map[string]string {
	out := make(map[string]string)
	for _, p := range probes {
		if msg, failed := p.failure(); failed {
			out[p.name] = msg
		}
	}
	return out
}

func writeStatus(w http.ResponseWriter, failing map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	resp := statusResponse{Status: "ok"}
	code := http.StatusOK
	if len(failing) > 0 {
		resp = statusResponse{Status: "unhealthy", Checks: failing}
		code = http.StatusServiceUnavailable
	}

	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
