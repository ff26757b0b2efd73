// Package metrics provides lightweight, lock-free counters for tracking
// delivery statistics of a logship sender.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks delivery metrics for a sender.
// A nil Collector is safe to use — all methods become no-ops.
type Collector struct {
	sendTotal        atomic.Int64 // calls to Send
	sendErrors       atomic.Int64 // calls that exhausted all attempts
	tryErrors        atomic.Int64 // individual failed attempts
	connectionsTotal atomic.Int64 // transports established
	sendDurationNs   atomic.Int64 // cumulative wall time inside Send

	mu           sync.RWMutex
	startTime    time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Send metrics ─────────────────────────────────────────────────────

// SendStarted records one call to Send.
func (c *Collector) SendStarted() {
	if c == nil {
		return
	}
	c.sendTotal.Add(1)
}

// SendFailed records a call that failed after exhausting every attempt.
func (c *Collector) SendFailed(msg string) {
	if c == nil {
		return
	}
	c.sendErrors.Add(1)
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// TryFailed records one failed attempt, including attempts that a later
// retry recovered from.
func (c *Collector) TryFailed() {
	if c == nil {
		return
	}
	c.tryErrors.Add(1)
}

// AddSendDuration adds elapsed wall time spent inside Send, retries
// included, on both success and failure paths.
func (c *Collector) AddSendDuration(d time.Duration) {
	if c == nil {
		return
	}
	c.sendDurationNs.Add(int64(d))
}

// ConnectionOpened records one established transport.
func (c *Collector) ConnectionOpened() {
	if c == nil {
		return
	}
	c.connectionsTotal.Add(1)
}

// ── Accessors ────────────────────────────────────────────────────────

// SendCount returns the total number of Send calls.
func (c *Collector) SendCount() int64 {
	if c == nil {
		return 0
	}
	return c.sendTotal.Load()
}

// SendErrorCount returns the number of calls that ultimately failed.
func (c *Collector) SendErrorCount() int64 {
	if c == nil {
		return 0
	}
	return c.sendErrors.Load()
}

// TryErrorCount returns the number of individual failed attempts.
func (c *Collector) TryErrorCount() int64 {
	if c == nil {
		return 0
	}
	return c.tryErrors.Load()
}

// ConnectionCount returns the lifetime number of transports opened.
func (c *Collector) ConnectionCount() int64 {
	if c == nil {
		return 0
	}
	return c.connectionsTotal.Load()
}

// SendDuration returns cumulative time spent inside Send.
func (c *Collector) SendDuration() time.Duration {
	if c == nil {
		return 0
	}
	return time.Duration(c.sendDurationNs.Load())
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime           string `json:"uptime"`
	SendTotal        int64  `json:"send_total"`
	SendErrors       int64  `json:"send_errors"`
	TryErrors        int64  `json:"try_errors"`
	ConnectionsTotal int64  `json:"connections_total"`
	SendDurationMs   int64  `json:"send_duration_ms"`
	LastError        string `json:"last_error,omitempty"`
	LastErrorMessage string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:           time.Since(c.startTime).Truncate(time.Second).String(),
		SendTotal:        c.sendTotal.Load(),
		SendErrors:       c.sendErrors.Load(),
		TryErrors:        c.tryErrors.Load(),
		ConnectionsTotal: c.connectionsTotal.Load(),
		SendDurationMs:   c.sendDurationNs.Load() / int64(time.Millisecond),
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
