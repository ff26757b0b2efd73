package metrics

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	c := New()
	c.SendStarted()
	c.SendStarted()
	c.TryFailed()
	c.TryFailed()
	c.TryFailed()
	c.SendFailed("connection refused")
	c.ConnectionOpened()
	c.AddSendDuration(250 * time.Millisecond)

	if got := c.SendCount(); got != 2 {
		t.Errorf("SendCount = %d, want 2", got)
	}
	if got := c.SendErrorCount(); got != 1 {
		t.Errorf("SendErrorCount = %d, want 1", got)
	}
	if got := c.TryErrorCount(); got != 3 {
		t.Errorf("TryErrorCount = %d, want 3", got)
	}
	if got := c.ConnectionCount(); got != 1 {
		t.Errorf("ConnectionCount = %d, want 1", got)
	}
	if got := c.SendDuration(); got != 250*time.Millisecond {
		t.Errorf("SendDuration = %v, want 250ms", got)
	}
}

// TestNilCollector verifies every method is a safe no-op on nil.
func TestNilCollector(t *testing.T) {
	var c *Collector
	c.SendStarted()
	c.SendFailed("boom")
	c.TryFailed()
	c.ConnectionOpened()
	c.AddSendDuration(time.Second)

	if c.SendCount() != 0 || c.SendDuration() != 0 {
		t.Error("nil collector should read as zero")
	}
	if s := c.Snapshot(); s.SendTotal != 0 {
		t.Errorf("nil Snapshot = %+v", s)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.SendStarted()
				c.TryFailed()
			}
		}()
	}
	wg.Wait()

	if got := c.SendCount(); got != 8000 {
		t.Errorf("SendCount = %d, want 8000", got)
	}
	if got := c.TryErrorCount(); got != 8000 {
		t.Errorf("TryErrorCount = %d, want 8000", got)
	}
}

func TestSnapshotJSON(t *testing.T) {
	c := New()
	c.SendStarted()
	c.SendFailed("dial tcp: connection refused")

	var s Snapshot
	if err := json.Unmarshal([]byte(c.JSON()), &s); err != nil {
		t.Fatalf("JSON output does not parse: %v", err)
	}
	if s.SendTotal != 1 || s.SendErrors != 1 {
		t.Errorf("snapshot = %+v", s)
	}
	if s.LastErrorMessage != "dial tcp: connection refused" {
		t.Errorf("LastErrorMessage = %q", s.LastErrorMessage)
	}
	if s.LastError == "" {
		t.Error("LastError timestamp missing after a failure")
	}
}

// TestPrometheusBridge verifies the bridge exposes the collector's
// counters under the expected metric names.
func TestPrometheusBridge(t *testing.T) {
	c := New()
	c.SendStarted()
	c.SendStarted()
	c.TryFailed()
	c.ConnectionOpened()

	b := NewPrometheusBridge(c)
	reg := prometheus.NewRegistry()
	if err := reg.Register(b); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if got := testutil.CollectAndCount(b); got != 5 {
		t.Errorf("bridge exposes %d metrics, want 5", got)
	}

	want := strings.NewReader(`
# HELP logship_send_total Total number of Send calls.
# TYPE logship_send_total counter
logship_send_total 2
# HELP logship_attempt_errors_total Individual failed send attempts, including recovered ones.
# TYPE logship_attempt_errors_total counter
logship_attempt_errors_total 1
# HELP logship_connections_total Transports established over the sender lifetime.
# TYPE logship_connections_total counter
logship_connections_total 1
`)
	err := testutil.CollectAndCompare(b, want,
		"logship_send_total", "logship_attempt_errors_total", "logship_connections_total")
	if err != nil {
		t.Errorf("CollectAndCompare: %v", err)
	}
}
