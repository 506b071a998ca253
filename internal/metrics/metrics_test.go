package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Operations(t *testing.T) {
	t.Parallel()

	m := New(prometheus.NewRegistry())

	m.ObserveOperation("charge", "ok", time.Millisecond)
	m.ObserveOperation("charge", "ok", time.Millisecond)
	m.ObserveOperation("deduct", "invalid_argument", time.Millisecond)

	tests := []struct {
		op, code string
		want     float64
	}{
		{"charge", "ok", 2},
		{"deduct", "invalid_argument", 1},
		{"deduct", "ok", 0},
	}

	for _, tt := range tests {
		got := testutil.ToFloat64(m.operations.WithLabelValues(tt.op, tt.code))
		if got != tt.want {
			t.Fatalf("%s/%s: want %v, got %v", tt.op, tt.code, tt.want, got)
		}
	}

	if n := testutil.CollectAndCount(m.opDuration); n != 2 {
		t.Fatalf("duration series: want 2, got %d", n)
	}
}

func TestMetrics_LockWait(t *testing.T) {
	t.Parallel()

	m := New(prometheus.NewRegistry())

	m.ObserveLockWait("charge", time.Millisecond, true)
	m.ObserveLockWait("charge", 5*time.Second, false)
	m.ObserveLockWait("get_balance", 5*time.Second, false)

	if got := testutil.ToFloat64(m.lockTimeouts.WithLabelValues("charge")); got != 1 {
		t.Fatalf("charge timeouts: want 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.lockTimeouts.WithLabelValues("get_balance")); got != 1 {
		t.Fatalf("get_balance timeouts: want 1, got %v", got)
	}
	if n := testutil.CollectAndCount(m.lockWait, "points_lock_wait_seconds"); n != 2 {
		t.Fatalf("lock wait series: want 2, got %d", n)
	}
}

func TestMetrics_Exposition(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveHTTP("PATCH", "/point/{userId}/charge", 200, 3*time.Millisecond)

	const want = `
# HELP points_lock_timeouts_total Lock waits that ended without the lock.
# TYPE points_lock_timeouts_total counter
points_lock_timeouts_total{op="charge"} 1
`
	m.ObserveLockWait("charge", time.Second, false)

	err := testutil.GatherAndCompare(reg, strings.NewReader(want), "points_lock_timeouts_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	if n := testutil.CollectAndCount(m.httpLatency); n != 1 {
		t.Fatalf("http series: want 1, got %d", n)
	}
}

func TestNew_DoubleRegisterPanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_ = New(reg)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate registration")
		}
	}()

	_ = New(reg)
}
