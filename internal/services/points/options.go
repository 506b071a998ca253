package points

import (
	"fmt"
	"log/slog"
	"time"
)

const DefaultLockTimeout = 5 * time.Second

// HistoryAmount selects what a USE record stores as its amount.
type HistoryAmount string

const (
	// RecordDelta stores the signed change, e.g. -30.
	RecordDelta HistoryAmount = "delta"
	// RecordResultingBalance stores the balance left after the deduction.
	RecordResultingBalance HistoryAmount = "balance"
)

func ParseHistoryAmount(s string) (HistoryAmount, error) {
	switch HistoryAmount(s) {
	case RecordDelta, RecordResultingBalance:
		return HistoryAmount(s), nil
	default:
		return "", fmt.Errorf("unknown history amount policy %q", s)
	}
}

// Observer receives operation and lock-wait measurements.
type Observer interface {
	ObserveOperation(op, code string, elapsed time.Duration)
	ObserveLockWait(op string, elapsed time.Duration, acquired bool)
}

type noopObserver struct{}

func (noopObserver) ObserveOperation(string, string, time.Duration) {}

func (noopObserver) ObserveLockWait(string, time.Duration, bool) {}

type Option func(*Service)

// WithLockTimeout bounds the wait for a user's lock. d <= 0 means no wait.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Service) { s.lockTimeout = d }
}

// WithClock sets the source of history timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithHistoryAmount(p HistoryAmount) Option {
	return func(s *Service) { s.historyAmount = p }
}

func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}
