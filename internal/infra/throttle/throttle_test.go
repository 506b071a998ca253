package throttle

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSleep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ctx      func() context.Context
		maxDelay time.Duration
		wantErr  error
	}{
		{
			name:     "no_delay",
			ctx:      context.Background,
			maxDelay: 0,
		},
		{
			name:     "short_delay",
			ctx:      context.Background,
			maxDelay: 5 * time.Millisecond,
		},
		{
			name: "canceled_without_delay",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			maxDelay: 0,
			wantErr:  context.Canceled,
		},
		{
			name: "canceled_during_delay",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			maxDelay: time.Hour,
			wantErr:  context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Sleep(tt.ctx(), tt.maxDelay)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
		})
	}
}
