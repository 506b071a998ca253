package redis

import (
	"errors"
	"testing"
	"time"

	"github.com/fastprodman/points/internal/infra/redistestutil"
	"github.com/fastprodman/points/internal/repos/balances"
)

func TestBalances_ReadWrite(t *testing.T) {
	t.Parallel()

	rdb, prefix := redistestutil.NewTestClient(t)

	fixed := time.UnixMilli(1_700_000_000_000)
	repo := New(rdb, prefix)
	repo.now = func() time.Time { return fixed }

	ctx := t.Context()

	_, err := repo.Read(ctx, 1)
	if !errors.Is(err, balances.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	for _, bal := range []int64{100, 0, 9_000_000_000_000} {
		written, err := repo.Write(ctx, 1, bal)
		if err != nil {
			t.Fatalf("write %d: %v", bal, err)
		}

		got, err := repo.Read(ctx, 1)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if got != written || got.Balance != bal || got.UpdatedAtMillis != fixed.UnixMilli() {
			t.Fatalf("read after write: want %+v, got %+v", written, got)
		}
	}
}

func TestBalances_UsersAreIsolated(t *testing.T) {
	t.Parallel()

	rdb, prefix := redistestutil.NewTestClient(t)
	repo := New(rdb, prefix)
	ctx := t.Context()

	_, err := repo.Write(ctx, 1, 10)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err = repo.Write(ctx, 2, 20)
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := repo.Read(ctx, 1)
	if err != nil || got.Balance != 10 {
		t.Fatalf("user 1: %+v, %v", got, err)
	}
}
