package histories

import (
	"errors"
	"testing"

	"github.com/fastprodman/points/internal/infra/pgtestutil"
	"github.com/fastprodman/points/internal/models"
	"github.com/fastprodman/points/internal/repos/histories"
)

func TestHistories_AppendAndList(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	pgtestutil.SeedUser(t, db, 10, 0)
	pgtestutil.SeedUser(t, db, 11, 0)

	repo := New(db)
	ctx := t.Context()

	steps := []struct {
		userID int64
		amount int64
		kind   models.TransactionKind
		ts     int64
	}{
		{10, 100, models.KindCharge, 1},
		{11, 5, models.KindCharge, 2},
		{10, -30, models.KindUse, 3},
		{10, 7, models.KindCharge, 4},
	}

	var lastID int64
	for _, s := range steps {
		rec, err := repo.Append(ctx, s.userID, s.amount, s.kind, s.ts)
		if err != nil {
			t.Fatalf("append %+v: %v", s, err)
		}
		if rec.ID <= lastID {
			t.Fatalf("ids not increasing: %d after %d", rec.ID, lastID)
		}
		lastID = rec.ID
	}

	got, err := repo.ListByUser(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	wantAmounts := []int64{100, -30, 7}
	if len(got) != len(wantAmounts) {
		t.Fatalf("len: want %d, got %d (%+v)", len(wantAmounts), len(got), got)
	}
	for i, rec := range got {
		if rec.Amount != wantAmounts[i] || rec.UserID != 10 {
			t.Fatalf("record %d: %+v", i, rec)
		}
	}
	if got[1].Kind != models.KindUse || got[1].TimestampMillis != 3 {
		t.Fatalf("USE record mismatch: %+v", got[1])
	}
}

func TestHistories_ListUnknownUserIsEmpty(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	got, err := New(db).ListByUser(t.Context(), 404)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

func TestHistories_AppendErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		userID  int64
		kind    models.TransactionKind
		wantErr error
	}{
		{name: "unknown_user", userID: 999, kind: models.KindCharge, wantErr: histories.ErrUnknownUser},
		{name: "unknown_kind", userID: 1, kind: "REFUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			pgtestutil.SeedUser(t, db, 1, 0)

			_, err := New(db).Append(t.Context(), tt.userID, 1, tt.kind, 0)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
		})
	}
}
