package memory

import (
	"sync"
	"testing"

	"github.com/fastprodman/points/internal/models"
)

func TestHistories_AppendAndList(t *testing.T) {
	t.Parallel()

	repo := New(0)
	ctx := t.Context()

	steps := []struct {
		userID int64
		amount int64
		kind   models.TransactionKind
	}{
		{userID: 1, amount: 100, kind: models.KindCharge},
		{userID: 2, amount: 5, kind: models.KindCharge},
		{userID: 1, amount: -30, kind: models.KindUse},
	}

	for i, s := range steps {
		rec, err := repo.Append(ctx, s.userID, s.amount, s.kind, int64(1000+i))
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if rec.ID != int64(i+1) {
			t.Fatalf("record id: want %d, got %d", i+1, rec.ID)
		}
	}

	got, err := repo.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("len: want 2, got %d", len(got))
	}
	if got[0].Kind != models.KindCharge || got[0].Amount != 100 {
		t.Fatalf("first record: %+v", got[0])
	}
	if got[1].Kind != models.KindUse || got[1].Amount != -30 || got[1].TimestampMillis != 1002 {
		t.Fatalf("second record: %+v", got[1])
	}

	// mutating the result must not touch the table
	got[0].Amount = 0

	again, err := repo.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("list again: %v", err)
	}
	if again[0].Amount != 100 {
		t.Fatalf("list leaked internal slice")
	}
}

func TestHistories_ListUnknownUserIsEmpty(t *testing.T) {
	t.Parallel()

	got, err := New(0).ListByUser(t.Context(), 42)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

func TestHistories_RejectsUnknownKind(t *testing.T) {
	t.Parallel()

	_, err := New(0).Append(t.Context(), 1, 1, models.TransactionKind("REFUND"), 0)
	if err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestHistories_IDsAreUniqueUnderConcurrency(t *testing.T) {
	t.Parallel()

	repo := New(0)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := repo.Append(t.Context(), int64(i%5+1), 1, models.KindCharge, 0)
			if err != nil {
				t.Errorf("append: %v", err)
			}
		}()
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for uid := int64(1); uid <= 5; uid++ {
		recs, err := repo.ListByUser(t.Context(), uid)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		for _, r := range recs {
			if seen[r.ID] {
				t.Fatalf("duplicate id %d", r.ID)
			}
			seen[r.ID] = true
		}
	}

	if len(seen) != 100 {
		t.Fatalf("records: want 100, got %d", len(seen))
	}
}
