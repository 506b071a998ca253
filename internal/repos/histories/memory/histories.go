package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fastprodman/points/internal/infra/throttle"
	"github.com/fastprodman/points/internal/models"
	"github.com/fastprodman/points/internal/repos/histories"
)

var _ histories.Histories = (*historiesRepo)(nil)

type historiesRepo struct {
	mu      sync.RWMutex
	seq     int64
	byUser  map[int64][]models.TransactionRecord
	latency time.Duration
}

func New(latency time.Duration) *historiesRepo {
	return &historiesRepo{
		byUser:  make(map[int64][]models.TransactionRecord),
		latency: latency,
	}
}

func (r *historiesRepo) Append(
	ctx context.Context,
	userID, amount int64,
	kind models.TransactionKind,
	timestampMillis int64,
) (models.TransactionRecord, error) {
	if !kind.Valid() {
		return models.TransactionRecord{}, fmt.Errorf("append history: unknown kind %q", kind)
	}

	err := throttle.Sleep(ctx, r.latency)
	if err != nil {
		return models.TransactionRecord{}, fmt.Errorf("append history: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	rec := models.TransactionRecord{
		ID:              r.seq,
		UserID:          userID,
		Amount:          amount,
		Kind:            kind,
		TimestampMillis: timestampMillis,
	}
	r.byUser[userID] = append(r.byUser[userID], rec)

	return rec, nil
}

func (r *historiesRepo) ListByUser(ctx context.Context, userID int64) ([]models.TransactionRecord, error) {
	err := throttle.Sleep(ctx, r.latency)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	// copy so callers can't reach into the table; never nil
	recs := r.byUser[userID]
	out := make([]models.TransactionRecord, len(recs))
	copy(out, recs)

	return out, nil
}
