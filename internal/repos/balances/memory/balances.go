package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fastprodman/points/internal/infra/throttle"
	"github.com/fastprodman/points/internal/models"
	"github.com/fastprodman/points/internal/repos/balances"
)

var _ balances.Balances = (*balancesRepo)(nil)

type balancesRepo struct {
	mu      sync.RWMutex
	rows    map[int64]models.UserBalance
	latency time.Duration
	now     func() time.Time
}

// New returns an empty in-memory balance table. Every call sleeps a random
// duration below latency before touching the table.
func New(latency time.Duration) *balancesRepo {
	return &balancesRepo{
		rows:    make(map[int64]models.UserBalance),
		latency: latency,
		now:     time.Now,
	}
}

func (r *balancesRepo) Read(ctx context.Context, userID int64) (models.UserBalance, error) {
	err := throttle.Sleep(ctx, r.latency)
	if err != nil {
		return models.UserBalance{}, fmt.Errorf("read balance: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[userID]
	if !ok {
		return models.UserBalance{}, balances.ErrNotFound
	}

	return row, nil
}

func (r *balancesRepo) Write(ctx context.Context, userID int64, balance int64) (models.UserBalance, error) {
	err := throttle.Sleep(ctx, r.latency)
	if err != nil {
		return models.UserBalance{}, fmt.Errorf("write balance: %w", err)
	}

	row := models.UserBalance{
		UserID:          userID,
		Balance:         balance,
		UpdatedAtMillis: r.now().UnixMilli(),
	}

	r.mu.Lock()
	r.rows[userID] = row
	r.mu.Unlock()

	return row, nil
}

// Seed provisions users without going through the throttle.
func (r *balancesRepo) Seed(rows map[int64]int64) {
	now := r.now().UnixMilli()

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, bal := range rows {
		r.rows[id] = models.UserBalance{UserID: id, Balance: bal, UpdatedAtMillis: now}
	}
}

// ParseSeed reads "id=balance" pairs separated by commas, e.g. "1=100,2=0".
func ParseSeed(s string) (map[int64]int64, error) {
	out := make(map[int64]int64)

	s = strings.TrimSpace(s)
	if s == "" {
		return out, nil
	}

	for _, pair := range strings.Split(s, ",") {
		idStr, balStr, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("seed entry %q: want id=balance", pair)
		}

		id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("seed entry %q: invalid id", pair)
		}

		bal, err := strconv.ParseInt(strings.TrimSpace(balStr), 10, 64)
		if err != nil || bal < 0 {
			return nil, fmt.Errorf("seed entry %q: invalid balance", pair)
		}

		out[id] = bal
	}

	return out, nil
}
