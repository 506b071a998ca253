package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/fastprodman/points/internal/infra/redisutils"
	"github.com/fastprodman/points/internal/models"
	"github.com/fastprodman/points/internal/repos/histories"
)

var _ histories.Histories = (*historiesRepo)(nil)

// historiesRepo keeps a JSON list per user at <prefix>:history:<id> and a
// global id counter at <prefix>:history:seq.
type historiesRepo struct {
	rdb    *goredis.Client
	prefix string
}

func New(rdb *goredis.Client, prefix string) *historiesRepo {
	return &historiesRepo{rdb: rdb, prefix: prefix}
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

	id, err := r.rdb.Incr(ctx, redisutils.Key(r.prefix, "history", "seq")).Result()
	if err != nil {
		return models.TransactionRecord{}, fmt.Errorf("next history id: %w", err)
	}

	rec := models.TransactionRecord{
		ID:              id,
		UserID:          userID,
		Amount:          amount,
		Kind:            kind,
		TimestampMillis: timestampMillis,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return models.TransactionRecord{}, fmt.Errorf("marshal history: %w", err)
	}

	err = r.rdb.RPush(ctx, redisutils.Key(r.prefix, "history", userID), data).Err()
	if err != nil {
		return models.TransactionRecord{}, fmt.Errorf("append history: %w", err)
	}

	return rec, nil
}

func (r *historiesRepo) ListByUser(ctx context.Context, userID int64) ([]models.TransactionRecord, error) {
	items, err := r.rdb.LRange(ctx, redisutils.Key(r.prefix, "history", userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	out := make([]models.TransactionRecord, 0, len(items))
	for _, item := range items {
		var rec models.TransactionRecord

		err = json.Unmarshal([]byte(item), &rec)
		if err != nil {
			return nil, fmt.Errorf("unmarshal history: %w", err)
		}

		out = append(out, rec)
	}

	return out, nil
}
