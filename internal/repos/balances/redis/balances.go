package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/fastprodman/points/internal/infra/redisutils"
	"github.com/fastprodman/points/internal/models"
	"github.com/fastprodman/points/internal/repos/balances"
)

const (
	fieldPoint   = "point"
	fieldUpdated = "updated_at_millis"
)

var _ balances.Balances = (*balancesRepo)(nil)

// balancesRepo keeps one hash per user at <prefix>:balance:<id>.
type balancesRepo struct {
	rdb    *goredis.Client
	prefix string
	now    func() time.Time
}

func New(rdb *goredis.Client, prefix string) *balancesRepo {
	return &balancesRepo{rdb: rdb, prefix: prefix, now: time.Now}
}

func (r *balancesRepo) key(userID int64) string {
	return redisutils.Key(r.prefix, "balance", userID)
}

func (r *balancesRepo) Read(ctx context.Context, userID int64) (models.UserBalance, error) {
	fields, err := r.rdb.HGetAll(ctx, r.key(userID)).Result()
	if err != nil {
		return models.UserBalance{}, fmt.Errorf("read balance: %w", err)
	}

	if len(fields) == 0 {
		return models.UserBalance{}, balances.ErrNotFound
	}

	point, err := strconv.ParseInt(fields[fieldPoint], 10, 64)
	if err != nil {
		return models.UserBalance{}, fmt.Errorf("parse %s: %w", fieldPoint, err)
	}

	var updated int64
	if raw, ok := fields[fieldUpdated]; ok {
		updated, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return models.UserBalance{}, fmt.Errorf("parse %s: %w", fieldUpdated, err)
		}
	}

	return models.UserBalance{UserID: userID, Balance: point, UpdatedAtMillis: updated}, nil
}

func (r *balancesRepo) Write(ctx context.Context, userID int64, balance int64) (models.UserBalance, error) {
	row := models.UserBalance{
		UserID:          userID,
		Balance:         balance,
		UpdatedAtMillis: r.now().UnixMilli(),
	}

	err := r.rdb.HSet(ctx, r.key(userID), fieldPoint, row.Balance, fieldUpdated, row.UpdatedAtMillis).Err()
	if err != nil {
		return models.UserBalance{}, fmt.Errorf("write balance: %w", err)
	}

	return row, nil
}
