package balances

import (
	"context"
	"fmt"

	"github.com/fastprodman/points/internal/models"
)

func (r *balancesRepo) Write(ctx context.Context, userID int64, balance int64) (models.UserBalance, error) {
	var row models.UserBalance

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO user_points (id, point, updated_at_millis)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET point = EXCLUDED.point,
		    updated_at_millis = EXCLUDED.updated_at_millis
		RETURNING id, point, updated_at_millis
	`, userID, balance, r.now().UnixMilli()).Scan(&row.UserID, &row.Balance, &row.UpdatedAtMillis)
	if err != nil {
		return models.UserBalance{}, fmt.Errorf("write balance: %w", err)
	}

	return row, nil
}
