package balances

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/points/internal/models"
	"github.com/fastprodman/points/internal/repos/balances"
)

func (r *balancesRepo) Read(ctx context.Context, userID int64) (models.UserBalance, error) {
	var row models.UserBalance

	err := r.db.QueryRowContext(ctx, `
		SELECT id, point, updated_at_millis
		FROM user_points
		WHERE id = $1
	`, userID).Scan(&row.UserID, &row.Balance, &row.UpdatedAtMillis)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserBalance{}, balances.ErrNotFound
		}

		return models.UserBalance{}, fmt.Errorf("read balance: %w", err)
	}

	return row, nil
}
