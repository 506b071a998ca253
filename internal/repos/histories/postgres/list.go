package histories

import (
	"context"
	"fmt"

	"github.com/fastprodman/points/internal/models"
)

func (r *historiesRepo) ListByUser(ctx context.Context, userID int64) ([]models.TransactionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount, kind, time_millis
		FROM point_histories
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	out := make([]models.TransactionRecord, 0)
	for rows.Next() {
		var (
			rec  models.TransactionRecord
			kind string
		)

		err = rows.Scan(&rec.ID, &rec.UserID, &rec.Amount, &kind, &rec.TimestampMillis)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}

		rec.Kind = models.TransactionKind(kind)
		out = append(out, rec)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return out, nil
}
