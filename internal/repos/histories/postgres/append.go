package histories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fastprodman/points/internal/models"
	"github.com/fastprodman/points/internal/repos/histories"
)

func (r *historiesRepo) Append(
	ctx context.Context,
	userID, amount int64,
	kind models.TransactionKind,
	timestampMillis int64,
) (models.TransactionRecord, error) {
	if !kind.Valid() {
		return models.TransactionRecord{}, fmt.Errorf("append history: unknown kind %q", kind)
	}

	rec := models.TransactionRecord{
		UserID:          userID,
		Amount:          amount,
		Kind:            kind,
		TimestampMillis: timestampMillis,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO point_histories (user_id, amount, kind, time_millis)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, userID, amount, string(kind), timestampMillis).Scan(&rec.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.TransactionRecord{}, fmt.Errorf("append history: %w", histories.ErrUnknownUser)
		}

		return models.TransactionRecord{}, fmt.Errorf("append history: %w", err)
	}

	return rec, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
