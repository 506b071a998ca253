package histories

import (
	"context"
	"errors"

	"github.com/fastprodman/points/internal/models"
)

// ErrUnknownUser is returned by stores that enforce a balance row per history owner.
var ErrUnknownUser = errors.New("history owner does not exist")

// Histories is the append-only point history.
type Histories interface {
	Append(ctx context.Context, userID, amount int64, kind models.TransactionKind, timestampMillis int64) (models.TransactionRecord, error)
	// ListByUser returns the user's records in insertion order.
	ListByUser(ctx context.Context, userID int64) ([]models.TransactionRecord, error)
}
