package balances

import (
	"context"
	"errors"

	"github.com/fastprodman/points/internal/models"
)

var ErrNotFound = errors.New("balance not found")

// Balances stores the current point total per user.
type Balances interface {
	// Read returns ErrNotFound when the user has no balance record.
	Read(ctx context.Context, userID int64) (models.UserBalance, error)
	// Write sets the balance, stamping the update time, and returns the stored record.
	Write(ctx context.Context, userID int64, balance int64) (models.UserBalance, error)
}
