// Package points keeps per-user point balances.
//
// Every operation on a user runs inside that user's exclusive section from a
// lockreg.Registry, so a read-check-write on one user never interleaves with
// another operation on the same user. Arguments are validated before the
// section is requested; a rejected call touches nothing.
package points

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/fastprodman/points/internal/lockreg"
	"github.com/fastprodman/points/internal/models"
	"github.com/fastprodman/points/internal/repos/balances"
	"github.com/fastprodman/points/internal/repos/histories"
)

const (
	OpGetBalance = "get_balance"
	OpGetHistory = "get_history"
	OpCharge     = "charge"
	OpDeduct     = "deduct"
)

type Service struct {
	balances  balances.Balances
	histories histories.Histories
	locks     *lockreg.Registry[int64]

	lockTimeout   time.Duration
	now           func() time.Time
	historyAmount HistoryAmount
	observer      Observer
	log           *slog.Logger
}

func New(b balances.Balances, h histories.Histories, locks *lockreg.Registry[int64], opts ...Option) *Service {
	s := &Service{
		balances:      b,
		histories:     h,
		locks:         locks,
		lockTimeout:   DefaultLockTimeout,
		now:           time.Now,
		historyAmount: RecordDelta,
		observer:      noopObserver{},
		log:           slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) GetBalance(ctx context.Context, userID int64) (models.UserBalance, error) {
	var row models.UserBalance

	err := s.observe(OpGetBalance, func() error {
		if userID <= 0 {
			return ErrMissingUserID
		}

		return s.locked(ctx, OpGetBalance, userID, func() error {
			var err error
			row, err = s.read(ctx, userID)
			return err
		})
	})
	if err != nil {
		return models.UserBalance{}, err
	}

	return row, nil
}

func (s *Service) GetHistory(ctx context.Context, userID int64) ([]models.TransactionRecord, error) {
	var records []models.TransactionRecord

	err := s.observe(OpGetHistory, func() error {
		if userID <= 0 {
			return ErrMissingUserID
		}

		return s.locked(ctx, OpGetHistory, userID, func() error {
			_, err := s.read(ctx, userID)
			if err != nil {
				return err
			}

			records, err = s.histories.ListByUser(ctx, userID)
			if err != nil {
				return s.storageErr(ctx, userID, "list history", err)
			}

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Charge adds amount (>= 0) to the user's balance and records a CHARGE entry.
func (s *Service) Charge(ctx context.Context, userID, amount int64) (models.UserBalance, error) {
	var row models.UserBalance

	err := s.observe(OpCharge, func() error {
		if userID <= 0 {
			return ErrMissingUserID
		}
		if amount < 0 {
			return ErrNegativeCharge
		}

		return s.locked(ctx, OpCharge, userID, func() error {
			current, err := s.read(ctx, userID)
			if err != nil {
				return err
			}

			if amount > math.MaxInt64-current.Balance {
				return ErrBalanceOverflow
			}

			row, err = s.apply(ctx, current, current.Balance+amount, amount, models.KindCharge)
			return err
		})
	})
	if err != nil {
		return models.UserBalance{}, err
	}

	return row, nil
}

// Deduct applies amount (<= 0) to the user's balance and records a USE
// entry. The balance never goes below zero.
func (s *Service) Deduct(ctx context.Context, userID, amount int64) (models.UserBalance, error) {
	var row models.UserBalance

	err := s.observe(OpDeduct, func() error {
		if userID <= 0 {
			return ErrMissingUserID
		}
		if amount > 0 {
			return ErrPositiveDeduct
		}

		return s.locked(ctx, OpDeduct, userID, func() error {
			current, err := s.read(ctx, userID)
			if err != nil {
				return err
			}

			candidate := current.Balance + amount
			if candidate < 0 {
				return ErrInsufficientPoints
			}

			recorded := amount
			if s.historyAmount == RecordResultingBalance {
				recorded = candidate
			}

			row, err = s.apply(ctx, current, candidate, recorded, models.KindUse)
			return err
		})
	})
	if err != nil {
		return models.UserBalance{}, err
	}

	return row, nil
}

// apply writes the new balance and appends the history entry. Must be called
// with the user's section held. When the append fails the balance is put
// back to current, so a failed call leaves the store as it found it.
func (s *Service) apply(
	ctx context.Context,
	current models.UserBalance,
	balance, recorded int64,
	kind models.TransactionKind,
) (models.UserBalance, error) {
	row, err := s.balances.Write(ctx, current.UserID, balance)
	if err != nil {
		return models.UserBalance{}, s.storageErr(ctx, current.UserID, "write balance", err)
	}

	_, err = s.histories.Append(ctx, current.UserID, recorded, kind, s.now().UnixMilli())
	if err != nil {
		// the caller may be gone, the restore still has to land
		_, rerr := s.balances.Write(context.WithoutCancel(ctx), current.UserID, current.Balance)
		if rerr != nil {
			err = errors.Join(err, fmt.Errorf("restore balance %d: %w", current.Balance, rerr))
		}

		return models.UserBalance{}, s.storageErr(ctx, current.UserID, "append history", err)
	}

	return row, nil
}

func (s *Service) read(ctx context.Context, userID int64) (models.UserBalance, error) {
	row, err := s.balances.Read(ctx, userID)
	if err != nil {
		if errors.Is(err, balances.ErrNotFound) {
			return models.UserBalance{}, fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
		}

		return models.UserBalance{}, s.storageErr(ctx, userID, "read balance", err)
	}

	return row, nil
}

func (s *Service) locked(ctx context.Context, op string, userID int64, fn func() error) error {
	start := time.Now()
	entered := false

	err := s.locks.WithLock(ctx, userID, s.lockTimeout, func() error {
		entered = true
		s.observer.ObserveLockWait(op, time.Since(start), true)

		return fn()
	})
	if err == nil || entered {
		return err
	}

	s.observer.ObserveLockWait(op, time.Since(start), false)

	if errors.Is(err, lockreg.ErrTimeout) {
		s.log.WarnContext(ctx, "lock wait timed out",
			"op", op, "user_id", userID, "timeout", s.lockTimeout)

		return fmt.Errorf("%s user %d: %w", op, userID, ErrLockTimeout)
	}

	return fmt.Errorf("%s user %d: %w", op, userID, err)
}

func (s *Service) observe(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.observer.ObserveOperation(op, Code(err), time.Since(start))

	return err
}

func (s *Service) storageErr(ctx context.Context, userID int64, what string, err error) error {
	s.log.ErrorContext(ctx, "storage failure", "op", what, "user_id", userID, "error", err)

	return fmt.Errorf("%w: %s: %w", ErrStorage, what, err)
}
