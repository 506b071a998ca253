package balances

import (
	"database/sql"
	"time"

	"github.com/fastprodman/points/internal/repos/balances"
)

var _ balances.Balances = (*balancesRepo)(nil)

type balancesRepo struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *balancesRepo {
	return &balancesRepo{db: db, now: time.Now}
}
