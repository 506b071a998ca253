package histories

import (
	"database/sql"

	"github.com/fastprodman/points/internal/repos/histories"
)

var _ histories.Histories = (*historiesRepo)(nil)

type historiesRepo struct {
	db *sql.DB
}

func New(db *sql.DB) *historiesRepo {
	return &historiesRepo{db: db}
}
