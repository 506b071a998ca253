package models

// TransactionKind tells a charge apart from a use in the point history.
type TransactionKind string

const (
	KindCharge TransactionKind = "CHARGE"
	KindUse    TransactionKind = "USE"
)

// Valid reports whether k is one of the known kinds.
func (k TransactionKind) Valid() bool {
	return k == KindCharge || k == KindUse
}

// UserBalance is the current point total of one user.
type UserBalance struct {
	UserID          int64 `json:"id"`
	Balance         int64 `json:"point"`
	UpdatedAtMillis int64 `json:"updateMillis"`
}

// TransactionRecord is one append-only entry of a user's point history.
type TransactionRecord struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"userId"`
	Amount          int64           `json:"amount"`
	Kind            TransactionKind `json:"type"`
	TimestampMillis int64           `json:"timeMillis"`
}
