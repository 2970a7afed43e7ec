package transaction

import (
	"errors"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/category"
)

var (
	ErrNotFound = errors.New("transaction not found")
	ErrInvalid  = errors.New("invalid transaction")
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction represents a financial transaction.
type Transaction struct {
	ID          int64
	Amount      int64 // Signed amount in cents, negative for expenses
	Type        Type
	Description string
	Date        time.Time
	Category    category.Ref // Name loaded via JOIN
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
}

// Magnitude is the absolute amount in cents. Type, not the sign, carries the
// direction, so stray records with a mismatched sign still count correctly.
func (t *Transaction) Magnitude() int64 {
	if t.Amount < 0 {
		return -t.Amount
	}

	return t.Amount
}

// Signed returns amount with the sign implied by typ.
func Signed(typ Type, amount int64) int64 {
	if amount < 0 {
		amount = -amount
	}

	if typ == TypeExpense {
		return -amount
	}

	return amount
}
