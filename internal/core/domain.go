package core

import (
	"errors"

	"github.com/google/uuid"
)

type TransactionType string

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

// CategoryIncome is the synthetic category carried by every income transaction.
const CategoryIncome = "Income"

// ExpenseCategories is the fixed set of categories an expense can belong to.
var ExpenseCategories = []string{"Food", "Transport", "Entertainment", "Utilities", "Shopping", "Others"}

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidType     = errors.New("invalid transaction type")
)

// Transaction is a single recorded income or expense event. It is immutable
// once created; the list it lives in is replaced wholesale on delete.
type Transaction struct {
	ID       string          `json:"id"`
	Amount   Money           `json:"amount"`
	Category string          `json:"category"`
	Date     Date            `json:"date"`
	Notes    string          `json:"notes"`
	Type     TransactionType `json:"type"`
}

// NewTransaction builds a transaction with a fresh collision-resistant id.
// Income transactions always carry the Income category regardless of the
// category submitted by the form.
func NewTransaction(amount Money, category string, date Date, notes string, typ TransactionType) Transaction {
	if typ == Income {
		category = CategoryIncome
	}
	return Transaction{
		ID:       uuid.NewString(),
		Amount:   amount,
		Category: category,
		Date:     date,
		Notes:    notes,
		Type:     typ,
	}
}

// IsExpenseCategory reports whether name belongs to the fixed expense set.
func IsExpenseCategory(name string) bool {
	for _, c := range ExpenseCategories {
		if c == name {
			return true
		}
	}
	return false
}

func (t TransactionType) IsValid() bool {
	return t == Expense || t == Income
}

func (t Transaction) Validate() error {
	if t.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	switch t.Type {
	case Expense:
		if !IsExpenseCategory(t.Category) {
			return ErrInvalidCategory
		}
	case Income:
		if t.Category != CategoryIncome {
			return ErrInvalidCategory
		}
	default:
		return ErrInvalidType
	}
	return nil
}
