// Package store defines the transaction persistence contract and the factory
// that selects a concrete backend. Persistence is deliberately coarse:
// load-all and save-all, with the full list overwritten on every change.
package store

import (
	"context"

	"github.com/Jaichauhan01/expense-tracker/internal/core"
)

// Ledger is the durable home of the transaction list.
type Ledger interface {
	// Load returns the persisted list in insertion order. A missing or
	// unparseable payload is not an error: implementations log it and
	// return an empty list.
	Load(ctx context.Context) ([]core.Transaction, error)

	// Save overwrites the entire persisted payload with txns, preserving
	// slice order.
	Save(ctx context.Context, txns []core.Transaction) error
}
