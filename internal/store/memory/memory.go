// Package memory provides an in-memory Ledger used by tests and the default
// development backend.
package memory

import (
	"context"
	"sync"

	"github.com/Jaichauhan01/expense-tracker/internal/core"
)

type Store struct {
	mu   sync.Mutex
	txns []core.Transaction
}

func New() *Store {
	return &Store{}
}

// Seed replaces the stored list without going through Save, for test setup.
func (s *Store) Seed(txns []core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns = append([]core.Transaction(nil), txns...)
}

func (s *Store) Load(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txns...), nil
}

func (s *Store) Save(_ context.Context, txns []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns = append([]core.Transaction(nil), txns...)
	return nil
}
