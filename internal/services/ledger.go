// Package services provides business logic and orchestration services.
package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/Jaichauhan01/expense-tracker/internal/core"
	"github.com/Jaichauhan01/expense-tracker/internal/events"
	applog "github.com/Jaichauhan01/expense-tracker/internal/log"
	"github.com/Jaichauhan01/expense-tracker/internal/store"
)

// LedgerService holds the in-memory transaction list and keeps the
// store in sync with a full save after every mutation. The in-memory
// list is the source of truth while the process runs; newest
// transactions sit at the front.
type LedgerService struct {
	mu     sync.RWMutex
	store  store.Ledger
	events *events.Client
	log    *applog.Logger
	txns   []core.Transaction
}

// NewLedgerService loads the persisted transactions and returns a
// ready-to-use service. A load failure is logged and treated as an
// empty ledger so a damaged store never blocks startup.
func NewLedgerService(ctx context.Context, ledger store.Ledger, eventsClient *events.Client) *LedgerService {
	s := &LedgerService{
		store:  ledger,
		events: eventsClient,
		log:    applog.Default(applog.ComponentLedger),
	}

	txns, err := ledger.Load(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load transactions, starting empty",
			applog.FieldOperation, applog.OpLoad,
			applog.FieldError, err.Error())
		txns = nil
	}
	s.txns = txns

	s.log.InfoContext(ctx, "Ledger loaded",
		applog.FieldOperation, applog.OpLoad,
		applog.FieldCount, len(txns))
	return s
}

// Add validates and stores a new transaction, returning the stored
// record with its generated ID.
func (s *LedgerService) Add(ctx context.Context, amount core.Money, category string, date core.Date, notes string, txType core.TransactionType) (core.Transaction, error) {
	t := core.NewTransaction(amount, category, date, notes, txType)
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}

	s.mu.Lock()
	s.txns = append([]core.Transaction{t}, s.txns...)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)

	if err := s.events.PublishCreated(ctx, t.ID); err != nil {
		s.log.ErrorContext(ctx, "Failed to publish created event",
			applog.FieldTransactionID, t.ID,
			applog.FieldError, err.Error())
		// Don't fail the request, the transaction is stored locally
	}

	s.log.InfoContext(ctx, "Transaction added",
		applog.NewFields().
			WithTransaction(t.ID, t.Category, t.Amount.Cents, string(t.Type), t.Date.Key()).
			WithOperation(applog.OpCreate).
			ToSlice()...)

	return t, nil
}

// Delete removes the transaction with the given ID. It reports whether
// a transaction was actually removed; an unknown ID is a no-op.
func (s *LedgerService) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	idx := -1
	for i, t := range s.txns {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		s.log.DebugContext(ctx, "Delete of unknown transaction ignored",
			applog.FieldTransactionID, id,
			applog.FieldOperation, applog.OpDelete)
		return false
	}
	s.txns = append(s.txns[:idx], s.txns[idx+1:]...)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)

	if err := s.events.PublishDeleted(ctx, id); err != nil {
		s.log.ErrorContext(ctx, "Failed to publish deleted event",
			applog.FieldTransactionID, id,
			applog.FieldError, err.Error())
	}

	s.log.InfoContext(ctx, "Transaction deleted",
		applog.FieldTransactionID, id,
		applog.FieldOperation, applog.OpDelete)
	return true
}

// Snapshot returns a copy of the current transaction list, newest first.
func (s *LedgerService) Snapshot() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *LedgerService) snapshotLocked() []core.Transaction {
	out := make([]core.Transaction, len(s.txns))
	copy(out, s.txns)
	return out
}

// persist writes the full list to the store. Save failures are logged
// and swallowed; the in-memory state stays authoritative.
func (s *LedgerService) persist(ctx context.Context, txns []core.Transaction) {
	if err := s.store.Save(ctx, txns); err != nil {
		s.log.ErrorContext(ctx, "Failed to persist transactions",
			applog.FieldOperation, applog.OpSave,
			applog.FieldCount, len(txns),
			applog.FieldError, err.Error())
	}
}

// Close releases the event client connection if one is configured.
func (s *LedgerService) Close() error {
	if err := s.events.Close(); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	return nil
}
