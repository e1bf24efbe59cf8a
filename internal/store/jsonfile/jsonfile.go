// Package jsonfile persists the transaction list as a single JSON array file,
// the direct analogue of the original tracker's browser-storage payload.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Jaichauhan01/expense-tracker/internal/core"
)

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the whole payload. A missing file or an unparseable payload
// yields an empty list: the tracker must keep working with whatever it can
// recover, so corruption is logged and swallowed here.
func (s *Store) Load(ctx context.Context) ([]core.Transaction, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read transactions file: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var txns []core.Transaction
	if err := json.Unmarshal(raw, &txns); err != nil {
		slog.WarnContext(ctx, "Transactions file unparseable, starting empty",
			"path", s.path, "error", err)
		return nil, nil
	}
	return txns, nil
}

// Save overwrites the payload atomically: write to a temp file in the same
// directory, then rename over the target.
func (s *Store) Save(ctx context.Context, txns []core.Transaction) error {
	if txns == nil {
		txns = []core.Transaction{}
	}
	raw, err := json.MarshalIndent(txns, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal transactions: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".transactions-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace transactions file: %w", err)
	}

	slog.DebugContext(ctx, "Transactions saved", "path", s.path, "count", len(txns))
	return nil
}
