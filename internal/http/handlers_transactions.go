package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Jaichauhan01/expense-tracker/internal/core"
	applog "github.com/Jaichauhan01/expense-tracker/internal/log"
	"github.com/Jaichauhan01/expense-tracker/internal/middleware/trace"
)

type createTransactionRequest struct {
	Amount   core.Money           `json:"amount"`
	Category string               `json:"category"`
	Date     core.Date            `json:"date"`
	Notes    string               `json:"notes"`
	Type     core.TransactionType `json:"type"`
}

type listTransactionsResponse struct {
	Transactions []core.Transaction `json:"transactions"`
	Count        int                `json:"count"`
}

type deleteTransactionResponse struct {
	Deleted bool `json:"deleted"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, core.ErrInvalidAmount) || errors.Is(err, core.ErrInvalidDate) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logs.LogError(r.Context(), "Failed to decode transaction payload", err,
			applog.ComponentHTTP, applog.OpCreate,
			applog.NewFields().WithRequestID(trace.GetRequestID(r.Context())))
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	txType := req.Type
	if txType == "" {
		txType = core.Expense
	}

	t, err := s.ledger.Add(r.Context(), req.Amount, strings.TrimSpace(req.Category), req.Date, strings.TrimSpace(req.Notes), txType)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, ok := parseDateParam(q.Get("from"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid 'from' date, want YYYY-MM-DD")
		return
	}
	to, ok := parseDateParam(q.Get("to"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid 'to' date, want YYYY-MM-DD")
		return
	}

	filter := core.Filter{
		Category: q.Get("category"),
		From:     from,
		To:       to,
	}

	txns := core.FilterAndSort(s.ledger.Snapshot(), filter)
	writeJSON(w, http.StatusOK, listTransactionsResponse{
		Transactions: txns,
		Count:        len(txns),
	})
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, http.MethodDelete)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/transactions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	deleted := s.ledger.Delete(r.Context(), id)
	if deleted {
		s.invalidateCaches()
	}

	// Unknown IDs report 200: the delete contract is idempotent
	writeJSON(w, http.StatusOK, deleteTransactionResponse{Deleted: deleted})
}
