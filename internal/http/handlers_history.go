package http

import (
	"net/http"

	"github.com/Jaichauhan01/expense-tracker/internal/core"
	applog "github.com/Jaichauhan01/expense-tracker/internal/log"
)

type historyResponse struct {
	Granularity core.Granularity    `json:"granularity"`
	Month       string              `json:"month"`
	Buckets     []core.PeriodBucket `json:"buckets"`
}

type monthResponse struct {
	Month string `json:"month"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	q := r.URL.Query()

	granularity := core.GranularityDay
	if v := q.Get("granularity"); v != "" {
		granularity = core.Granularity(v)
		if !granularity.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid granularity, want day, week or month")
			return
		}
	}

	// An explicit month moves the cursor so navigation continues from it
	if v := q.Get("month"); v != "" {
		s.cursor.Set(v)
	}
	month := s.cursor.Selected()

	cacheKey := string(granularity) + "|" + month
	if cached, ok := s.historyCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, historyResponse{
			Granularity: granularity,
			Month:       month,
			Buckets:     cached,
		})
		return
	}

	buckets := core.GroupByPeriod(s.ledger.Snapshot(), granularity, month)
	s.historyCache.Set(cacheKey, buckets)

	applog.FromContext(r.Context()).DebugContext(r.Context(), "History view computed",
		applog.FieldGranularity, string(granularity),
		applog.FieldMonthKey, month,
		applog.FieldCount, len(buckets))

	writeJSON(w, http.StatusOK, historyResponse{
		Granularity: granularity,
		Month:       month,
		Buckets:     buckets,
	})
}

func (s *Server) handleHistoryPrevious(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	writeJSON(w, http.StatusOK, monthResponse{Month: s.cursor.Previous()})
}

func (s *Server) handleHistoryNext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	writeJSON(w, http.StatusOK, monthResponse{Month: s.cursor.Next()})
}

func (s *Server) handleHistoryCurrent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	writeJSON(w, http.StatusOK, monthResponse{Month: s.cursor.Current()})
}
