package http

import (
	"net/http"
	"strconv"

	"github.com/Jaichauhan01/expense-tracker/internal/core"
)

const summaryCacheKey = "summary"

type summaryEntry struct {
	Category string     `json:"category"`
	Total    core.Money `json:"total"`
	// Integer percentage of the largest bucket, for bar-style rendering
	PercentOfMax int `json:"percent_of_max"`
}

type summaryResponse struct {
	Categories []summaryEntry      `json:"categories"`
	GrandTotal core.Money          `json:"grand_total"`
	Highest    *core.CategoryTotal `json:"highest,omitempty"`
}

type netFlowResponse struct {
	Days   int                 `json:"days"`
	Points []core.NetFlowPoint `json:"points"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	if cached, ok := s.summaryCache.Get(summaryCacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	summary := core.Summarize(s.ledger.Snapshot())

	var maxCents int64
	for _, ct := range summary {
		if ct.Total.Cents > maxCents {
			maxCents = ct.Total.Cents
		}
	}

	entries := make([]summaryEntry, 0, len(summary))
	for _, ct := range summary {
		percent := 0
		if maxCents > 0 {
			percent = int((ct.Total.Cents * 100) / maxCents)
		}
		entries = append(entries, summaryEntry{
			Category:     ct.Category,
			Total:        ct.Total,
			PercentOfMax: percent,
		})
	}

	resp := summaryResponse{
		Categories: entries,
		GrandTotal: summary.GrandTotal(),
	}
	if highest, ok := summary.Highest(); ok {
		resp.Highest = &highest
	}

	s.summaryCache.Set(summaryCacheKey, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNetFlow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	days := core.DefaultNetFlowWindow
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid 'days', want a positive integer")
			return
		}
		days = n
	}

	points := core.NetFlowSeries(s.ledger.Snapshot(), core.DateOf(s.now()), days)
	writeJSON(w, http.StatusOK, netFlowResponse{
		Days:   days,
		Points: points,
	})
}
