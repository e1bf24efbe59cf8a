package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Jaichauhan01/expense-tracker/internal/core"
	"github.com/Jaichauhan01/expense-tracker/internal/services"
	"github.com/Jaichauhan01/expense-tracker/internal/store/memory"
)

// fixedNow anchors the clock so net-flow windows and month navigation
// are deterministic.
var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, seed ...core.Transaction) *Server {
	t.Helper()

	st := memory.New()
	if len(seed) > 0 {
		st.Seed(seed)
	}
	ledger := services.NewLedgerService(context.Background(), st, nil)

	s := NewServer(":0", ledger, DefaultOptions())
	s.now = func() time.Time { return fixedNow }
	s.cursor = core.NewMonthCursor(func() time.Time { return fixedNow })
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func seedTxn(t *testing.T, cents int64, category, date string, typ core.TransactionType) core.Transaction {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", date, err)
	}
	return core.NewTransaction(core.Money{Cents: cents}, category, d, "", typ)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		w := doRequest(s, http.MethodGet, path, "")
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
		}
	}
}

func TestReadyReportsCounters(t *testing.T) {
	s := newTestServer(t)

	doRequest(s, http.MethodGet, "/healthz", "")
	doRequest(s, http.MethodPost, "/transactions",
		`{"amount": 5, "category": "Food", "date": "2024-03-10"}`)

	w := doRequest(s, http.MethodGet, "/readyz", "")
	got := decode[readyResponse](t, w)
	if got.Status != "ready" {
		t.Errorf("Status = %q, want ready", got.Status)
	}
	// healthz, the create and this readyz request itself
	if got.RequestsServed != 3 {
		t.Errorf("RequestsServed = %d, want 3", got.RequestsServed)
	}
	// the create went through the limiter, so its client is tracked
	if got.RateLimitClients != 1 {
		t.Errorf("RateLimitClients = %d, want 1", got.RateLimitClients)
	}
}

func TestMutationRateLimit(t *testing.T) {
	ledger := services.NewLedgerService(context.Background(), memory.New(), nil)
	s := NewServer(":0", ledger, Options{
		CacheSize:          8,
		CacheTTL:           time.Minute,
		RateLimitPerMinute: 2,
	})
	s.now = func() time.Time { return fixedNow }
	s.cursor = core.NewMonthCursor(func() time.Time { return fixedNow })
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	body := `{"amount": 5, "category": "Food", "date": "2024-03-10"}`
	for i := 0; i < 2; i++ {
		if w := doRequest(s, http.MethodPost, "/transactions", body); w.Code != http.StatusCreated {
			t.Fatalf("POST %d = %d, want 201", i+1, w.Code)
		}
	}

	w := doRequest(s, http.MethodPost, "/transactions", body)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("POST over limit = %d, want 429", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}

	// Reads stay unthrottled
	if w := doRequest(s, http.MethodGet, "/transactions", ""); w.Code != http.StatusOK {
		t.Errorf("GET after limit = %d, want 200", w.Code)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/healthz", "")
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestCreateTransaction(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodPost, "/transactions",
		`{"amount": 12.34, "category": "Food", "date": "2024-03-10", "notes": "lunch", "type": "expense"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /transactions = %d, body %s", w.Code, w.Body.String())
	}

	got := decode[core.Transaction](t, w)
	if got.ID == "" {
		t.Error("response should carry the generated ID")
	}
	if got.Amount.Cents != 1234 || got.Category != "Food" || got.Type != core.Expense {
		t.Errorf("created = %+v", got)
	}
}

func TestCreateTransactionDefaultsToExpense(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodPost, "/transactions",
		`{"amount": 5, "category": "Transport", "date": "2024-03-10"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST = %d, body %s", w.Code, w.Body.String())
	}
	if got := decode[core.Transaction](t, w); got.Type != core.Expense {
		t.Errorf("Type = %s, want expense", got.Type)
	}
}

func TestCreateTransactionIncomeForcesCategory(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodPost, "/transactions",
		`{"amount": 1000, "category": "Food", "date": "2024-03-01", "type": "income"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST = %d, body %s", w.Code, w.Body.String())
	}
	if got := decode[core.Transaction](t, w); got.Category != core.CategoryIncome {
		t.Errorf("Category = %s, want %s", got.Category, core.CategoryIncome)
	}
}

func TestCreateTransactionRejections(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{
			name:     "malformed json",
			body:     `{"amount": `,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unparseable amount",
			body:     `{"amount": "abc", "category": "Food", "date": "2024-03-01", "type": "expense"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "zero amount",
			body:     `{"amount": 0, "category": "Food", "date": "2024-03-01", "type": "expense"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "bad date",
			body:     `{"amount": 10, "category": "Food", "date": "2024-3-1", "type": "expense"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "missing date",
			body:     `{"amount": 10, "category": "Food", "type": "expense"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "unknown category",
			body:     `{"amount": 10, "category": "Gambling", "date": "2024-03-01", "type": "expense"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "unknown type",
			body:     `{"amount": 10, "category": "Food", "date": "2024-03-01", "type": "transfer"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(s, http.MethodPost, "/transactions", tt.body)
			if w.Code != tt.wantCode {
				t.Errorf("POST = %d, want %d, body %s", w.Code, tt.wantCode, w.Body.String())
			}
		})
	}

	w := doRequest(s, http.MethodGet, "/transactions", "")
	if got := decode[listTransactionsResponse](t, w); got.Count != 0 {
		t.Errorf("rejected payloads must not be stored, count = %d", got.Count)
	}
}

func TestListTransactionsFilterAndOrder(t *testing.T) {
	s := newTestServer(t,
		seedTxn(t, 100, "Food", "2024-03-01", core.Expense),
		seedTxn(t, 200, "Transport", "2024-03-05", core.Expense),
		seedTxn(t, 300, "Food", "2024-03-10", core.Expense),
		seedTxn(t, 400, "", "2024-03-07", core.Income),
	)

	t.Run("all newest first", func(t *testing.T) {
		w := doRequest(s, http.MethodGet, "/transactions", "")
		got := decode[listTransactionsResponse](t, w)
		if got.Count != 4 {
			t.Fatalf("Count = %d, want 4", got.Count)
		}
		for i := 1; i < len(got.Transactions); i++ {
			if got.Transactions[i-1].Date.Key() < got.Transactions[i].Date.Key() {
				t.Fatal("transactions not sorted newest first")
			}
		}
	})

	t.Run("category filter", func(t *testing.T) {
		w := doRequest(s, http.MethodGet, "/transactions?category=Food", "")
		got := decode[listTransactionsResponse](t, w)
		if got.Count != 2 {
			t.Errorf("Count = %d, want 2", got.Count)
		}
	})

	t.Run("All category matches everything", func(t *testing.T) {
		w := doRequest(s, http.MethodGet, "/transactions?category=All", "")
		if got := decode[listTransactionsResponse](t, w); got.Count != 4 {
			t.Errorf("Count = %d, want 4", got.Count)
		}
	})

	t.Run("inclusive date range", func(t *testing.T) {
		w := doRequest(s, http.MethodGet, "/transactions?from=2024-03-05&to=2024-03-07", "")
		got := decode[listTransactionsResponse](t, w)
		if got.Count != 2 {
			t.Errorf("Count = %d, want 2 (bounds are inclusive)", got.Count)
		}
	})

	t.Run("invalid from", func(t *testing.T) {
		w := doRequest(s, http.MethodGet, "/transactions?from=03-05-2024", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("code = %d, want 400", w.Code)
		}
	})
}

func TestDeleteTransaction(t *testing.T) {
	seed := seedTxn(t, 100, "Food", "2024-03-01", core.Expense)
	s := newTestServer(t, seed)

	w := doRequest(s, http.MethodDelete, "/transactions/"+seed.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE = %d", w.Code)
	}
	if got := decode[deleteTransactionResponse](t, w); !got.Deleted {
		t.Error("Deleted = false, want true")
	}

	// Unknown ID still answers 200, reporting nothing removed
	w = doRequest(s, http.MethodDelete, "/transactions/"+seed.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("repeat DELETE = %d, want 200", w.Code)
	}
	if got := decode[deleteTransactionResponse](t, w); got.Deleted {
		t.Error("Deleted = true on unknown ID, want false")
	}
}

func TestSummary(t *testing.T) {
	s := newTestServer(t,
		seedTxn(t, 5000, "Food", "2024-03-01", core.Expense),
		seedTxn(t, 2000, "Food", "2024-03-02", core.Expense),
		seedTxn(t, 10000, "", "2024-03-03", core.Income),
	)

	w := doRequest(s, http.MethodGet, "/summary", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /summary = %d", w.Code)
	}
	got := decode[summaryResponse](t, w)

	if len(got.Categories) != 2 {
		t.Fatalf("categories = %d, want 2", len(got.Categories))
	}
	if got.GrandTotal.Cents != 17000 {
		t.Errorf("GrandTotal = %d, want 17000", got.GrandTotal.Cents)
	}
	if got.Highest == nil || got.Highest.Category != core.CategoryIncome {
		t.Errorf("Highest = %+v, want Income", got.Highest)
	}
	// Food is 7000 of the 10000 max
	if got.Categories[0].Category != "Food" || got.Categories[0].PercentOfMax != 70 {
		t.Errorf("Food entry = %+v, want percent_of_max 70", got.Categories[0])
	}
	if got.Categories[1].PercentOfMax != 100 {
		t.Errorf("Income percent_of_max = %d, want 100", got.Categories[1].PercentOfMax)
	}
}

func TestSummaryEmptyLedger(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/summary", "")
	got := decode[summaryResponse](t, w)
	if len(got.Categories) != 0 || got.GrandTotal.Cents != 0 || got.Highest != nil {
		t.Errorf("empty summary = %+v", got)
	}
}

func TestSummaryCacheInvalidatedByMutation(t *testing.T) {
	s := newTestServer(t)

	doRequest(s, http.MethodGet, "/summary", "") // warm cache

	w := doRequest(s, http.MethodPost, "/transactions",
		`{"amount": 10, "category": "Food", "date": "2024-03-01", "type": "expense"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST = %d", w.Code)
	}

	w = doRequest(s, http.MethodGet, "/summary", "")
	if got := decode[summaryResponse](t, w); got.GrandTotal.Cents != 1000 {
		t.Errorf("GrandTotal after add = %d, want 1000 (stale cache?)", got.GrandTotal.Cents)
	}
}

func TestNetFlow(t *testing.T) {
	s := newTestServer(t,
		seedTxn(t, 3000, "", "2024-03-15", core.Income),
		seedTxn(t, 1000, "Food", "2024-03-14", core.Expense),
		seedTxn(t, 9999, "Food", "2024-03-03", core.Expense), // before the 12-day window
	)

	w := doRequest(s, http.MethodGet, "/netflow", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /netflow = %d", w.Code)
	}
	got := decode[netFlowResponse](t, w)

	if got.Days != 12 || len(got.Points) != 12 {
		t.Fatalf("Days = %d, Points = %d, want 12 each", got.Days, len(got.Points))
	}
	if got.Points[0].Date.Key() != "2024-03-04" {
		t.Errorf("window start = %s, want 2024-03-04", got.Points[0].Date.Key())
	}
	if got.Points[11].Date.Key() != "2024-03-15" {
		t.Errorf("window end = %s, want 2024-03-15", got.Points[11].Date.Key())
	}
	if got.Points[11].Net.Cents != 3000 {
		t.Errorf("today's net = %d, want 3000", got.Points[11].Net.Cents)
	}
	if got.Points[10].Net.Cents != -1000 {
		t.Errorf("yesterday's net = %d, want -1000", got.Points[10].Net.Cents)
	}
}

func TestNetFlowCustomWindow(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/netflow?days=5", "")
	if got := decode[netFlowResponse](t, w); len(got.Points) != 5 {
		t.Errorf("Points = %d, want 5", len(got.Points))
	}

	w = doRequest(s, http.MethodGet, "/netflow?days=zero", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad days = %d, want 400", w.Code)
	}
}

func TestHistoryByDay(t *testing.T) {
	s := newTestServer(t,
		seedTxn(t, 100, "Food", "2024-03-01", core.Expense),
		seedTxn(t, 200, "Transport", "2024-03-01", core.Expense),
		seedTxn(t, 300, "Food", "2024-03-05", core.Expense),
	)

	w := doRequest(s, http.MethodGet, "/history", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /history = %d", w.Code)
	}
	got := decode[historyResponse](t, w)

	if got.Granularity != core.GranularityDay {
		t.Errorf("Granularity = %s, want day", got.Granularity)
	}
	if len(got.Buckets) != 2 {
		t.Fatalf("buckets = %d, want 2", len(got.Buckets))
	}
	// Descending by key
	if got.Buckets[0].Key != "2024-03-05" || got.Buckets[1].Key != "2024-03-01" {
		t.Errorf("bucket order = [%s %s]", got.Buckets[0].Key, got.Buckets[1].Key)
	}
	if got.Buckets[1].Spent.Cents != 300 {
		t.Errorf("2024-03-01 spent = %d, want 300", got.Buckets[1].Spent.Cents)
	}
}

func TestHistoryByWeek(t *testing.T) {
	s := newTestServer(t,
		seedTxn(t, 7000, "Food", "2024-02-26", core.Expense),
		seedTxn(t, 10000, "", "2024-03-01", core.Income),
	)

	w := doRequest(s, http.MethodGet, "/history?granularity=week", "")
	got := decode[historyResponse](t, w)

	if len(got.Buckets) != 1 {
		t.Fatalf("buckets = %d, want 1 (same Sunday-anchored week)", len(got.Buckets))
	}
	b := got.Buckets[0]
	if b.Key != "2024-02-25" {
		t.Errorf("week key = %s, want 2024-02-25", b.Key)
	}
	if b.Spent.Cents != 7000 || b.Income.Cents != 10000 {
		t.Errorf("spent = %d income = %d", b.Spent.Cents, b.Income.Cents)
	}
	if b.Label != "Week of Feb 25 - Mar 2" {
		t.Errorf("label = %q", b.Label)
	}
}

func TestHistoryByMonthExcludesOtherMonths(t *testing.T) {
	s := newTestServer(t,
		seedTxn(t, 100, "Food", "2024-03-01", core.Expense),
		seedTxn(t, 200, "Food", "2024-02-15", core.Expense),
	)

	w := doRequest(s, http.MethodGet, "/history?granularity=month", "")
	got := decode[historyResponse](t, w)

	if got.Month != "2024-03" {
		t.Errorf("Month = %s, want 2024-03", got.Month)
	}
	if len(got.Buckets) != 1 {
		t.Fatalf("buckets = %d, want 1 (other months excluded)", len(got.Buckets))
	}
	if got.Buckets[0].Spent.Cents != 100 {
		t.Errorf("spent = %d, want 100", got.Buckets[0].Spent.Cents)
	}
	if got.Buckets[0].Label != "March 2024" {
		t.Errorf("label = %q, want March 2024", got.Buckets[0].Label)
	}
}

func TestHistoryInvalidGranularity(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/history?granularity=year", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", w.Code)
	}
}

func TestHistoryMonthNavigation(t *testing.T) {
	s := newTestServer(t,
		seedTxn(t, 500, "Food", "2024-02-10", core.Expense),
	)

	w := doRequest(s, http.MethodPost, "/history/previous", "")
	if got := decode[monthResponse](t, w); got.Month != "2024-02" {
		t.Fatalf("previous = %s, want 2024-02", got.Month)
	}

	// Month view now reflects February
	w = doRequest(s, http.MethodGet, "/history?granularity=month", "")
	got := decode[historyResponse](t, w)
	if got.Month != "2024-02" || len(got.Buckets) != 1 {
		t.Errorf("february view = %+v", got)
	}

	w = doRequest(s, http.MethodPost, "/history/next", "")
	if got := decode[monthResponse](t, w); got.Month != "2024-03" {
		t.Errorf("next = %s, want 2024-03", got.Month)
	}

	// Next at the current month stays put
	w = doRequest(s, http.MethodPost, "/history/next", "")
	if got := decode[monthResponse](t, w); got.Month != "2024-03" {
		t.Errorf("next at current = %s, want 2024-03", got.Month)
	}

	doRequest(s, http.MethodPost, "/history/previous", "")
	doRequest(s, http.MethodPost, "/history/previous", "")
	w = doRequest(s, http.MethodPost, "/history/current", "")
	if got := decode[monthResponse](t, w); got.Month != "2024-03" {
		t.Errorf("current = %s, want 2024-03", got.Month)
	}
}

func TestHistoryExplicitMonthMovesCursor(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/history?granularity=month&month=2023-11", "")
	if got := decode[historyResponse](t, w); got.Month != "2023-11" {
		t.Fatalf("Month = %s, want 2023-11", got.Month)
	}

	w = doRequest(s, http.MethodPost, "/history/next", "")
	if got := decode[monthResponse](t, w); got.Month != "2023-12" {
		t.Errorf("next after explicit month = %s, want 2023-12", got.Month)
	}
}

func TestHistoryFutureMonthClampsToCurrent(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/history?granularity=month&month=2030-05", "")
	if got := decode[historyResponse](t, w); got.Month != "2024-03" {
		t.Fatalf("Month = %s, want clamp to 2024-03", got.Month)
	}

	w = doRequest(s, http.MethodPost, "/history/next", "")
	if got := decode[monthResponse](t, w); got.Month != "2024-03" {
		t.Errorf("next after future month = %s, want to stay at 2024-03", got.Month)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPut, "/transactions"},
		{http.MethodGet, "/transactions/some-id"},
		{http.MethodPost, "/summary"},
		{http.MethodPost, "/netflow"},
		{http.MethodPost, "/history"},
		{http.MethodGet, "/history/previous"},
		{http.MethodGet, "/history/next"},
		{http.MethodGet, "/history/current"},
	}

	for _, tt := range tests {
		w := doRequest(s, tt.method, tt.path, "")
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s = %d, want 405", tt.method, tt.path, w.Code)
		}
	}
}
