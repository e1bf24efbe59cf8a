package core

import "testing"

func TestSummarizeFoldsIncomeAndExpenses(t *testing.T) {
	txns := []Transaction{
		tx(5000, "Food", "2024-03-01", Expense),
		tx(2000, "Food", "2024-03-02", Expense),
		tx(10000, CategoryIncome, "2024-03-01", Income),
	}

	s := Summarize(txns)
	if len(s) != 2 {
		t.Fatalf("len = %d, want 2", len(s))
	}
	if s[0].Category != "Food" || s[0].Total.Cents != 7000 {
		t.Fatalf("first bucket = %+v, want Food 7000", s[0])
	}
	if s[1].Category != CategoryIncome || s[1].Total.Cents != 10000 {
		t.Fatalf("second bucket = %+v, want Income 10000", s[1])
	}

	high, ok := s.Highest()
	if !ok || high.Category != CategoryIncome || high.Total.Cents != 10000 {
		t.Fatalf("Highest = %+v ok=%v, want Income 10000", high, ok)
	}
	if got := s.GrandTotal().Cents; got != 17000 {
		t.Fatalf("GrandTotal = %d, want 17000", got)
	}
}

func TestSummarizePreservesFirstSeenOrder(t *testing.T) {
	txns := []Transaction{
		tx(100, "Shopping", "2024-01-05", Expense),
		tx(100, "Food", "2024-01-01", Expense),
		tx(100, "Shopping", "2024-01-09", Expense),
		tx(100, "Transport", "2024-01-02", Expense),
	}
	s := Summarize(txns)
	want := []string{"Shopping", "Food", "Transport"}
	if len(s) != len(want) {
		t.Fatalf("len = %d, want %d", len(s), len(want))
	}
	for i, cat := range want {
		if s[i].Category != cat {
			t.Fatalf("bucket %d = %q, want %q", i, s[i].Category, cat)
		}
	}
}

func TestSummarizeIsRepeatable(t *testing.T) {
	txns := []Transaction{
		tx(100, "Food", "2024-01-01", Expense),
		tx(250, CategoryIncome, "2024-01-02", Income),
	}
	first := Summarize(txns)
	second := Summarize(txns)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("bucket %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestHighestTieKeepsFirstSeen(t *testing.T) {
	s := Summarize([]Transaction{
		tx(500, "Transport", "2024-01-01", Expense),
		tx(500, "Food", "2024-01-02", Expense),
	})
	high, ok := s.Highest()
	if !ok || high.Category != "Transport" {
		t.Fatalf("Highest = %+v ok=%v, want Transport (first seen)", high, ok)
	}
}

func TestEmptySummary(t *testing.T) {
	s := Summarize(nil)
	if len(s) != 0 {
		t.Fatalf("len = %d, want 0", len(s))
	}
	if _, ok := s.Highest(); ok {
		t.Fatal("Highest on empty summary should report !ok")
	}
	if got := s.GrandTotal().Cents; got != 0 {
		t.Fatalf("GrandTotal = %d, want 0", got)
	}
}

// GrandTotal(Summarize(txns)) must equal the raw amount sum regardless of type.
func TestGrandTotalConservation(t *testing.T) {
	txns := []Transaction{
		tx(123, "Food", "2024-01-01", Expense),
		tx(456, "Utilities", "2024-01-02", Expense),
		tx(789, CategoryIncome, "2024-01-03", Income),
		tx(1000, "Food", "2024-02-01", Expense),
	}
	var raw int64
	for _, txn := range txns {
		raw += txn.Amount.Cents
	}
	if got := Summarize(txns).GrandTotal().Cents; got != raw {
		t.Fatalf("GrandTotal = %d, want raw sum %d", got, raw)
	}
}
