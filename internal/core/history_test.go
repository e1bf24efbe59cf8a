package core

import (
	"testing"
	"time"
)

func TestWeekStartAnchorsOnSunday(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2024-03-01", "2024-02-25"}, // Friday
		{"2024-02-25", "2024-02-25"}, // Sunday maps to itself
		{"2024-03-02", "2024-02-25"}, // Saturday, end of the same week
		{"2024-03-03", "2024-03-03"}, // next Sunday
		{"2024-01-02", "2023-12-31"}, // week spans the year boundary
	}
	for _, tc := range tests {
		if got := WeekStart(mustDate(t, tc.date)).Key(); got != tc.want {
			t.Errorf("WeekStart(%s) = %s, want %s", tc.date, got, tc.want)
		}
	}
}

func TestGroupByPeriodDay(t *testing.T) {
	txns := []Transaction{
		tx(5000, "Food", "2024-03-01", Expense),
		tx(2000, "Food", "2024-03-02", Expense),
		tx(10000, CategoryIncome, "2024-03-01", Income),
	}

	buckets := GroupByPeriod(txns, GranularityDay, "")
	if len(buckets) != 2 {
		t.Fatalf("len = %d, want 2", len(buckets))
	}
	// Newest key first.
	if buckets[0].Key != "2024-03-02" || buckets[1].Key != "2024-03-01" {
		t.Fatalf("keys = %q,%q", buckets[0].Key, buckets[1].Key)
	}
	first := buckets[1]
	if first.Spent.Cents != 5000 || first.Income.Cents != 10000 || len(first.Transactions) != 2 {
		t.Fatalf("2024-03-01 bucket = spent %d income %d members %d",
			first.Spent.Cents, first.Income.Cents, len(first.Transactions))
	}
	// Members keep input order.
	if first.Transactions[0].Type != Expense || first.Transactions[1].Type != Income {
		t.Fatal("bucket members reordered")
	}
}

func TestGroupByPeriodWeek(t *testing.T) {
	txns := []Transaction{
		tx(5000, "Food", "2024-03-01", Expense),
		tx(2000, "Food", "2024-03-02", Expense),
		tx(10000, CategoryIncome, "2024-03-01", Income),
	}

	buckets := GroupByPeriod(txns, GranularityWeek, "")
	if len(buckets) != 1 {
		t.Fatalf("len = %d, want 1", len(buckets))
	}
	b := buckets[0]
	if b.Key != "2024-02-25" {
		t.Fatalf("key = %q, want Sunday 2024-02-25", b.Key)
	}
	if b.Spent.Cents != 7000 || b.Income.Cents != 10000 {
		t.Fatalf("spent %d income %d, want 7000/10000", b.Spent.Cents, b.Income.Cents)
	}
}

func TestGroupByPeriodMonthExcludesOtherMonths(t *testing.T) {
	txns := []Transaction{
		tx(100, "Food", "2024-03-01", Expense),
		tx(200, "Food", "2024-02-28", Expense),
		tx(300, CategoryIncome, "2024-03-15", Income),
		tx(400, "Food", "2023-03-10", Expense), // same month number, other year
	}

	buckets := GroupByPeriod(txns, GranularityMonth, "2024-03")
	if len(buckets) != 1 {
		t.Fatalf("len = %d, want 1", len(buckets))
	}
	b := buckets[0]
	if b.Key != "2024-03" {
		t.Fatalf("key = %q", b.Key)
	}
	if len(b.Transactions) != 2 || b.Spent.Cents != 100 || b.Income.Cents != 300 {
		t.Fatalf("bucket = %+v", b)
	}
	for _, txn := range b.Transactions {
		if txn.Date.MonthKey() != "2024-03" {
			t.Fatalf("foreign month leaked: %s", txn.Date.Key())
		}
	}
}

func TestGroupByPeriodSortedDescending(t *testing.T) {
	txns := []Transaction{
		tx(1, "Food", "2024-01-05", Expense),
		tx(1, "Food", "2024-03-01", Expense),
		tx(1, "Food", "2024-02-10", Expense),
	}
	buckets := GroupByPeriod(txns, GranularityDay, "")
	for i := 1; i < len(buckets); i++ {
		if buckets[i].Key > buckets[i-1].Key {
			t.Fatalf("buckets not descending at %d", i)
		}
	}
}

func TestPeriodLabel(t *testing.T) {
	tests := []struct {
		g    Granularity
		key  string
		want string
	}{
		{GranularityDay, "2024-03-01", "Friday, March 1, 2024"},
		{GranularityWeek, "2024-02-25", "Week of Feb 25 - Mar 2"},
		{GranularityMonth, "2024-03", "March 2024"},
		{GranularityDay, "garbage", "garbage"},
	}
	for _, tc := range tests {
		if got := PeriodLabel(tc.g, tc.key); got != tc.want {
			t.Errorf("PeriodLabel(%s, %q) = %q, want %q", tc.g, tc.key, got, tc.want)
		}
	}
}

func TestMonthKeyArithmetic(t *testing.T) {
	if got := PreviousMonth("2024-01"); got != "2023-12" {
		t.Fatalf("PreviousMonth(2024-01) = %q", got)
	}
	if got := NextMonth("2023-12"); got != "2024-01" {
		t.Fatalf("NextMonth(2023-12) = %q", got)
	}
	if got := PreviousMonth("2024-07"); got != "2024-06" {
		t.Fatalf("PreviousMonth(2024-07) = %q", got)
	}
	if got := NextMonth("not-a-month"); got != "not-a-month" {
		t.Fatalf("NextMonth on junk = %q", got)
	}
}

func TestMonthCursorNavigation(t *testing.T) {
	clock := func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	c := NewMonthCursor(clock)

	if got := c.Selected(); got != "2024-03" {
		t.Fatalf("initial = %q", got)
	}
	if got := c.Next(); got != "2024-03" {
		t.Fatalf("Next at current month = %q, want unchanged 2024-03", got)
	}
	if got := c.Previous(); got != "2024-02" {
		t.Fatalf("Previous = %q", got)
	}
	if got := c.Previous(); got != "2024-01" {
		t.Fatalf("Previous = %q", got)
	}
	if got := c.Previous(); got != "2023-12" {
		t.Fatalf("Previous across year = %q", got)
	}
	if got := c.Next(); got != "2024-01" {
		t.Fatalf("Next across year = %q", got)
	}
	if got := c.Current(); got != "2024-03" {
		t.Fatalf("Current = %q", got)
	}
	if got := c.Set("2020-11"); got != "2020-11" {
		t.Fatalf("Set = %q", got)
	}
	if got := c.Set("junk"); got != "2020-11" {
		t.Fatalf("Set junk = %q, want previous selection kept", got)
	}
}

func TestMonthCursorRefusesFutureMonths(t *testing.T) {
	clock := func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	c := NewMonthCursor(clock)

	if got := c.Set("2030-05"); got != "2024-03" {
		t.Fatalf("Set future month = %q, want clamp to 2024-03", got)
	}
	if got := c.Next(); got != "2024-03" {
		t.Fatalf("Next after future Set = %q, want to stay at 2024-03", got)
	}
	if got := c.Set("2024-04"); got != "2024-03" {
		t.Fatalf("Set next month = %q, want clamp to 2024-03", got)
	}
	if got := c.Set("2024-02"); got != "2024-02" {
		t.Fatalf("Set past month = %q", got)
	}
}
