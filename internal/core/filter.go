package core

import "sort"

// CategoryAll disables category filtering.
const CategoryAll = "All"

// Filter narrows a transaction list by category and inclusive date range.
// Zero From/To leave the corresponding bound open.
type Filter struct {
	Category string
	From     Date
	To       Date
}

// Matches reports whether t passes both predicates. Category comparison is
// exact and case-sensitive, including the synthetic Income category.
func (f Filter) Matches(t Transaction) bool {
	if f.Category != "" && f.Category != CategoryAll && t.Category != f.Category {
		return false
	}
	if !f.From.IsZero() && t.Date.Key() < f.From.Key() {
		return false
	}
	if !f.To.IsZero() && t.Date.Key() > f.To.Key() {
		return false
	}
	return true
}

// FilterAndSort returns the matching transactions sorted newest first. The
// sort is stable, so same-date transactions keep their input order. The input
// slice is never mutated.
func FilterAndSort(txns []Transaction, f Filter) []Transaction {
	out := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Key() > out[j].Date.Key()
	})
	return out
}
