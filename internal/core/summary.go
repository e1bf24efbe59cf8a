package core

// CategoryTotal is one row of a category summary.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    Money  `json:"total"`
}

// Summary is an ordered category-to-total mapping. Order is the first-seen
// category order of the input list, which keeps repeated runs over the same
// list deterministic.
type Summary []CategoryTotal

// Summarize folds every transaction's unsigned amount into its category
// bucket. Income transactions land in the Income bucket. Categories with no
// transactions have no entry.
func Summarize(txns []Transaction) Summary {
	idx := make(map[string]int, len(txns))
	var out Summary
	for _, t := range txns {
		i, ok := idx[t.Category]
		if !ok {
			i = len(out)
			idx[t.Category] = i
			out = append(out, CategoryTotal{Category: t.Category})
		}
		out[i].Total.Cents += t.Amount.Cents
	}
	return out
}

// Highest returns the entry with the largest total. Ties keep the earlier
// first-seen entry. ok is false for an empty summary.
func (s Summary) Highest() (CategoryTotal, bool) {
	if len(s) == 0 {
		return CategoryTotal{}, false
	}
	best := s[0]
	for _, ct := range s[1:] {
		if ct.Total.Cents > best.Total.Cents {
			best = ct
		}
	}
	return best, true
}

// GrandTotal sums every bucket; zero for an empty summary.
func (s Summary) GrandTotal() Money {
	var total Money
	for _, ct := range s {
		total.Cents += ct.Total.Cents
	}
	return total
}
