package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

func (g Granularity) IsValid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return true
	}
	return false
}

// PeriodBucket aggregates the transactions of one day/week/month period.
// Spent sums expense-type amounts, Income sums income-type amounts; members
// keep the input order.
type PeriodBucket struct {
	Key          string        `json:"key"`
	Label        string        `json:"label"`
	Transactions []Transaction `json:"transactions"`
	Spent        Money         `json:"spent"`
	Income       Money         `json:"income"`
}

// WeekStart returns the Sunday on or before d. Weeks anchor on Sunday by
// plain calendar arithmetic, independent of locale.
func WeekStart(d Date) Date {
	return d.AddDays(-int(d.Weekday()))
}

// GroupByPeriod buckets transactions by calendar period. Day keys are the
// transaction date, week keys the Sunday on/before it, month keys the YYYY-MM
// prefix. With month granularity, transactions outside selectedMonth are
// excluded entirely rather than bucketed elsewhere. Buckets come back sorted
// by key descending; week keys sort correctly because the Sunday anchor is
// also a YYYY-MM-DD string.
func GroupByPeriod(txns []Transaction, g Granularity, selectedMonth string) []PeriodBucket {
	buckets := make(map[string]*PeriodBucket)
	for _, t := range txns {
		var key string
		switch g {
		case GranularityDay:
			key = t.Date.Key()
		case GranularityWeek:
			key = WeekStart(t.Date).Key()
		case GranularityMonth:
			if t.Date.MonthKey() != selectedMonth {
				continue
			}
			key = t.Date.MonthKey()
		default:
			continue
		}
		b, ok := buckets[key]
		if !ok {
			b = &PeriodBucket{Key: key, Label: PeriodLabel(g, key)}
			buckets[key] = b
		}
		b.Transactions = append(b.Transactions, t)
		if t.Type == Income {
			b.Income.Cents += t.Amount.Cents
		} else {
			b.Spent.Cents += t.Amount.Cents
		}
	}
	out := make([]PeriodBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key > out[j].Key })
	return out
}

// PeriodLabel renders the display heading for a period key. Labels are
// display-only and never compared or stored. Unparseable keys come back
// unchanged.
func PeriodLabel(g Granularity, key string) string {
	switch g {
	case GranularityDay:
		d, err := ParseDate(key)
		if err != nil {
			return key
		}
		return d.Format("Monday, January 2, 2006")
	case GranularityWeek:
		start, err := ParseDate(key)
		if err != nil {
			return key
		}
		end := start.AddDays(6)
		return "Week of " + start.Format("Jan 2") + " - " + end.Format("Jan 2")
	case GranularityMonth:
		d, err := ParseDate(key + "-01")
		if err != nil {
			return key
		}
		return d.Format("January 2006")
	}
	return key
}

// CurrentMonth returns the YYYY-MM key of the calendar month containing now.
func CurrentMonth(now time.Time) string {
	return now.Format("2006-01")
}

// PreviousMonth steps m back one month, wrapping January into the prior year.
// Invalid keys come back unchanged.
func PreviousMonth(m string) string {
	year, month, ok := splitMonthKey(m)
	if !ok {
		return m
	}
	month--
	if month < 1 {
		month = 12
		year--
	}
	return fmt.Sprintf("%04d-%02d", year, month)
}

// NextMonth steps m forward one month, wrapping December into the next year.
// Invalid keys come back unchanged.
func NextMonth(m string) string {
	year, month, ok := splitMonthKey(m)
	if !ok {
		return m
	}
	month++
	if month > 12 {
		month = 1
		year++
	}
	return fmt.Sprintf("%04d-%02d", year, month)
}

func splitMonthKey(m string) (year, month int, ok bool) {
	parts := strings.SplitN(m, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

// MonthCursor is the navigable month selection backing the month-granularity
// history view. Next never moves past the calendar month containing today;
// there is no lower bound going back.
type MonthCursor struct {
	mu       sync.Mutex
	selected string
	now      func() time.Time
}

// NewMonthCursor starts a cursor on the current calendar month. A nil clock
// defaults to time.Now.
func NewMonthCursor(now func() time.Time) *MonthCursor {
	if now == nil {
		now = time.Now
	}
	return &MonthCursor{selected: CurrentMonth(now()), now: now}
}

// Selected returns the currently selected YYYY-MM month.
func (c *MonthCursor) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Previous moves the selection back one month and returns it.
func (c *MonthCursor) Previous() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = PreviousMonth(c.selected)
	return c.selected
}

// Next moves the selection forward one month and returns it. It is a no-op
// when the selection already sits on the current calendar month.
func (c *MonthCursor) Next() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == CurrentMonth(c.now()) {
		return c.selected
	}
	c.selected = NextMonth(c.selected)
	return c.selected
}

// Current jumps the selection back to the current calendar month.
func (c *MonthCursor) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = CurrentMonth(c.now())
	return c.selected
}

// Set replaces the selection with an explicit month key, e.g. from a month
// picker. Malformed keys are ignored and the previous selection kept; months
// past the current calendar month clamp to the current one, so navigation can
// never move into the future.
func (c *MonthCursor) Set(m string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, _, ok := splitMonthKey(m); ok {
		// YYYY-MM keys order lexicographically.
		if cur := CurrentMonth(c.now()); m > cur {
			m = cur
		}
		c.selected = m
	}
	return c.selected
}
