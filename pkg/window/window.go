// Package window partitions a publication-date range into fixed-width query
// windows. Slicing a large range keeps every search below the API's maximum
// reachable result-set depth.
package window

import (
	"time"
)

// DateLayout is the wire format hh.ru accepts for date filters.
const DateLayout = "2006-01-02"

// Window bounds one search query by publication date. A nil bound leaves
// that side of the query open.
type Window struct {
	From *time.Time
	To   *time.Time
}

// FromParam renders the lower bound for the date_from query parameter,
// empty when open.
func (w Window) FromParam() string {
	if w.From == nil {
		return ""
	}
	return w.From.Format(DateLayout)
}

// ToParam renders the upper bound for the date_to query parameter,
// empty when open.
func (w Window) ToParam() string {
	if w.To == nil {
		return ""
	}
	return w.To.Format(DateLayout)
}

// String renders the window for logs.
func (w Window) String() string {
	from, to := "*", "*"
	if w.From != nil {
		from = w.From.Format(DateLayout)
	}
	if w.To != nil {
		to = w.To.Format(DateLayout)
	}
	return from + ".." + to
}

// Plan partitions [from, to] into consecutive windows of sizeDays days each,
// in ascending chronological order. Windows are contiguous and
// non-overlapping; the final window is shortened to respect the upper bound.
// sizeDays below 1 is clamped to 1. When either bound is absent a single
// window carrying the open bound(s) is returned.
func Plan(from, to *time.Time, sizeDays int) []Window {
	if from == nil || to == nil {
		return []Window{{From: from, To: to}}
	}

	if sizeDays < 1 {
		sizeDays = 1
	}

	start := Day(*from)
	end := Day(*to)

	var windows []Window
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, sizeDays) {
		wEnd := cur.AddDate(0, 0, sizeDays-1)
		if wEnd.After(end) {
			wEnd = end
		}
		f, t := cur, wEnd
		windows = append(windows, Window{From: &f, To: &t})
	}
	return windows
}

// LastDays returns the bounds for the "last n calendar days" shorthand,
// ending today: n=1 is today only.
func LastDays(n int, now time.Time) (from, to *time.Time) {
	if n < 1 {
		n = 1
	}
	t := Day(now)
	f := t.AddDate(0, 0, -(n - 1))
	return &f, &t
}

// Day truncates a timestamp to its calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
