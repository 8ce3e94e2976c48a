package nutrition

import "time"

// DefaultWindowDays is the trailing window used for weekly scoring.
const DefaultWindowDays = 7

// Sum totals every entry regardless of date. An empty slice yields zero totals.
func Sum(entries []MealEntry) Nutrients {
	var total Nutrients
	for _, e := range entries {
		total = total.Add(e.Nutrients)
	}
	return total
}

// Day truncates t to its calendar day, keeping t's own year/month/day rather
// than converting zones first.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Window is a run of Days calendar days ending on (and including) End.
type Window struct {
	End  time.Time
	Days int
}

// LastNDays returns the window of n calendar days ending on anchor's day.
// n < 1 is treated as 1.
func LastNDays(anchor time.Time, n int) Window {
	if n < 1 {
		n = 1
	}
	return Window{End: Day(anchor), Days: n}
}

// Start is the first calendar day in the window.
func (w Window) Start() time.Time {
	return Day(w.End).AddDate(0, 0, -(w.days() - 1))
}

// Contains reports whether t falls on a day inside the window.
func (w Window) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(w.Start()) && !d.After(Day(w.End))
}

// Dates lists the window's days in ascending order.
func (w Window) Dates() []time.Time {
	start := w.Start()
	dates := make([]time.Time, w.days())
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

func (w Window) days() int {
	if w.Days < 1 {
		return 1
	}
	return w.Days
}

// DayTotals is one day of a window breakdown. HasData is false for days with
// no entries.
type DayTotals struct {
	Date    string    `json:"date"`
	Totals  Nutrients `json:"totals"`
	Entries int       `json:"entries"`
	HasData bool      `json:"has_data"`
}

// bucket groups history entries by day, dropping anything outside w, then
// folds the pending batch into the anchor day.
func bucket(w Window, history, pending []MealEntry) map[string]DayTotals {
	buckets := make(map[string]DayTotals, w.days())
	add := func(day time.Time, e MealEntry) {
		key := day.Format(time.DateOnly)
		b := buckets[key]
		b.Date = key
		b.Totals = b.Totals.Add(e.Nutrients)
		b.Entries++
		b.HasData = true
		buckets[key] = b
	}
	for _, e := range history {
		if w.Contains(e.Date) {
			add(e.Date, e)
		}
	}
	for _, e := range pending {
		add(w.End, e)
	}
	return buckets
}

// SumWindow totals history entries that fall inside w plus every pending
// entry. Pending entries have not been persisted yet and always count toward
// the anchor day, whatever their own date says.
func SumWindow(w Window, history, pending []MealEntry) Nutrients {
	var total Nutrients
	for _, b := range bucket(w, history, pending) {
		total = total.Add(b.Totals)
	}
	return total
}

// Breakdown returns per-day totals for every day in w, zero-filled, oldest
// first.
func Breakdown(w Window, history, pending []MealEntry) []DayTotals {
	buckets := bucket(w, history, pending)
	dates := w.Dates()
	out := make([]DayTotals, len(dates))
	for i, d := range dates {
		key := d.Format(time.DateOnly)
		b := buckets[key]
		b.Date = key
		out[i] = b
	}
	return out
}

// OnDay filters entries down to the given calendar day.
func OnDay(day time.Time, entries []MealEntry) []MealEntry {
	target := Day(day)
	var out []MealEntry
	for _, e := range entries {
		if Day(e.Date).Equal(target) {
			out = append(out, e)
		}
	}
	return out
}
