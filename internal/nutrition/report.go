package nutrition

import "time"

// DailyReport is everything the daily view needs for one dog and day.
type DailyReport struct {
	Date        string    `json:"date"`
	Totals      Nutrients `json:"totals"`
	Targets     Nutrients `json:"targets"`
	Progress    Progress  `json:"progress"`
	Gaps        Nutrients `json:"gaps"`
	Scores      Scores    `json:"scores"`
	Entries     int       `json:"entries"`
	Supplements int       `json:"supplements"`
	// Focus names the nutrient furthest from its target, empty when every
	// target is met.
	Focus string `json:"focus,omitempty"`
}

// BuildDaily scores the entries that fall on day. Entries on other days are
// ignored so callers can pass a wider slice.
func BuildDaily(p DogProfile, day time.Time, entries []MealEntry) DailyReport {
	todays := OnDay(day, entries)
	totals := Sum(todays)
	targets := DailyTargets(p)
	gaps := Gaps(targets, totals)
	focus, _, _ := Largest(targets, gaps)
	return DailyReport{
		Date:        Day(day).Format(time.DateOnly),
		Totals:      totals,
		Targets:     targets,
		Progress:    ProgressOf(totals, targets),
		Gaps:        gaps,
		Scores:      Score(totals, targets),
		Entries:     len(todays),
		Supplements: countSupplements(todays),
		Focus:       focus,
	}
}

// WindowReport is the rolling-window adequacy summary.
type WindowReport struct {
	Start     string      `json:"start"`
	End       string      `json:"end"`
	Days      int         `json:"days"`
	Totals    Nutrients   `json:"totals"`
	Targets   Nutrients   `json:"targets"`
	Progress  Progress    `json:"progress"`
	Gaps      Nutrients   `json:"gaps"`
	Scores    Scores      `json:"scores"`
	Breakdown []DayTotals `json:"breakdown"`
}

// BuildWindow aggregates history inside w, folds pending into the anchor
// day, and scores the result against window-scaled targets.
func BuildWindow(p DogProfile, w Window, history, pending []MealEntry) WindowReport {
	days := w.days()
	totals := SumWindow(w, history, pending)
	targets := WindowTargets(p, days)
	return WindowReport{
		Start:     w.Start().Format(time.DateOnly),
		End:       Day(w.End).Format(time.DateOnly),
		Days:      days,
		Totals:    totals,
		Targets:   targets,
		Progress:  ProgressOf(totals, targets),
		Gaps:      Gaps(targets, totals),
		Scores:    Score(totals, targets),
		Breakdown: Breakdown(w, history, pending),
	}
}

func countSupplements(entries []MealEntry) int {
	n := 0
	for _, e := range entries {
		if e.IsSupplement {
			n++
		}
	}
	return n
}
