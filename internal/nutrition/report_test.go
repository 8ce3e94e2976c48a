package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDaily(t *testing.T) {
	p := DogProfile{Weight: 10, ActivityLevel: ActivityModerate}
	entries := []MealEntry{
		entry("2026-03-10", Nutrients{Protein: 20, Calories: 400, Calcium: 0.5, Phosphorus: 0.4}),
		{Date: date("2026-03-10"), IsSupplement: true, Nutrients: Nutrients{Calcium: 0.2}},
		entry("2026-03-09", Nutrients{Protein: 1000}),
	}

	r := BuildDaily(p, date("2026-03-10"), entries)
	assert.Equal(t, "2026-03-10", r.Date)
	assert.Equal(t, 2, r.Entries)
	assert.Equal(t, 1, r.Supplements)
	assert.Equal(t, 20.0, r.Totals.Protein)
	assert.Equal(t, 80, r.Progress.Protein)
	assert.Equal(t, 5.0, r.Gaps.Protein)
	// fat and fiber are untouched so they lead the gap list; fat and fiber
	// both sit at 100% missing, fat comes first in display order
	assert.Equal(t, Fat, r.Focus)
}

func TestBuildWindow(t *testing.T) {
	// 1 kg keeps the weekly mineral targets at 0.49 g / 0.42 g
	p := DogProfile{Weight: 1}
	w := LastNDays(date("2026-03-10"), 7)
	history := []MealEntry{
		entry("2026-03-05", Nutrients{Calcium: 0.3, Phosphorus: 0.22}),
	}
	pending := []MealEntry{{Nutrients: Nutrients{Calcium: 0.2, Phosphorus: 0.2}}}

	r := BuildWindow(p, w, history, pending)
	assert.Equal(t, "2026-03-04", r.Start)
	assert.Equal(t, "2026-03-10", r.End)
	assert.Equal(t, 7, r.Days)
	require.Len(t, r.Breakdown, 7)
	assert.InDelta(t, 0.5, r.Totals.Calcium, 1e-9)
	assert.InDelta(t, 0.42, r.Totals.Phosphorus, 1e-9)
	assert.InDelta(t, 0.49, r.Targets.Calcium, 1e-9)
	assert.Equal(t, 100, r.Scores.Minerals)
	assert.Equal(t, 60, r.Scores.Vitamins)
}
