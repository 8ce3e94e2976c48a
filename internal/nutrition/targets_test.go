package nutrition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyTargets_TenKGModerate(t *testing.T) {
	tg := DailyTargets(DogProfile{Weight: 10, WeightUnit: Kilograms, ActivityLevel: ActivityModerate})

	assert.InDelta(t, 393.64, RER(10), 0.01)
	assert.InDelta(t, 551.1, tg.Calories, 0.05)
	assert.InDelta(t, 25, tg.Protein, 1e-9)
	assert.InDelta(t, 12, tg.Fat, 1e-9)
	assert.InDelta(t, 8, tg.Fiber, 1e-9, "0.7×10 = 7 is clamped up to 8")
	assert.InDelta(t, 0.7, tg.Calcium, 1e-9)
	assert.InDelta(t, 0.6, tg.Phosphorus, 1e-9)
	assert.Zero(t, tg.Carbs)
}

func TestDailyTargets_FiberClampedHigh(t *testing.T) {
	tg := DailyTargets(DogProfile{Weight: 40})
	assert.Equal(t, 18.0, tg.Fiber)
}

func TestActivityMultiplier(t *testing.T) {
	cases := []struct {
		level ActivityLevel
		want  float64
	}{
		{ActivityLow, 1.2},
		{ActivityModerate, 1.4},
		{ActivityHigh, 1.6},
		{"high", 1.6},
		{"", 1.4},
		{"couch potato", 1.4},
	}
	for _, tc := range cases {
		t.Run(string(tc.level), func(t *testing.T) {
			assert.Equal(t, tc.want, ActivityMultiplier(tc.level))
		})
	}
}

func TestWeightKG_DefaultsAndConversion(t *testing.T) {
	cases := []struct {
		name string
		p    DogProfile
		want float64
	}{
		{"missing weight", DogProfile{}, 10},
		{"negative weight", DogProfile{Weight: -4}, 10},
		{"NaN weight", DogProfile{Weight: math.NaN()}, 10},
		{"kilograms", DogProfile{Weight: 22, WeightUnit: Kilograms}, 22},
		{"no unit means kg", DogProfile{Weight: 22}, 22},
		{"pounds", DogProfile{Weight: 22.0462, WeightUnit: Pounds}, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.p.WeightKG(), 1e-9)
		})
	}
}

func TestWindowTargets_ScalesByDays(t *testing.T) {
	p := DogProfile{Weight: 10, ActivityLevel: ActivityHigh}
	daily := DailyTargets(p)
	week := WindowTargets(p, 7)

	assert.InDelta(t, daily.Calories*7, week.Calories, 1e-9)
	assert.InDelta(t, 4.9, week.Calcium, 1e-9)
	assert.Equal(t, daily, WindowTargets(p, 0))
}

func TestParseActivityLevel(t *testing.T) {
	level, ok := ParseActivityLevel(" moderate ")
	require.True(t, ok)
	assert.Equal(t, ActivityModerate, level)

	_, ok = ParseActivityLevel("very_active")
	assert.False(t, ok)
}

func TestParseWeightUnit(t *testing.T) {
	u, ok := ParseWeightUnit("LBS")
	require.True(t, ok)
	assert.Equal(t, Pounds, u)

	_, ok = ParseWeightUnit("stone")
	assert.False(t, ok)
}
