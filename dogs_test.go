package main

import (
	"testing"

	"github.com/Yuzzyuk/nutripup-sub000/internal/nutrition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWeight(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		unit   string
		want   nutrition.WeightUnit
		err    error
	}{
		{"empty unit is kg", 12, "", nutrition.Kilograms, nil},
		{"pounds", 30, "LB", nutrition.Pounds, nil},
		{"zero", 0, "kg", "", errInvalidWeight},
		{"negative", -3, "kg", "", errInvalidWeight},
		{"too heavy kg", 201, "kg", "", errInvalidWeight},
		{"heavy but fine in lb", 400, "lb", nutrition.Pounds, nil},
		{"bad unit", 10, "stone", "", errInvalidWeightUnit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeWeight(tt.weight, tt.unit)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeActivity(t *testing.T) {
	got, err := normalizeActivity("")
	require.NoError(t, err)
	assert.Equal(t, nutrition.ActivityModerate, got)

	got, err = normalizeActivity("high")
	require.NoError(t, err)
	assert.Equal(t, nutrition.ActivityHigh, got)

	_, err = normalizeActivity("couch potato")
	assert.ErrorIs(t, err, errInvalidActivityLevel)
}

func TestNormalizeHealthFocus(t *testing.T) {
	got, err := normalizeHealthFocus([]string{"Skin_Coat", "dental", " dental ", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"dental", "skin_coat"}, got)

	got, err = normalizeHealthFocus(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got)

	_, err = normalizeHealthFocus([]string{"laser_eyes"})
	assert.Error(t, err)
}
