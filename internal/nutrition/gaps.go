package nutrition

import "math"

// Gaps returns how much of each nutrient is still needed to reach targets.
// Never negative. Calcium and phosphorus keep one decimal; the rest are
// rounded to whole units.
func Gaps(targets, totals Nutrients) Nutrients {
	t, a := targets.Sanitized(), totals.Sanitized()
	return Nutrients{
		Protein:    math.Round(gap(t.Protein, a.Protein)),
		Fat:        math.Round(gap(t.Fat, a.Fat)),
		Carbs:      math.Round(gap(t.Carbs, a.Carbs)),
		Calories:   math.Round(gap(t.Calories, a.Calories)),
		Fiber:      math.Round(gap(t.Fiber, a.Fiber)),
		Calcium:    math.Round(gap(t.Calcium, a.Calcium)*10) / 10,
		Phosphorus: math.Round(gap(t.Phosphorus, a.Phosphorus)*10) / 10,
	}
}

func gap(target, actual float64) float64 {
	return math.Max(0, target-actual)
}

// Largest returns the nutrient with the biggest remaining gap relative to its
// target, and that fraction. ok is false when nothing is missing.
func Largest(targets, gaps Nutrients) (name string, fraction float64, ok bool) {
	for _, n := range Names {
		t := amount(targets.Get(n))
		if t <= 0 {
			continue
		}
		if f := amount(gaps.Get(n)) / t; f > fraction {
			name, fraction, ok = n, f, true
		}
	}
	return name, fraction, ok
}
