// Package nutrition is the scoring core: nutrient aggregation, RER/MER-based
// targets, band and calcium:phosphorus scores, and remaining gaps. Every
// function here is a pure transform over its arguments and never returns an
// error; bad inputs are coerced to zero.
package nutrition

import (
	"math"
	"time"
)

// Nutrient names as they appear in JSON maps and gap messages.
const (
	Protein    = "protein"
	Fat        = "fat"
	Carbs      = "carbs"
	Calories   = "calories"
	Fiber      = "fiber"
	Calcium    = "calcium"
	Phosphorus = "phosphorus"
)

// Names lists every tracked nutrient in display order.
var Names = []string{Protein, Fat, Carbs, Calories, Fiber, Calcium, Phosphorus}

// Nutrients is a record of the tracked nutrient amounts. Grams for everything
// except Calories (kcal). Used for meal contents, totals and targets alike.
type Nutrients struct {
	Protein    float64 `json:"protein"    yaml:"protein"`
	Fat        float64 `json:"fat"        yaml:"fat"`
	Carbs      float64 `json:"carbs"      yaml:"carbs"`
	Calories   float64 `json:"calories"   yaml:"calories"`
	Fiber      float64 `json:"fiber"      yaml:"fiber"`
	Calcium    float64 `json:"calcium"    yaml:"calcium"`
	Phosphorus float64 `json:"phosphorus" yaml:"phosphorus"`
}

// MealEntry is one logged meal or supplement. Only the calendar day of Date
// is significant.
type MealEntry struct {
	Date         time.Time
	IsSupplement bool
	Nutrients
}

// Add returns the field-wise sum of n and o after coercing both.
func (n Nutrients) Add(o Nutrients) Nutrients {
	a, b := n.Sanitized(), o.Sanitized()
	return Nutrients{
		Protein:    a.Protein + b.Protein,
		Fat:        a.Fat + b.Fat,
		Carbs:      a.Carbs + b.Carbs,
		Calories:   a.Calories + b.Calories,
		Fiber:      a.Fiber + b.Fiber,
		Calcium:    a.Calcium + b.Calcium,
		Phosphorus: a.Phosphorus + b.Phosphorus,
	}
}

// Scale multiplies every field by f. A non-positive or non-finite factor
// yields zero.
func (n Nutrients) Scale(f float64) Nutrients {
	f = amount(f)
	s := n.Sanitized()
	return Nutrients{
		Protein:    s.Protein * f,
		Fat:        s.Fat * f,
		Carbs:      s.Carbs * f,
		Calories:   s.Calories * f,
		Fiber:      s.Fiber * f,
		Calcium:    s.Calcium * f,
		Phosphorus: s.Phosphorus * f,
	}
}

// Sanitized replaces negative, NaN and infinite fields with zero.
func (n Nutrients) Sanitized() Nutrients {
	return Nutrients{
		Protein:    amount(n.Protein),
		Fat:        amount(n.Fat),
		Carbs:      amount(n.Carbs),
		Calories:   amount(n.Calories),
		Fiber:      amount(n.Fiber),
		Calcium:    amount(n.Calcium),
		Phosphorus: amount(n.Phosphorus),
	}
}

// Get returns the named nutrient, or 0 for an unknown name.
func (n Nutrients) Get(name string) float64 {
	switch name {
	case Protein:
		return n.Protein
	case Fat:
		return n.Fat
	case Carbs:
		return n.Carbs
	case Calories:
		return n.Calories
	case Fiber:
		return n.Fiber
	case Calcium:
		return n.Calcium
	case Phosphorus:
		return n.Phosphorus
	}
	return 0
}

// Map returns the record keyed by nutrient name.
func (n Nutrients) Map() map[string]float64 {
	m := make(map[string]float64, len(Names))
	for _, name := range Names {
		m[name] = n.Get(name)
	}
	return m
}

// amount coerces a value to a usable non-negative quantity.
func amount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
