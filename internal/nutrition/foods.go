package nutrition

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed foods.yaml
var foodsYAML []byte

// Food is one row of the static nutrition table.
type Food struct {
	Name     string    `json:"name"     yaml:"name"`
	Category string    `json:"category" yaml:"category"`
	Per100g  Nutrients `json:"per_100g" yaml:"per_100g"`
}

// IsSupplement reports whether the food is logged as a supplement by default.
func (f Food) IsSupplement() bool {
	return f.Category == "supplement"
}

// Portion scales the per-100 g record to grams.
func (f Food) Portion(grams float64) Nutrients {
	return f.Per100g.Scale(amount(grams) / 100)
}

// foodTable is keyed by normalized name and never mutated after init.
var foodTable = mustLoadFoods(foodsYAML)

func mustLoadFoods(data []byte) map[string]Food {
	foods, err := parseFoods(data)
	if err != nil {
		panic(err)
	}
	return foods
}

func parseFoods(data []byte) (map[string]Food, error) {
	var rows []Food
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode food table: %w", err)
	}
	table := make(map[string]Food, len(rows))
	for _, f := range rows {
		key := foodKey(f.Name)
		if key == "" {
			return nil, fmt.Errorf("food table: row with empty name")
		}
		if _, dup := table[key]; dup {
			return nil, fmt.Errorf("food table: duplicate food %q", f.Name)
		}
		f.Per100g = f.Per100g.Sanitized()
		table[key] = f
	}
	return table, nil
}

func foodKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// LookupFood finds a food by name, ignoring case and extra whitespace.
func LookupFood(name string) (Food, bool) {
	f, ok := foodTable[foodKey(name)]
	return f, ok
}

// Foods returns a copy of the table sorted by name, optionally limited to a
// category.
func Foods(category string) []Food {
	out := make([]Food, 0, len(foodTable))
	for _, f := range foodTable {
		if category != "" && !strings.EqualFold(f.Category, category) {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
