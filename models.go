package main

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Yuzzyuk/nutripup-sub000/internal/nutrition"
	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(time.DateOnly) + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

// parseDate parses a YYYY-MM-DD query or body value.
func parseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}

// amount is a lenient JSON number used for nutrient fields. Numbers and
// numeric strings decode normally; anything else (text, objects, bools)
// decodes as zero instead of failing the request. Set records whether the
// field carried a value at all so explicit amounts can override food-table
// defaults.
type amount struct {
	Value float64
	Set   bool
}

func (a *amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = amount{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		var s string
		if json.Unmarshal(b, &s) == nil {
			v, _ = strconv.ParseFloat(strings.TrimSpace(s), 64)
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		v = 0
	}
	*a = amount{Value: v, Set: true}
	return nil
}

func (a amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Value)
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// dog maps to the dogs table. Targets is computed from the profile on every
// read and never stored.
type dog struct {
	ID            int        `json:"id"             db:"id"`
	UserID        int        `json:"user_id"        db:"user_id"`
	Name          string     `json:"name"           db:"name"`
	Breed         *string    `json:"breed"          db:"breed"`
	BirthDate     *DateOnly  `json:"birth_date"     db:"birth_date"`
	Weight        float64    `json:"weight"         db:"weight"`
	WeightUnit    string     `json:"weight_unit"    db:"weight_unit"`
	ActivityLevel string     `json:"activity_level" db:"activity_level"`
	HealthFocus   []string   `json:"health_focus"   db:"health_focus"`
	CreatedAt     *time.Time `json:"created_at"     db:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"     db:"updated_at"`

	Targets *nutrition.Nutrients `json:"daily_targets,omitempty" db:"-"`
}

// profile converts the stored row into the scoring core's read-only input.
func (d dog) profile() nutrition.DogProfile {
	return nutrition.DogProfile{
		Weight:        d.Weight,
		WeightUnit:    nutrition.WeightUnit(d.WeightUnit),
		ActivityLevel: nutrition.ActivityLevel(d.ActivityLevel),
		HealthFocus:   d.HealthFocus,
	}
}

// populateTargets fills the computed-only fields and normalizes a NULL tag
// array to an empty JSON list.
func (d *dog) populateTargets() {
	t := nutrition.DailyTargets(d.profile())
	d.Targets = &t
	if d.HealthFocus == nil {
		d.HealthFocus = []string{}
	}
}

// mealEntry maps to meal_entries. Rows are immutable: inserted and deleted,
// never updated.
type mealEntry struct {
	ID           int        `json:"id"            db:"id"`
	DogID        int        `json:"dog_id"        db:"dog_id"`
	Date         DateOnly   `json:"date"          db:"date"`
	ItemName     string     `json:"item_name"     db:"item_name"`
	FoodName     *string    `json:"food_name"     db:"food_name"`
	Grams        *float64   `json:"grams"         db:"grams"`
	IsSupplement bool       `json:"is_supplement" db:"is_supplement"`
	Protein      float64    `json:"protein"       db:"protein"`
	Fat          float64    `json:"fat"           db:"fat"`
	Carbs        float64    `json:"carbs"         db:"carbs"`
	Calories     float64    `json:"calories"      db:"calories"`
	Fiber        float64    `json:"fiber"         db:"fiber"`
	Calcium      float64    `json:"calcium"       db:"calcium"`
	Phosphorus   float64    `json:"phosphorus"    db:"phosphorus"`
	CreatedAt    *time.Time `json:"created_at"    db:"created_at"`
}

func (m mealEntry) toEntry() nutrition.MealEntry {
	return nutrition.MealEntry{
		Date:         m.Date.Time,
		IsSupplement: m.IsSupplement,
		Nutrients: nutrition.Nutrients{
			Protein:    m.Protein,
			Fat:        m.Fat,
			Carbs:      m.Carbs,
			Calories:   m.Calories,
			Fiber:      m.Fiber,
			Calcium:    m.Calcium,
			Phosphorus: m.Phosphorus,
		},
	}
}

func toEntries(rows []mealEntry) []nutrition.MealEntry {
	out := make([]nutrition.MealEntry, len(rows))
	for i, r := range rows {
		out[i] = r.toEntry()
	}
	return out
}

// weighIn maps to weigh_ins. One row per dog per date.
type weighIn struct {
	ID         int        `json:"id"          db:"id"`
	DogID      int        `json:"dog_id"      db:"dog_id"`
	Date       DateOnly   `json:"date"        db:"date"`
	Weight     float64    `json:"weight"      db:"weight"`
	WeightUnit string     `json:"weight_unit" db:"weight_unit"`
	CreatedAt  *time.Time `json:"created_at"  db:"created_at"`
}

/* ─── Request bodies ─────────────────────────────────────────────────── */

// mealInput is a meal as sent by the client, either for logging or for the
// stateless scoring endpoints. When Food names a table entry the nutrient
// fields are filled from the table scaled to Grams (default 100); any field
// the client sent explicitly wins.
type mealInput struct {
	Date         string  `json:"date"`
	ItemName     string  `json:"item_name"`
	Food         string  `json:"food"`
	Grams        amount  `json:"grams"`
	IsSupplement *bool   `json:"is_supplement"`
	Protein      amount  `json:"protein"`
	Fat          amount  `json:"fat"`
	Carbs        amount  `json:"carbs"`
	Calories     amount  `json:"calories"`
	Fiber        amount  `json:"fiber"`
	Calcium      amount  `json:"calcium"`
	Phosphorus   amount  `json:"phosphorus"`
}

// createDogRequest is the request body for POST /api/dogs.
type createDogRequest struct {
	Name          string   `json:"name"`
	Breed         *string  `json:"breed"`
	BirthDate     *string  `json:"birth_date"` // YYYY-MM-DD
	Weight        float64  `json:"weight"`
	WeightUnit    string   `json:"weight_unit"`
	ActivityLevel string   `json:"activity_level"`
	HealthFocus   []string `json:"health_focus"`
}

// patchDogRequest is the request body for PATCH /api/dogs/:id. All fields are
// pointers so only the ones sent get written.
type patchDogRequest struct {
	Name          *string   `json:"name"`
	Breed         *string   `json:"breed"`
	BirthDate     *string   `json:"birth_date"`
	Weight        *float64  `json:"weight"`
	WeightUnit    *string   `json:"weight_unit"`
	ActivityLevel *string   `json:"activity_level"`
	HealthFocus   *[]string `json:"health_focus"`
}

// profileInput is the dog profile sent to the stateless scoring endpoints.
// Missing or invalid values fall back to the scoring defaults.
type profileInput struct {
	Weight        amount   `json:"weight"`
	WeightUnit    string   `json:"weight_unit"`
	ActivityLevel string   `json:"activity_level"`
	HealthFocus   []string `json:"health_focus"`
}

func (p profileInput) profile() nutrition.DogProfile {
	unit, _ := nutrition.ParseWeightUnit(p.WeightUnit)
	level, _ := nutrition.ParseActivityLevel(p.ActivityLevel)
	return nutrition.DogProfile{
		Weight:        p.Weight.Value,
		WeightUnit:    unit,
		ActivityLevel: level,
		HealthFocus:   p.HealthFocus,
	}
}
