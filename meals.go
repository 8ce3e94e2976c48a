package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Yuzzyuk/nutripup-sub000/internal/nutrition"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

var (
	errInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
	errUnknownFood = errors.New("unknown food")
)

// defaultPortionGrams is used when a meal names a food but no grams.
const defaultPortionGrams = 100

// resolvedMeal is a mealInput after date parsing and food-table lookup.
type resolvedMeal struct {
	entry    nutrition.MealEntry
	itemName string
	foodName *string
	grams    *float64
}

// resolve turns client input into a scoring entry. An empty date means
// fallback. Nutrient fields start from the named food's portion, then any
// explicit field overrides the table value.
func (in mealInput) resolve(fallback time.Time) (resolvedMeal, error) {
	r := resolvedMeal{itemName: strings.TrimSpace(in.ItemName)}
	r.entry.Date = fallback
	if in.Date != "" {
		d, err := parseDate(in.Date)
		if err != nil {
			return r, errInvalidDate
		}
		r.entry.Date = d
	}

	if name := strings.TrimSpace(in.Food); name != "" {
		food, ok := nutrition.LookupFood(name)
		if !ok {
			return r, fmt.Errorf("%w: %q", errUnknownFood, name)
		}
		grams := float64(defaultPortionGrams)
		if in.Grams.Set {
			grams = in.Grams.Value
		}
		r.entry.Nutrients = food.Portion(grams)
		r.entry.IsSupplement = food.IsSupplement()
		r.foodName = &food.Name
		r.grams = &grams
		if r.itemName == "" {
			r.itemName = food.Name
		}
	}

	override := func(dst *float64, a amount) {
		if a.Set {
			*dst = a.Value
		}
	}
	n := &r.entry.Nutrients
	override(&n.Protein, in.Protein)
	override(&n.Fat, in.Fat)
	override(&n.Carbs, in.Carbs)
	override(&n.Calories, in.Calories)
	override(&n.Fiber, in.Fiber)
	override(&n.Calcium, in.Calcium)
	override(&n.Phosphorus, in.Phosphorus)
	r.entry.Nutrients = n.Sanitized()

	if in.IsSupplement != nil {
		r.entry.IsSupplement = *in.IsSupplement
	}
	return r, nil
}

// resolveAll resolves a batch, stopping at the first bad entry. The returned
// error names the entry's index.
func resolveAll(inputs []mealInput, fallback time.Time) ([]nutrition.MealEntry, error) {
	out := make([]nutrition.MealEntry, 0, len(inputs))
	for i, in := range inputs {
		r, err := in.resolve(fallback)
		if err != nil {
			return nil, fmt.Errorf("meal %d: %w", i, err)
		}
		out = append(out, r.entry)
	}
	return out, nil
}

// mealsInRange loads a dog's meals for [start, end], oldest first.
func (h *Handler) mealsInRange(c *gin.Context, dogID int, start, end time.Time) ([]mealEntry, error) {
	return queryMany[mealEntry](h.db, c,
		`SELECT * FROM meal_entries
		 WHERE dog_id = @dogID AND date >= @start AND date <= @end
		 ORDER BY date, created_at, id`,
		pgx.NamedArgs{
			"dogID": dogID,
			"start": start.Format(time.DateOnly),
			"end":   end.Format(time.DateOnly),
		})
}

// listMeals returns a dog's logged meals for one day or a date range.
// GET /api/dogs/:id/meals?date=YYYY-MM-DD (defaults to today), or
// ?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *Handler) listMeals(c *gin.Context) {
	d, ok := h.loadDog(c)
	if !ok {
		return
	}

	start, end, ok := dayOrRange(c)
	if !ok {
		return
	}

	meals, err := h.mealsInRange(c, d.ID, start, end)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meals")
		return
	}
	c.JSON(http.StatusOK, meals)
}

// dayOrRange reads either ?start&end or ?date (default today) from the query.
// Writes a 400 and returns ok=false on bad input.
func dayOrRange(c *gin.Context) (start, end time.Time, ok bool) {
	if s, e := c.Query("start"), c.Query("end"); s != "" || e != "" {
		if s == "" || e == "" {
			apiError(c, http.StatusBadRequest, "start and end must be given together")
			return start, end, false
		}
		var err error
		if start, err = parseDate(s); err != nil {
			apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
			return start, end, false
		}
		if end, err = parseDate(e); err != nil {
			apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
			return start, end, false
		}
		if start.After(end) {
			apiError(c, http.StatusBadRequest, "start must not be after end")
			return start, end, false
		}
		return start, end, true
	}

	day, err := parseDate(c.DefaultQuery("date", time.Now().Format(time.DateOnly)))
	if err != nil {
		apiError(c, http.StatusBadRequest, errInvalidDate.Error())
		return start, end, false
	}
	return day, day, true
}

// createMeal logs a meal or supplement for a dog.
// POST /api/dogs/:id/meals. Defaults date to today. Either item_name or a
// food from the table is required.
func (h *Handler) createMeal(c *gin.Context) {
	d, ok := h.loadDog(c)
	if !ok {
		return
	}

	var body mealInput
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	r, err := body.resolve(nutrition.Day(time.Now()))
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	if r.itemName == "" {
		apiError(c, http.StatusBadRequest, "item_name or food is required")
		return
	}

	n := r.entry.Nutrients
	meal, err := queryOne[mealEntry](h.db, c,
		`INSERT INTO meal_entries (dog_id, date, item_name, food_name, grams, is_supplement,
		                           protein, fat, carbs, calories, fiber, calcium, phosphorus)
		 VALUES (@dogID, @date, @itemName, @foodName, @grams, @isSupplement,
		         @protein, @fat, @carbs, @calories, @fiber, @calcium, @phosphorus)
		 RETURNING *`,
		pgx.NamedArgs{
			"dogID":        d.ID,
			"date":         r.entry.Date.Format(time.DateOnly),
			"itemName":     r.itemName,
			"foodName":     r.foodName,
			"grams":        r.grams,
			"isSupplement": r.entry.IsSupplement,
			"protein":      n.Protein,
			"fat":          n.Fat,
			"carbs":        n.Carbs,
			"calories":     n.Calories,
			"fiber":        n.Fiber,
			"calcium":      n.Calcium,
			"phosphorus":   n.Phosphorus,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to log meal")
		return
	}

	h.publishMealEvent(c, newMealEvent(mealLogged, meal))
	c.JSON(http.StatusCreated, meal)
}

// deleteMeal removes a logged meal. Meals are never edited in place; a
// correction is a delete followed by a new entry.
// DELETE /api/dogs/:id/meals/:mealId. Returns 204 on success.
func (h *Handler) deleteMeal(c *gin.Context) {
	d, ok := h.loadDog(c)
	if !ok {
		return
	}
	mealID, ok := pathID(c, "mealId")
	if !ok {
		return
	}

	meal, err := queryOne[mealEntry](h.db, c,
		"DELETE FROM meal_entries WHERE id = @id AND dog_id = @dogID RETURNING *",
		pgx.NamedArgs{"id": mealID, "dogID": d.ID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "meal not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to delete meal")
		}
		return
	}

	h.publishMealEvent(c, newMealEvent(mealDeleted, meal))
	c.Status(http.StatusNoContent)
}
