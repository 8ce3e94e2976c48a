package main

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/Yuzzyuk/nutripup-sub000/internal/nutrition"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// validHealthFocus is the set of tags a dog profile may carry. Tags are
// informational only; they never change the computed targets.
var validHealthFocus = map[string]bool{
	"weight_management": true,
	"joint_health":      true,
	"skin_coat":         true,
	"digestion":         true,
	"dental":            true,
	"allergies":         true,
	"kidney":            true,
	"senior":            true,
	"puppy_growth":      true,
	"energy":            true,
}

// maxWeightKG bounds accepted weights; anything heavier is a typo.
const maxWeightKG = 200

var (
	errInvalidWeight        = errors.New("weight must be greater than 0 and at most 200 kg (441 lb)")
	errInvalidWeightUnit    = errors.New("weight_unit must be one of: kg, lb")
	errInvalidActivityLevel = errors.New("activity_level must be one of: Low, Moderate, High")
)

// normalizeWeight validates a weight/unit pair and returns the canonical unit.
// An empty unit means kg.
func normalizeWeight(weight float64, unit string) (nutrition.WeightUnit, error) {
	u := nutrition.Kilograms
	if strings.TrimSpace(unit) != "" {
		parsed, ok := nutrition.ParseWeightUnit(unit)
		if !ok {
			return "", errInvalidWeightUnit
		}
		u = parsed
	}
	p := nutrition.DogProfile{Weight: weight, WeightUnit: u}
	if weight <= 0 || p.WeightKG() > maxWeightKG {
		return "", errInvalidWeight
	}
	return u, nil
}

// normalizeActivity validates an activity level, defaulting empty to Moderate.
func normalizeActivity(level string) (nutrition.ActivityLevel, error) {
	if strings.TrimSpace(level) == "" {
		return nutrition.ActivityModerate, nil
	}
	parsed, ok := nutrition.ParseActivityLevel(level)
	if !ok {
		return "", errInvalidActivityLevel
	}
	return parsed, nil
}

// normalizeHealthFocus lowercases, de-duplicates and sorts tags, rejecting
// unknown ones.
func normalizeHealthFocus(tags []string) ([]string, error) {
	seen := make(map[string]bool, len(tags))
	out := []string{}
	for _, t := range tags {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag == "" || seen[tag] {
			continue
		}
		if !validHealthFocus[tag] {
			return nil, fmt.Errorf("unknown health_focus tag %q", t)
		}
		seen[tag] = true
		out = append(out, tag)
	}
	sort.Strings(out)
	return out, nil
}

// listDogs returns every dog owned by the authenticated user.
// GET /api/dogs.
func (h *Handler) listDogs(c *gin.Context) {
	dogs, err := queryMany[dog](h.db, c,
		"SELECT * FROM dogs WHERE user_id = @userID ORDER BY created_at, id",
		pgx.NamedArgs{"userID": c.GetInt("user_id")})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch dogs")
		return
	}
	for i := range dogs {
		dogs[i].populateTargets()
	}
	c.JSON(http.StatusOK, dogs)
}

// getDog returns one dog profile with its computed daily targets.
// GET /api/dogs/:id.
func (h *Handler) getDog(c *gin.Context) {
	d, ok := h.loadDog(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, d)
}

// createDog stores a new dog profile.
// POST /api/dogs. name and weight are required; weight_unit defaults to kg
// and activity_level to Moderate.
func (h *Handler) createDog(c *gin.Context) {
	var body createDogRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}
	unit, err := normalizeWeight(body.Weight, body.WeightUnit)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	level, err := normalizeActivity(body.ActivityLevel)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	tags, err := normalizeHealthFocus(body.HealthFocus)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	if body.BirthDate != nil {
		if _, err := parseDate(*body.BirthDate); err != nil {
			apiError(c, http.StatusBadRequest, "invalid birth_date, expected YYYY-MM-DD")
			return
		}
	}

	d, err := queryOne[dog](h.db, c,
		`INSERT INTO dogs (user_id, name, breed, birth_date, weight, weight_unit, activity_level, health_focus)
		 VALUES (@userID, @name, @breed, @birthDate, @weight, @weightUnit, @activityLevel, @healthFocus)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": c.GetInt("user_id"), "name": body.Name, "breed": body.Breed,
			"birthDate": body.BirthDate, "weight": body.Weight, "weightUnit": string(unit),
			"activityLevel": string(level), "healthFocus": tags,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create dog")
		return
	}

	d.populateTargets()
	c.JSON(http.StatusCreated, d)
}

// patchDog updates only the provided profile fields.
// PATCH /api/dogs/:id. Uses pointer fields in the request body to distinguish
// "not provided" from zero. Weight and unit are validated together against the
// stored values so a unit change alone can't produce an out-of-range weight.
func (h *Handler) patchDog(c *gin.Context) {
	current, ok := h.loadDog(c)
	if !ok {
		return
	}

	var body patchDogRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	setClauses := []string{}
	args := pgx.NamedArgs{"id": current.ID, "userID": current.UserID}

	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			apiError(c, http.StatusBadRequest, "name must not be empty")
			return
		}
		setClauses = append(setClauses, "name = @name")
		args["name"] = name
	}
	if body.Breed != nil {
		setClauses = append(setClauses, "breed = @breed")
		args["breed"] = *body.Breed
	}
	if body.BirthDate != nil {
		if _, err := parseDate(*body.BirthDate); err != nil {
			apiError(c, http.StatusBadRequest, "invalid birth_date, expected YYYY-MM-DD")
			return
		}
		setClauses = append(setClauses, "birth_date = @birthDate")
		args["birthDate"] = *body.BirthDate
	}
	if body.Weight != nil || body.WeightUnit != nil {
		weight, unit := current.Weight, current.WeightUnit
		if body.Weight != nil {
			weight = *body.Weight
		}
		if body.WeightUnit != nil {
			unit = *body.WeightUnit
		}
		u, err := normalizeWeight(weight, unit)
		if err != nil {
			apiError(c, http.StatusBadRequest, err.Error())
			return
		}
		setClauses = append(setClauses, "weight = @weight", "weight_unit = @weightUnit")
		args["weight"] = weight
		args["weightUnit"] = string(u)
	}
	if body.ActivityLevel != nil {
		level, err := normalizeActivity(*body.ActivityLevel)
		if err != nil {
			apiError(c, http.StatusBadRequest, err.Error())
			return
		}
		setClauses = append(setClauses, "activity_level = @activityLevel")
		args["activityLevel"] = string(level)
	}
	if body.HealthFocus != nil {
		tags, err := normalizeHealthFocus(*body.HealthFocus)
		if err != nil {
			apiError(c, http.StatusBadRequest, err.Error())
			return
		}
		setClauses = append(setClauses, "health_focus = @healthFocus")
		args["healthFocus"] = tags
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	query := "UPDATE dogs SET " + strings.Join(setClauses, ", ") +
		", updated_at = now() WHERE id = @id AND user_id = @userID RETURNING *"

	d, err := queryOne[dog](h.db, c, query, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update dog")
		return
	}

	d.populateTargets()
	c.JSON(http.StatusOK, d)
}

// deleteDog removes a dog and, through ON DELETE CASCADE, its meals and
// weigh-ins. DELETE /api/dogs/:id. Returns 204 on success.
func (h *Handler) deleteDog(c *gin.Context) {
	dogID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM dogs WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": dogID, "userID": c.GetInt("user_id")})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete dog")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "dog not found")
		return
	}

	c.Status(http.StatusNoContent)
}
