package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// listWeighIns returns a dog's weigh-ins within [start, end], oldest first.
// GET /api/dogs/:id/weigh-ins?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params required.
func (h *Handler) listWeighIns(c *gin.Context) {
	d, ok := h.loadDog(c)
	if !ok {
		return
	}
	if c.Query("start") == "" || c.Query("end") == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return
	}
	start, end, ok := dayOrRange(c)
	if !ok {
		return
	}

	entries, err := queryMany[weighIn](h.db, c,
		`SELECT * FROM weigh_ins
		 WHERE dog_id = @dogID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{
			"dogID": d.ID,
			"start": start.Format(time.DateOnly),
			"end":   end.Format(time.DateOnly),
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weigh-ins")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// upsertWeighIn records the dog's weight for a date and makes it the
// profile's current weight when it is the most recent weigh-in.
// POST /api/dogs/:id/weigh-ins. Body: {"date": "YYYY-MM-DD", "weight": 12.4, "weight_unit": "kg"}.
// UNIQUE(dog_id, date) means posting the same date updates in place.
func (h *Handler) upsertWeighIn(c *gin.Context) {
	d, ok := h.loadDog(c)
	if !ok {
		return
	}

	var body struct {
		Date       string  `json:"date"`
		Weight     float64 `json:"weight"`
		WeightUnit string  `json:"weight_unit"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date == "" {
		body.Date = time.Now().Format(time.DateOnly)
	}
	if _, err := parseDate(body.Date); err != nil {
		apiError(c, http.StatusBadRequest, errInvalidDate.Error())
		return
	}
	if body.WeightUnit == "" {
		body.WeightUnit = d.WeightUnit
	}
	unit, err := normalizeWeight(body.Weight, body.WeightUnit)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := h.db.Begin(c)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save weigh-in")
		return
	}
	defer tx.Rollback(c)

	rows, err := tx.Query(c,
		`INSERT INTO weigh_ins (dog_id, date, weight, weight_unit)
		 VALUES (@dogID, @date, @weight, @weightUnit)
		 ON CONFLICT (dog_id, date) DO UPDATE
		   SET weight = EXCLUDED.weight, weight_unit = EXCLUDED.weight_unit
		 RETURNING *`,
		pgx.NamedArgs{"dogID": d.ID, "date": body.Date, "weight": body.Weight, "weightUnit": string(unit)})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save weigh-in")
		return
	}
	entry, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[weighIn])
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save weigh-in")
		return
	}

	// Only the latest weigh-in drives the profile weight; back-filling an old
	// date must not overwrite a newer reading.
	if _, err := tx.Exec(c,
		`UPDATE dogs SET weight = @weight, weight_unit = @weightUnit, updated_at = now()
		 WHERE id = @dogID
		   AND NOT EXISTS (SELECT 1 FROM weigh_ins WHERE dog_id = @dogID AND date > @date)`,
		pgx.NamedArgs{"dogID": d.ID, "date": body.Date, "weight": body.Weight, "weightUnit": string(unit)}); err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update dog weight")
		return
	}

	if err := tx.Commit(c); err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save weigh-in")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// deleteWeighIn removes a weigh-in. The profile weight is left as is.
// DELETE /api/dogs/:id/weigh-ins/:weighInId. Returns 204 on success, 404 if not found.
func (h *Handler) deleteWeighIn(c *gin.Context) {
	d, ok := h.loadDog(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "weighInId")
	if !ok {
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM weigh_ins WHERE id = @id AND dog_id = @dogID",
		pgx.NamedArgs{"id": id, "dogID": d.ID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete weigh-in")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "weigh-in not found")
		return
	}

	c.Status(http.StatusNoContent)
}
