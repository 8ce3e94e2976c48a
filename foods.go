package main

import (
	"net/http"
	"strconv"

	"github.com/Yuzzyuk/nutripup-sub000/internal/nutrition"
	"github.com/gin-gonic/gin"
)

// listFoods returns the static food table sorted by name.
// GET /api/foods?category=protein (category optional).
func (h *Handler) listFoods(c *gin.Context) {
	c.JSON(http.StatusOK, nutrition.Foods(c.Query("category")))
}

// getFood returns one food, optionally with a portion scaled to grams.
// GET /api/foods/:name?grams=150. Name matching ignores case.
func (h *Handler) getFood(c *gin.Context) {
	food, ok := nutrition.LookupFood(c.Param("name"))
	if !ok {
		apiError(c, http.StatusNotFound, "food not found")
		return
	}

	resp := gin.H{"food": food}
	if g := c.Query("grams"); g != "" {
		grams, err := strconv.ParseFloat(g, 64)
		if err != nil || grams < 0 {
			apiError(c, http.StatusBadRequest, "grams must be a non-negative number")
			return
		}
		resp["grams"] = grams
		resp["portion"] = food.Portion(grams)
	}
	c.JSON(http.StatusOK, resp)
}
