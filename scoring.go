package main

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Yuzzyuk/nutripup-sub000/internal/nutrition"
	"github.com/gin-gonic/gin"
)

// maxWindowDays caps how far back a window report may reach.
const maxWindowDays = 90

var errInvalidDays = errors.New("days must be between 1 and 90")

// windowRequest is the body for the window endpoints. Pending meals are
// today's entries the client hasn't saved yet; they count toward the anchor
// day.
type windowRequest struct {
	End     string      `json:"end"`
	Days    int         `json:"days"`
	Pending []mealInput `json:"pending"`
}

// statelessWindowRequest is the body for POST /api/nutrition/score.
type statelessWindowRequest struct {
	windowRequest
	Profile profileInput `json:"profile"`
	Meals   []mealInput  `json:"meals"`
}

// statelessDailyRequest is the body for POST /api/nutrition/daily.
type statelessDailyRequest struct {
	Date    string       `json:"date"`
	Profile profileInput `json:"profile"`
	Meals   []mealInput  `json:"meals"`
}

// window resolves end/days (query params take precedence over the body) into
// a nutrition.Window.
func (r windowRequest) window(c *gin.Context) (nutrition.Window, error) {
	end := r.End
	if q := c.Query("end"); q != "" {
		end = q
	}
	anchor := time.Now()
	if end != "" {
		d, err := parseDate(end)
		if err != nil {
			return nutrition.Window{}, errInvalidDate
		}
		anchor = d
	}

	days := r.Days
	if q := c.Query("days"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return nutrition.Window{}, errInvalidDays
		}
		days = n
	}
	if days == 0 {
		days = nutrition.DefaultWindowDays
	}
	if days < 1 || days > maxWindowDays {
		return nutrition.Window{}, errInvalidDays
	}
	return nutrition.LastNDays(anchor, days), nil
}

// bindOptionalJSON binds a JSON body when one was sent. An empty body is not
// an error so GET and bodiless POST share a handler.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// getDailyNutrition returns totals, targets, progress, gaps and scores for
// one day. GET /api/dogs/:id/nutrition/daily?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDailyNutrition(c *gin.Context) {
	d, ok := h.loadDog(c)
	if !ok {
		return
	}

	day, err := parseDate(c.DefaultQuery("date", time.Now().Format(time.DateOnly)))
	if err != nil {
		apiError(c, http.StatusBadRequest, errInvalidDate.Error())
		return
	}

	meals, err := h.mealsInRange(c, d.ID, day, day)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meals")
		return
	}

	c.JSON(http.StatusOK, nutrition.BuildDaily(d.profile(), day, toEntries(meals)))
}

// getWindowNutrition returns the rolling-window adequacy report.
// GET  /api/dogs/:id/nutrition/window?end=YYYY-MM-DD&days=7
// POST /api/dogs/:id/nutrition/window with {"pending": [...]} to include
// unsaved entries in the anchor day.
func (h *Handler) getWindowNutrition(c *gin.Context) {
	d, ok := h.loadDog(c)
	if !ok {
		return
	}

	var body windowRequest
	if err := bindOptionalJSON(c, &body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	w, err := body.window(c)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	pending, err := resolveAll(body.Pending, w.End)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	meals, err := h.mealsInRange(c, d.ID, w.Start(), w.End)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meals")
		return
	}

	c.JSON(http.StatusOK, nutrition.BuildWindow(d.profile(), w, toEntries(meals), pending))
}

// scoreWindowStateless scores a window from data supplied entirely in the
// body. POST /api/nutrition/score (public). Meals without a date fall on the
// anchor day.
func (h *Handler) scoreWindowStateless(c *gin.Context) {
	var body statelessWindowRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	w, err := body.window(c)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	history, err := resolveAll(body.Meals, w.End)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	pending, err := resolveAll(body.Pending, w.End)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, nutrition.BuildWindow(body.Profile.profile(), w, history, pending))
}

// scoreDailyStateless is the daily counterpart of scoreWindowStateless.
// POST /api/nutrition/daily (public).
func (h *Handler) scoreDailyStateless(c *gin.Context) {
	var body statelessDailyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	day := nutrition.Day(time.Now())
	if body.Date != "" {
		d, err := parseDate(body.Date)
		if err != nil {
			apiError(c, http.StatusBadRequest, errInvalidDate.Error())
			return
		}
		day = d
	}
	meals, err := resolveAll(body.Meals, day)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, nutrition.BuildDaily(body.Profile.profile(), day, meals))
}
