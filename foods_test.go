package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Yuzzyuk/nutripup-sub000/internal/nutrition"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFoodsTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := Handler{}
	router := gin.New()
	router.GET("/api/foods", h.listFoods)
	router.GET("/api/foods/:name", h.getFood)
	return router
}

func doGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListFoods_Category(t *testing.T) {
	router := setupFoodsTest()

	w := doGet(router, "/api/foods?category=supplement")
	require.Equal(t, http.StatusOK, w.Code)

	var foods []nutrition.Food
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &foods))
	require.NotEmpty(t, foods)
	for _, f := range foods {
		assert.Equal(t, "supplement", f.Category)
	}
}

func TestListFoods_UnknownCategoryIsEmptyList(t *testing.T) {
	router := setupFoodsTest()

	w := doGet(router, "/api/foods?category=candy")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetFood_WithPortion(t *testing.T) {
	router := setupFoodsTest()

	w := doGet(router, "/api/foods/Chicken%20Breast%20(cooked)?grams=50")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Food    nutrition.Food      `json:"food"`
		Grams   float64             `json:"grams"`
		Portion nutrition.Nutrients `json:"portion"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Chicken Breast (cooked)", resp.Food.Name)
	assert.Equal(t, 50.0, resp.Grams)
	assert.InDelta(t, 15.5, resp.Portion.Protein, 1e-9)
}

func TestGetFood_Errors(t *testing.T) {
	router := setupFoodsTest()

	assert.Equal(t, http.StatusNotFound, doGet(router, "/api/foods/unicorn").Code)
	assert.Equal(t, http.StatusBadRequest, doGet(router, "/api/foods/Peas?grams=-5").Code)
	assert.Equal(t, http.StatusBadRequest, doGet(router, "/api/foods/Peas?grams=lots").Code)
}
