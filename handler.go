package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler holds shared dependencies for all route handlers. tips and events
// are optional; a nil value disables caching or event publishing.
type Handler struct {
	db     *pgxpool.Pool
	ai     *aiClient
	tips   tipsCache
	events mealEventPublisher
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](pool *pgxpool.Pool, c *gin.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(c, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
// An empty result is returned as a non-nil slice so it encodes as [].
func queryMany[T any](pool *pgxpool.Pool, c *gin.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(c, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
		return nil, err
	}
	if results == nil {
		results = []T{}
	}
	return results, nil
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// pathID parses a positive integer route parameter. Writes a 400 and returns
// ok=false when it isn't one.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		apiError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// loadDog fetches the dog named by the :id route param, scoped to the
// authenticated user. Writes the error response itself and returns ok=false
// on any failure, so handlers can simply return.
func (h *Handler) loadDog(c *gin.Context) (dog, bool) {
	dogID, ok := pathID(c, "id")
	if !ok {
		return dog{}, false
	}
	d, err := queryOne[dog](h.db, c,
		"SELECT * FROM dogs WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": dogID, "userID": c.GetInt("user_id")})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "dog not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch dog")
		}
		return dog{}, false
	}
	d.populateTargets()
	return d, true
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// newDBPool creates a connection pool. We use a pool (not a single conn) because
// Neon closes idle connections after ~5 minutes.
func newDBPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from Neon's server-side prepared statement cache after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.GET("/api/health", h.health)
	router.POST("/api/login", h.login)
	router.GET("/api/foods", h.listFoods)
	router.GET("/api/foods/:name", h.getFood)
	router.POST("/api/nutrition/daily", h.scoreDailyStateless)
	router.POST("/api/nutrition/score", h.scoreWindowStateless)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/dogs", h.listDogs)
	api.POST("/dogs", h.createDog)
	api.GET("/dogs/:id", h.getDog)
	api.PATCH("/dogs/:id", h.patchDog)
	api.DELETE("/dogs/:id", h.deleteDog)
	api.GET("/dogs/:id/meals", h.listMeals)
	api.POST("/dogs/:id/meals", h.createMeal)
	api.DELETE("/dogs/:id/meals/:mealId", h.deleteMeal)
	api.GET("/dogs/:id/weigh-ins", h.listWeighIns)
	api.POST("/dogs/:id/weigh-ins", h.upsertWeighIn)
	api.DELETE("/dogs/:id/weigh-ins/:weighInId", h.deleteWeighIn)
	api.GET("/dogs/:id/nutrition/daily", h.getDailyNutrition)
	api.GET("/dogs/:id/nutrition/window", h.getWindowNutrition)
	api.POST("/dogs/:id/nutrition/window", h.getWindowNutrition)
	api.POST("/ai/tips", h.requestTips)
}

// health reports liveness. GET /api/health (public).
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
