package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"lg/fitcore-go-api/internal/domain"
	"lg/fitcore-go-api/internal/nutrition"
	"lg/fitcore-go-api/internal/plan"
	"lg/fitcore-go-api/internal/store"
)

// userStore resolves logins and bearer tokens.
type userStore interface {
	UserByUsername(ctx context.Context, username string) (store.User, error)
	UserIDByToken(ctx context.Context, token string) (int, error)
}

// Handler holds shared dependencies (stores, core engines) for all route handlers.
type Handler struct {
	users    userStore
	profiles domain.ProfileStore
	plans    domain.PlanStore
	synth    *plan.Synthesizer
	foods    *nutrition.Engine
	now      func() time.Time // overridable for tests
}

/* ─── Error responses ─────────────────────────────────────────────────── */

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// errorStatus maps an error's domain kind to an HTTP status.
func errorStatus(err error) int {
	var de *domain.Error
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}
	switch de.Kind {
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindCommitConflict:
		return http.StatusConflict
	case domain.KindInsufficientCatalog:
		return http.StatusUnprocessableEntity
	case domain.KindNoProvidersAvailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error": ..., "kind": ...}. Internal errors are
// logged with tag and hidden from the client.
func respondError(c *gin.Context, tag string, err error) {
	status := errorStatus(err)
	var de *domain.Error
	if status == http.StatusInternalServerError || !errors.As(err, &de) {
		log.Printf("[%s] %v", tag, err)
		apiError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": de.Kind})
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// newHandler wires stores, providers and core engines from cfg. The returned
// func releases the database pool, if any.
func newHandler(ctx context.Context, cfg config) (*Handler, func(), error) {
	catalog := plan.DefaultCatalog()
	if cfg.ExerciseCatalog != "" {
		var err error
		if catalog, err = plan.LoadCatalogFile(cfg.ExerciseCatalog); err != nil {
			return nil, nil, fmt.Errorf("load exercise catalog: %w", err)
		}
		log.Printf("[setup] exercise catalog loaded from %s (%d entries)", cfg.ExerciseCatalog, len(catalog.Exercises))
	}

	var sources []nutrition.Source
	if cfg.BrandedFoodURL != "" {
		sources = append(sources, nutrition.NewBrandedClient(cfg.BrandedFoodURL, cfg.BrandedFoodAPIKey))
	}
	if cfg.OpenFoodURL != "" {
		sources = append(sources, nutrition.NewOpenDatabaseClient(cfg.OpenFoodURL, "fitcore-go-api/1.0"))
	}
	if len(sources) == 0 {
		log.Printf("[setup] no food providers configured; food search will return 503")
	}

	h := &Handler{synth: plan.New(catalog), now: time.Now}
	cleanup := func() {}
	var foodLog domain.NutritionLog

	if cfg.DBURL != "" {
		pool, err := store.Connect(ctx, cfg.DBURL)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[setup] DB pool ready")
		pg := store.NewPostgres(pool)
		h.users, h.profiles, h.plans, foodLog = pg, pg, pg, pg
		cleanup = pool.Close
	} else {
		mem := store.NewMemory()
		if cfg.DevUsername != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DevPassword), bcrypt.DefaultCost)
			if err != nil {
				return nil, nil, fmt.Errorf("hash dev password: %w", err)
			}
			u := mem.AddUser(store.User{Username: cfg.DevUsername, Password: string(hash), AuthToken: uuid.NewString()})
			log.Printf("[setup] in-memory dev user %q (id %d), token %s", u.Username, u.ID, u.AuthToken)
		}
		log.Printf("[setup] DB_URL not set; using in-memory stores")
		h.users, h.profiles, h.plans, foodLog = mem, mem, mem, mem
	}

	h.foods = nutrition.New(foodLog, sources, nutrition.WithProviderTimeout(cfg.ProviderTimeout))
	return h, cleanup, nil
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/profile", h.getProfile)
	api.PUT("/profile", h.putProfile)
	api.GET("/profile/metrics", h.getProfileMetrics)
	api.POST("/metrics", h.computeMetrics)
	api.POST("/plans", h.createPlan)
	api.GET("/plans", h.listPlans)
	api.GET("/plans/:id", h.getPlan)
	api.DELETE("/plans/:id", h.deletePlan)
	api.GET("/foods/search", h.searchFoods)
	api.POST("/food-log/entries", h.createFoodLogEntry)
	api.GET("/food-log/daily", h.getDailyLog)
}
