package main

import (
	"lg/fitcore-go-api/internal/domain"
	"lg/fitcore-go-api/internal/nutrition"
)

/* ─── Request bodies ─────────────────────────────────────────────────── */

// createPlanRequest is the request body for POST /api/plans. Pointer and nil
// fields fall back to the stored profile, so an empty body plans from the
// profile alone.
type createPlanRequest struct {
	Goal                *domain.Goal       `json:"goal"`
	Experience          *domain.Experience `json:"experience"`
	Equipment           []string           `json:"equipment"`
	FocusAreas          []string           `json:"focus_areas"`
	TrainingDaysPerWeek *int               `json:"training_days_per_week"`
	SessionMinutes      *int               `json:"session_minutes"`
	Weeks               int                `json:"weeks"`
	Seed                int64              `json:"seed"`
}

// toPlanRequest merges the body over the profile's training preferences.
func (r createPlanRequest) toPlanRequest(p domain.UserProfile) domain.PlanRequest {
	req := domain.PlanRequest{
		Goal:                p.Goal,
		Experience:          p.Experience,
		Equipment:           p.Equipment,
		FocusAreas:          p.FocusAreas,
		TrainingDaysPerWeek: p.TrainingDaysPerWeek,
		SessionMinutes:      p.SessionMinutes,
		Weeks:               r.Weeks,
		Seed:                r.Seed,
	}
	if r.Goal != nil {
		req.Goal = *r.Goal
	}
	if r.Experience != nil {
		req.Experience = *r.Experience
	}
	if r.Equipment != nil {
		req.Equipment = r.Equipment
	}
	if r.FocusAreas != nil {
		req.FocusAreas = r.FocusAreas
	}
	if r.TrainingDaysPerWeek != nil {
		req.TrainingDaysPerWeek = *r.TrainingDaysPerWeek
	}
	if r.SessionMinutes != nil {
		req.SessionMinutes = *r.SessionMinutes
	}
	return req
}

// createFoodLogEntryRequest is the request body for POST /api/food-log/entries.
// Date defaults to today when empty.
type createFoodLogEntryRequest struct {
	Date     string               `json:"date"`
	Servings float64              `json:"servings"`
	Food     domain.FoodCandidate `json:"food"`
}

/* ─── Responses ──────────────────────────────────────────────────────── */

// foodSearchResponse is the response shape for GET /api/foods/search.
type foodSearchResponse struct {
	Date      string                 `json:"date"`
	Remaining domain.RemainingMacros `json:"remaining"`
	nutrition.SearchResult
}

// dailyLogResponse is the response shape for GET /api/food-log/daily.
type dailyLogResponse struct {
	Date      string                 `json:"date"`
	Targets   domain.MacroTargets    `json:"targets"`
	Consumed  domain.MacroTargets    `json:"consumed"`
	Remaining domain.RemainingMacros `json:"remaining"`
	Entries   []domain.LoggedEntry   `json:"entries"`
	Version   int64                  `json:"version"`
}
