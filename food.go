package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lg/fitcore-go-api/internal/domain"
	"lg/fitcore-go-api/internal/profile"
)

// dayKey resolves the user and date for a food-log request. An empty date
// means today in server time; the engine validates the format.
func (h *Handler) dayKey(c *gin.Context, date string) domain.DayKey {
	date = strings.TrimSpace(date)
	if date == "" {
		date = h.now().Format("2006-01-02")
	}
	return domain.DayKey{UserID: c.GetInt("user_id"), Date: date}
}

// targetsFor derives the user's daily macro targets from the stored profile.
func (h *Handler) targetsFor(c *gin.Context, userID int) (domain.MacroTargets, error) {
	p, err := h.profiles.GetProfile(c, userID)
	if err != nil {
		return domain.MacroTargets{}, err
	}
	m, err := profile.Normalize(p)
	if err != nil {
		return domain.MacroTargets{}, err
	}
	return m.Targets(), nil
}

// searchFoods ranks foods from every provider against what is left of the
// day's targets.
// GET /api/foods/search?q=...&date=YYYY-MM-DD.
func (h *Handler) searchFoods(c *gin.Context) {
	key := h.dayKey(c, c.Query("date"))
	if strings.TrimSpace(c.Query("q")) == "" {
		apiError(c, http.StatusBadRequest, "q is required")
		return
	}

	targets, err := h.targetsFor(c, key.UserID)
	if err != nil {
		respondError(c, "searchFoods", err)
		return
	}
	remaining, _, err := h.foods.Remaining(c, key, targets)
	if err != nil {
		respondError(c, "searchFoods", err)
		return
	}

	res, err := h.foods.Search(c, c.Query("q"), remaining)
	logWarnings("searchFoods", res.Diagnostics)
	if err != nil {
		respondError(c, "searchFoods", err)
		return
	}
	c.JSON(http.StatusOK, foodSearchResponse{Date: key.Date, Remaining: remaining, SearchResult: res})
}

// createFoodLogEntry commits a selected food to the day's log and returns
// the logged entry with the new remaining macros.
// POST /api/food-log/entries. Returns 201; 409 when the day changed concurrently.
func (h *Handler) createFoodLogEntry(c *gin.Context) {
	var body createFoodLogEntryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	key := h.dayKey(c, body.Date)

	targets, err := h.targetsFor(c, key.UserID)
	if err != nil {
		respondError(c, "createFoodLogEntry", err)
		return
	}
	res, err := h.foods.Commit(c, key, targets, body.Food, body.Servings)
	if err != nil {
		respondError(c, "createFoodLogEntry", err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// getDailyLog returns a day's entries, targets, consumed totals and
// remaining macros.
// GET /api/food-log/daily?date=YYYY-MM-DD.
func (h *Handler) getDailyLog(c *gin.Context) {
	key := h.dayKey(c, c.Query("date"))

	targets, err := h.targetsFor(c, key.UserID)
	if err != nil {
		respondError(c, "getDailyLog", err)
		return
	}
	remaining, day, err := h.foods.Remaining(c, key, targets)
	if err != nil {
		respondError(c, "getDailyLog", err)
		return
	}

	c.JSON(http.StatusOK, dailyLogResponse{
		Date:    key.Date,
		Targets: targets,
		Consumed: domain.MacroTargets{
			Calories: targets.Calories - remaining.Calories,
			ProteinG: targets.ProteinG - remaining.ProteinG,
			CarbsG:   targets.CarbsG - remaining.CarbsG,
			FatG:     targets.FatG - remaining.FatG,
		},
		Remaining: remaining,
		Entries:   day.Entries,
		Version:   day.Version,
	})
}
