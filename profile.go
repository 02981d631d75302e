package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/fitcore-go-api/internal/domain"
	"lg/fitcore-go-api/internal/profile"
)

// getProfile returns the authenticated user's stored profile.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := h.profiles.GetProfile(c, userID)
	if err != nil {
		respondError(c, "getProfile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// putProfile replaces the authenticated user's profile. The profile must
// normalize cleanly, so every stored profile can be planned and tracked
// against. Returns the saved profile with its metrics.
// PUT /api/profile.
func (h *Handler) putProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var p domain.UserProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	p.UserID = userID

	m, err := profile.Normalize(p)
	if err != nil {
		respondError(c, "putProfile", err)
		return
	}
	if err := h.profiles.SaveProfile(c, p); err != nil {
		respondError(c, "putProfile", err)
		return
	}
	logWarnings("putProfile", m.Warnings)

	c.JSON(http.StatusOK, gin.H{"profile": p, "metrics": m})
}

// getProfileMetrics normalizes the stored profile.
// GET /api/profile/metrics.
func (h *Handler) getProfileMetrics(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := h.profiles.GetProfile(c, userID)
	if err != nil {
		respondError(c, "getProfileMetrics", err)
		return
	}
	m, err := profile.Normalize(p)
	if err != nil {
		respondError(c, "getProfileMetrics", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// computeMetrics normalizes a posted profile without storing it.
// POST /api/metrics.
func (h *Handler) computeMetrics(c *gin.Context) {
	var p domain.UserProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	m, err := profile.Normalize(p)
	if err != nil {
		respondError(c, "computeMetrics", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func logWarnings(tag string, ds []domain.Diagnostic) {
	for _, d := range ds {
		if d.Source != "" {
			log.Printf("[%s] %s (%s): %s", tag, d.Kind, d.Source, d.Detail)
		} else {
			log.Printf("[%s] %s: %s", tag, d.Kind, d.Detail)
		}
	}
}
