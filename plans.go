package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/fitcore-go-api/internal/profile"
)

// createPlan synthesizes a plan from the stored profile's metrics and the
// posted overrides, then stores it.
// POST /api/plans. Returns 201 with the plan.
func (h *Handler) createPlan(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createPlanRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.profiles.GetProfile(c, userID)
	if err != nil {
		respondError(c, "createPlan", err)
		return
	}
	m, err := profile.Normalize(p)
	if err != nil {
		respondError(c, "createPlan", err)
		return
	}

	pl, err := h.synth.Synthesize(m, body.toPlanRequest(p))
	if err != nil {
		respondError(c, "createPlan", err)
		return
	}
	pl.UserID = userID
	logWarnings("createPlan", pl.Notes)

	if err := h.plans.CreatePlan(c, pl); err != nil {
		respondError(c, "createPlan", err)
		return
	}
	c.JSON(http.StatusCreated, pl)
}

// listPlans returns the user's plans, newest first.
// GET /api/plans.
func (h *Handler) listPlans(c *gin.Context) {
	userID := c.GetInt("user_id")

	plans, err := h.plans.ListPlans(c, userID)
	if err != nil {
		respondError(c, "listPlans", err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// getPlan returns one of the user's plans.
// GET /api/plans/:id.
func (h *Handler) getPlan(c *gin.Context) {
	userID := c.GetInt("user_id")

	pl, err := h.plans.GetPlan(c, userID, c.Param("id"))
	if err != nil {
		respondError(c, "getPlan", err)
		return
	}
	c.JSON(http.StatusOK, pl)
}

// deletePlan removes one of the user's plans.
// DELETE /api/plans/:id. Returns 204.
func (h *Handler) deletePlan(c *gin.Context) {
	userID := c.GetInt("user_id")

	if err := h.plans.DeletePlan(c, userID, c.Param("id")); err != nil {
		respondError(c, "deletePlan", err)
		return
	}
	c.Status(http.StatusNoContent)
}
