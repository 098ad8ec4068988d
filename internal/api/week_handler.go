package api

import (
	"net/http"

	"alcyxob/routine-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// WeekHandler holds the week service dependency.
type WeekHandler struct {
	weekService service.WeekService
}

// NewWeekHandler creates a new WeekHandler.
func NewWeekHandler(weekService service.WeekService) *WeekHandler {
	return &WeekHandler{weekService: weekService}
}

// --- Request Structs ---

type CreateWeekRequest struct {
	WeekNumber int    `json:"weekNumber" binding:"required,min=1"`
	Notes      string `json:"notes"`
}

type UpdateWeekRequest struct {
	WeekNumber *int    `json:"weekNumber" binding:"omitempty,min=1"`
	Notes      *string `json:"notes"`
}

// --- Handler Methods ---

// CreateWeek adds a week to a routine. The week number must be unused
// within the routine.
func (h *WeekHandler) CreateWeek(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	routineID, ok := pathObjectID(c, "routineId")
	if !ok {
		return
	}

	var req CreateWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	week, err := h.weekService.CreateWeek(c.Request.Context(), userID, routineID, service.CreateWeekInput{
		WeekNumber: req.WeekNumber,
		Notes:      req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, week)
}

// ListWeeks returns a routine's weeks sorted by week number.
func (h *WeekHandler) ListWeeks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	routineID, ok := pathObjectID(c, "routineId")
	if !ok {
		return
	}

	weeks, err := h.weekService.ListWeeks(c.Request.Context(), userID, routineID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, weeks)
}

// GetWeek returns a single week.
func (h *WeekHandler) GetWeek(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	weekID, ok := pathObjectID(c, "weekId")
	if !ok {
		return
	}

	week, err := h.weekService.GetWeek(c.Request.Context(), userID, weekID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, week)
}

// UpdateWeek applies partial changes to a week.
func (h *WeekHandler) UpdateWeek(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	weekID, ok := pathObjectID(c, "weekId")
	if !ok {
		return
	}

	var req UpdateWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	week, err := h.weekService.UpdateWeek(c.Request.Context(), userID, weekID, service.UpdateWeekInput{
		WeekNumber: req.WeekNumber,
		Notes:      req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, week)
}

// DeleteWeek removes a week and everything under it.
func (h *WeekHandler) DeleteWeek(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	weekID, ok := pathObjectID(c, "weekId")
	if !ok {
		return
	}

	if err := h.weekService.DeleteWeek(c.Request.Context(), userID, weekID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
