package api

import (
	"net/http"

	"alcyxob/routine-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// DayHandler holds the day service dependency.
type DayHandler struct {
	dayService service.DayService
}

// NewDayHandler creates a new DayHandler.
func NewDayHandler(dayService service.DayService) *DayHandler {
	return &DayHandler{dayService: dayService}
}

// --- Request Structs ---

type CreateDayRequest struct {
	DayNumber int    `json:"dayNumber" binding:"required,min=1"`
	Name      string `json:"name"`
	Notes     string `json:"notes"`
}

type UpdateDayRequest struct {
	DayNumber *int    `json:"dayNumber" binding:"omitempty,min=1"`
	Name      *string `json:"name"`
	Notes     *string `json:"notes"`
}

// --- Handler Methods ---

// CreateDay adds a day to a week. The day number must be unused within
// the week.
func (h *DayHandler) CreateDay(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	weekID, ok := pathObjectID(c, "weekId")
	if !ok {
		return
	}

	var req CreateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	day, err := h.dayService.CreateDay(c.Request.Context(), userID, weekID, service.CreateDayInput{
		DayNumber: req.DayNumber,
		Name:      req.Name,
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, day)
}

// ListDays returns a week's days sorted by day number.
func (h *DayHandler) ListDays(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	weekID, ok := pathObjectID(c, "weekId")
	if !ok {
		return
	}

	days, err := h.dayService.ListDays(c.Request.Context(), userID, weekID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, days)
}

// GetDay returns a single day.
func (h *DayHandler) GetDay(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dayID, ok := pathObjectID(c, "dayId")
	if !ok {
		return
	}

	day, err := h.dayService.GetDay(c.Request.Context(), userID, dayID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, day)
}

// UpdateDay applies partial changes to a day.
func (h *DayHandler) UpdateDay(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dayID, ok := pathObjectID(c, "dayId")
	if !ok {
		return
	}

	var req UpdateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	day, err := h.dayService.UpdateDay(c.Request.Context(), userID, dayID, service.UpdateDayInput{
		DayNumber: req.DayNumber,
		Name:      req.Name,
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, day)
}

// DeleteDay removes a day and everything under it.
func (h *DayHandler) DeleteDay(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dayID, ok := pathObjectID(c, "dayId")
	if !ok {
		return
	}

	if err := h.dayService.DeleteDay(c.Request.Context(), userID, dayID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
