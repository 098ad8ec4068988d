package api

import (
	"net/http"

	"alcyxob/routine-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// RoutineHandler holds the routine service dependency. The hierarchy domain
// types carry API-ready json tags, so handlers below return them directly
// instead of mapping through DTOs.
type RoutineHandler struct {
	routineService service.RoutineService
}

// NewRoutineHandler creates a new RoutineHandler.
func NewRoutineHandler(routineService service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineService: routineService}
}

// --- Request Structs ---

type CreateRoutineRequest struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	DurationWeeks  *int   `json:"durationWeeks" binding:"omitempty,min=1"`
	DurationMonths *int   `json:"durationMonths" binding:"omitempty,min=1"`
}

type UpdateRoutineRequest struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	DurationWeeks  *int    `json:"durationWeeks" binding:"omitempty,min=1"`
	DurationMonths *int    `json:"durationMonths" binding:"omitempty,min=1"`
}

type DuplicateRoutineRequest struct {
	Name string `json:"name" binding:"required"`
}

// --- Handler Methods ---

// CreateRoutine creates a new routine owned by the authenticated user.
func (h *RoutineHandler) CreateRoutine(c *gin.Context) {
	var req CreateRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	routine, err := h.routineService.CreateRoutine(c.Request.Context(), userID, service.CreateRoutineInput{
		Name:           req.Name,
		Description:    req.Description,
		DurationWeeks:  req.DurationWeeks,
		DurationMonths: req.DurationMonths,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, routine)
}

// ListRoutines returns the authenticated user's active routines.
func (h *RoutineHandler) ListRoutines(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	routines, err := h.routineService.ListRoutines(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, routines)
}

// GetRoutine returns one routine. With ?full=true the response is the whole
// assembled tree down to planned exercises.
func (h *RoutineHandler) GetRoutine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	routineID, ok := pathObjectID(c, "routineId")
	if !ok {
		return
	}

	if c.Query("full") == "true" {
		tree, err := h.routineService.GetFullRoutine(c.Request.Context(), userID, routineID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, tree)
		return
	}

	routine, err := h.routineService.GetRoutine(c.Request.Context(), userID, routineID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, routine)
}

// UpdateRoutine applies partial changes to a routine's own fields.
func (h *RoutineHandler) UpdateRoutine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	routineID, ok := pathObjectID(c, "routineId")
	if !ok {
		return
	}

	var req UpdateRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	routine, err := h.routineService.UpdateRoutine(c.Request.Context(), userID, routineID, service.UpdateRoutineInput{
		Name:           req.Name,
		Description:    req.Description,
		DurationWeeks:  req.DurationWeeks,
		DurationMonths: req.DurationMonths,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, routine)
}

// DeleteRoutine soft-deletes a routine. Descendants stay stored but become
// unreachable.
func (h *RoutineHandler) DeleteRoutine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	routineID, ok := pathObjectID(c, "routineId")
	if !ok {
		return
	}

	if err := h.routineService.DeleteRoutine(c.Request.Context(), userID, routineID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DuplicateRoutine deep-copies a routine and its whole tree under a new name.
func (h *RoutineHandler) DuplicateRoutine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	routineID, ok := pathObjectID(c, "routineId")
	if !ok {
		return
	}

	var req DuplicateRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	duplicate, err := h.routineService.DuplicateRoutine(c.Request.Context(), userID, routineID, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, duplicate)
}
