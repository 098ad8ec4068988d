package api

import (
	"net/http"

	"alcyxob/routine-planner/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutineExerciseHandler holds the planned-exercise service dependency.
type RoutineExerciseHandler struct {
	reService service.RoutineExerciseService
}

// NewRoutineExerciseHandler creates a new RoutineExerciseHandler.
func NewRoutineExerciseHandler(reService service.RoutineExerciseService) *RoutineExerciseHandler {
	return &RoutineExerciseHandler{reService: reService}
}

// --- Request Structs ---

type AddRoutineExerciseRequest struct {
	ExerciseID       string   `json:"exerciseId" binding:"required"`
	Order            *int     `json:"order" binding:"omitempty,min=1"`
	Sets             *int     `json:"sets" binding:"omitempty,min=1"`
	Repetitions      string   `json:"repetitions"`
	Weight           *float64 `json:"weight" binding:"omitempty,min=0"`
	WeightPercentage *float64 `json:"weightPercentage" binding:"omitempty,min=0,max=100"`
	Tempo            string   `json:"tempo"`
	RestSeconds      *int     `json:"restSeconds" binding:"omitempty,min=0"`
	Notes            string   `json:"notes"`
}

type UpdateRoutineExerciseRequest struct {
	Order            *int     `json:"order" binding:"omitempty,min=1"`
	Sets             *int     `json:"sets" binding:"omitempty,min=1"`
	Repetitions      *string  `json:"repetitions"`
	Weight           *float64 `json:"weight" binding:"omitempty,min=0"`
	WeightPercentage *float64 `json:"weightPercentage" binding:"omitempty,min=0,max=100"`
	Tempo            *string  `json:"tempo"`
	RestSeconds      *int     `json:"restSeconds" binding:"omitempty,min=0"`
	Notes            *string  `json:"notes"`
}

// --- Handler Methods ---

// AddExercise plans a catalog exercise inside a block.
func (h *RoutineExerciseHandler) AddExercise(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	blockID, ok := pathObjectID(c, "blockId")
	if !ok {
		return
	}

	var req AddRoutineExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exerciseId format.")
		return
	}

	re, err := h.reService.AddExercise(c.Request.Context(), userID, blockID, service.CreateRoutineExerciseInput{
		ExerciseID:       exerciseID,
		Order:            req.Order,
		Sets:             req.Sets,
		Repetitions:      req.Repetitions,
		Weight:           req.Weight,
		WeightPercentage: req.WeightPercentage,
		Tempo:            req.Tempo,
		RestSeconds:      req.RestSeconds,
		Notes:            req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, re)
}

// ListExercises returns a block's planned exercises sorted by order.
func (h *RoutineExerciseHandler) ListExercises(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	blockID, ok := pathObjectID(c, "blockId")
	if !ok {
		return
	}

	exercises, err := h.reService.ListExercises(c.Request.Context(), userID, blockID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, exercises)
}

// GetExercise returns a single planned exercise.
func (h *RoutineExerciseHandler) GetExercise(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	reID, ok := pathObjectID(c, "routineExerciseId")
	if !ok {
		return
	}

	re, err := h.reService.GetExercise(c.Request.Context(), userID, reID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, re)
}

// UpdateExercise applies partial prescription changes.
func (h *RoutineExerciseHandler) UpdateExercise(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	reID, ok := pathObjectID(c, "routineExerciseId")
	if !ok {
		return
	}

	var req UpdateRoutineExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	re, err := h.reService.UpdateExercise(c.Request.Context(), userID, reID, service.UpdateRoutineExerciseInput{
		Order:            req.Order,
		Sets:             req.Sets,
		Repetitions:      req.Repetitions,
		Weight:           req.Weight,
		WeightPercentage: req.WeightPercentage,
		Tempo:            req.Tempo,
		RestSeconds:      req.RestSeconds,
		Notes:            req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, re)
}

// DeleteExercise removes a planned exercise from its block.
func (h *RoutineExerciseHandler) DeleteExercise(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	reID, ok := pathObjectID(c, "routineExerciseId")
	if !ok {
		return
	}

	if err := h.reService.DeleteExercise(c.Request.Context(), userID, reID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ReorderExercises rewrites the order of every planned exercise in the
// block. The request must list exactly the block's current entries.
func (h *RoutineExerciseHandler) ReorderExercises(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	blockID, ok := pathObjectID(c, "blockId")
	if !ok {
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	orderedIDs, ok := req.parseOrderedIDs(c)
	if !ok {
		return
	}

	exercises, err := h.reService.ReorderExercises(c.Request.Context(), userID, blockID, orderedIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, exercises)
}
