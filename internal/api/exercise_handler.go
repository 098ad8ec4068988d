package api

import (
	"fmt"
	"net/http"
	"time"

	"alcyxob/routine-planner/internal/domain"
	"alcyxob/routine-planner/internal/repository"
	"alcyxob/routine-planner/internal/service"
	"alcyxob/routine-planner/internal/storage"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise catalog service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateExerciseRequest defines the expected JSON for adding a catalog entry.
type CreateExerciseRequest struct {
	Name                  string   `json:"name" binding:"required"`
	Description           string   `json:"description"`
	MovementType          string   `json:"movementType" binding:"omitempty"`
	PrimaryMuscleGroup    string   `json:"primaryMuscleGroup" binding:"omitempty"`
	SecondaryMuscleGroups []string `json:"secondaryMuscleGroups" binding:"omitempty"`
	Equipment             string   `json:"equipment" binding:"omitempty"`
	Difficulty            string   `json:"difficulty" binding:"omitempty"`
	Instructions          string   `json:"instructions" binding:"omitempty"`
	ImageURL              string   `json:"imageUrl" binding:"omitempty,url"`
}

// UpdateExerciseRequest carries partial catalog updates; absent fields are
// left untouched.
type UpdateExerciseRequest struct {
	Name                  *string  `json:"name"`
	Description           *string  `json:"description"`
	MovementType          *string  `json:"movementType"`
	PrimaryMuscleGroup    *string  `json:"primaryMuscleGroup"`
	SecondaryMuscleGroups []string `json:"secondaryMuscleGroups"`
	Equipment             *string  `json:"equipment"`
	Difficulty            *string  `json:"difficulty"`
	Instructions          *string  `json:"instructions"`
	ImageURL              *string  `json:"imageUrl" binding:"omitempty"`
}

// VideoUploadRequest carries the content type the client will PUT with.
type VideoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// ExerciseResponse is the DTO for returning catalog entries.
type ExerciseResponse struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Description           string    `json:"description,omitempty"`
	MovementType          string    `json:"movementType,omitempty"`
	PrimaryMuscleGroup    string    `json:"primaryMuscleGroup,omitempty"`
	SecondaryMuscleGroups []string  `json:"secondaryMuscleGroups,omitempty"`
	Equipment             string    `json:"equipment,omitempty"`
	Difficulty            string    `json:"difficulty,omitempty"`
	Instructions          string    `json:"instructions,omitempty"`
	ImageURL              string    `json:"imageUrl,omitempty"`
	HasVideo              bool      `json:"hasVideo"`
	IsActive              bool      `json:"isActive"`
	CreatedBy             *string   `json:"createdBy,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	resp := ExerciseResponse{
		ID:                    ex.ID.Hex(),
		Name:                  ex.Name,
		Description:           ex.Description,
		MovementType:          ex.MovementType,
		PrimaryMuscleGroup:    ex.PrimaryMuscleGroup,
		SecondaryMuscleGroups: ex.SecondaryMuscleGroups,
		Equipment:             ex.Equipment,
		Difficulty:            ex.Difficulty,
		Instructions:          ex.Instructions,
		ImageURL:              ex.ImageURL,
		HasVideo:              ex.VideoObjectKey != "",
		IsActive:              ex.IsActive,
		CreatedAt:             ex.CreatedAt,
		UpdatedAt:             ex.UpdatedAt,
	}
	if ex.CreatedBy != nil {
		createdBy := ex.CreatedBy.Hex()
		resp.CreatedBy = &createdBy
	}
	return resp
}

// MapExercisesToResponse converts a slice of domain.Exercise to response DTOs.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

// --- Handler Methods ---

// CreateExercise adds a new entry to the shared catalog.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), userID, service.CreateExerciseInput{
		Name:                  req.Name,
		Description:           req.Description,
		MovementType:          req.MovementType,
		PrimaryMuscleGroup:    req.PrimaryMuscleGroup,
		SecondaryMuscleGroups: req.SecondaryMuscleGroups,
		Equipment:             req.Equipment,
		Difficulty:            req.Difficulty,
		Instructions:          req.Instructions,
		ImageURL:              req.ImageURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, MapExerciseToResponse(exercise))
}

// ListExercises returns catalog entries matching the query string filters.
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	filter := repository.ExerciseFilter{
		Name:               c.Query("name"),
		MovementType:       c.Query("movementType"),
		PrimaryMuscleGroup: c.Query("primaryMuscleGroup"),
		Equipment:          c.Query("equipment"),
		Difficulty:         c.Query("difficulty"),
		IncludeInactive:    c.Query("includeInactive") == "true",
	}

	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, MapExercisesToResponse(exercises))
}

// GetExercise retrieves a single catalog entry.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "exerciseId")
	if !ok {
		return
	}

	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), exerciseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, MapExerciseToResponse(exercise))
}

// UpdateExercise applies partial changes to a catalog entry.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "exerciseId")
	if !ok {
		return
	}

	var req UpdateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), exerciseID, service.UpdateExerciseInput{
		Name:                  req.Name,
		Description:           req.Description,
		MovementType:          req.MovementType,
		PrimaryMuscleGroup:    req.PrimaryMuscleGroup,
		SecondaryMuscleGroups: req.SecondaryMuscleGroups,
		Equipment:             req.Equipment,
		Difficulty:            req.Difficulty,
		Instructions:          req.Instructions,
		ImageURL:              req.ImageURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, MapExerciseToResponse(exercise))
}

// DeactivateExercise soft-deletes a catalog entry. Existing routine
// references keep resolving.
func (h *ExerciseHandler) DeactivateExercise(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "exerciseId")
	if !ok {
		return
	}

	if err := h.exerciseService.DeactivateExercise(c.Request.Context(), exerciseID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RequestVideoUpload returns a presigned PUT URL for a demo video.
func (h *ExerciseHandler) RequestVideoUpload(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "exerciseId")
	if !ok {
		return
	}

	var req VideoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ticket, err := h.exerciseService.RequestVideoUpload(c.Request.Context(), exerciseID, req.ContentType)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondDataMessage(c, http.StatusOK, ticket, "Upload the video with an HTTP PUT to the returned URL.")
}

// GetVideoDownloadURL returns a presigned GET URL for the stored demo video.
func (h *ExerciseHandler) GetVideoDownloadURL(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "exerciseId")
	if !ok {
		return
	}

	url, err := h.exerciseService.GetVideoDownloadURL(c.Request.Context(), exerciseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"downloadUrl": url,
		"expiresIn":   fmt.Sprintf("%.0fs", storage.DefaultPresignedURLExpiry.Seconds()),
	})
}
