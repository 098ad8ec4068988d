package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alcyxob/routine-planner/internal/domain"
	"alcyxob/routine-planner/internal/repository"
	"alcyxob/routine-planner/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound   = fmt.Errorf("exercise %w", ErrNotFound)
	ErrExerciseName       = fmt.Errorf("%w: exercise name cannot be empty", ErrValidation)
	ErrExerciseDifficulty = fmt.Errorf("%w: unknown difficulty", ErrValidation)
	ErrExerciseMovement   = fmt.Errorf("%w: unknown movement type", ErrValidation)
	ErrNoVideoAttached    = fmt.Errorf("%w: exercise has no video", ErrValidation)
)

// CreateExerciseInput carries the fields accepted when adding a catalog entry.
type CreateExerciseInput struct {
	Name                  string
	Description           string
	MovementType          string
	PrimaryMuscleGroup    string
	SecondaryMuscleGroups []string
	Equipment             string
	Difficulty            string
	Instructions          string
	ImageURL              string
}

// UpdateExerciseInput carries partial updates; nil fields are left untouched.
type UpdateExerciseInput struct {
	Name                  *string
	Description           *string
	MovementType          *string
	PrimaryMuscleGroup    *string
	SecondaryMuscleGroups []string
	Equipment             *string
	Difficulty            *string
	Instructions          *string
	ImageURL              *string
}

// VideoUploadTicket is handed to clients so they can PUT the video bytes
// directly against object storage.
type VideoUploadTicket struct {
	ObjectKey string `json:"objectKey"`
	UploadURL string `json:"uploadUrl"`
}

// ExerciseService manages the shared exercise catalog. Deleting an entry only
// deactivates it: existing routine references keep resolving, but the entry
// can no longer be added to blocks.
type ExerciseService interface {
	CreateExercise(ctx context.Context, userID primitive.ObjectID, input CreateExerciseInput) (*domain.Exercise, error)
	GetExercise(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, exerciseID primitive.ObjectID, input UpdateExerciseInput) (*domain.Exercise, error)
	DeactivateExercise(ctx context.Context, exerciseID primitive.ObjectID) error
	// RequestVideoUpload reserves an object key and returns a presigned PUT
	// URL; the key is stored on the exercise immediately.
	RequestVideoUpload(ctx context.Context, exerciseID primitive.ObjectID, contentType string) (*VideoUploadTicket, error)
	// GetVideoDownloadURL returns a presigned GET URL for the stored video.
	GetVideoDownloadURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error)
}

// --- Service Implementation ---

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
	}
}

// CreateExercise adds a new active catalog entry.
func (s *exerciseService) CreateExercise(ctx context.Context, userID primitive.ObjectID, input CreateExerciseInput) (*domain.Exercise, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrExerciseName
	}
	if err := validateMovementType(input.MovementType); err != nil {
		return nil, err
	}
	if err := validateDifficulty(input.Difficulty); err != nil {
		return nil, err
	}

	exercise := &domain.Exercise{
		Name:                  strings.TrimSpace(input.Name),
		Description:           input.Description,
		MovementType:          input.MovementType,
		PrimaryMuscleGroup:    input.PrimaryMuscleGroup,
		SecondaryMuscleGroups: input.SecondaryMuscleGroups,
		Equipment:             input.Equipment,
		Difficulty:            input.Difficulty,
		Instructions:          input.Instructions,
		ImageURL:              input.ImageURL,
		IsActive:              true,
	}
	if userID != primitive.NilObjectID {
		exercise.CreatedBy = &userID
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = exerciseID
	return exercise, nil
}

// GetExercise retrieves a single catalog entry, active or not. Deactivated
// entries stay readable so existing routines can still render them.
func (s *exerciseService) GetExercise(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// ListExercises returns catalog entries matching the filter.
func (s *exerciseService) ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx, filter)
}

// UpdateExercise applies partial changes to a catalog entry.
func (s *exerciseService) UpdateExercise(ctx context.Context, exerciseID primitive.ObjectID, input UpdateExerciseInput) (*domain.Exercise, error) {
	exercise, err := s.GetExercise(ctx, exerciseID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrExerciseName
		}
		exercise.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		exercise.Description = *input.Description
	}
	if input.MovementType != nil {
		if err := validateMovementType(*input.MovementType); err != nil {
			return nil, err
		}
		exercise.MovementType = *input.MovementType
	}
	if input.PrimaryMuscleGroup != nil {
		exercise.PrimaryMuscleGroup = *input.PrimaryMuscleGroup
	}
	if input.SecondaryMuscleGroups != nil {
		exercise.SecondaryMuscleGroups = input.SecondaryMuscleGroups
	}
	if input.Equipment != nil {
		exercise.Equipment = *input.Equipment
	}
	if input.Difficulty != nil {
		if err := validateDifficulty(*input.Difficulty); err != nil {
			return nil, err
		}
		exercise.Difficulty = *input.Difficulty
	}
	if input.Instructions != nil {
		exercise.Instructions = *input.Instructions
	}
	if input.ImageURL != nil {
		exercise.ImageURL = *input.ImageURL
	}

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// DeactivateExercise soft-deletes a catalog entry. Routines that already
// reference it keep working; AddExercise rejects it from then on.
func (s *exerciseService) DeactivateExercise(ctx context.Context, exerciseID primitive.ObjectID) error {
	exercise, err := s.GetExercise(ctx, exerciseID)
	if err != nil {
		return err
	}
	if !exercise.IsActive {
		return nil // Already deactivated, idempotent
	}
	exercise.IsActive = false
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}

// RequestVideoUpload stores a fresh object key on the exercise and returns a
// presigned PUT URL for it. A previously attached video is removed from
// storage on a best-effort basis before the key is replaced.
func (s *exerciseService) RequestVideoUpload(ctx context.Context, exerciseID primitive.ObjectID, contentType string) (*VideoUploadTicket, error) {
	exercise, err := s.GetExercise(ctx, exerciseID)
	if err != nil {
		return nil, err
	}

	if exercise.VideoObjectKey != "" {
		_ = s.fileStorage.DeleteObject(ctx, exercise.VideoObjectKey)
	}

	objectKey := fmt.Sprintf("exercises/%s/videos/%s", exercise.ID.Hex(), uuid.NewString())
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	exercise.VideoObjectKey = objectKey
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return nil, err
	}

	return &VideoUploadTicket{ObjectKey: objectKey, UploadURL: uploadURL}, nil
}

// GetVideoDownloadURL returns a presigned GET URL for the exercise's video.
func (s *exerciseService) GetVideoDownloadURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error) {
	exercise, err := s.GetExercise(ctx, exerciseID)
	if err != nil {
		return "", err
	}
	if exercise.VideoObjectKey == "" {
		return "", ErrNoVideoAttached
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, exercise.VideoObjectKey, storage.DefaultPresignedURLExpiry)
}

func validateMovementType(movementType string) error {
	switch movementType {
	case "", domain.MovementPush, domain.MovementPull, domain.MovementSquat,
		domain.MovementHinge, domain.MovementCarry, domain.MovementOther:
		return nil
	}
	return ErrExerciseMovement
}

func validateDifficulty(difficulty string) error {
	switch difficulty {
	case "", domain.DifficultyBeginner, domain.DifficultyIntermediate, domain.DifficultyAdvanced:
		return nil
	}
	return ErrExerciseDifficulty
}
