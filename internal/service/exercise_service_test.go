package service

import (
	"context"
	"strings"
	"testing"

	"alcyxob/routine-planner/internal/domain"
	"alcyxob/routine-planner/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCatalogExercise(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	exercise, err := f.exerciseSvc.CreateExercise(ctx, f.owner, CreateExerciseInput{
		Name:               "  Back Squat  ",
		MovementType:       domain.MovementSquat,
		PrimaryMuscleGroup: "quads",
		Difficulty:         domain.DifficultyIntermediate,
	})
	require.NoError(t, err)
	assert.Equal(t, "Back Squat", exercise.Name)
	assert.True(t, exercise.IsActive)
	require.NotNil(t, exercise.CreatedBy)
	assert.Equal(t, f.owner, *exercise.CreatedBy)

	_, err = f.exerciseSvc.CreateExercise(ctx, f.owner, CreateExerciseInput{Name: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.exerciseSvc.CreateExercise(ctx, f.owner, CreateExerciseInput{Name: "X", MovementType: "cartwheel"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.exerciseSvc.CreateExercise(ctx, f.owner, CreateExerciseInput{Name: "X", Difficulty: "impossible"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListExercisesFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mustCatalogExercise(t, "Back Squat")
	f.mustCatalogExercise(t, "Front Squat")
	bench := f.mustCatalogExercise(t, "Bench Press")
	require.NoError(t, f.exerciseSvc.DeactivateExercise(ctx, bench.ID))

	all, err := f.exerciseSvc.ListExercises(ctx, repository.ExerciseFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2) // Deactivated entries are hidden by default

	withInactive, err := f.exerciseSvc.ListExercises(ctx, repository.ExerciseFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, withInactive, 3)

	squats, err := f.exerciseSvc.ListExercises(ctx, repository.ExerciseFilter{Name: "squat"})
	require.NoError(t, err)
	require.Len(t, squats, 2)
	for _, ex := range squats {
		assert.True(t, strings.Contains(strings.ToLower(ex.Name), "squat"))
	}
}

func TestDeactivateExerciseIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exercise := f.mustCatalogExercise(t, "Squat")

	require.NoError(t, f.exerciseSvc.DeactivateExercise(ctx, exercise.ID))
	require.NoError(t, f.exerciseSvc.DeactivateExercise(ctx, exercise.ID))

	got, err := f.exerciseSvc.GetExercise(ctx, exercise.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestVideoUploadAndDownload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exercise := f.mustCatalogExercise(t, "Squat")

	// No video yet.
	_, err := f.exerciseSvc.GetVideoDownloadURL(ctx, exercise.ID)
	assert.ErrorIs(t, err, ErrValidation)

	ticket, err := f.exerciseSvc.RequestVideoUpload(ctx, exercise.ID, "video/mp4")
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.ObjectKey)
	assert.Contains(t, ticket.UploadURL, ticket.ObjectKey)

	url, err := f.exerciseSvc.GetVideoDownloadURL(ctx, exercise.ID)
	require.NoError(t, err)
	assert.Contains(t, url, ticket.ObjectKey)

	// A second upload replaces the object and removes the old one.
	replacement, err := f.exerciseSvc.RequestVideoUpload(ctx, exercise.ID, "video/mp4")
	require.NoError(t, err)
	assert.NotEqual(t, ticket.ObjectKey, replacement.ObjectKey)
	assert.Contains(t, f.storage.deleted, ticket.ObjectKey)
}

func TestUpdateCatalogExercise(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exercise := f.mustCatalogExercise(t, "Squat")

	name := "Low-bar Squat"
	equipment := "barbell"
	updated, err := f.exerciseSvc.UpdateExercise(ctx, exercise.ID, UpdateExerciseInput{
		Name:      &name,
		Equipment: &equipment,
	})
	require.NoError(t, err)
	assert.Equal(t, "Low-bar Squat", updated.Name)
	assert.Equal(t, "barbell", updated.Equipment)

	blank := " "
	_, err = f.exerciseSvc.UpdateExercise(ctx, exercise.ID, UpdateExerciseInput{Name: &blank})
	assert.ErrorIs(t, err, ErrValidation)
}
