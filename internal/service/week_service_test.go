package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWeek(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	routine := f.mustRoutine(t, "R")

	week, err := f.weekSvc.CreateWeek(ctx, f.owner, routine.ID, CreateWeekInput{WeekNumber: 1, Notes: "deload"})
	require.NoError(t, err)
	assert.Equal(t, routine.ID, week.RoutineID)
	assert.Equal(t, 1, week.WeekNumber)

	_, err = f.weekSvc.CreateWeek(ctx, f.owner, routine.ID, CreateWeekInput{WeekNumber: 0})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.weekSvc.CreateWeek(ctx, f.stranger, routine.ID, CreateWeekInput{WeekNumber: 2})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestCreateWeekDuplicateNumberRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	routine := f.mustRoutine(t, "R")
	f.mustWeek(t, routine.ID, 1)

	_, err := f.weekSvc.CreateWeek(ctx, f.owner, routine.ID, CreateWeekInput{WeekNumber: 1})
	assert.ErrorIs(t, err, ErrValidation)

	// The rejection leaves the sibling set unchanged.
	weeks, err := f.weekSvc.ListWeeks(ctx, f.owner, routine.ID)
	require.NoError(t, err)
	assert.Len(t, weeks, 1)

	// The same number is fine in a different routine.
	other := f.mustRoutine(t, "Other")
	_, err = f.weekSvc.CreateWeek(ctx, f.owner, other.ID, CreateWeekInput{WeekNumber: 1})
	assert.NoError(t, err)
}

func TestUpdateWeekNumberUniqueness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	routine := f.mustRoutine(t, "R")
	w1 := f.mustWeek(t, routine.ID, 1)
	f.mustWeek(t, routine.ID, 2)

	two := 2
	_, err := f.weekSvc.UpdateWeek(ctx, f.owner, w1.ID, UpdateWeekInput{WeekNumber: &two})
	assert.ErrorIs(t, err, ErrValidation)

	// Re-asserting the week's own number is not a collision.
	one := 1
	updated, err := f.weekSvc.UpdateWeek(ctx, f.owner, w1.ID, UpdateWeekInput{WeekNumber: &one})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.WeekNumber)

	three := 3
	updated, err = f.weekSvc.UpdateWeek(ctx, f.owner, w1.ID, UpdateWeekInput{WeekNumber: &three})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.WeekNumber)
}

func TestListWeeksSortedByNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	routine := f.mustRoutine(t, "R")
	f.mustWeek(t, routine.ID, 3)
	f.mustWeek(t, routine.ID, 1)
	f.mustWeek(t, routine.ID, 2)

	weeks, err := f.weekSvc.ListWeeks(ctx, f.owner, routine.ID)
	require.NoError(t, err)
	require.Len(t, weeks, 3)
	for i, w := range weeks {
		assert.Equal(t, i+1, w.WeekNumber)
	}
}

func TestDeleteWeekCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	routine := f.mustRoutine(t, "R")
	week := f.mustWeek(t, routine.ID, 1)
	day := f.mustDay(t, week.ID, 1)
	block := f.mustBlock(t, day.ID, "Main")
	squat := f.mustCatalogExercise(t, "Squat")
	planned := f.mustPlanned(t, block.ID, squat.ID)

	keepWeek := f.mustWeek(t, routine.ID, 2)
	keepDay := f.mustDay(t, keepWeek.ID, 1)

	require.NoError(t, f.weekSvc.DeleteWeek(ctx, f.owner, week.ID))

	// The whole subtree is gone.
	_, err := f.weekSvc.GetWeek(ctx, f.owner, week.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.daySvc.GetDay(ctx, f.owner, day.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.blockSvc.GetBlock(ctx, f.owner, block.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.plannedSvc.GetExercise(ctx, f.owner, planned.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Siblings and the catalog entry survive.
	_, err = f.daySvc.GetDay(ctx, f.owner, keepDay.ID)
	assert.NoError(t, err)
	_, err = f.exerciseSvc.GetExercise(ctx, squat.ID)
	assert.NoError(t, err)
}

func TestDeleteWeekRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	routine := f.mustRoutine(t, "R")
	week := f.mustWeek(t, routine.ID, 1)

	err := f.weekSvc.DeleteWeek(ctx, f.stranger, week.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// The rejected delete changed nothing.
	_, err = f.weekSvc.GetWeek(ctx, f.owner, week.ID)
	assert.NoError(t, err)
}
