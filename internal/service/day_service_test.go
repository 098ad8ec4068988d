package service

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	routine := f.mustRoutine(t, "R")
	week := f.mustWeek(t, routine.ID, 1)

	day, err := f.daySvc.CreateDay(ctx, f.owner, week.ID, CreateDayInput{DayNumber: 1, Name: "Push"})
	require.NoError(t, err)
	assert.Equal(t, week.ID, day.WeekID)
	// The root reference propagates down so ownership stays one lookup away.
	assert.Equal(t, routine.ID, day.RoutineID)

	_, err = f.daySvc.CreateDay(ctx, f.owner, week.ID, CreateDayInput{DayNumber: -1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.daySvc.CreateDay(ctx, f.owner, primitive.NewObjectID(), CreateDayInput{DayNumber: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.daySvc.CreateDay(ctx, f.stranger, week.ID, CreateDayInput{DayNumber: 2})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestCreateDayDuplicateNumberRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	routine := f.mustRoutine(t, "R")
	week := f.mustWeek(t, routine.ID, 1)
	f.mustDay(t, week.ID, 1)

	_, err := f.daySvc.CreateDay(ctx, f.owner, week.ID, CreateDayInput{DayNumber: 1})
	assert.ErrorIs(t, err, ErrValidation)

	days, err := f.daySvc.ListDays(ctx, f.owner, week.ID)
	require.NoError(t, err)
	assert.Len(t, days, 1)

	// The same day number in a sibling week is fine.
	week2 := f.mustWeek(t, routine.ID, 2)
	_, err = f.daySvc.CreateDay(ctx, f.owner, week2.ID, CreateDayInput{DayNumber: 1})
	assert.NoError(t, err)
}

func TestUpdateDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	routine := f.mustRoutine(t, "R")
	week := f.mustWeek(t, routine.ID, 1)
	day := f.mustDay(t, week.ID, 1)
	f.mustDay(t, week.ID, 2)

	name := "Pull"
	updated, err := f.daySvc.UpdateDay(ctx, f.owner, day.ID, UpdateDayInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Pull", updated.Name)
	assert.Equal(t, 1, updated.DayNumber)

	two := 2
	_, err = f.daySvc.UpdateDay(ctx, f.owner, day.ID, UpdateDayInput{DayNumber: &two})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.daySvc.UpdateDay(ctx, f.stranger, day.ID, UpdateDayInput{Name: &name})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestDeleteDayCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	routine := f.mustRoutine(t, "R")
	week := f.mustWeek(t, routine.ID, 1)
	day := f.mustDay(t, week.ID, 1)
	warmup := f.mustBlock(t, day.ID, "Warm-up")
	main := f.mustBlock(t, day.ID, "Main")
	squat := f.mustCatalogExercise(t, "Squat")
	planned := f.mustPlanned(t, main.ID, squat.ID)

	require.NoError(t, f.daySvc.DeleteDay(ctx, f.owner, day.ID))

	_, err := f.daySvc.GetDay(ctx, f.owner, day.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.blockSvc.GetBlock(ctx, f.owner, warmup.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.blockSvc.GetBlock(ctx, f.owner, main.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.plannedSvc.GetExercise(ctx, f.owner, planned.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The parent week is untouched.
	_, err = f.weekSvc.GetWeek(ctx, f.owner, week.ID)
	assert.NoError(t, err)
}
