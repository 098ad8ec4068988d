package service

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBlockAppendsOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	routine := f.mustRoutine(t, "R")
	week := f.mustWeek(t, routine.ID, 1)
	day := f.mustDay(t, week.ID, 1)

	first := f.mustBlock(t, day.ID, "Warm-up")
	second := f.mustBlock(t, day.ID, "Main")
	third := f.mustBlock(t, day.ID, "Cool-down")

	assert.Equal(t, 1, first.Order)
	assert.Equal(t, 2, second.Order)
	assert.Equal(t, 3, third.Order)

	// An explicit order is taken as-is.
	ten := 10
	explicit, err := f.blockSvc.CreateBlock(ctx, f.owner, day.ID, CreateBlockInput{Name: "Finisher", Order: &ten})
	require.NoError(t, err)
	assert.Equal(t, 10, explicit.Order)

	// The next append lands after it.
	next := f.mustBlock(t, day.ID, "Extra")
	assert.Equal(t, 11, next.Order)

	_, err = f.blockSvc.CreateBlock(ctx, f.owner, day.ID, CreateBlockInput{Name: ""})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListBlocksSortedByOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	routine := f.mustRoutine(t, "R")
	week := f.mustWeek(t, routine.ID, 1)
	day := f.mustDay(t, week.ID, 1)

	five, one := 5, 1
	_, err := f.blockSvc.CreateBlock(ctx, f.owner, day.ID, CreateBlockInput{Name: "B", Order: &five})
	require.NoError(t, err)
	_, err = f.blockSvc.CreateBlock(ctx, f.owner, day.ID, CreateBlockInput{Name: "A", Order: &one})
	require.NoError(t, err)

	blocks, err := f.blockSvc.ListBlocks(ctx, f.owner, day.ID)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "A", blocks[0].Name)
	assert.Equal(t, "B", blocks[1].Name)
}

func TestReorderBlocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	routine := f.mustRoutine(t, "R")
	week := f.mustWeek(t, routine.ID, 1)
	day := f.mustDay(t, week.ID, 1)

	a := f.mustBlock(t, day.ID, "A")
	b := f.mustBlock(t, day.ID, "B")
	c := f.mustBlock(t, day.ID, "C")

	reordered, err := f.blockSvc.ReorderBlocks(ctx, f.owner, day.ID, []primitive.ObjectID{c.ID, a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, reordered, 3)
	assert.Equal(t, "C", reordered[0].Name)
	assert.Equal(t, 1, reordered[0].Order)
	assert.Equal(t, "A", reordered[1].Name)
	assert.Equal(t, 2, reordered[1].Order)
	assert.Equal(t, "B", reordered[2].Name)
	assert.Equal(t, 3, reordered[2].Order)

	blocks, err := f.blockSvc.ListBlocks(ctx, f.owner, day.ID)
	require.NoError(t, err)
	assert.Equal(t, "C", blocks[0].Name)
}

func TestReorderBlocksRejectsBadSets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	routine := f.mustRoutine(t, "R")
	week := f.mustWeek(t, routine.ID, 1)
	day := f.mustDay(t, week.ID, 1)

	a := f.mustBlock(t, day.ID, "A")
	b := f.mustBlock(t, day.ID, "B")

	// Missing a sibling.
	_, err := f.blockSvc.ReorderBlocks(ctx, f.owner, day.ID, []primitive.ObjectID{a.ID})
	assert.ErrorIs(t, err, ErrValidation)

	// A duplicate entry.
	_, err = f.blockSvc.ReorderBlocks(ctx, f.owner, day.ID, []primitive.ObjectID{a.ID, a.ID})
	assert.ErrorIs(t, err, ErrValidation)

	// A foreign ID.
	_, err = f.blockSvc.ReorderBlocks(ctx, f.owner, day.ID, []primitive.ObjectID{a.ID, primitive.NewObjectID()})
	assert.ErrorIs(t, err, ErrValidation)

	// The failed attempts left the original order in place.
	blocks, err := f.blockSvc.ListBlocks(ctx, f.owner, day.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, blocks[0].ID)
	assert.Equal(t, b.ID, blocks[1].ID)
}

func TestDeleteBlockRemovesPlannedExercises(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	routine := f.mustRoutine(t, "R")
	week := f.mustWeek(t, routine.ID, 1)
	day := f.mustDay(t, week.ID, 1)
	block := f.mustBlock(t, day.ID, "Main")
	squat := f.mustCatalogExercise(t, "Squat")
	planned := f.mustPlanned(t, block.ID, squat.ID)

	require.NoError(t, f.blockSvc.DeleteBlock(ctx, f.owner, block.ID))

	_, err := f.blockSvc.GetBlock(ctx, f.owner, block.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.plannedSvc.GetExercise(ctx, f.owner, planned.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The referenced catalog entry is not the tree's to delete.
	catalogEntry, err := f.exerciseSvc.GetExercise(ctx, squat.ID)
	require.NoError(t, err)
	assert.True(t, catalogEntry.IsActive)
}

func TestBlockOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	routine := f.mustRoutine(t, "R")
	week := f.mustWeek(t, routine.ID, 1)
	day := f.mustDay(t, week.ID, 1)
	block := f.mustBlock(t, day.ID, "Main")

	_, err := f.blockSvc.GetBlock(ctx, f.stranger, block.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	name := "Hijacked"
	_, err = f.blockSvc.UpdateBlock(ctx, f.stranger, block.ID, UpdateBlockInput{Name: &name})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = f.blockSvc.DeleteBlock(ctx, f.stranger, block.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	got, err := f.blockSvc.GetBlock(ctx, f.owner, block.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main", got.Name)
}
