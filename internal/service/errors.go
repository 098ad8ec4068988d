package service

import (
	"context"
	"errors"

	"alcyxob/routine-planner/internal/domain"
	"alcyxob/routine-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The three error kinds produced by the service layer. Every specific
// service error wraps exactly one of them, so the API layer can map any
// service error to a status code with errors.Is. Repositories never return
// these; translating storage absence into domain errors happens here.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation failed")
)

// resolveOwnedRoutine loads the root routine of a tree and enforces the
// ownership closure: a missing or soft-deleted routine is NotFound, any
// acting user other than the owner is PermissionDenied. Descendant services
// call this with the denormalized routineId carried by every node, so the
// check is a single lookup regardless of the node's depth.
func resolveOwnedRoutine(ctx context.Context, routines repository.RoutineRepository, routineID, userID primitive.ObjectID) (*domain.Routine, error) {
	routine, err := routines.GetByID(ctx, routineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	if !routine.IsActive {
		// Soft-deleted routines are gone as far as this subsystem is concerned.
		return nil, ErrRoutineNotFound
	}
	if routine.OwnerID != userID {
		return nil, ErrNotRoutineOwner
	}
	return routine, nil
}
