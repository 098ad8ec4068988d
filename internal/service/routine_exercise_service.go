package service

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/routine-planner/internal/domain"
	"alcyxob/routine-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrRoutineExerciseNotFound = fmt.Errorf("routine exercise %w", ErrNotFound)
	ErrExerciseRefMissing      = fmt.Errorf("%w: referenced exercise does not exist", ErrValidation)
	ErrExerciseRefInactive     = fmt.Errorf("%w: referenced exercise is deactivated", ErrValidation)
)

// CreateRoutineExerciseInput carries the fields accepted when planning an
// exercise inside a block. Order is optional; when nil the entry is appended
// after the current last sibling.
type CreateRoutineExerciseInput struct {
	ExerciseID       primitive.ObjectID
	Order            *int
	Sets             *int
	Repetitions      string
	Weight           *float64
	WeightPercentage *float64
	Tempo            string
	RestSeconds      *int
	Notes            string
}

// UpdateRoutineExerciseInput carries partial updates; nil fields are left
// untouched. The exercise reference itself is immutable: delete and re-add
// to swap the catalog entry.
type UpdateRoutineExerciseInput struct {
	Order            *int
	Sets             *int
	Repetitions      *string
	Weight           *float64
	WeightPercentage *float64
	Tempo            *string
	RestSeconds      *int
	Notes            *string
}

// RoutineExerciseService manages the planned exercises inside blocks.
type RoutineExerciseService interface {
	AddExercise(ctx context.Context, userID, blockID primitive.ObjectID, input CreateRoutineExerciseInput) (*domain.RoutineExercise, error)
	ListExercises(ctx context.Context, userID, blockID primitive.ObjectID) ([]domain.RoutineExercise, error)
	GetExercise(ctx context.Context, userID, routineExerciseID primitive.ObjectID) (*domain.RoutineExercise, error)
	UpdateExercise(ctx context.Context, userID, routineExerciseID primitive.ObjectID, input UpdateRoutineExerciseInput) (*domain.RoutineExercise, error)
	// DeleteExercise removes the planned entry. The referenced catalog
	// exercise is never deleted.
	DeleteExercise(ctx context.Context, userID, routineExerciseID primitive.ObjectID) error
	// ReorderExercises rewrites the order of every planned exercise in the
	// block to match orderedIDs, in one transaction.
	ReorderExercises(ctx context.Context, userID, blockID primitive.ObjectID, orderedIDs []primitive.ObjectID) ([]domain.RoutineExercise, error)
	// DeleteAllInBlock removes every planned exercise of the block without
	// any ownership check; for parent-level cascades only.
	DeleteAllInBlock(ctx context.Context, blockID primitive.ObjectID) error
}

// routineExerciseService implements the RoutineExerciseService interface.
type routineExerciseService struct {
	routineRepo  repository.RoutineRepository
	blockRepo    repository.BlockRepository
	reRepo       repository.RoutineExerciseRepository
	exerciseRepo repository.ExerciseRepository
	tx           repository.TxRunner
}

// NewRoutineExerciseService creates a new instance of routineExerciseService.
func NewRoutineExerciseService(
	routineRepo repository.RoutineRepository,
	blockRepo repository.BlockRepository,
	reRepo repository.RoutineExerciseRepository,
	exerciseRepo repository.ExerciseRepository,
	tx repository.TxRunner,
) RoutineExerciseService {
	return &routineExerciseService{
		routineRepo:  routineRepo,
		blockRepo:    blockRepo,
		reRepo:       reRepo,
		exerciseRepo: exerciseRepo,
		tx:           tx,
	}
}

// AddExercise plans a catalog exercise inside a block of an owned routine.
// The referenced exercise must exist and be active at creation time; later
// catalog deactivation is not prevented here.
func (s *routineExerciseService) AddExercise(ctx context.Context, userID, blockID primitive.ObjectID, input CreateRoutineExerciseInput) (*domain.RoutineExercise, error) {
	block, err := s.blockRepo.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBlockNotFound
		}
		return nil, err
	}
	if _, err := resolveOwnedRoutine(ctx, s.routineRepo, block.RoutineID, userID); err != nil {
		return nil, err
	}

	if input.ExerciseID == primitive.NilObjectID {
		return nil, ErrExerciseRefMissing
	}
	exercise, err := s.exerciseRepo.GetByID(ctx, input.ExerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseRefMissing
		}
		return nil, err
	}
	if !exercise.IsActive {
		return nil, ErrExerciseRefInactive
	}

	re := &domain.RoutineExercise{
		BlockID:          block.ID,
		RoutineID:        block.RoutineID,
		ExerciseID:       exercise.ID,
		Sets:             input.Sets,
		Repetitions:      input.Repetitions,
		Weight:           input.Weight,
		WeightPercentage: input.WeightPercentage,
		Tempo:            input.Tempo,
		RestSeconds:      input.RestSeconds,
		Notes:            input.Notes,
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if input.Order != nil {
			re.Order = *input.Order
		} else {
			maxOrder, err := s.reRepo.MaxOrder(txCtx, block.ID)
			if err != nil {
				return err
			}
			re.Order = maxOrder + 1
		}
		reID, err := s.reRepo.Create(txCtx, re)
		if err != nil {
			return err
		}
		re.ID = reID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return re, nil
}

// ListExercises returns the block's planned exercises sorted by order.
func (s *routineExerciseService) ListExercises(ctx context.Context, userID, blockID primitive.ObjectID) ([]domain.RoutineExercise, error) {
	block, err := s.blockRepo.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBlockNotFound
		}
		return nil, err
	}
	if _, err := resolveOwnedRoutine(ctx, s.routineRepo, block.RoutineID, userID); err != nil {
		return nil, err
	}
	return s.reRepo.ListByBlockID(ctx, block.ID)
}

// GetExercise returns a single planned exercise after the ownership check.
func (s *routineExerciseService) GetExercise(ctx context.Context, userID, routineExerciseID primitive.ObjectID) (*domain.RoutineExercise, error) {
	return s.getOwnedRoutineExercise(ctx, userID, routineExerciseID)
}

// UpdateExercise applies partial prescription changes.
func (s *routineExerciseService) UpdateExercise(ctx context.Context, userID, routineExerciseID primitive.ObjectID, input UpdateRoutineExerciseInput) (*domain.RoutineExercise, error) {
	re, err := s.getOwnedRoutineExercise(ctx, userID, routineExerciseID)
	if err != nil {
		return nil, err
	}

	if input.Order != nil {
		re.Order = *input.Order
	}
	if input.Sets != nil {
		re.Sets = input.Sets
	}
	if input.Repetitions != nil {
		re.Repetitions = *input.Repetitions
	}
	if input.Weight != nil {
		re.Weight = input.Weight
	}
	if input.WeightPercentage != nil {
		re.WeightPercentage = input.WeightPercentage
	}
	if input.Tempo != nil {
		re.Tempo = *input.Tempo
	}
	if input.RestSeconds != nil {
		re.RestSeconds = input.RestSeconds
	}
	if input.Notes != nil {
		re.Notes = *input.Notes
	}

	if err := s.reRepo.Update(ctx, re); err != nil {
		return nil, err
	}
	return re, nil
}

// DeleteExercise removes the planned entry; the catalog exercise survives.
func (s *routineExerciseService) DeleteExercise(ctx context.Context, userID, routineExerciseID primitive.ObjectID) error {
	re, err := s.getOwnedRoutineExercise(ctx, userID, routineExerciseID)
	if err != nil {
		return err
	}
	return s.reRepo.Delete(ctx, re.ID)
}

// ReorderExercises assigns order 1..n following orderedIDs; the ID set must
// match the block's planned exercises exactly.
func (s *routineExerciseService) ReorderExercises(ctx context.Context, userID, blockID primitive.ObjectID, orderedIDs []primitive.ObjectID) ([]domain.RoutineExercise, error) {
	block, err := s.blockRepo.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBlockNotFound
		}
		return nil, err
	}
	if _, err := resolveOwnedRoutine(ctx, s.routineRepo, block.RoutineID, userID); err != nil {
		return nil, err
	}

	var reordered []domain.RoutineExercise
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		siblings, err := s.reRepo.ListByBlockID(txCtx, block.ID)
		if err != nil {
			return err
		}
		byID, err := matchSiblingSet(siblings, orderedIDs, func(re domain.RoutineExercise) primitive.ObjectID { return re.ID })
		if err != nil {
			return err
		}

		reordered = make([]domain.RoutineExercise, 0, len(orderedIDs))
		for pos, id := range orderedIDs {
			re := byID[id]
			re.Order = pos + 1
			if err := s.reRepo.Update(txCtx, &re); err != nil {
				return err
			}
			reordered = append(reordered, re)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reordered, nil
}

// DeleteAllInBlock clears a block's planned exercises in one statement.
func (s *routineExerciseService) DeleteAllInBlock(ctx context.Context, blockID primitive.ObjectID) error {
	return s.reRepo.DeleteByBlockID(ctx, blockID)
}

func (s *routineExerciseService) getOwnedRoutineExercise(ctx context.Context, userID, routineExerciseID primitive.ObjectID) (*domain.RoutineExercise, error) {
	re, err := s.reRepo.GetByID(ctx, routineExerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineExerciseNotFound
		}
		return nil, err
	}
	if _, err := resolveOwnedRoutine(ctx, s.routineRepo, re.RoutineID, userID); err != nil {
		return nil, err
	}
	return re, nil
}
