package service

import (
	"context"
	"fmt"

	"alcyxob/routine-planner/internal/domain"
	"alcyxob/routine-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrRoutineNotFound = fmt.Errorf("routine %w", ErrNotFound)
	ErrNotRoutineOwner = fmt.Errorf("%w: only the routine owner may access it", ErrPermissionDenied)
	ErrRoutineName     = fmt.Errorf("%w: routine name is required", ErrValidation)
)

// CreateRoutineInput carries the fields accepted when creating a routine.
type CreateRoutineInput struct {
	Name           string
	Description    string
	DurationWeeks  *int
	DurationMonths *int
}

// UpdateRoutineInput carries partial updates; nil fields are left untouched.
// IsActive is deliberately absent: deactivation goes through DeleteRoutine
// and nothing reactivates a routine.
type UpdateRoutineInput struct {
	Name           *string
	Description    *string
	DurationWeeks  *int
	DurationMonths *int
}

// RoutineService manages routine roots and whole-tree reads.
type RoutineService interface {
	CreateRoutine(ctx context.Context, userID primitive.ObjectID, input CreateRoutineInput) (*domain.Routine, error)
	ListRoutines(ctx context.Context, userID primitive.ObjectID) ([]domain.Routine, error)
	GetRoutine(ctx context.Context, userID, routineID primitive.ObjectID) (*domain.Routine, error)
	UpdateRoutine(ctx context.Context, userID, routineID primitive.ObjectID, input UpdateRoutineInput) (*domain.Routine, error)
	// DeleteRoutine soft-deletes: the routine is deactivated, descendants
	// stay in place but become unreachable through this subsystem.
	DeleteRoutine(ctx context.Context, userID, routineID primitive.ObjectID) error
	// GetFullRoutine returns the routine with its entire descendant tree,
	// assembled from one batched query per level.
	GetFullRoutine(ctx context.Context, userID, routineID primitive.ObjectID) (*domain.RoutineTree, error)
	// DuplicateRoutine deep-copies a routine and its whole tree as a new
	// routine owned by the same user, in a single transaction.
	DuplicateRoutine(ctx context.Context, userID, routineID primitive.ObjectID, newName string) (*domain.Routine, error)
}

// routineService implements the RoutineService interface.
type routineService struct {
	routineRepo  repository.RoutineRepository
	weekRepo     repository.WeekRepository
	dayRepo      repository.DayRepository
	blockRepo    repository.BlockRepository
	exerciseRepo repository.ExerciseRepository
	reRepo       repository.RoutineExerciseRepository
	tx           repository.TxRunner
}

// NewRoutineService creates a new instance of routineService.
func NewRoutineService(
	routineRepo repository.RoutineRepository,
	weekRepo repository.WeekRepository,
	dayRepo repository.DayRepository,
	blockRepo repository.BlockRepository,
	exerciseRepo repository.ExerciseRepository,
	reRepo repository.RoutineExerciseRepository,
	tx repository.TxRunner,
) RoutineService {
	return &routineService{
		routineRepo:  routineRepo,
		weekRepo:     weekRepo,
		dayRepo:      dayRepo,
		blockRepo:    blockRepo,
		exerciseRepo: exerciseRepo,
		reRepo:       reRepo,
		tx:           tx,
	}
}

// CreateRoutine creates a new active routine owned by userID.
func (s *routineService) CreateRoutine(ctx context.Context, userID primitive.ObjectID, input CreateRoutineInput) (*domain.Routine, error) {
	if userID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: user ID is required", ErrValidation)
	}
	if input.Name == "" {
		return nil, ErrRoutineName
	}

	routine := &domain.Routine{
		OwnerID:        userID,
		Name:           input.Name,
		Description:    input.Description,
		DurationWeeks:  input.DurationWeeks,
		DurationMonths: input.DurationMonths,
		IsActive:       true,
	}

	routineID, err := s.routineRepo.Create(ctx, routine)
	if err != nil {
		return nil, err
	}
	routine.ID = routineID
	return routine, nil
}

// ListRoutines returns the user's active routines, newest first.
func (s *routineService) ListRoutines(ctx context.Context, userID primitive.ObjectID) ([]domain.Routine, error) {
	return s.routineRepo.ListByOwner(ctx, userID, true)
}

// GetRoutine returns a single routine after the ownership check.
func (s *routineService) GetRoutine(ctx context.Context, userID, routineID primitive.ObjectID) (*domain.Routine, error) {
	return resolveOwnedRoutine(ctx, s.routineRepo, routineID, userID)
}

// UpdateRoutine applies partial scalar changes to an owned routine.
func (s *routineService) UpdateRoutine(ctx context.Context, userID, routineID primitive.ObjectID, input UpdateRoutineInput) (*domain.Routine, error) {
	routine, err := resolveOwnedRoutine(ctx, s.routineRepo, routineID, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrRoutineName
		}
		routine.Name = *input.Name
	}
	if input.Description != nil {
		routine.Description = *input.Description
	}
	if input.DurationWeeks != nil {
		routine.DurationWeeks = input.DurationWeeks
	}
	if input.DurationMonths != nil {
		routine.DurationMonths = input.DurationMonths
	}

	if err := s.routineRepo.Update(ctx, routine); err != nil {
		return nil, err
	}
	return routine, nil
}

// DeleteRoutine deactivates the routine. The descendant tree is left intact;
// it is only reachable through its routine, which no longer resolves.
func (s *routineService) DeleteRoutine(ctx context.Context, userID, routineID primitive.ObjectID) error {
	routine, err := resolveOwnedRoutine(ctx, s.routineRepo, routineID, userID)
	if err != nil {
		return err
	}

	routine.IsActive = false
	return s.routineRepo.Update(ctx, routine)
}

// GetFullRoutine assembles the complete tree. The ownership check happens
// once at the root; below it, each level is fetched with a single query
// keyed by the parent-id set of the level above, so the query count stays
// constant no matter how large the tree is.
func (s *routineService) GetFullRoutine(ctx context.Context, userID, routineID primitive.ObjectID) (*domain.RoutineTree, error) {
	routine, err := resolveOwnedRoutine(ctx, s.routineRepo, routineID, userID)
	if err != nil {
		return nil, err
	}
	return s.assembleTree(ctx, routine)
}

func (s *routineService) assembleTree(ctx context.Context, routine *domain.Routine) (*domain.RoutineTree, error) {
	weeks, err := s.weekRepo.ListByRoutineID(ctx, routine.ID)
	if err != nil {
		return nil, err
	}
	weekIDs := make([]primitive.ObjectID, len(weeks))
	for i, w := range weeks {
		weekIDs[i] = w.ID
	}

	days, err := s.dayRepo.ListByWeekIDs(ctx, weekIDs)
	if err != nil {
		return nil, err
	}
	dayIDs := make([]primitive.ObjectID, len(days))
	for i, d := range days {
		dayIDs[i] = d.ID
	}

	blocks, err := s.blockRepo.ListByDayIDs(ctx, dayIDs)
	if err != nil {
		return nil, err
	}
	blockIDs := make([]primitive.ObjectID, len(blocks))
	for i, b := range blocks {
		blockIDs[i] = b.ID
	}

	routineExercises, err := s.reRepo.ListByBlockIDs(ctx, blockIDs)
	if err != nil {
		return nil, err
	}

	// Resolve the referenced catalog entries in one batch.
	exerciseIDSet := make(map[primitive.ObjectID]struct{}, len(routineExercises))
	exerciseIDs := make([]primitive.ObjectID, 0, len(routineExercises))
	for _, re := range routineExercises {
		if _, seen := exerciseIDSet[re.ExerciseID]; !seen {
			exerciseIDSet[re.ExerciseID] = struct{}{}
			exerciseIDs = append(exerciseIDs, re.ExerciseID)
		}
	}
	exercises, err := s.exerciseRepo.GetByIDs(ctx, exerciseIDs)
	if err != nil {
		return nil, err
	}
	exerciseByID := make(map[primitive.ObjectID]*domain.Exercise, len(exercises))
	for i := range exercises {
		exerciseByID[exercises[i].ID] = &exercises[i]
	}

	// Group each level under its parent. Repositories return the levels
	// already sorted by their position field, and grouping preserves that
	// order within each parent.
	exercisesByBlock := make(map[primitive.ObjectID][]domain.RoutineExerciseDetail)
	for _, re := range routineExercises {
		exercisesByBlock[re.BlockID] = append(exercisesByBlock[re.BlockID], domain.RoutineExerciseDetail{
			RoutineExercise: re,
			Exercise:        exerciseByID[re.ExerciseID],
		})
	}

	blocksByDay := make(map[primitive.ObjectID][]domain.BlockTree)
	for _, b := range blocks {
		ex := exercisesByBlock[b.ID]
		if ex == nil {
			ex = []domain.RoutineExerciseDetail{}
		}
		blocksByDay[b.DayID] = append(blocksByDay[b.DayID], domain.BlockTree{Block: b, Exercises: ex})
	}

	daysByWeek := make(map[primitive.ObjectID][]domain.DayTree)
	for _, d := range days {
		bl := blocksByDay[d.ID]
		if bl == nil {
			bl = []domain.BlockTree{}
		}
		daysByWeek[d.WeekID] = append(daysByWeek[d.WeekID], domain.DayTree{Day: d, Blocks: bl})
	}

	tree := &domain.RoutineTree{Routine: *routine, Weeks: make([]domain.WeekTree, 0, len(weeks))}
	for _, w := range weeks {
		ds := daysByWeek[w.ID]
		if ds == nil {
			ds = []domain.DayTree{}
		}
		tree.Weeks = append(tree.Weeks, domain.WeekTree{Week: w, Days: ds})
	}
	return tree, nil
}

// DuplicateRoutine deep-copies a routine tree under a new root. The copy is
// written inside one transaction so a failure at any level leaves nothing
// behind.
func (s *routineService) DuplicateRoutine(ctx context.Context, userID, routineID primitive.ObjectID, newName string) (*domain.Routine, error) {
	routine, err := resolveOwnedRoutine(ctx, s.routineRepo, routineID, userID)
	if err != nil {
		return nil, err
	}
	tree, err := s.assembleTree(ctx, routine)
	if err != nil {
		return nil, err
	}

	if newName == "" {
		newName = routine.Name + " (copy)"
	}

	copyRoutine := &domain.Routine{
		OwnerID:        userID,
		Name:           newName,
		Description:    routine.Description,
		DurationWeeks:  routine.DurationWeeks,
		DurationMonths: routine.DurationMonths,
		IsActive:       true,
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		newRoutineID, err := s.routineRepo.Create(txCtx, copyRoutine)
		if err != nil {
			return err
		}
		copyRoutine.ID = newRoutineID

		for _, week := range tree.Weeks {
			newWeek := &domain.Week{
				RoutineID:  newRoutineID,
				WeekNumber: week.WeekNumber,
				Notes:      week.Notes,
			}
			newWeekID, err := s.weekRepo.Create(txCtx, newWeek)
			if err != nil {
				return err
			}
			for _, day := range week.Days {
				newDay := &domain.Day{
					WeekID:    newWeekID,
					RoutineID: newRoutineID,
					DayNumber: day.DayNumber,
					Name:      day.Name,
					Notes:     day.Notes,
				}
				newDayID, err := s.dayRepo.Create(txCtx, newDay)
				if err != nil {
					return err
				}
				for _, block := range day.Blocks {
					newBlock := &domain.Block{
						DayID:     newDayID,
						RoutineID: newRoutineID,
						Name:      block.Name,
						Order:     block.Order,
						Notes:     block.Notes,
					}
					newBlockID, err := s.blockRepo.Create(txCtx, newBlock)
					if err != nil {
						return err
					}
					for _, re := range block.Exercises {
						newRE := &domain.RoutineExercise{
							BlockID:          newBlockID,
							RoutineID:        newRoutineID,
							ExerciseID:       re.ExerciseID,
							Order:            re.Order,
							Sets:             re.Sets,
							Repetitions:      re.Repetitions,
							Weight:           re.Weight,
							WeightPercentage: re.WeightPercentage,
							Tempo:            re.Tempo,
							RestSeconds:      re.RestSeconds,
							Notes:            re.Notes,
						}
						if _, err := s.reRepo.Create(txCtx, newRE); err != nil {
							return err
						}
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return copyRoutine, nil
}
