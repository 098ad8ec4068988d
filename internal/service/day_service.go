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
	ErrDayNotFound      = fmt.Errorf("day %w", ErrNotFound)
	ErrDayNumberTaken   = fmt.Errorf("%w: a day with this number already exists in the week", ErrValidation)
	ErrDayNumberInvalid = fmt.Errorf("%w: day number must be a positive integer", ErrValidation)
)

// CreateDayInput carries the fields accepted when creating a day.
type CreateDayInput struct {
	DayNumber int
	Name      string
	Notes     string
}

// UpdateDayInput carries partial updates; nil fields are left untouched.
type UpdateDayInput struct {
	DayNumber *int
	Name      *string
	Notes     *string
}

// DayService manages days within a week.
type DayService interface {
	CreateDay(ctx context.Context, userID, weekID primitive.ObjectID, input CreateDayInput) (*domain.Day, error)
	ListDays(ctx context.Context, userID, weekID primitive.ObjectID) ([]domain.Day, error)
	GetDay(ctx context.Context, userID, dayID primitive.ObjectID) (*domain.Day, error)
	UpdateDay(ctx context.Context, userID, dayID primitive.ObjectID, input UpdateDayInput) (*domain.Day, error)
	// DeleteDay removes the day and every block and planned exercise under
	// it, atomically.
	DeleteDay(ctx context.Context, userID, dayID primitive.ObjectID) error
	// DeleteCascade removes the day's subtree without any ownership check;
	// for parent-level cascades only (ownership already verified, caller
	// holds the transaction).
	DeleteCascade(ctx context.Context, day *domain.Day) error
}

// dayService implements the DayService interface.
type dayService struct {
	routineRepo  repository.RoutineRepository
	weekRepo     repository.WeekRepository
	dayRepo      repository.DayRepository
	blockRepo    repository.BlockRepository
	blockService BlockService
	tx           repository.TxRunner
}

// NewDayService creates a new instance of dayService.
func NewDayService(
	routineRepo repository.RoutineRepository,
	weekRepo repository.WeekRepository,
	dayRepo repository.DayRepository,
	blockRepo repository.BlockRepository,
	blockService BlockService,
	tx repository.TxRunner,
) DayService {
	return &dayService{
		routineRepo:  routineRepo,
		weekRepo:     weekRepo,
		dayRepo:      dayRepo,
		blockRepo:    blockRepo,
		blockService: blockService,
		tx:           tx,
	}
}

// CreateDay adds a day to a week of an owned routine. DayNumber must be
// unique within the week.
func (s *dayService) CreateDay(ctx context.Context, userID, weekID primitive.ObjectID, input CreateDayInput) (*domain.Day, error) {
	week, err := s.weekRepo.GetByID(ctx, weekID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWeekNotFound
		}
		return nil, err
	}
	if _, err := resolveOwnedRoutine(ctx, s.routineRepo, week.RoutineID, userID); err != nil {
		return nil, err
	}
	if input.DayNumber <= 0 {
		return nil, ErrDayNumberInvalid
	}

	taken, err := s.dayRepo.NumberExists(ctx, week.ID, input.DayNumber, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDayNumberTaken
	}

	day := &domain.Day{
		WeekID:    week.ID,
		RoutineID: week.RoutineID, // Propagate the root reference downward
		DayNumber: input.DayNumber,
		Name:      input.Name,
		Notes:     input.Notes,
	}
	dayID, err := s.dayRepo.Create(ctx, day)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDayNumberTaken
		}
		return nil, err
	}
	day.ID = dayID
	return day, nil
}

// ListDays returns the week's days sorted by dayNumber.
func (s *dayService) ListDays(ctx context.Context, userID, weekID primitive.ObjectID) ([]domain.Day, error) {
	week, err := s.weekRepo.GetByID(ctx, weekID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWeekNotFound
		}
		return nil, err
	}
	if _, err := resolveOwnedRoutine(ctx, s.routineRepo, week.RoutineID, userID); err != nil {
		return nil, err
	}
	return s.dayRepo.ListByWeekID(ctx, week.ID)
}

// GetDay returns a single day after the ownership check.
func (s *dayService) GetDay(ctx context.Context, userID, dayID primitive.ObjectID) (*domain.Day, error) {
	return s.getOwnedDay(ctx, userID, dayID)
}

// UpdateDay applies partial changes; a dayNumber change re-runs the
// uniqueness check excluding the day itself.
func (s *dayService) UpdateDay(ctx context.Context, userID, dayID primitive.ObjectID, input UpdateDayInput) (*domain.Day, error) {
	day, err := s.getOwnedDay(ctx, userID, dayID)
	if err != nil {
		return nil, err
	}

	if input.DayNumber != nil {
		if *input.DayNumber <= 0 {
			return nil, ErrDayNumberInvalid
		}
		taken, err := s.dayRepo.NumberExists(ctx, day.WeekID, *input.DayNumber, day.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDayNumberTaken
		}
		day.DayNumber = *input.DayNumber
	}
	if input.Name != nil {
		day.Name = *input.Name
	}
	if input.Notes != nil {
		day.Notes = *input.Notes
	}

	if err := s.dayRepo.Update(ctx, day); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDayNumberTaken
		}
		return nil, err
	}
	return day, nil
}

// DeleteDay removes the day and its whole subtree in one transaction.
func (s *dayService) DeleteDay(ctx context.Context, userID, dayID primitive.ObjectID) error {
	day, err := s.getOwnedDay(ctx, userID, dayID)
	if err != nil {
		return err
	}

	return s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.DeleteCascade(txCtx, day)
	})
}

// DeleteCascade deletes the day's blocks through the block service so each
// level runs its own cascade, then removes the day itself.
func (s *dayService) DeleteCascade(ctx context.Context, day *domain.Day) error {
	blocks, err := s.blockRepo.ListByDayID(ctx, day.ID)
	if err != nil {
		return err
	}
	for i := range blocks {
		if err := s.blockService.DeleteCascade(ctx, &blocks[i]); err != nil {
			return err
		}
	}
	return s.dayRepo.Delete(ctx, day.ID)
}

func (s *dayService) getOwnedDay(ctx context.Context, userID, dayID primitive.ObjectID) (*domain.Day, error) {
	day, err := s.dayRepo.GetByID(ctx, dayID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}
	if _, err := resolveOwnedRoutine(ctx, s.routineRepo, day.RoutineID, userID); err != nil {
		return nil, err
	}
	return day, nil
}
