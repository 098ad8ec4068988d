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
	ErrWeekNotFound      = fmt.Errorf("week %w", ErrNotFound)
	ErrWeekNumberTaken   = fmt.Errorf("%w: a week with this number already exists in the routine", ErrValidation)
	ErrWeekNumberInvalid = fmt.Errorf("%w: week number must be a positive integer", ErrValidation)
)

// CreateWeekInput carries the fields accepted when creating a week.
type CreateWeekInput struct {
	WeekNumber int
	Notes      string
}

// UpdateWeekInput carries partial updates; nil fields are left untouched.
type UpdateWeekInput struct {
	WeekNumber *int
	Notes      *string
}

// WeekService manages weeks within a routine.
type WeekService interface {
	CreateWeek(ctx context.Context, userID, routineID primitive.ObjectID, input CreateWeekInput) (*domain.Week, error)
	ListWeeks(ctx context.Context, userID, routineID primitive.ObjectID) ([]domain.Week, error)
	GetWeek(ctx context.Context, userID, weekID primitive.ObjectID) (*domain.Week, error)
	UpdateWeek(ctx context.Context, userID, weekID primitive.ObjectID, input UpdateWeekInput) (*domain.Week, error)
	// DeleteWeek removes the week and every day, block and planned exercise
	// under it, atomically.
	DeleteWeek(ctx context.Context, userID, weekID primitive.ObjectID) error
	// DeleteCascade removes the week's subtree without any ownership check.
	// It exists for parent-level cascades: the caller must already have
	// verified ownership and must pass a transaction context.
	DeleteCascade(ctx context.Context, week *domain.Week) error
}

// weekService implements the WeekService interface.
type weekService struct {
	routineRepo repository.RoutineRepository
	weekRepo    repository.WeekRepository
	dayRepo     repository.DayRepository
	dayService  DayService
	tx          repository.TxRunner
}

// NewWeekService creates a new instance of weekService.
func NewWeekService(
	routineRepo repository.RoutineRepository,
	weekRepo repository.WeekRepository,
	dayRepo repository.DayRepository,
	dayService DayService,
	tx repository.TxRunner,
) WeekService {
	return &weekService{
		routineRepo: routineRepo,
		weekRepo:    weekRepo,
		dayRepo:     dayRepo,
		dayService:  dayService,
		tx:          tx,
	}
}

// CreateWeek adds a week to an owned routine. WeekNumber must be unique
// within the routine.
func (s *weekService) CreateWeek(ctx context.Context, userID, routineID primitive.ObjectID, input CreateWeekInput) (*domain.Week, error) {
	routine, err := resolveOwnedRoutine(ctx, s.routineRepo, routineID, userID)
	if err != nil {
		return nil, err
	}
	if input.WeekNumber <= 0 {
		return nil, ErrWeekNumberInvalid
	}

	taken, err := s.weekRepo.NumberExists(ctx, routine.ID, input.WeekNumber, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrWeekNumberTaken
	}

	week := &domain.Week{
		RoutineID:  routine.ID,
		WeekNumber: input.WeekNumber,
		Notes:      input.Notes,
	}
	weekID, err := s.weekRepo.Create(ctx, week)
	if err != nil {
		// The unique index catches the race where two requests pass the
		// NumberExists check with the same number.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrWeekNumberTaken
		}
		return nil, err
	}
	week.ID = weekID
	return week, nil
}

// ListWeeks returns the routine's weeks sorted by weekNumber.
func (s *weekService) ListWeeks(ctx context.Context, userID, routineID primitive.ObjectID) ([]domain.Week, error) {
	routine, err := resolveOwnedRoutine(ctx, s.routineRepo, routineID, userID)
	if err != nil {
		return nil, err
	}
	return s.weekRepo.ListByRoutineID(ctx, routine.ID)
}

// GetWeek returns a single week after the ownership check.
func (s *weekService) GetWeek(ctx context.Context, userID, weekID primitive.ObjectID) (*domain.Week, error) {
	week, err := s.getOwnedWeek(ctx, userID, weekID)
	if err != nil {
		return nil, err
	}
	return week, nil
}

// UpdateWeek applies partial changes; a weekNumber change re-runs the
// uniqueness check excluding the week itself.
func (s *weekService) UpdateWeek(ctx context.Context, userID, weekID primitive.ObjectID, input UpdateWeekInput) (*domain.Week, error) {
	week, err := s.getOwnedWeek(ctx, userID, weekID)
	if err != nil {
		return nil, err
	}

	if input.WeekNumber != nil {
		if *input.WeekNumber <= 0 {
			return nil, ErrWeekNumberInvalid
		}
		taken, err := s.weekRepo.NumberExists(ctx, week.RoutineID, *input.WeekNumber, week.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrWeekNumberTaken
		}
		week.WeekNumber = *input.WeekNumber
	}
	if input.Notes != nil {
		week.Notes = *input.Notes
	}

	if err := s.weekRepo.Update(ctx, week); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrWeekNumberTaken
		}
		return nil, err
	}
	return week, nil
}

// DeleteWeek removes the week and its whole subtree in one transaction.
func (s *weekService) DeleteWeek(ctx context.Context, userID, weekID primitive.ObjectID) error {
	week, err := s.getOwnedWeek(ctx, userID, weekID)
	if err != nil {
		return err
	}

	return s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.DeleteCascade(txCtx, week)
	})
}

// DeleteCascade deletes the week's days through the day service so each
// level runs its own cascade, then removes the week itself.
func (s *weekService) DeleteCascade(ctx context.Context, week *domain.Week) error {
	days, err := s.dayRepo.ListByWeekID(ctx, week.ID)
	if err != nil {
		return err
	}
	for i := range days {
		if err := s.dayService.DeleteCascade(ctx, &days[i]); err != nil {
			return err
		}
	}
	return s.weekRepo.Delete(ctx, week.ID)
}

// getOwnedWeek resolves the week and enforces the ownership closure via the
// denormalized routine reference.
func (s *weekService) getOwnedWeek(ctx context.Context, userID, weekID primitive.ObjectID) (*domain.Week, error) {
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
	return week, nil
}
