package repository

import (
	"context"

	"alcyxob/routine-planner/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer. Repositories report absence via
// ErrNotFound; they never make authorization or invariant decisions.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TxRunner executes fn inside a single storage transaction. The context
// passed to fn must be used for every repository call that should join the
// transaction. Services wrap multi-step mutations (cascade deletes, reorders,
// order assignment on create) in it so a mid-operation failure never leaves
// a partially mutated tree.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ExerciseFilter narrows catalog listings. Zero values mean "no filter".
type ExerciseFilter struct {
	Name               string // Case-insensitive substring match
	MovementType       string
	PrimaryMuscleGroup string
	Equipment          string
	Difficulty         string
	IncludeInactive    bool
}

// ExerciseRepository defines the interface for the exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error)
	List(ctx context.Context, filter ExerciseFilter) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
}

// RoutineRepository defines the interface for routine roots. Routines are
// soft-deleted only; there is no hard Delete.
type RoutineRepository interface {
	Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID, onlyActive bool) ([]domain.Routine, error)
	Update(ctx context.Context, routine *domain.Routine) error
}

// WeekRepository defines the interface for weeks within a routine.
type WeekRepository interface {
	Create(ctx context.Context, week *domain.Week) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Week, error)
	ListByRoutineID(ctx context.Context, routineID primitive.ObjectID) ([]domain.Week, error)
	// NumberExists reports whether another week in the routine already uses
	// weekNumber. excludeID is skipped so updates don't collide with themselves.
	NumberExists(ctx context.Context, routineID primitive.ObjectID, weekNumber int, excludeID primitive.ObjectID) (bool, error)
	Update(ctx context.Context, week *domain.Week) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// DayRepository defines the interface for days within a week.
type DayRepository interface {
	Create(ctx context.Context, day *domain.Day) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Day, error)
	ListByWeekID(ctx context.Context, weekID primitive.ObjectID) ([]domain.Day, error)
	// ListByWeekIDs is the batched form used by tree assembly: one query for
	// the days of every listed week.
	ListByWeekIDs(ctx context.Context, weekIDs []primitive.ObjectID) ([]domain.Day, error)
	NumberExists(ctx context.Context, weekID primitive.ObjectID, dayNumber int, excludeID primitive.ObjectID) (bool, error)
	Update(ctx context.Context, day *domain.Day) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// BlockRepository defines the interface for blocks within a day.
type BlockRepository interface {
	Create(ctx context.Context, block *domain.Block) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Block, error)
	ListByDayID(ctx context.Context, dayID primitive.ObjectID) ([]domain.Block, error)
	ListByDayIDs(ctx context.Context, dayIDs []primitive.ObjectID) ([]domain.Block, error)
	// MaxOrder returns the highest order among the day's blocks, 0 if none.
	MaxOrder(ctx context.Context, dayID primitive.ObjectID) (int, error)
	Update(ctx context.Context, block *domain.Block) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// RoutineExerciseRepository defines the interface for exercises planned
// inside blocks.
type RoutineExerciseRepository interface {
	Create(ctx context.Context, re *domain.RoutineExercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineExercise, error)
	ListByBlockID(ctx context.Context, blockID primitive.ObjectID) ([]domain.RoutineExercise, error)
	ListByBlockIDs(ctx context.Context, blockIDs []primitive.ObjectID) ([]domain.RoutineExercise, error)
	MaxOrder(ctx context.Context, blockID primitive.ObjectID) (int, error)
	Update(ctx context.Context, re *domain.RoutineExercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteByBlockID removes every planned exercise of the block in one
	// statement. Used by cascade deletes at the leaf level.
	DeleteByBlockID(ctx context.Context, blockID primitive.ObjectID) error
}
