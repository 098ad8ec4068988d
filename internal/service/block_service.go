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
	ErrBlockNotFound   = fmt.Errorf("block %w", ErrNotFound)
	ErrBlockName       = fmt.Errorf("%w: block name is required", ErrValidation)
	ErrReorderMismatch = fmt.Errorf("%w: reorder must list every sibling exactly once", ErrValidation)
)

// CreateBlockInput carries the fields accepted when creating a block.
// Order is optional: when nil, the block is appended after the current
// last sibling.
type CreateBlockInput struct {
	Name  string
	Order *int
	Notes string
}

// UpdateBlockInput carries partial updates; nil fields are left untouched.
// Changing Order here does not renumber siblings; use ReorderBlocks for a
// consistent full reordering.
type UpdateBlockInput struct {
	Name  *string
	Order *int
	Notes *string
}

// BlockService manages blocks within a day.
type BlockService interface {
	CreateBlock(ctx context.Context, userID, dayID primitive.ObjectID, input CreateBlockInput) (*domain.Block, error)
	ListBlocks(ctx context.Context, userID, dayID primitive.ObjectID) ([]domain.Block, error)
	GetBlock(ctx context.Context, userID, blockID primitive.ObjectID) (*domain.Block, error)
	UpdateBlock(ctx context.Context, userID, blockID primitive.ObjectID, input UpdateBlockInput) (*domain.Block, error)
	// DeleteBlock removes the block and its planned exercises, atomically.
	DeleteBlock(ctx context.Context, userID, blockID primitive.ObjectID) error
	// ReorderBlocks rewrites the order of every block in the day to match
	// orderedIDs (1-based positions), in one transaction. orderedIDs must
	// contain exactly the day's current blocks.
	ReorderBlocks(ctx context.Context, userID, dayID primitive.ObjectID, orderedIDs []primitive.ObjectID) ([]domain.Block, error)
	// DeleteCascade removes the block's subtree without any ownership
	// check; for parent-level cascades only.
	DeleteCascade(ctx context.Context, block *domain.Block) error
}

// blockService implements the BlockService interface.
type blockService struct {
	routineRepo repository.RoutineRepository
	dayRepo     repository.DayRepository
	blockRepo   repository.BlockRepository
	reService   RoutineExerciseService
	tx          repository.TxRunner
}

// NewBlockService creates a new instance of blockService.
func NewBlockService(
	routineRepo repository.RoutineRepository,
	dayRepo repository.DayRepository,
	blockRepo repository.BlockRepository,
	reService RoutineExerciseService,
	tx repository.TxRunner,
) BlockService {
	return &blockService{
		routineRepo: routineRepo,
		dayRepo:     dayRepo,
		blockRepo:   blockRepo,
		reService:   reService,
		tx:          tx,
	}
}

// CreateBlock adds a block to a day of an owned routine. Without an explicit
// order it is appended after the current last sibling; the max(order)+1 read
// and the insert run in one transaction so concurrent appends cannot collide.
func (s *blockService) CreateBlock(ctx context.Context, userID, dayID primitive.ObjectID, input CreateBlockInput) (*domain.Block, error) {
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
	if input.Name == "" {
		return nil, ErrBlockName
	}

	block := &domain.Block{
		DayID:     day.ID,
		RoutineID: day.RoutineID,
		Name:      input.Name,
		Notes:     input.Notes,
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if input.Order != nil {
			block.Order = *input.Order
		} else {
			maxOrder, err := s.blockRepo.MaxOrder(txCtx, day.ID)
			if err != nil {
				return err
			}
			block.Order = maxOrder + 1
		}
		blockID, err := s.blockRepo.Create(txCtx, block)
		if err != nil {
			return err
		}
		block.ID = blockID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return block, nil
}

// ListBlocks returns the day's blocks sorted by order.
func (s *blockService) ListBlocks(ctx context.Context, userID, dayID primitive.ObjectID) ([]domain.Block, error) {
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
	return s.blockRepo.ListByDayID(ctx, day.ID)
}

// GetBlock returns a single block after the ownership check.
func (s *blockService) GetBlock(ctx context.Context, userID, blockID primitive.ObjectID) (*domain.Block, error) {
	return s.getOwnedBlock(ctx, userID, blockID)
}

// UpdateBlock applies partial changes. An explicit Order overwrite is
// accepted as-is; siblings keep their values.
func (s *blockService) UpdateBlock(ctx context.Context, userID, blockID primitive.ObjectID, input UpdateBlockInput) (*domain.Block, error) {
	block, err := s.getOwnedBlock(ctx, userID, blockID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrBlockName
		}
		block.Name = *input.Name
	}
	if input.Order != nil {
		block.Order = *input.Order
	}
	if input.Notes != nil {
		block.Notes = *input.Notes
	}

	if err := s.blockRepo.Update(ctx, block); err != nil {
		return nil, err
	}
	return block, nil
}

// DeleteBlock removes the block and its planned exercises in one transaction.
func (s *blockService) DeleteBlock(ctx context.Context, userID, blockID primitive.ObjectID) error {
	block, err := s.getOwnedBlock(ctx, userID, blockID)
	if err != nil {
		return err
	}

	return s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.DeleteCascade(txCtx, block)
	})
}

// ReorderBlocks assigns order 1..n following orderedIDs. The set of IDs must
// match the day's blocks exactly, so the result is always a consistent
// total order.
func (s *blockService) ReorderBlocks(ctx context.Context, userID, dayID primitive.ObjectID, orderedIDs []primitive.ObjectID) ([]domain.Block, error) {
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

	var reordered []domain.Block
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		blocks, err := s.blockRepo.ListByDayID(txCtx, day.ID)
		if err != nil {
			return err
		}
		byID, err := matchSiblingSet(blocks, orderedIDs, func(b domain.Block) primitive.ObjectID { return b.ID })
		if err != nil {
			return err
		}

		reordered = make([]domain.Block, 0, len(orderedIDs))
		for pos, id := range orderedIDs {
			block := byID[id]
			block.Order = pos + 1
			if err := s.blockRepo.Update(txCtx, &block); err != nil {
				return err
			}
			reordered = append(reordered, block)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reordered, nil
}

// DeleteCascade deletes the block's planned exercises, then the block.
func (s *blockService) DeleteCascade(ctx context.Context, block *domain.Block) error {
	if err := s.reService.DeleteAllInBlock(ctx, block.ID); err != nil {
		return err
	}
	return s.blockRepo.Delete(ctx, block.ID)
}

func (s *blockService) getOwnedBlock(ctx context.Context, userID, blockID primitive.ObjectID) (*domain.Block, error) {
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
	return block, nil
}

// matchSiblingSet verifies that orderedIDs is a permutation of the sibling
// slice and returns the siblings keyed by ID.
func matchSiblingSet[T any](siblings []T, orderedIDs []primitive.ObjectID, idOf func(T) primitive.ObjectID) (map[primitive.ObjectID]T, error) {
	if len(orderedIDs) != len(siblings) {
		return nil, ErrReorderMismatch
	}
	byID := make(map[primitive.ObjectID]T, len(siblings))
	for _, sib := range siblings {
		byID[idOf(sib)] = sib
	}
	seen := make(map[primitive.ObjectID]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, ok := byID[id]; !ok {
			return nil, ErrReorderMismatch
		}
		if _, dup := seen[id]; dup {
			return nil, ErrReorderMismatch
		}
		seen[id] = struct{}{}
	}
	return byID, nil
}
