package api

import (
	"net/http"

	"alcyxob/routine-planner/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlockHandler holds the block service dependency.
type BlockHandler struct {
	blockService service.BlockService
}

// NewBlockHandler creates a new BlockHandler.
func NewBlockHandler(blockService service.BlockService) *BlockHandler {
	return &BlockHandler{blockService: blockService}
}

// --- Request Structs ---

type CreateBlockRequest struct {
	Name  string `json:"name" binding:"required"`
	Order *int   `json:"order" binding:"omitempty,min=1"`
	Notes string `json:"notes"`
}

type UpdateBlockRequest struct {
	Name  *string `json:"name"`
	Order *int    `json:"order" binding:"omitempty,min=1"`
	Notes *string `json:"notes"`
}

// ReorderRequest carries the complete new ordering of sibling IDs.
// Used for both blocks within a day and exercises within a block.
type ReorderRequest struct {
	OrderedIDs []string `json:"orderedIds" binding:"required,min=1"`
}

// parseOrderedIDs converts the request's hex strings into ObjectIDs,
// aborting with 400 on the first malformed entry.
func (r ReorderRequest) parseOrderedIDs(c *gin.Context) ([]primitive.ObjectID, bool) {
	ids := make([]primitive.ObjectID, 0, len(r.OrderedIDs))
	for _, raw := range r.OrderedIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid ID in orderedIds: "+raw)
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// --- Handler Methods ---

// CreateBlock adds a block to a day. Without an explicit order the block is
// appended after the day's current last block.
func (h *BlockHandler) CreateBlock(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dayID, ok := pathObjectID(c, "dayId")
	if !ok {
		return
	}

	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	block, err := h.blockService.CreateBlock(c.Request.Context(), userID, dayID, service.CreateBlockInput{
		Name:  req.Name,
		Order: req.Order,
		Notes: req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, block)
}

// ListBlocks returns a day's blocks sorted by order.
func (h *BlockHandler) ListBlocks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dayID, ok := pathObjectID(c, "dayId")
	if !ok {
		return
	}

	blocks, err := h.blockService.ListBlocks(c.Request.Context(), userID, dayID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, blocks)
}

// GetBlock returns a single block.
func (h *BlockHandler) GetBlock(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	blockID, ok := pathObjectID(c, "blockId")
	if !ok {
		return
	}

	block, err := h.blockService.GetBlock(c.Request.Context(), userID, blockID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, block)
}

// UpdateBlock applies partial changes to a block.
func (h *BlockHandler) UpdateBlock(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	blockID, ok := pathObjectID(c, "blockId")
	if !ok {
		return
	}

	var req UpdateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	block, err := h.blockService.UpdateBlock(c.Request.Context(), userID, blockID, service.UpdateBlockInput{
		Name:  req.Name,
		Order: req.Order,
		Notes: req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, block)
}

// DeleteBlock removes a block and its planned exercises.
func (h *BlockHandler) DeleteBlock(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	blockID, ok := pathObjectID(c, "blockId")
	if !ok {
		return
	}

	if err := h.blockService.DeleteBlock(c.Request.Context(), userID, blockID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ReorderBlocks rewrites the order of every block in the day. The request
// must list exactly the day's current block IDs.
func (h *BlockHandler) ReorderBlocks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dayID, ok := pathObjectID(c, "dayId")
	if !ok {
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	orderedIDs, ok := req.parseOrderedIDs(c)
	if !ok {
		return
	}

	blocks, err := h.blockService.ReorderBlocks(c.Request.Context(), userID, dayID, orderedIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, blocks)
}
