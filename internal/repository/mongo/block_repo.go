package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/routine-planner/internal/domain"
	"alcyxob/routine-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const blockCollectionName = "blocks"

// mongoBlockRepository implements repository.BlockRepository
type mongoBlockRepository struct {
	collection *mongo.Collection
}

// NewMongoBlockRepository creates a new Block repository.
func NewMongoBlockRepository(db *mongo.Database) repository.BlockRepository {
	return &mongoBlockRepository{
		collection: db.Collection(blockCollectionName),
	}
}

// Create inserts a new block. The service layer assigns Order before calling.
func (r *mongoBlockRepository) Create(ctx context.Context, block *domain.Block) (primitive.ObjectID, error) {
	if block.DayID == primitive.NilObjectID || block.RoutineID == primitive.NilObjectID || block.Name == "" {
		return primitive.NilObjectID, errors.New("block requires dayId, routineId and name")
	}

	block.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	block.CreatedAt = now
	block.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, block)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted block ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single block by its ID.
func (r *mongoBlockRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Block, error) {
	var block domain.Block
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&block)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &block, nil
}

// ListByDayID retrieves all blocks of a day sorted by order, then insertion.
func (r *mongoBlockRepository) ListByDayID(ctx context.Context, dayID primitive.ObjectID) ([]domain.Block, error) {
	return r.list(ctx, bson.M{"dayId": dayID})
}

// ListByDayIDs retrieves the blocks of every listed day in one query.
// Used by tree assembly.
func (r *mongoBlockRepository) ListByDayIDs(ctx context.Context, dayIDs []primitive.ObjectID) ([]domain.Block, error) {
	if len(dayIDs) == 0 {
		return []domain.Block{}, nil
	}
	return r.list(ctx, bson.M{"dayId": bson.M{"$in": dayIDs}})
}

func (r *mongoBlockRepository) list(ctx context.Context, filter bson.M) ([]domain.Block, error) {
	// _id as tiebreaker keeps equal orders in insertion sequence
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var blocks []domain.Block
	if err = cursor.All(ctx, &blocks); err != nil {
		return nil, err
	}
	if blocks == nil {
		blocks = []domain.Block{}
	}
	return blocks, nil
}

// MaxOrder returns the highest order value among the day's blocks, 0 if the
// day has none.
func (r *mongoBlockRepository) MaxOrder(ctx context.Context, dayID primitive.ObjectID) (int, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "order", Value: -1}})

	var block domain.Block
	err := r.collection.FindOne(ctx, bson.M{"dayId": dayID}, findOptions).Decode(&block)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return block.Order, nil
}

// Update applies the updatable block fields. DayID and RoutineID are fixed
// at creation; blocks are never reparented.
func (r *mongoBlockRepository) Update(ctx context.Context, block *domain.Block) error {
	if block.ID == primitive.NilObjectID {
		return errors.New("block ID is required for update")
	}

	filter := bson.M{"_id": block.ID}
	updateDoc := bson.M{
		"$set": bson.M{
			"name":      block.Name,
			"order":     block.Order,
			"notes":     block.Notes,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a single block document. Descendants are removed by the
// service-level cascade.
func (r *mongoBlockRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureBlockIndexes creates necessary indexes. Call during startup.
func EnsureBlockIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "dayId", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "routineId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
