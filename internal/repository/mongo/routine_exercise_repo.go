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

const routineExerciseCollectionName = "routine_exercises"

// mongoRoutineExerciseRepository implements repository.RoutineExerciseRepository
type mongoRoutineExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoRoutineExerciseRepository creates a new RoutineExercise repository.
func NewMongoRoutineExerciseRepository(db *mongo.Database) repository.RoutineExerciseRepository {
	return &mongoRoutineExerciseRepository{
		collection: db.Collection(routineExerciseCollectionName),
	}
}

// Create inserts a new planned exercise. The service layer assigns Order
// and verifies the catalog reference before calling.
func (r *mongoRoutineExerciseRepository) Create(ctx context.Context, re *domain.RoutineExercise) (primitive.ObjectID, error) {
	if re.BlockID == primitive.NilObjectID || re.RoutineID == primitive.NilObjectID || re.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("routine exercise requires blockId, routineId and exerciseId")
	}

	re.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	re.CreatedAt = now
	re.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, re)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted routine exercise ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single planned exercise by its ID.
func (r *mongoRoutineExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineExercise, error) {
	var re domain.RoutineExercise
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&re)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &re, nil
}

// ListByBlockID retrieves all planned exercises of a block sorted by order.
func (r *mongoRoutineExerciseRepository) ListByBlockID(ctx context.Context, blockID primitive.ObjectID) ([]domain.RoutineExercise, error) {
	return r.list(ctx, bson.M{"blockId": blockID})
}

// ListByBlockIDs retrieves the planned exercises of every listed block in
// one query. Used by tree assembly.
func (r *mongoRoutineExerciseRepository) ListByBlockIDs(ctx context.Context, blockIDs []primitive.ObjectID) ([]domain.RoutineExercise, error) {
	if len(blockIDs) == 0 {
		return []domain.RoutineExercise{}, nil
	}
	return r.list(ctx, bson.M{"blockId": bson.M{"$in": blockIDs}})
}

func (r *mongoRoutineExerciseRepository) list(ctx context.Context, filter bson.M) ([]domain.RoutineExercise, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var res []domain.RoutineExercise
	if err = cursor.All(ctx, &res); err != nil {
		return nil, err
	}
	if res == nil {
		res = []domain.RoutineExercise{}
	}
	return res, nil
}

// MaxOrder returns the highest order value among the block's planned
// exercises, 0 if the block has none.
func (r *mongoRoutineExerciseRepository) MaxOrder(ctx context.Context, blockID primitive.ObjectID) (int, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "order", Value: -1}})

	var re domain.RoutineExercise
	err := r.collection.FindOne(ctx, bson.M{"blockId": blockID}, findOptions).Decode(&re)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return re.Order, nil
}

// Update applies the updatable prescription fields. BlockID, RoutineID and
// ExerciseID are fixed at creation.
func (r *mongoRoutineExerciseRepository) Update(ctx context.Context, re *domain.RoutineExercise) error {
	if re.ID == primitive.NilObjectID {
		return errors.New("routine exercise ID is required for update")
	}

	filter := bson.M{"_id": re.ID}
	updateDoc := bson.M{
		"$set": bson.M{
			"order":            re.Order,
			"sets":             re.Sets,
			"repetitions":      re.Repetitions,
			"weight":           re.Weight,
			"weightPercentage": re.WeightPercentage,
			"tempo":            re.Tempo,
			"restSeconds":      re.RestSeconds,
			"notes":            re.Notes,
			"updatedAt":        time.Now().UTC(),
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

// Delete removes a single planned exercise.
func (r *mongoRoutineExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByBlockID removes every planned exercise of a block in one
// statement. The referenced catalog exercises are untouched.
func (r *mongoRoutineExerciseRepository) DeleteByBlockID(ctx context.Context, blockID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"blockId": blockID})
	return err
}

// EnsureRoutineExerciseIndexes creates necessary indexes. Call during startup.
func EnsureRoutineExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "blockId", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "exerciseId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "routineId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
