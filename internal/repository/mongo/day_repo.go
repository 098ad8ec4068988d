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

const dayCollectionName = "days"

// mongoDayRepository implements repository.DayRepository
type mongoDayRepository struct {
	collection *mongo.Collection
}

// NewMongoDayRepository creates a new Day repository.
func NewMongoDayRepository(db *mongo.Database) repository.DayRepository {
	return &mongoDayRepository{
		collection: db.Collection(dayCollectionName),
	}
}

// Create inserts a new day.
func (r *mongoDayRepository) Create(ctx context.Context, day *domain.Day) (primitive.ObjectID, error) {
	if day.WeekID == primitive.NilObjectID || day.RoutineID == primitive.NilObjectID || day.DayNumber <= 0 {
		return primitive.NilObjectID, errors.New("day requires weekId, routineId and a positive dayNumber")
	}

	day.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	day.CreatedAt = now
	day.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, day)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted day ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single day by its ID.
func (r *mongoDayRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Day, error) {
	var day domain.Day
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&day)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &day, nil
}

// ListByWeekID retrieves all days of a week sorted by dayNumber.
func (r *mongoDayRepository) ListByWeekID(ctx context.Context, weekID primitive.ObjectID) ([]domain.Day, error) {
	return r.list(ctx, bson.M{"weekId": weekID})
}

// ListByWeekIDs retrieves the days of every listed week in one query,
// sorted by dayNumber. Used by tree assembly.
func (r *mongoDayRepository) ListByWeekIDs(ctx context.Context, weekIDs []primitive.ObjectID) ([]domain.Day, error) {
	if len(weekIDs) == 0 {
		return []domain.Day{}, nil
	}
	return r.list(ctx, bson.M{"weekId": bson.M{"$in": weekIDs}})
}

func (r *mongoDayRepository) list(ctx context.Context, filter bson.M) ([]domain.Day, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "dayNumber", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var days []domain.Day
	if err = cursor.All(ctx, &days); err != nil {
		return nil, err
	}
	if days == nil {
		days = []domain.Day{}
	}
	return days, nil
}

// NumberExists reports whether another day in the week uses dayNumber.
func (r *mongoDayRepository) NumberExists(ctx context.Context, weekID primitive.ObjectID, dayNumber int, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"weekId":    weekID,
		"dayNumber": dayNumber,
	}
	if excludeID != primitive.NilObjectID {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update applies the updatable day fields. WeekID and RoutineID are fixed at
// creation; days are never reparented.
func (r *mongoDayRepository) Update(ctx context.Context, day *domain.Day) error {
	if day.ID == primitive.NilObjectID {
		return errors.New("day ID is required for update")
	}

	filter := bson.M{"_id": day.ID}
	updateDoc := bson.M{
		"$set": bson.M{
			"dayNumber": day.DayNumber,
			"name":      day.Name,
			"notes":     day.Notes,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateKey
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a single day document. Descendants are removed by the
// service-level cascade.
func (r *mongoDayRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureDayIndexes creates necessary indexes. Call during startup.
func EnsureDayIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "weekId", Value: 1}, {Key: "dayNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "routineId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
