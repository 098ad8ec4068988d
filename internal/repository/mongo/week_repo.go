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

const weekCollectionName = "weeks"

// mongoWeekRepository implements repository.WeekRepository
type mongoWeekRepository struct {
	collection *mongo.Collection
}

// NewMongoWeekRepository creates a new Week repository.
func NewMongoWeekRepository(db *mongo.Database) repository.WeekRepository {
	return &mongoWeekRepository{
		collection: db.Collection(weekCollectionName),
	}
}

// Create inserts a new week.
func (r *mongoWeekRepository) Create(ctx context.Context, week *domain.Week) (primitive.ObjectID, error) {
	if week.RoutineID == primitive.NilObjectID || week.WeekNumber <= 0 {
		return primitive.NilObjectID, errors.New("week requires routineId and a positive weekNumber")
	}

	week.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	week.CreatedAt = now
	week.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, week)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted week ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single week by its ID.
func (r *mongoWeekRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Week, error) {
	var week domain.Week
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&week)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &week, nil
}

// ListByRoutineID retrieves all weeks of a routine sorted by weekNumber.
func (r *mongoWeekRepository) ListByRoutineID(ctx context.Context, routineID primitive.ObjectID) ([]domain.Week, error) {
	filter := bson.M{"routineId": routineID}
	findOptions := options.Find().SetSort(bson.D{{Key: "weekNumber", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var weeks []domain.Week
	if err = cursor.All(ctx, &weeks); err != nil {
		return nil, err
	}
	if weeks == nil {
		weeks = []domain.Week{}
	}
	return weeks, nil
}

// NumberExists reports whether another week in the routine uses weekNumber.
func (r *mongoWeekRepository) NumberExists(ctx context.Context, routineID primitive.ObjectID, weekNumber int, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"routineId":  routineID,
		"weekNumber": weekNumber,
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

// Update applies the updatable week fields. RoutineID is fixed at creation;
// weeks are never reparented.
func (r *mongoWeekRepository) Update(ctx context.Context, week *domain.Week) error {
	if week.ID == primitive.NilObjectID {
		return errors.New("week ID is required for update")
	}

	filter := bson.M{"_id": week.ID}
	updateDoc := bson.M{
		"$set": bson.M{
			"weekNumber": week.WeekNumber,
			"notes":      week.Notes,
			"updatedAt":  time.Now().UTC(),
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

// Delete removes a single week document. Descendants are removed by the
// service-level cascade, not here.
func (r *mongoWeekRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWeekIndexes creates necessary indexes. The unique compound index
// backs the service-level weekNumber uniqueness check against races.
func EnsureWeekIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "routineId", Value: 1}, {Key: "weekNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
