package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutineExercise is the leaf of the hierarchy: a catalog Exercise planned
// inside a Block, together with its prescription (sets, reps, load, tempo...).
// The catalog Exercise itself is not owned by the routine tree and is never
// touched by cascade deletes.
type RoutineExercise struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BlockID          primitive.ObjectID `bson:"blockId" json:"blockId"`
	RoutineID        primitive.ObjectID `bson:"routineId" json:"routineId"` // Denormalized root reference
	ExerciseID       primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Order            int                `bson:"order" json:"order"`
	Sets             *int               `bson:"sets,omitempty" json:"sets,omitempty"`
	Repetitions      string             `bson:"repetitions,omitempty" json:"repetitions,omitempty"` // Free-form, e.g. "8-12"
	Weight           *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
	WeightPercentage *float64           `bson:"weightPercentage,omitempty" json:"weightPercentage,omitempty"`
	Tempo            string             `bson:"tempo,omitempty" json:"tempo,omitempty"`
	RestSeconds      *int               `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	Notes            string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
