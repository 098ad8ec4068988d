package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Block is an ordered section of a Day (e.g. "Warm-up", "Main").
// Order positions it among sibling blocks; values need not be contiguous.
type Block struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DayID     primitive.ObjectID `bson:"dayId" json:"dayId"`
	RoutineID primitive.ObjectID `bson:"routineId" json:"routineId"` // Denormalized root reference
	Name      string             `bson:"name" json:"name"`
	Order     int                `bson:"order" json:"order"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
