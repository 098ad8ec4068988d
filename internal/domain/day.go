package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Day is a training day inside a Week. DayNumber is unique per week.
// RoutineID is denormalized so ownership resolves in a single lookup
// instead of walking the parent chain.
type Day struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WeekID    primitive.ObjectID `bson:"weekId" json:"weekId"`
	RoutineID primitive.ObjectID `bson:"routineId" json:"routineId"` // Denormalized root reference
	DayNumber int                `bson:"dayNumber" json:"dayNumber"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
