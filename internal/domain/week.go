package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Week groups days within a Routine. WeekNumber is unique per routine.
type Week struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoutineID  primitive.ObjectID `bson:"routineId" json:"routineId"`
	WeekNumber int                `bson:"weekNumber" json:"weekNumber"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
