package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Routine is the root of the workout hierarchy and the sole unit of ownership.
// It is never hard-deleted; Delete flips IsActive instead.
type Routine struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID        primitive.ObjectID `bson:"ownerId" json:"ownerId"` // Every descendant inherits this owner
	Name           string             `bson:"name" json:"name"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	DurationWeeks  *int               `bson:"durationWeeks,omitempty" json:"durationWeeks,omitempty"`
	DurationMonths *int               `bson:"durationMonths,omitempty" json:"durationMonths,omitempty"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
