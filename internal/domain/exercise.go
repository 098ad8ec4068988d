package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Catalog classification values. Stored as plain strings; validation happens
// in the service layer so the storage schema stays flexible.
const (
	MovementPush  = "push"
	MovementPull  = "pull"
	MovementSquat = "squat"
	MovementHinge = "hinge"
	MovementCarry = "carry"
	MovementOther = "other"
)

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Exercise is a library entry referenced by RoutineExercise nodes.
// It carries a soft-delete flag: deactivated exercises stay referenced by
// existing routines but cannot be added to new ones.
type Exercise struct {
	ID                    primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name                  string              `bson:"name" json:"name"`
	Description           string              `bson:"description,omitempty" json:"description,omitempty"`
	MovementType          string              `bson:"movementType,omitempty" json:"movementType,omitempty"`
	PrimaryMuscleGroup    string              `bson:"primaryMuscleGroup,omitempty" json:"primaryMuscleGroup,omitempty"`
	SecondaryMuscleGroups []string            `bson:"secondaryMuscleGroups,omitempty" json:"secondaryMuscleGroups,omitempty"`
	Equipment             string              `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Difficulty            string              `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Instructions          string              `bson:"instructions,omitempty" json:"instructions,omitempty"`
	ImageURL              string              `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	VideoObjectKey        string              `bson:"videoObjectKey,omitempty" json:"-"` // S3 key; presigned URLs are generated on demand
	IsActive              bool                `bson:"isActive" json:"isActive"`
	CreatedBy             *primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt             time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time           `bson:"updatedAt" json:"updatedAt"`
}
