package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Infrastructure represents a campus facility that is neither a building
// nor a room (sports ground, parking, water point...). Structurally a
// building without the room relationship.
type Infrastructure struct {
	ID          string             `json:"id" bson:"id,omitempty"`
	ObjectID    primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" validate:"required"`
	Description string             `json:"description,omitempty" bson:"description"`
	Latitude    float64            `json:"latitude" bson:"latitude" validate:"latitude"`
	Longitude   float64            `json:"longitude" bson:"longitude" validate:"longitude"`
	Images      []string           `json:"images,omitempty" bson:"images"`
	Type        string             `json:"type,omitempty" bson:"type"`
	Situation   string             `json:"situation,omitempty" bson:"situation" validate:"omitempty,oneof='Campus nord' 'Campus sud'"`
	CreatedAt   time.Time          `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt   time.Time          `json:"updatedAt,omitempty" bson:"updatedAt"`
}

// GetID returns the store-assigned identifier.
func (i *Infrastructure) GetID() string { return i.ID }

// SetID writes the store-assigned identifier into the record.
func (i *Infrastructure) SetID(id string) { i.ID = id }
