package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Campus zones. The situation label places a building or infrastructure
// in one of a small fixed set of campus areas.
const (
	ZoneNorthCampus = "Campus nord"
	ZoneSouthCampus = "Campus sud"
)

// UnknownBuildingLabel is the zone fallback used when a room references
// a building that no longer exists. A dangling reference is tolerated,
// not rejected; it only surfaces at display time through this marker.
const UnknownBuildingLabel = "Bâtiment inconnu"

// Building represents a campus building. The identifier is assigned by the
// record store and duplicated inside the document body so every full read
// is self-identifying.
type Building struct {
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
func (b *Building) GetID() string { return b.ID }

// SetID writes the store-assigned identifier into the record.
func (b *Building) SetID(id string) { b.ID = id }
