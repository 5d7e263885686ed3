package model

import (
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Room represents a room inside a building. BuildingID is a weak reference:
// it is never checked when a room is created or updated, only honored at
// building delete time through the cascade.
type Room struct {
	ID          string             `json:"id" bson:"id,omitempty"`
	ObjectID    primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" validate:"required"`
	Capacity    int                `json:"capacity,omitempty" bson:"capacity" validate:"min=0"`
	Description string             `json:"description,omitempty" bson:"description"`
	Images      []string           `json:"images,omitempty" bson:"images"`
	BuildingID  string             `json:"buildingId,omitempty" bson:"buildingId"`
	Latitude    *float64           `json:"latitude,omitempty" bson:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64           `json:"longitude,omitempty" bson:"longitude" validate:"omitempty,longitude"`

	// Situation is the zone label resolved from the referenced building on
	// the read path. It is display data, not authoritative storage.
	Situation string `json:"situation,omitempty" bson:"situation"`

	CreatedAt time.Time `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" bson:"updatedAt"`
}

// GetID returns the store-assigned identifier.
func (r *Room) GetID() string { return r.ID }

// SetID writes the store-assigned identifier into the record.
func (r *Room) SetID(id string) { r.ID = id }

// ResolveZone maps a building reference to its zone label, falling back
// to the unknown-building marker when the reference does not resolve.
func ResolveZone(zones map[string]string, buildingID string) string {
	if zone, ok := zones[buildingID]; ok && zone != "" {
		return zone
	}
	return UnknownBuildingLabel
}

// nameCollator compares room names the way the reference client does:
// case-insensitive and locale-aware. The catalog is French-labelled, so
// French collation rules apply to accented names.
var nameCollator = collate.New(language.French, collate.IgnoreCase)

// SortRoomsByZone orders rooms by resolved zone label first (lowercased,
// plain lexical compare), then by name (case-insensitive, locale-aware)
// as the tiebreak. The sort is stable so equal keys keep their relative
// order.
func SortRoomsByZone(rooms []*Room) {
	sort.SliceStable(rooms, func(i, j int) bool {
		z1 := strings.ToLower(rooms[i].Situation)
		z2 := strings.ToLower(rooms[j].Situation)
		if z1 != z2 {
			return z1 < z2
		}
		n1 := strings.ToLower(rooms[i].Name)
		n2 := strings.ToLower(rooms[j].Name)
		return nameCollator.CompareString(n1, n2) < 0
	})
}
