package mongodb

import (
	"testing"
	"time"

	"campus-facilities/internal/campus/domain/model"
	apperrors "campus-facilities/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCollectionNames(t *testing.T) {
	// Wire-level collection names are part of the store contract.
	assert.Equal(t, "buildings", CollectionBuildings)
	assert.Equal(t, "rooms", CollectionRooms)
	assert.Equal(t, "infrastructures", CollectionInfrastructures)
}

func TestNewCollectionStore_RejectsEmptyName(t *testing.T) {
	_, err := newCollectionStore[*model.Room](nil, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCollection)
}

// The update path sends the record itself as the $set document, so the
// marshaled form decides which fields an update can clear. Zero-valued
// data fields must appear in it (a cleared description or capacity really
// clears in the store), while store-managed fields stay out of the patch.
func TestUpdateDocument_CarriesClearedFields(t *testing.T) {
	room := &model.Room{
		Name:       "101",
		Capacity:   0,
		BuildingID: "",
		UpdatedAt:  time.Now().UTC(),
	}
	room.SetID("r1")

	raw, err := bson.Marshal(room)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))

	assert.Contains(t, doc, "description")
	assert.Equal(t, "", doc["description"])
	assert.Contains(t, doc, "capacity")
	assert.EqualValues(t, 0, doc["capacity"])
	assert.Contains(t, doc, "buildingId")
	assert.Equal(t, "", doc["buildingId"])
	assert.Contains(t, doc, "images")

	assert.NotContains(t, doc, "createdAt", "store-managed field stays outside the patch")
	assert.NotContains(t, doc, "_id")
	assert.Equal(t, "r1", doc["id"])
}

func TestUpdateDocument_BuildingClearsZoneAndDescription(t *testing.T) {
	building := &model.Building{
		Name:      "A",
		Latitude:  3.86,
		Longitude: 11.52,
		UpdatedAt: time.Now().UTC(),
	}
	building.SetID("b1")

	raw, err := bson.Marshal(building)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))

	assert.Contains(t, doc, "situation")
	assert.Equal(t, "", doc["situation"])
	assert.Contains(t, doc, "description")
	assert.Equal(t, "", doc["description"])
	assert.NotContains(t, doc, "createdAt")
}
