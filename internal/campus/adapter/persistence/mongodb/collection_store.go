package mongodb

import (
	"context"

	apperrors "campus-facilities/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Record is the minimal contract a document must satisfy to live in a
// collection store: its store-assigned identifier is readable and
// writable, because the identifier is duplicated inside the document body.
type Record interface {
	GetID() string
	SetID(id string)
}

// collectionStore implements the common add/getAll/update/delete cycle
// shared by all three campus collections. The collection-specific reads
// (room zone resolution) and deletes (building cascade) live in the
// concrete repositories.
type collectionStore[T Record] struct {
	coll *mongo.Collection
}

func newCollectionStore[T Record](db *mongo.Database, name string) (*collectionStore[T], error) {
	if name == "" {
		return nil, apperrors.ErrInvalidCollection
	}
	coll := db.Collection(name)

	// Index on the body-side identifier; every lookup after insert goes
	// through it rather than _id.
	idIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetSparse(true),
	}
	if _, err := coll.Indexes().CreateOne(context.Background(), idIndex); err != nil {
		return nil, err
	}

	return &collectionStore[T]{coll: coll}, nil
}

// add inserts the record, lets the store assign an identifier, then
// performs a second write that stores that identifier back into the
// document's own fields. Returns the record merged with its new
// identifier. No retry on failure.
func (s *collectionStore[T]) add(ctx context.Context, rec T) (T, error) {
	var zero T

	res, err := s.coll.InsertOne(ctx, rec)
	if err != nil {
		return zero, err
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return zero, apperrors.ErrInvalidRecordID
	}
	id := oid.Hex()

	if _, err := s.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"id": id}}); err != nil {
		return zero, err
	}

	rec.SetID(id)
	return rec, nil
}

// getAll returns every document in the collection. No pagination, no
// filtering at this layer. An optional store-side sort may be applied.
func (s *collectionStore[T]) getAll(ctx context.Context, sort bson.D) ([]T, error) {
	opts := options.Find()
	if sort != nil {
		// Locale-aware, case-insensitive ordering for name fields.
		opts.SetSort(sort).SetCollation(&options.Collation{Locale: "fr", Strength: 2})
	}

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// update overwrites the record's data fields on the existing document,
// zero values included, so a cleared field really clears in the store.
// Store-managed fields outside the payload (_id, createdAt) are left
// untouched: a merge-patch, not a replace. The returned record is the
// identifier merged with the given fields, so callers must pass complete
// records to avoid silent field loss in their own mirrors.
func (s *collectionStore[T]) update(ctx context.Context, id string, rec T) (T, error) {
	var zero T

	rec.SetID(id)
	res, err := s.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": rec})
	if err != nil {
		return zero, err
	}
	if res.MatchedCount == 0 {
		return zero, apperrors.ErrRecordNotFound
	}

	return rec, nil
}

// delete removes the document. Deleting an identifier that does not exist
// is a no-op; unrelated records are never affected.
func (s *collectionStore[T]) delete(ctx context.Context, id string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"id": id})
	return err
}
