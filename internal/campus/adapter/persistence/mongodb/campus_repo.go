package mongodb

import (
	"context"
	"time"

	"campus-facilities/internal/campus/domain/model"
	"campus-facilities/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// Collection names in the record store.
const (
	CollectionBuildings       = "buildings"
	CollectionRooms           = "rooms"
	CollectionInfrastructures = "infrastructures"
)

var sortByName = bson.D{{Key: "name", Value: 1}}

// MongoBuildingRepository implements repository.BuildingRepository.
type MongoBuildingRepository struct {
	store *collectionStore[*model.Building]
	rooms *mongo.Collection
	log   logger.Logger
}

// NewMongoBuildingRepository creates the buildings repository. It keeps a
// handle on the rooms collection for the delete cascade.
func NewMongoBuildingRepository(db *mongo.Database, log logger.Logger) (*MongoBuildingRepository, error) {
	store, err := newCollectionStore[*model.Building](db, CollectionBuildings)
	if err != nil {
		return nil, err
	}
	return &MongoBuildingRepository{
		store: store,
		rooms: db.Collection(CollectionRooms),
		log:   log.WithComponent("building-repository"),
	}, nil
}

func (r *MongoBuildingRepository) Add(ctx context.Context, building *model.Building) (*model.Building, error) {
	now := time.Now().UTC()
	building.CreatedAt = now
	building.UpdatedAt = now
	return r.store.add(ctx, building)
}

func (r *MongoBuildingRepository) GetAll(ctx context.Context) ([]*model.Building, error) {
	return r.store.getAll(ctx, sortByName)
}

func (r *MongoBuildingRepository) Update(ctx context.Context, id string, building *model.Building) (*model.Building, error) {
	building.UpdatedAt = time.Now().UTC()
	return r.store.update(ctx, id, building)
}

// Delete removes the building, then every room whose buildingId references
// it. The room deletes are issued concurrently and joined before
// returning; if any one fails the caller sees a single failure, and the
// store may be left partially mutated. There is no compensating rollback.
func (r *MongoBuildingRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.delete(ctx, id); err != nil {
		return err
	}

	cur, err := r.rooms.Find(ctx, bson.M{"buildingId": id})
	if err != nil {
		return err
	}
	var orphans []*model.Room
	if err := cur.All(ctx, &orphans); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, room := range orphans {
		roomID := room.ID
		g.Go(func() error {
			_, err := r.rooms.DeleteOne(gctx, bson.M{"id": roomID})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if len(orphans) > 0 {
		r.log.WithFields(map[string]interface{}{
			"buildingId": id,
			"rooms":      len(orphans),
		}).Info("cascade deleted rooms for building")
	}
	return nil
}

// MongoRoomRepository implements repository.RoomRepository.
type MongoRoomRepository struct {
	store     *collectionStore[*model.Room]
	buildings *mongo.Collection
	log       logger.Logger
}

// NewMongoRoomRepository creates the rooms repository. It keeps a handle
// on the buildings collection for zone resolution on the read path.
func NewMongoRoomRepository(db *mongo.Database, log logger.Logger) (*MongoRoomRepository, error) {
	store, err := newCollectionStore[*model.Room](db, CollectionRooms)
	if err != nil {
		return nil, err
	}

	// The cascade-delete lookup filters on buildingId.
	buildingIdx := mongo.IndexModel{Keys: bson.D{{Key: "buildingId", Value: 1}}}
	if _, err := store.coll.Indexes().CreateOne(context.Background(), buildingIdx); err != nil {
		return nil, err
	}

	return &MongoRoomRepository{
		store:     store,
		buildings: db.Collection(CollectionBuildings),
		log:       log.WithComponent("room-repository"),
	}, nil
}

func (r *MongoRoomRepository) Add(ctx context.Context, room *model.Room) (*model.Room, error) {
	now := time.Now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now
	return r.store.add(ctx, room)
}

// GetAll loads all buildings first to build an identifier-to-zone lookup,
// annotates each room with the resolved zone label, then sorts by zone
// and name. A room whose reference does not resolve gets the literal
// unknown-building marker instead of an error.
func (r *MongoRoomRepository) GetAll(ctx context.Context) ([]*model.Room, error) {
	cur, err := r.buildings.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var buildings []*model.Building
	if err := cur.All(ctx, &buildings); err != nil {
		return nil, err
	}

	zones := make(map[string]string, len(buildings))
	for _, b := range buildings {
		zones[b.ID] = b.Situation
	}

	rooms, err := r.store.getAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	for _, room := range rooms {
		room.Situation = model.ResolveZone(zones, room.BuildingID)
	}
	model.SortRoomsByZone(rooms)

	return rooms, nil
}

func (r *MongoRoomRepository) Update(ctx context.Context, id string, room *model.Room) (*model.Room, error) {
	room.UpdatedAt = time.Now().UTC()
	return r.store.update(ctx, id, room)
}

func (r *MongoRoomRepository) Delete(ctx context.Context, id string) error {
	return r.store.delete(ctx, id)
}

// MongoInfrastructureRepository implements repository.InfrastructureRepository.
type MongoInfrastructureRepository struct {
	store *collectionStore[*model.Infrastructure]
	log   logger.Logger
}

// NewMongoInfrastructureRepository creates the infrastructures repository.
func NewMongoInfrastructureRepository(db *mongo.Database, log logger.Logger) (*MongoInfrastructureRepository, error) {
	store, err := newCollectionStore[*model.Infrastructure](db, CollectionInfrastructures)
	if err != nil {
		return nil, err
	}
	return &MongoInfrastructureRepository{
		store: store,
		log:   log.WithComponent("infrastructure-repository"),
	}, nil
}

func (r *MongoInfrastructureRepository) Add(ctx context.Context, infra *model.Infrastructure) (*model.Infrastructure, error) {
	now := time.Now().UTC()
	infra.CreatedAt = now
	infra.UpdatedAt = now
	return r.store.add(ctx, infra)
}

func (r *MongoInfrastructureRepository) GetAll(ctx context.Context) ([]*model.Infrastructure, error) {
	return r.store.getAll(ctx, sortByName)
}

func (r *MongoInfrastructureRepository) Update(ctx context.Context, id string, infra *model.Infrastructure) (*model.Infrastructure, error) {
	infra.UpdatedAt = time.Now().UTC()
	return r.store.update(ctx, id, infra)
}

func (r *MongoInfrastructureRepository) Delete(ctx context.Context, id string) error {
	return r.store.delete(ctx, id)
}
