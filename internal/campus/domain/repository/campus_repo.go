package repository

import (
	"context"

	"campus-facilities/internal/campus/domain/model"
)

// BuildingRepository is the record-store boundary for the buildings
// collection. Delete cascades: every room referencing the building is
// removed as well.
type BuildingRepository interface {
	Add(ctx context.Context, building *model.Building) (*model.Building, error)
	GetAll(ctx context.Context) ([]*model.Building, error)
	Update(ctx context.Context, id string, building *model.Building) (*model.Building, error)
	Delete(ctx context.Context, id string) error
}

// RoomRepository is the record-store boundary for the rooms collection.
// GetAll resolves each room's zone from its referenced building and
// returns the result in zone-then-name order.
type RoomRepository interface {
	Add(ctx context.Context, room *model.Room) (*model.Room, error)
	GetAll(ctx context.Context) ([]*model.Room, error)
	Update(ctx context.Context, id string, room *model.Room) (*model.Room, error)
	Delete(ctx context.Context, id string) error
}

// InfrastructureRepository is the record-store boundary for the
// infrastructures collection.
type InfrastructureRepository interface {
	Add(ctx context.Context, infra *model.Infrastructure) (*model.Infrastructure, error)
	GetAll(ctx context.Context) ([]*model.Infrastructure, error)
	Update(ctx context.Context, id string, infra *model.Infrastructure) (*model.Infrastructure, error)
	Delete(ctx context.Context, id string) error
}
