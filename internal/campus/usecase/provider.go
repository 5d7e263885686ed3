package usecase

import (
	"context"
	"sync"

	"campus-facilities/internal/campus/domain/model"
	"campus-facilities/internal/campus/domain/repository"
	"campus-facilities/internal/shared/logger"

	"golang.org/x/sync/errgroup"
)

// CampusProvider owns the single in-memory mirror of the three campus
// collections for the lifetime of the process and is the only path
// through which handlers read or mutate campus data.
//
// Consistency contract: every mutator calls the record store first and
// patches the mirror only from the returned value, strictly after the
// remote write resolves. The mirror never shows a record the store does
// not also have. On a failed remote write the mirror is untouched; there
// is nothing to roll back because nothing was speculatively applied.
// No mutator re-fetches after writing, and no subscription or polling
// reconciles concurrent writers.
type CampusProvider struct {
	mu        sync.RWMutex
	buildings []*model.Building
	rooms     []*model.Room
	infras    []*model.Infrastructure
	loading   bool

	buildingRepo repository.BuildingRepository
	roomRepo     repository.RoomRepository
	infraRepo    repository.InfrastructureRepository
	log          logger.Logger
}

// NewCampusProvider creates the provider in its loading state. It is
// constructed once at application start and passed down explicitly.
func NewCampusProvider(
	buildings repository.BuildingRepository,
	rooms repository.RoomRepository,
	infras repository.InfrastructureRepository,
	log logger.Logger,
) *CampusProvider {
	return &CampusProvider{
		buildings:    make([]*model.Building, 0),
		rooms:        make([]*model.Room, 0),
		infras:       make([]*model.Infrastructure, 0),
		loading:      true,
		buildingRepo: buildings,
		roomRepo:     rooms,
		infraRepo:    infras,
		log:          log.WithComponent("campus-provider"),
	}
}

// Load runs the initialization protocol: fetch all three collections
// concurrently; on success populate the mirror; on any failure log and
// leave the lists empty; in all cases clear the loading flag. Intended
// to run once at startup.
func (p *CampusProvider) Load(ctx context.Context) {
	defer func() {
		p.mu.Lock()
		p.loading = false
		p.mu.Unlock()
	}()

	var (
		buildings []*model.Building
		rooms     []*model.Room
		infras    []*model.Infrastructure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		buildings, err = p.buildingRepo.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rooms, err = p.roomRepo.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		infras, err = p.infraRepo.GetAll(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		p.log.Errorf("initial campus data load failed: %v", err)
		return
	}

	p.mu.Lock()
	p.buildings = buildings
	p.rooms = rooms
	p.infras = infras
	p.mu.Unlock()

	p.log.WithFields(map[string]interface{}{
		"buildings":       len(buildings),
		"rooms":           len(rooms),
		"infrastructures": len(infras),
	}).Info("campus data loaded")
}

// Ready reports whether the initial load has completed. Until then no
// reader observes partially loaded state.
func (p *CampusProvider) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.loading
}

// Buildings returns a snapshot of the mirrored buildings list.
func (p *CampusProvider) Buildings() []*model.Building {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*model.Building, len(p.buildings))
	copy(out, p.buildings)
	return out
}

// Rooms returns a snapshot of the mirrored rooms list.
func (p *CampusProvider) Rooms() []*model.Room {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*model.Room, len(p.rooms))
	copy(out, p.rooms)
	return out
}

// Infrastructures returns a snapshot of the mirrored infrastructures list.
func (p *CampusProvider) Infrastructures() []*model.Infrastructure {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*model.Infrastructure, len(p.infras))
	copy(out, p.infras)
	return out
}

// AddBuilding persists the building, then prepends it to the mirror
// (newest first).
func (p *CampusProvider) AddBuilding(ctx context.Context, building *model.Building) (*model.Building, error) {
	added, err := p.buildingRepo.Add(ctx, building)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.buildings = append([]*model.Building{added}, p.buildings...)
	p.mu.Unlock()
	return added, nil
}

// UpdateBuilding persists the update, then replaces the matching mirror
// entry in place. Callers pass complete records; the store applies a
// merge-patch and the mirror takes the returned value as-is.
func (p *CampusProvider) UpdateBuilding(ctx context.Context, id string, building *model.Building) (*model.Building, error) {
	updated, err := p.buildingRepo.Update(ctx, id, building)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	for i, b := range p.buildings {
		if b.ID == updated.ID {
			p.buildings[i] = updated
			break
		}
	}
	p.mu.Unlock()
	return updated, nil
}

// DeleteBuilding deletes the building (the store cascades its rooms),
// then removes the building and every room referencing it from the
// mirror.
func (p *CampusProvider) DeleteBuilding(ctx context.Context, id string) error {
	if err := p.buildingRepo.Delete(ctx, id); err != nil {
		return err
	}

	p.mu.Lock()
	buildings := p.buildings[:0]
	for _, b := range p.buildings {
		if b.ID != id {
			buildings = append(buildings, b)
		}
	}
	p.buildings = buildings

	rooms := p.rooms[:0]
	for _, r := range p.rooms {
		if r.BuildingID != id {
			rooms = append(rooms, r)
		}
	}
	p.rooms = rooms
	p.mu.Unlock()
	return nil
}

// AddRoom persists the room, resolves its zone against the mirrored
// buildings, then inserts it and re-sorts the mirror into zone/name
// order so local adds match what a full reload would return.
func (p *CampusProvider) AddRoom(ctx context.Context, room *model.Room) (*model.Room, error) {
	added, err := p.roomRepo.Add(ctx, room)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	added.Situation = model.ResolveZone(p.zoneLookup(), added.BuildingID)
	p.rooms = append([]*model.Room{added}, p.rooms...)
	model.SortRoomsByZone(p.rooms)
	p.mu.Unlock()
	return added, nil
}

// UpdateRoom persists the update, replaces the mirror entry, re-resolves
// the zone and restores the sort order (the name or building may have
// changed).
func (p *CampusProvider) UpdateRoom(ctx context.Context, id string, room *model.Room) (*model.Room, error) {
	updated, err := p.roomRepo.Update(ctx, id, room)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	updated.Situation = model.ResolveZone(p.zoneLookup(), updated.BuildingID)
	for i, r := range p.rooms {
		if r.ID == updated.ID {
			p.rooms[i] = updated
			break
		}
	}
	model.SortRoomsByZone(p.rooms)
	p.mu.Unlock()
	return updated, nil
}

// DeleteRoom deletes the room, then removes the single matching mirror
// entry.
func (p *CampusProvider) DeleteRoom(ctx context.Context, id string) error {
	if err := p.roomRepo.Delete(ctx, id); err != nil {
		return err
	}

	p.mu.Lock()
	rooms := p.rooms[:0]
	for _, r := range p.rooms {
		if r.ID != id {
			rooms = append(rooms, r)
		}
	}
	p.rooms = rooms
	p.mu.Unlock()
	return nil
}

// AddInfrastructure persists the infrastructure, then prepends it to the
// mirror (newest first).
func (p *CampusProvider) AddInfrastructure(ctx context.Context, infra *model.Infrastructure) (*model.Infrastructure, error) {
	added, err := p.infraRepo.Add(ctx, infra)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.infras = append([]*model.Infrastructure{added}, p.infras...)
	p.mu.Unlock()
	return added, nil
}

// UpdateInfrastructure persists the update, then replaces the matching
// mirror entry in place.
func (p *CampusProvider) UpdateInfrastructure(ctx context.Context, id string, infra *model.Infrastructure) (*model.Infrastructure, error) {
	updated, err := p.infraRepo.Update(ctx, id, infra)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	for i, inf := range p.infras {
		if inf.ID == updated.ID {
			p.infras[i] = updated
			break
		}
	}
	p.mu.Unlock()
	return updated, nil
}

// DeleteInfrastructure deletes the infrastructure, then removes the
// single matching mirror entry.
func (p *CampusProvider) DeleteInfrastructure(ctx context.Context, id string) error {
	if err := p.infraRepo.Delete(ctx, id); err != nil {
		return err
	}

	p.mu.Lock()
	infras := p.infras[:0]
	for _, inf := range p.infras {
		if inf.ID != id {
			infras = append(infras, inf)
		}
	}
	p.infras = infras
	p.mu.Unlock()
	return nil
}

// zoneLookup builds the building-id to zone map from the mirror. Callers
// must hold the lock.
func (p *CampusProvider) zoneLookup() map[string]string {
	zones := make(map[string]string, len(p.buildings))
	for _, b := range p.buildings {
		zones[b.ID] = b.Situation
	}
	return zones
}
