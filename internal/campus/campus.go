package campus

import (
	"context"
	"fmt"

	campushttp "campus-facilities/internal/campus/adapter/http"
	"campus-facilities/internal/campus/adapter/persistence/mongodb"
	"campus-facilities/internal/campus/adapter/storage/bucket"
	"campus-facilities/internal/campus/config"
	"campus-facilities/internal/campus/usecase"
	"campus-facilities/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// CampusModule wires the campus catalog feature: the MongoDB
// repositories, the bucket blob store, the data provider and the HTTP
// handler.
type CampusModule struct {
	provider *usecase.CampusProvider
	uploads  *usecase.UploadService
	handler  *campushttp.CampusHandler
	config   *config.CampusConfig
}

// NewCampusModule creates a new campus module instance.
func NewCampusModule(db *mongo.Database, cfg *config.CampusConfig, log logger.Logger) (*CampusModule, error) {
	buildingRepo, err := mongodb.NewMongoBuildingRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create building repository: %w", err)
	}
	roomRepo, err := mongodb.NewMongoRoomRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create room repository: %w", err)
	}
	infraRepo, err := mongodb.NewMongoInfrastructureRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create infrastructure repository: %w", err)
	}

	provider := usecase.NewCampusProvider(buildingRepo, roomRepo, infraRepo, log)

	blobStore := bucket.NewClient(&cfg.Storage, log)
	uploads := usecase.NewUploadService(blobStore, log)

	handler := campushttp.NewCampusHandler(provider, uploads, log)

	return &CampusModule{
		provider: provider,
		uploads:  uploads,
		handler:  handler,
		config:   cfg,
	}, nil
}

// Load runs the initial fetch of the three campus collections. Call it
// once at startup, after the routes are registered; the handler answers
// 503 until it completes.
func (cm *CampusModule) Load(ctx context.Context) {
	cm.provider.Load(ctx)
}

// RegisterRoutes registers the campus routes on the given router.
func (cm *CampusModule) RegisterRoutes(router fiber.Router) {
	cm.handler.RegisterRoutes(router)
}

// GetProvider returns the campus data provider for external access.
func (cm *CampusModule) GetProvider() *usecase.CampusProvider {
	return cm.provider
}
