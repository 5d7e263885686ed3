package di

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"campus-facilities/internal/auth"
	authconfig "campus-facilities/internal/auth/config"
	"campus-facilities/internal/campus"
	campusconfig "campus-facilities/internal/campus/config"
	"campus-facilities/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container represents a dependency injection container with proper
// lifecycle management.
type Container struct {
	mu        sync.RWMutex
	services  map[reflect.Type]interface{}
	factories map[reflect.Type]func() (interface{}, error)
	// Module instances
	AuthModule   *auth.AuthModule
	CampusModule *campus.CampusModule
	// Connections
	MongoDB *mongo.Database
	Redis   *redis.Client
	// Configuration
	AuthConfig   *authconfig.Config
	CampusConfig *campusconfig.CampusConfig
	// Logger
	Logger logger.Logger
}

// NewContainer creates a new DI container.
func NewContainer(log logger.Logger) *Container {
	return &Container{
		services:  make(map[reflect.Type]interface{}),
		factories: make(map[reflect.Type]func() (interface{}, error)),
		Logger:    log,
	}
}

// InitializeAuth initializes the authentication module.
func (c *Container) InitializeAuth(mongoDB *mongo.Database, redisClient *redis.Client, authConfig *authconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.MongoDB = mongoDB
	c.Redis = redisClient
	c.AuthConfig = authConfig

	authModule, err := auth.NewAuthModule(mongoDB, redisClient, authConfig)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}

	c.AuthModule = authModule
	return nil
}

// InitializeCampus initializes the campus catalog module.
func (c *Container) InitializeCampus(campusConfig *campusconfig.CampusConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.MongoDB == nil {
		return fmt.Errorf("MongoDB must be initialized before the campus module")
	}
	if c.Logger == nil {
		c.Logger = logger.NewLogger()
	}

	c.CampusConfig = campusConfig

	campusModule, err := campus.NewCampusModule(c.MongoDB, campusConfig, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create campus module: %w", err)
	}

	c.CampusModule = campusModule
	return nil
}

// Register registers a service instance.
func (c *Container) Register(service interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	serviceType := reflect.TypeOf(service)
	if serviceType.Kind() == reflect.Ptr {
		serviceType = serviceType.Elem()
	}

	c.services[serviceType] = service
	return nil
}

// RegisterFactory registers a factory function for a service.
func (c *Container) RegisterFactory(serviceType reflect.Type, factory func() (interface{}, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.factories[serviceType] = factory
	return nil
}

// Resolve resolves a service by type.
func (c *Container) Resolve(serviceType reflect.Type) (interface{}, error) {
	c.mu.RLock()

	if service, exists := c.services[serviceType]; exists {
		c.mu.RUnlock()
		return service, nil
	}

	if factory, exists := c.factories[serviceType]; exists {
		c.mu.RUnlock()

		service, err := factory()
		if err != nil {
			return nil, fmt.Errorf("failed to create service: %w", err)
		}

		c.mu.Lock()
		c.services[serviceType] = service
		c.mu.Unlock()

		return service, nil
	}

	c.mu.RUnlock()
	return nil, fmt.Errorf("service of type %v not registered", serviceType)
}

// GetService is a generic helper for resolving services.
func GetService[T any](c *Container) (T, error) {
	var zero T
	serviceType := reflect.TypeOf(zero)

	service, err := c.Resolve(serviceType)
	if err != nil {
		return zero, err
	}

	if typedService, ok := service.(T); ok {
		return typedService, nil
	}

	return zero, fmt.Errorf("service is not of expected type %T", zero)
}

// GetAuthModule returns the auth module instance.
func (c *Container) GetAuthModule() *auth.AuthModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AuthModule
}

// GetCampusModule returns the campus module instance.
func (c *Container) GetCampusModule() *campus.CampusModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.CampusModule
}

// HealthCheck performs a health check on the container's connections.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoDB != nil {
		if err := c.MongoDB.Client().Ping(ctx, nil); err != nil {
			return fmt.Errorf("MongoDB health check failed: %w", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis health check failed: %w", err)
		}
	}

	return nil
}

// Cleanup releases registered services.
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	c.CampusModule = nil
	c.AuthModule = nil

	for _, service := range c.services {
		if cleaner, ok := service.(interface{ Cleanup(context.Context) error }); ok {
			if err := cleaner.Cleanup(ctx); err != nil {
				errs = append(errs, fmt.Errorf("failed to cleanup service: %w", err))
			}
		}
	}

	c.services = make(map[reflect.Type]interface{})
	c.factories = make(map[reflect.Type]func() (interface{}, error))

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}

// Close gracefully shuts down all services in the container with timeout.
func (c *Container) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return c.Cleanup(ctx)
}
