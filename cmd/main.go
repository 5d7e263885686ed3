package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	authconfig "campus-facilities/internal/auth/config"
	campusconfig "campus-facilities/internal/campus/config"
	"campus-facilities/internal/di"
	"campus-facilities/internal/shared/logger"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"localhost"`
	Port string `env:"SERVER_PORT" envDefault:"3000"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	appLogger := logger.NewLogger()
	appLogger.Info("Application configuration loaded")

	container := di.NewContainer(appLogger)
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	campusCfg, err := campusconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load campus configuration: %v", err)
	}
	authCfg, err := authconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load auth configuration: %v", err)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(campusCfg.MongoDBURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Errorf("Failed to disconnect MongoDB: %v", err)
		}
	}()

	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	appLogger.Info("MongoDB connection established")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     authCfg.RedisAddr,
		Password: authCfg.RedisPassword,
		DB:       authCfg.RedisDB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			appLogger.Errorf("Failed to close Redis client: %v", err)
		}
	}()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to ping Redis: %v", err)
	}
	appLogger.Info("Redis connection established")

	mongoDB := mongoClient.Database(campusCfg.DatabaseName)

	if err := container.InitializeAuth(mongoDB, redisClient, authCfg); err != nil {
		log.Fatalf("Failed to initialize auth module: %v", err)
	}
	appLogger.Info("Auth module initialized")

	if err := container.InitializeCampus(campusCfg); err != nil {
		log.Fatalf("Failed to initialize campus module: %v", err)
	}
	appLogger.Info("Campus module initialized")

	app := fiber.New(fiber.Config{
		AppName:      "Campus Facilities API v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			appLogger.Errorf("HTTP error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()

		if err := container.HealthCheck(healthCtx); err != nil {
			appLogger.Errorf("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "UNHEALTHY",
				"error":  err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"timestamp": time.Now().UTC(),
		})
	})

	authModule := container.GetAuthModule()
	campusModule := container.GetCampusModule()

	api := app.Group("/api/v1", authModule.GetMiddleware().RequestID())

	authModule.RegisterRoutes(api.Group("/auth"))
	appLogger.Info("Auth routes registered")

	// Campus routes require a valid session.
	campusModule.RegisterRoutes(api.Group("/", authModule.GetMiddleware().Protect()))
	appLogger.Info("Campus routes registered")

	// Populate the campus mirror in the background; campus routes answer
	// 503 until it completes.
	go campusModule.Load(context.Background())

	serverAddr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	appLogger.Infof("Starting HTTP server on %s", serverAddr)

	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			log.Fatalf("Server startup failed: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
	}
}
