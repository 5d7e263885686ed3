package auth

import (
	"fmt"

	authhttp "campus-facilities/internal/auth/adapter/http"
	"campus-facilities/internal/auth/adapter/persistence/mongodb"
	"campus-facilities/internal/auth/adapter/persistence/redisstore"
	"campus-facilities/internal/auth/adapter/security"
	"campus-facilities/internal/auth/config"
	"campus-facilities/internal/auth/domain/repository"
	"campus-facilities/internal/auth/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuthModule represents the complete authentication module.
type AuthModule struct {
	users    repository.UserRepository
	sessions repository.SessionStore
	tokenSvc repository.TokenService
	usecase  usecase.AuthUsecaseInterface
	handler  *authhttp.AuthHTTPHandler
	config   *config.Config
}

// NewAuthModule creates a new authentication module instance.
func NewAuthModule(db *mongo.Database, redisClient *redis.Client, cfg *config.Config) (*AuthModule, error) {
	users, err := mongodb.NewMongoUserRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}

	sessions := redisstore.NewRedisSessionStore(redisClient)

	tokenSvc, err := security.NewJWTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	authUsecase := usecase.NewAuthUsecase(users, sessions, tokenSvc, cfg)

	handler := authhttp.NewAuthHTTPHandler(
		authUsecase,
		cfg.CookieName,
		cfg.CookiePath,
		cfg.CookieDomain,
		int(cfg.AccessTokenTTL.Seconds()),
		cfg.CookieSecure,
		cfg.CookieHTTPOnly,
		cfg.CookieSameSite,
	)

	return &AuthModule{
		users:    users,
		sessions: sessions,
		tokenSvc: tokenSvc,
		usecase:  authUsecase,
		handler:  handler,
		config:   cfg,
	}, nil
}

// RegisterRoutes registers authentication routes with the provided router.
func (am *AuthModule) RegisterRoutes(router fiber.Router) {
	middleware := am.GetMiddleware()
	am.handler.SetupAuthRoutesWithMiddleware(router, middleware)
}

// GetUsecase returns the auth usecase for external access.
func (am *AuthModule) GetUsecase() usecase.AuthUsecaseInterface {
	return am.usecase
}

// GetMiddleware returns the auth middleware.
func (am *AuthModule) GetMiddleware() *authhttp.AuthMiddleware {
	return authhttp.NewAuthMiddleware(am.usecase, am.config.CookieName)
}
