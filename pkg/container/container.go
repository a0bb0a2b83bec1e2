package container

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"humanglue-backend/internal/config"
	"humanglue-backend/internal/domains/application"
	apphandler "humanglue-backend/internal/domains/application/handler"
	apprepo "humanglue-backend/internal/domains/application/repository"
	appservice "humanglue-backend/internal/domains/application/service"
	"humanglue-backend/internal/domains/profile"
	profilehandler "humanglue-backend/internal/domains/profile/handler"
	profilerepo "humanglue-backend/internal/domains/profile/repository"
	profileservice "humanglue-backend/internal/domains/profile/service"
	"humanglue-backend/internal/infrastructure/cache"
	"humanglue-backend/internal/infrastructure/database"
	"humanglue-backend/internal/infrastructure/storage"
	pkgcache "humanglue-backend/pkg/cache"
	"humanglue-backend/pkg/jwt"
	"humanglue-backend/pkg/logger"
)

// Container wires infrastructure, repositories, services and handlers
// for the API process.
type Container struct {
	Config *config.Config

	DB          *database.PostgresDB
	Cache       pkgcache.Cache
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client
	Storage     *storage.MinIOStorage

	ProfileService profile.Service
	AppService     application.Service

	ProfileHandler *profilehandler.ProfileHandler
	AppHandler     *apphandler.ApplicationHandler

	redisCache *cache.RedisCache
}

func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	c.DB = database.NewPostgresDB(cfg.Database)
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	c.redisCache = cache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.redisCache.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Cache = c.redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		// Image upload degrades gracefully when object storage is
		// down; everything else keeps working.
		logger.Error("Object storage unavailable, image uploads disabled", err)
	}
	c.Storage = minioStorage

	pool := c.pool()

	profileRepository := profilerepo.NewPostgresRepository(pool)
	c.ProfileService = profileservice.NewProfileService(profileRepository, c.JWTManager)

	appRepository := apprepo.NewPostgresRepository(pool)
	var objectStorage appservice.ObjectStorage
	if c.Storage != nil {
		objectStorage = c.Storage
	}
	c.AppService = appservice.NewApplicationService(
		appRepository,
		c.AsynqClient,
		objectStorage,
		storage.NewImageProcessor(),
	)

	c.ProfileHandler = profilehandler.NewProfileHandler(c.ProfileService)
	c.AppHandler = apphandler.NewApplicationHandler(c.AppService, c.ProfileService)

	return c, nil
}

func (c *Container) pool() *pgxpool.Pool {
	return c.DB.Pool
}

// Cleanup closes every external connection. Safe to call on a
// partially-built container.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("Failed to close asynq client", err)
		}
	}
	if c.redisCache != nil {
		if err := c.redisCache.Close(); err != nil {
			logger.Error("Failed to close redis", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
