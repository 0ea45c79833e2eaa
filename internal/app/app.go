// Package app assembles the storage, cache and service graph shared by the
// HTTP gateway and the scheduler CLI.
package app

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-scheduler-api/internal/repository"
	"github.com/noah-isme/sma-scheduler-api/internal/scheduler"
	"github.com/noah-isme/sma-scheduler-api/internal/service"
	"github.com/noah-isme/sma-scheduler-api/pkg/cache"
	"github.com/noah-isme/sma-scheduler-api/pkg/config"
	"github.com/noah-isme/sma-scheduler-api/pkg/database"
)

const (
	dbConnectTimeout = 5 * time.Second
	cacheNamespace   = "sma-scheduler"
)

// Container holds the wired dependencies.
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	Metrics     *service.MetricsService
	Cache       *service.CacheService
	Auth        *service.AuthService
	Scheduling  *service.SchedulingService
	Timetable   *service.TimetableService
	Preferences *service.TeacherPreferenceService
	Audit       *repository.AuditRepository
}

// New connects to Postgres and, when enabled, Redis, then builds the services.
// A Redis outage degrades to in-memory run storage instead of failing startup.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	db, err := database.NewPostgres(ctx, cfg.Database, dbConnectTimeout)
	if err != nil {
		return nil, err
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, falling back to in-memory run store", zap.Error(err))
		redisClient = nil
	}
	var cmd redis.Cmdable
	if redisClient != nil {
		cmd = redisClient
	}

	validate := validator.New()
	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(repository.NewCacheRepository(cmd, cacheNamespace, logger), metrics, cfg.Scheduler.ResultTTL, logger, redisClient != nil)

	plans := repository.NewPlanRepository(db)
	timetable := repository.NewTimetableRepository(db)
	conflicts := repository.NewConflictRepository(db)
	preferences := repository.NewTeacherPreferenceRepository(db)

	persister := service.NewTimetablePersister(db, timetable, conflicts, logger)
	scheduling := service.NewSchedulingService(
		service.SchedulingRepositories{
			Plans:       plans,
			Obligations: repository.NewObligationRepository(db),
			Blocks:      repository.NewTimeBlockRepository(db),
			Rooms:       repository.NewRoomRepository(db),
			Preferences: preferences,
			Bookings:    timetable,
		},
		persister,
		service.NewRunStore(cacheSvc, cfg.Scheduler.ResultTTL),
		cacheSvc,
		metrics,
		validate,
		logger,
		SchedulingConfig(cfg.Scheduler),
	)

	return &Container{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		Redis:       redisClient,
		Metrics:     metrics,
		Cache:       cacheSvc,
		Auth:        service.NewAuthService(logger, service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer}),
		Scheduling:  scheduling,
		Timetable:   service.NewTimetableService(plans, timetable, conflicts, timetable, cacheSvc, validate, logger),
		Preferences: service.NewTeacherPreferenceService(preferences, validate, logger),
		Audit:       repository.NewAuditRepository(db),
	}, nil
}

// SchedulingConfig maps configuration onto service tunables.
func SchedulingConfig(cfg config.SchedulerConfig) service.SchedulingConfig {
	return service.SchedulingConfig{
		Enabled:           cfg.Enabled,
		DefaultStrategy:   cfg.DefaultStrategy,
		RunTimeout:        cfg.RunTimeout,
		OverlapMode:       cfg.OverlapMode,
		PopulationSize:    cfg.PopulationSize,
		Generations:       cfg.Generations,
		MutationRate:      cfg.MutationRate,
		TournamentSize:    cfg.TournamentSize,
		PlacementAttempts: cfg.PlacementAttempts,
		Workers:           cfg.Workers,
		Seed:              cfg.Seed,
		Weights: scheduler.Weights{
			TeacherPreference: cfg.WeightTeacherPreference,
			RoomAffinity:      cfg.WeightRoomAffinity,
			Balance:           cfg.WeightBalance,
		},
	}
}

// Close releases connections.
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("close redis", zap.Error(err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Warn("close postgres", zap.Error(err))
		}
	}
}
