package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-scheduler-api/api/swagger"
	"github.com/noah-isme/sma-scheduler-api/internal/app"
	"github.com/noah-isme/sma-scheduler-api/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-scheduler-api/internal/middleware"
	"github.com/noah-isme/sma-scheduler-api/internal/models"
	"github.com/noah-isme/sma-scheduler-api/pkg/config"
	"github.com/noah-isme/sma-scheduler-api/pkg/jobs"
	"github.com/noah-isme/sma-scheduler-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-scheduler-api/pkg/middleware/requestid"
)

const shutdownTimeout = 15 * time.Second

// @title SMA Scheduler API
// @version 1.0.0
// @description Timetable generation for academic plans.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.New(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to initialise dependencies", zap.Error(err))
	}
	defer container.Close()

	queue := jobs.NewQueue("scheduling", container.Scheduling.HandleJob, jobs.QueueConfig{
		Workers: cfg.Scheduler.AsyncWorkers,
		Logger:  logr,
	})
	queue.Start(ctx)
	container.Scheduling.AttachQueue(queue)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(cfg, container),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown failed", zap.Error(err))
	}
	queue.Stop()
}

func newRouter(cfg *config.Config, c *app.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(c.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(c.Metrics))

	metricsHandler := handler.NewMetricsHandler(c.Metrics, c.DB)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	scheduling := handler.NewSchedulingHandler(c.Scheduling)
	timetable := handler.NewTimetableHandler(c.Timetable)
	preferences := handler.NewTeacherPreferenceHandler(c.Preferences)

	planners := internalmiddleware.RequireRoles(models.PlannerRoles...)

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.WithResponseMeta())
	api.GET("/scheduling/strategies", internalmiddleware.OptionalJWT(c.Auth), scheduling.ListStrategies)

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(c.Auth))
	secured.GET("/metrics/summary", planners, metricsHandler.Summary)

	secured.POST("/plans/:planId/scheduling/runs", planners,
		internalmiddleware.Audit(c.Audit, models.AuditActionSchedulingRun, models.AuditResourcePlan, "planId"),
		scheduling.Run)
	secured.GET("/scheduling/runs/:runId", scheduling.GetRun)
	secured.POST("/scheduling/runs/:runId/commit", planners,
		internalmiddleware.Audit(c.Audit, models.AuditActionSchedulingCommit, models.AuditResourceRun, "runId"),
		scheduling.CommitRun)

	secured.GET("/plans/:planId/timetable", timetable.List)
	secured.GET("/plans/:planId/timetable/audit", planners, timetable.Audit)
	secured.GET("/plans/:planId/timetable/export", timetable.Export)
	secured.GET("/plans/:planId/conflicts", timetable.Conflicts)

	plannerOrSelf := internalmiddleware.RequireRolesOrSelf(models.PlannerRoles...)
	secured.GET("/teachers/:teacherId/preferences", plannerOrSelf, preferences.Get)
	secured.PUT("/teachers/:teacherId/preferences", plannerOrSelf, preferences.Upsert)

	return r
}
