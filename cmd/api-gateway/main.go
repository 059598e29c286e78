package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/tutorhive/tutorhive-api/api/swagger"
	"github.com/tutorhive/tutorhive-api/internal/handler"
	"github.com/tutorhive/tutorhive-api/internal/middleware"
	"github.com/tutorhive/tutorhive-api/internal/repository"
	"github.com/tutorhive/tutorhive-api/internal/service"
	"github.com/tutorhive/tutorhive-api/pkg/cache"
	"github.com/tutorhive/tutorhive-api/pkg/config"
	"github.com/tutorhive/tutorhive-api/pkg/database"
	"github.com/tutorhive/tutorhive-api/pkg/logger"
	corsmiddleware "github.com/tutorhive/tutorhive-api/pkg/middleware/cors"
	reqidmiddleware "github.com/tutorhive/tutorhive-api/pkg/middleware/requestid"
)

// @title TutorHive API
// @version 1.0.0
// @description Teacher availability and reservation-conflict service
// @BasePath /
// @schemes http

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

	location, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		logr.Sugar().Fatalw("invalid schedule timezone", "timezone", cfg.Schedule.Timezone, "error", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The schedule cache degrades to direct reads without Redis.
		logr.Warn("redis unavailable, schedule caching disabled", zap.Error(err))
		redisClient = nil
	}

	users := repository.NewUserRepository(db)
	teachers := repository.NewTeacherRepository(db)
	courses := repository.NewCourseRepository(db)
	slots := repository.NewSlotRepository(db)
	reservations := repository.NewReservationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(users, nil, logr, cfg.JWT)
	snapshotCache := service.NewScheduleSnapshotCache(cacheRepo, cfg.Schedule.CacheTTL, logr)
	scheduleSvc := service.NewScheduleService(teachers, slots, snapshotCache, nil, logr, cfg.Schedule.RejectOverlaps)
	conflictSvc := service.NewConflictService(teachers, slots, reservations, courses, location, nil, logr)
	reservationSvc := service.NewReservationService(reservations, courses, teachers, conflictSvc, nil, logr)
	exportSvc := service.NewExportService()

	authHandler := handler.NewAuthHandler(authSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, conflictSvc, exportSvc, metricsSvc)
	reservationHandler := handler.NewReservationHandler(reservationSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.POST("/auth/login", authHandler.Login)

	authed := r.Group("", middleware.JWT(authSvc))
	authed.GET("/schedule", scheduleHandler.Get)
	authed.PUT("/schedule", scheduleHandler.Replace)
	authed.GET("/schedule/conflicts", scheduleHandler.CheckConflicts)
	authed.GET("/schedule/export", scheduleHandler.Export)
	authed.POST("/reservations", reservationHandler.Create)
	authed.GET("/reservations", reservationHandler.List)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "timezone", cfg.Schedule.Timezone)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
