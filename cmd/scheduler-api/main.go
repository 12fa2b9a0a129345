package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/studygrid/scheduler-api/api/swagger"
	"github.com/studygrid/scheduler-api/internal/handler"
	"github.com/studygrid/scheduler-api/internal/middleware"
	"github.com/studygrid/scheduler-api/internal/repository"
	"github.com/studygrid/scheduler-api/internal/scheduling"
	"github.com/studygrid/scheduler-api/internal/service"
	"github.com/studygrid/scheduler-api/pkg/cache"
	"github.com/studygrid/scheduler-api/pkg/config"
	"github.com/studygrid/scheduler-api/pkg/database"
	"github.com/studygrid/scheduler-api/pkg/jobs"
	"github.com/studygrid/scheduler-api/pkg/logger"
	corsmiddleware "github.com/studygrid/scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/studygrid/scheduler-api/pkg/middleware/requestid"
	"github.com/studygrid/scheduler-api/pkg/storage"
)

// @title StudyGrid Scheduler API
// @version 1.0.0
// @description Course scheduling service: availability-aware schedule building, subject catalog, preferences, saved timetables, and exports
// @BasePath /api/v1
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsService := service.NewMetricsService()

	var cacheService *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		cacheService = service.NewCacheService(nil, metricsService, cfg.Scheduler.ResultCacheTTL, logr, false)
	} else {
		defer redisClient.Close() //nolint:errcheck
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Scheduler.ResultCacheTTL, logr, true)
	}

	studentRepo := repository.NewStudentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	exportJobRepo := repository.NewExportJobRepository(db)

	authService := service.NewAuthService(studentRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	subjectService := service.NewSubjectService(subjectRepo, cacheService, cfg.Scheduler.CatalogCacheTTL, nil, logr)
	preferenceService := service.NewPreferenceService(preferenceRepo, cacheService, nil, logr)
	timetableService := service.NewTimetableService(timetableRepo, subjectRepo, nil, logr)
	uploadService := service.NewUploadService(cfg.Uploads.MaxFileSizeBytes, logr)
	schedulingService := service.NewSchedulingService(subjectService, preferenceService,
		scheduling.NewBuilder(logr), cacheService, metricsService, nil, logr, service.SchedulingConfig{
			DefaultSubjectCount: cfg.Scheduler.DefaultSubjectCount,
			ResultCacheTTL:      cfg.Scheduler.ResultCacheTTL,
		})

	authHandler := handler.NewAuthHandler(authService)
	subjectHandler := handler.NewSubjectHandler(subjectService)
	preferenceHandler := handler.NewPreferenceHandler(preferenceService)
	schedulingHandler := handler.NewSchedulingHandler(schedulingService)
	timetableHandler := handler.NewTimetableHandler(timetableService)
	uploadHandler := handler.NewUploadHandler(uploadService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	var exportHandler *handler.ExportHandler
	if cfg.Exports.Enabled {
		fileStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportService := service.NewExportService(timetableRepo, fileStore, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
		}, logr)
		worker := service.NewExportWorker(exportJobRepo, exportService, metricsService, cfg.Exports.WorkerRetries, logr)
		queue := jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()

		exportJobService := service.NewExportJobService(exportJobRepo, timetableRepo, queue, exportService, metricsService, logr, service.ExportJobServiceConfig{
			ResultTTL:       cfg.Exports.SignedURLTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
			MaxRetries:      cfg.Exports.WorkerRetries,
		})
		exportJobService.RecoverPendingJobs(ctx)
		exportJobService.StartCleanup(ctx)
		exportHandler = handler.NewExportHandler(exportJobService)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	auth := middleware.JWT(authService)

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", auth, authHandler.Me)
	api.POST("/auth/change-password", auth, authHandler.ChangePassword)

	api.GET("/subjects", subjectHandler.List)
	api.GET("/subjects/categories", subjectHandler.Categories)
	api.GET("/subjects/:id", subjectHandler.Get)
	api.POST("/subjects", auth, subjectHandler.Create)
	api.PUT("/subjects/:id", auth, subjectHandler.Update)
	api.DELETE("/subjects/:id", auth, subjectHandler.Delete)

	api.GET("/preferences", auth, preferenceHandler.List)
	api.PUT("/preferences", auth, preferenceHandler.Set)
	api.DELETE("/preferences/:id", auth, preferenceHandler.Delete)

	api.POST("/schedules/build", auth, schedulingHandler.Build)
	api.GET("/schedules/strategies", schedulingHandler.Strategies)

	api.POST("/timetables", auth, timetableHandler.Create)
	api.GET("/timetables", auth, timetableHandler.GetMine)
	api.GET("/timetables/:id", auth, timetableHandler.Get)
	api.PUT("/timetables/:id", auth, timetableHandler.Update)
	api.DELETE("/timetables/:id", auth, timetableHandler.Delete)
	api.POST("/timetables/:id/subjects", auth, timetableHandler.AddSubject)
	api.DELETE("/timetables/:id/subjects/:subjectId", auth, timetableHandler.RemoveSubject)

	api.POST("/uploads/subjects", auth, uploadHandler.ParseSubjects)

	api.GET("/system/stats", metricsHandler.Stats)

	if exportHandler != nil {
		api.POST("/exports", auth, exportHandler.Create)
		api.GET("/exports/:id", auth, exportHandler.Status)
		api.GET("/export/:token", exportHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		logr.Sugar().Warnw("shutdown error", "error", err)
	}
}
