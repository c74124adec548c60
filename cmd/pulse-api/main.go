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
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/pulse-api/api/swagger"
	"github.com/noah-isme/pulse-api/internal/handler"
	"github.com/noah-isme/pulse-api/internal/middleware"
	"github.com/noah-isme/pulse-api/internal/repository"
	"github.com/noah-isme/pulse-api/internal/service"
	"github.com/noah-isme/pulse-api/pkg/cache"
	"github.com/noah-isme/pulse-api/pkg/config"
	"github.com/noah-isme/pulse-api/pkg/database"
	"github.com/noah-isme/pulse-api/pkg/export"
	"github.com/noah-isme/pulse-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/pulse-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/pulse-api/pkg/middleware/requestid"
)

// @title Conference Pulse API
// @version 1.0.0
// @description Points, evaluations and badges for conference participants
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 15 * time.Second

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

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Leaderboard.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, leaderboard cache disabled", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(client, "pulse:", logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Leaderboard.CacheTTL, logr, cfg.Leaderboard.CacheEnabled)

	participantRepo := repository.NewParticipantRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	windowRepo := repository.NewEvaluationWindowRepository(db)
	pointsRepo := repository.NewPointsRepository(db)

	validate := validator.New()

	leaderboardSvc := service.NewLeaderboardService(participantRepo, cacheSvc, service.LeaderboardConfig{
		DefaultLimit: cfg.Leaderboard.DefaultLimit,
		CacheTTL:     cfg.Leaderboard.CacheTTL,
	}, logr)
	badgeSvc := service.NewBadgeService(participantRepo, evaluationRepo, activityRepo, pointsRepo, leaderboardSvc, metrics, logr)
	eligibilitySvc := service.NewEligibilityService(windowRepo, evaluationRepo, logr)
	scoringSvc := service.NewScoringService(service.ScoringParams{
		Micro:       evaluationRepo,
		Evaluations: evaluationRepo,
		Activities:  activityRepo,
		Eligibility: eligibilitySvc,
		Badges:      badgeSvc,
		Leaderboard: leaderboardSvc,
		Metrics:     metrics,
		Rules: service.ScoringRules{
			MicroEval:       cfg.Scoring.MicroEvalPoints,
			OptionalComment: cfg.Scoring.OptionalCommentPoints,
			EarlyBird:       cfg.Scoring.EarlyBirdPoints,
			EarlyBirdWindow: cfg.Scoring.EarlyBirdWindow,
			DayEval:         cfg.Scoring.DayEvalPoints,
			FinalEval:       cfg.Scoring.FinalEvalPoints,
		},
		Logger: logr,
	})
	evaluationSvc := service.NewEvaluationService(windowRepo, evaluationRepo, logr)
	participantSvc := service.NewParticipantService(participantRepo, pointsRepo, validate, logr)
	authSvc := service.NewAuthService(participantRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
		AdminCodes:        cfg.Auth.AdminCodes,
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Participants: participantSvc,
		Evaluations:  evaluationSvc,
		Leaderboard:  leaderboardSvc,
		Logger:       logr,
	})
	programSvc := service.NewProgramService(activityRepo, logr)
	exportSvc := service.NewExportService(leaderboardSvc, evaluationRepo, logr, export.NewCSVExporter(), export.NewPDFExporter())
	sweeper := service.NewBadgeSweeper(participantRepo, badgeSvc, service.BadgeSweeperConfig{
		Workers:        cfg.Badges.SweepWorkers,
		MaxRetries:     cfg.Badges.SweepRetries,
		EnqueueTimeout: cfg.Badges.SweepEnqueueTimeout,
	}, logr)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, "/metrics", "/health", "/ready"))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Participants: handler.NewParticipantHandler(participantSvc, dashboardSvc),
		Program:      handler.NewProgramHandler(programSvc),
		Evaluations:  handler.NewEvaluationHandler(evaluationSvc, eligibilitySvc, scoringSvc),
		Leaderboard:  handler.NewLeaderboardHandler(leaderboardSvc),
		Badges:       handler.NewBadgeHandler(service.BadgeCatalog, badgeSvc),
		Admin: handler.NewAdminHandler(handler.AdminHandlerParams{
			Evaluations: evaluationSvc,
			Activities:  programSvc,
			Exports:     exportSvc,
			Sweeper:     sweeper,
			Metrics:     metrics,
		}),
		Metrics: handler.NewMetricsHandler(metrics, db),
	}, middleware.JWT(authSvc), logr)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
