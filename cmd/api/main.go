package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillmates-backend/config"
	_ "skillmates-backend/docs" // registers the Swagger spec
	"skillmates-backend/internal/delivery/http/middleware"
	v1 "skillmates-backend/internal/delivery/http/v1"
	"skillmates-backend/internal/repository/postgres"
	redisrepo "skillmates-backend/internal/repository/redis"
	"skillmates-backend/internal/usecase"
	"skillmates-backend/migrations"
	"skillmates-backend/pkg/auth"
	"skillmates-backend/pkg/database"
	"skillmates-backend/pkg/logger"
	"skillmates-backend/pkg/realtime"
	"skillmates-backend/pkg/redis"
	"skillmates-backend/pkg/relevance"
	"skillmates-backend/pkg/security"
	"skillmates-backend/pkg/storage"
	"skillmates-backend/pkg/validation"
)

// @title           Skillmates API
// @version         1.0
// @description     Backend for the Skillmates skill-sharing community.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting skillmates backend", "port", cfg.Port, "env", cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if cfg.AutoMigrate {
		applied, err := database.Migrate(ctx, dbPool, migrations.FS)
		if err != nil {
			logger.Log.Error("Failed to apply migrations", "error", err)
			os.Exit(1)
		}
		if len(applied) > 0 {
			logger.Log.Info("Applied migrations", "versions", applied)
		}
	}

	// Redis is optional; everything that uses it falls back to process memory.
	var redisCheck func(context.Context) error
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory fallbacks", "error", err)
	} else {
		redisCheck = redis.HealthCheck
		defer redis.Close()
	}
	redisClient := redis.Client()

	// Security
	secLog := security.InitSecurityLogger("skillmates-backend", cfg.AppEnv)
	defer secLog.Sync()

	trackerCfg := security.DefaultLoginTrackerConfig()
	trackerCfg.MaxAttempts = cfg.FailedLoginMaxAttempts
	trackerCfg.BlockDuration = time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute
	tracker := security.NewLoginTracker(trackerCfg, redisClient, secLog)
	uploadLimiter := security.NewUploadLimiter(redisClient, 0, 0)

	var jwks *auth.Provider
	if cfg.JWKSUrl != "" {
		jwks = auth.NewProvider(cfg.JWKSUrl)
	}
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL, jwks)

	// Photo storage stays a nil interface unless configured, so uploads answer 503.
	var photos usecase.PhotoStore
	if cfg.StorageConfigured() {
		storageCfg := storage.Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		}
		s3Client, err := storage.NewS3Client(ctx, storageCfg)
		if err != nil {
			logger.Log.Error("Failed to configure photo storage", "error", err)
			os.Exit(1)
		}
		photos = storage.NewPhotoStore(s3Client, storageCfg)
	} else {
		logger.Log.Warn("Photo storage not configured - uploads will be unavailable")
	}

	hub := realtime.NewHub(cfg.FrontendURL, logger.Log)

	// Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)
	connRepo := postgres.NewConnectionRepository(dbPool)
	chatRepo := postgres.NewChatRepository(dbPool)
	recentRepo := redisrepo.NewRecentSearchRepository(redisClient, cfg.SearchRecentMax)

	// UseCases
	validate := validation.New()
	w := cfg.SearchWeights
	ranker := relevance.NewRanker(relevance.Weights{
		ExactSkill:   w.ExactSkill,
		PartialSkill: w.PartialSkill,
		Name:         w.Name,
		Location:     w.Location,
		Bio:          w.Bio,
		Role:         w.Role,
		Language:     w.Language,
	})

	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:       usecase.NewAuthUsecase(userRepo, issuer, tracker, secLog, validate),
		ProfileUC:    usecase.NewProfileUsecase(profileRepo, connRepo, photos, uploadLimiter, validate, cfg.PhotoMaxDimension),
		DirectoryUC:  usecase.NewDirectoryUsecase(profileRepo, connRepo),
		ConnectionUC: usecase.NewConnectionUsecase(connRepo, userRepo, profileRepo, chatRepo, hub, validate),
		ChatUC:       usecase.NewChatUsecase(chatRepo, profileRepo, hub),
		SearchUC:     usecase.NewSearchUsecase(profileRepo, recentRepo, ranker, cfg.SearchQuickLimit, validate),
		DashboardUC:  usecase.NewDashboardUsecase(connRepo, chatRepo),
		Health:       usecase.NewHealthUsecase(dbPool, redisCheck),
		Issuer:       issuer,
		Hub:          hub,
		RateLimiter:  newRateLimiter(ctx, secLog),
		Config:       cfg,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

func newRateLimiter(ctx context.Context, secLog *security.SecurityLogger) *middleware.RateLimiter {
	rl := middleware.NewRateLimiter(redis.Client(), secLog)
	go rl.Cleanup(ctx, 5*time.Minute)
	return rl
}
