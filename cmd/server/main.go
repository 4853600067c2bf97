package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"iqfieldbot/internal/cache"
	"iqfieldbot/internal/config"
	"iqfieldbot/internal/repository"
	"iqfieldbot/internal/service"
	"iqfieldbot/internal/transport/rest"
	"iqfieldbot/internal/transport/ws"
	"iqfieldbot/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		cfg = config.Default()
	}
	logger.Init(cfg.Server.Mode)
	defer logger.Log.Sync()

	logger.Log.Info("starting iqfieldbot",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.Bool("ai_enabled", cfg.AI.IsEnabled()))

	// MongoDB connection; fall back to in-memory repos when unavailable
	var sessionRepo repository.SessionRepo
	var userRepo repository.UserRepo

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = mongoClient.Ping(pingCtx, nil)
		cancel()
	}
	if err != nil {
		logger.Log.Warn("mongodb unavailable, using in-memory store", zap.Error(err))
		sessionRepo = repository.NewMemorySessionRepo()
		userRepo = repository.NewMemoryUserRepo()
	} else {
		defer mongoClient.Disconnect(ctx)
		db := mongoClient.Database(cfg.Mongo.Database)
		sessionRepo = repository.NewSessionRepo(db)
		userRepo = repository.NewUserRepo(db)
		logger.Log.Info("connected to mongodb", zap.String("database", cfg.Mongo.Database))
	}

	// Redis connection; caches are optional and nil when unavailable
	var sessionCache cache.SessionCache
	var questionCache cache.QuestionCache
	var leaderboard cache.LeaderboardCache

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Log.Warn("redis unavailable, running without caches", zap.Error(err))
		rdb.Close()
	} else {
		defer rdb.Close()
		sessionCache = cache.NewSessionCache(rdb)
		questionCache = cache.NewQuestionCache(rdb)
		leaderboard = cache.NewLeaderboardCache(rdb)
		logger.Log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
	}

	// WebSocket hub
	wsHub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	bank := service.NewTemplateBank()
	generator := service.NewGeneratorService(&cfg.AI)
	questionSvc := service.NewQuestionService(bank, generator, questionCache, cfg.Quiz.QuestionQuota)
	grader := service.NewGrader()
	sessionSvc := service.NewSessionService(sessionRepo, userRepo, sessionCache, leaderboard, cfg.Quiz)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	sessionSvc.SetBroadcaster(wsHub)

	container := &rest.Container{
		AuthService:     authSvc,
		QuestionService: questionSvc,
		Grader:          grader,
		SessionService:  sessionSvc,
		Leaderboard:     leaderboard,
		WSHub:           wsHub,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal("forced shutdown", zap.Error(err))
	}

	logger.Log.Info("server exited")
}
