package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/filedrop-bot/internal/bot"
	"github.com/noah-isme/filedrop-bot/internal/repository"
	"github.com/noah-isme/filedrop-bot/internal/service"
	"github.com/noah-isme/filedrop-bot/pkg/cache"
	"github.com/noah-isme/filedrop-bot/pkg/config"
	"github.com/noah-isme/filedrop-bot/pkg/database"
	"github.com/noah-isme/filedrop-bot/pkg/logger"
)

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

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.OpTimeout)
	mongoClient, err := database.NewMongo(connectCtx, cfg.Mongo)
	cancel()
	if err != nil {
		logr.Fatal("failed to connect to mongo", zap.Error(err))
	}
	defer database.Close(mongoClient) //nolint:errcheck

	db := mongoClient.Database(cfg.Mongo.Database)
	stagingRepo := repository.NewStagingRepository(db.Collection(cfg.Mongo.StagingCollection))
	fileRepo := repository.NewFileRepository(db.Collection(cfg.Mongo.FilesCollection))

	indexCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.OpTimeout)
	defer cancel()
	if err := stagingRepo.EnsureIndexes(indexCtx); err != nil {
		logr.Fatal("failed to ensure staging indexes", zap.Error(err))
	}
	if err := fileRepo.EnsureIndexes(indexCtx); err != nil {
		logr.Fatal("failed to ensure file indexes", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, resolve cache disabled", zap.Error(err))
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	stagingService := service.NewStagingService(stagingRepo, cfg.Bot.OwnerID, metrics, logr)
	shareService := service.NewShareService(stagingRepo, fileRepo, cacheRepo, nil, cfg.Bot.OwnerID, nil, metrics, logr)
	retrievalService := service.NewRetrievalService(fileRepo, cacheRepo, cfg.Cache.ResolveTTL, nil, metrics, logr)

	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		logr.Fatal("failed to authenticate with telegram", zap.Error(err))
	}

	b := bot.New(api, cfg.Bot.PollTimeout, bot.Deps{
		Staging:        stagingService,
		Share:          shareService,
		Retrieval:      retrievalService,
		Metrics:        metrics,
		Logger:         logr,
		HandlerTimeout: cfg.Mongo.OpTimeout,
	})

	go runOpsServer(cfg, metrics, logr)

	if err := b.Run(ctx); err != nil && err != context.Canceled {
		logr.Fatal("bot stopped", zap.Error(err))
	}
	logr.Info("shutdown complete")
}

func runOpsServer(cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	addr := fmt.Sprintf(":%d", cfg.Ops.Port)
	logr.Info("ops server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logr.Error("ops server failed", zap.Error(err))
	}
}
