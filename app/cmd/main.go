package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/zap"

	"github.com/mark47B/browser-data-service/app/config"
	"github.com/mark47B/browser-data-service/app/domain/entity"
	"github.com/mark47B/browser-data-service/app/domain/repository"
	"github.com/mark47B/browser-data-service/app/infrastructure/logging"
	"github.com/mark47B/browser-data-service/app/infrastructure/metrics"
	"github.com/mark47B/browser-data-service/app/infrastructure/storage"
	etcdStorage "github.com/mark47B/browser-data-service/app/infrastructure/storage/etcd"
	"github.com/mark47B/browser-data-service/app/infrastructure/storage/mongodb"
	redisStorage "github.com/mark47B/browser-data-service/app/infrastructure/storage/redis"
	"github.com/mark47B/browser-data-service/app/infrastructure/transport"
	"github.com/mark47B/browser-data-service/app/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(logging.Config{Level: cfg.Logging.Level, Development: cfg.Logging.Development})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	mainCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Infra
	mongoClient, err := mongodb.Connect(mainCtx, cfg.Mongo.URI)
	if err != nil {
		logger.Fatal("failed to connect to mongo", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()
	db := mongoClient.Database(cfg.Mongo.DBName)

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err := redisClient.Ping(mainCtx).Err(); err != nil {
		logger.Fatal("redis connect error", zap.Error(err))
	}
	defer redisClient.Close()

	leaderLock, closeLock, err := newLeaderLock(cfg.Leader, redisClient)
	if err != nil {
		logger.Fatal("leader lock", zap.Error(err))
	}
	defer closeLock()

	toggles := mongodb.NewMongoFeatureToggles(db)
	exceptions := mongodb.NewMongoFeatureExceptions(db)
	clock := usecase.SystemClock{}

	// UseCases
	history := usecase.NewHistoryService(mongodb.NewMongoHistoryStore(db), clock, logger)
	trusted := usecase.NewTrustedSites()
	gate := usecase.NewFeatureGate(toggles, exceptions, cfg.PrivacyConfig.AppVersion)

	leaderService := usecase.NewReplicaLeaderService(leaderLock,
		cfg.Leader.LeaderKey,
		cfg.Leader.ReplicaID,
		cfg.Leader.LeaderLease,
		logger)

	privacy := usecase.NewPrivacyConfigService(
		storage.NewPrivacyConfigDownloader(cfg.PrivacyConfig.DownloadTimeout),
		cfg.PrivacyConfig.URL,
		leaderService,
		logger,
		usecase.NewUserAgentPlugin(toggles, exceptions),
		usecase.NewFeaturePlugin(entity.FeatureAutofill, toggles, exceptions),
		usecase.NewFeaturePlugin(entity.FeatureNetPVpn, toggles, exceptions),
	)
	cohortLoc, err := time.LoadLocation(cfg.Cohort.TimeZone)
	if err != nil {
		logger.Fatal("bad cohort time zone", zap.String("tz", cfg.Cohort.TimeZone), zap.Error(err))
	}
	cohort := usecase.NewCohortUpdater(
		redisStorage.NewRedisVPNFeaturesRegistry(redisClient),
		redisStorage.NewRedisCohortStore(redisClient),
		clock,
		cohortLoc,
		logger)

	replies := usecase.NewReplyRegistry()
	inbox := usecase.NewAutofillInbox()
	autofill := transport.AutofillHandlers{
		Credentials: usecase.NewCredentialSelectionHandler(
			mongodb.NewMongoCredentialStore(db),
			transport.ReportedAuthenticator{},
			replies,
			metrics.PixelSender{},
			clock,
			logger),
		EmailPrompt: usecase.NewEmailProtectionPromptHandler(
			redisStorage.NewRedisEmailInContextDataStore(redisClient),
			replies,
			inbox,
			logger),
		EmailAlias: usecase.NewEmailAliasListener(gate, replies, inbox, logger),
		Replies:    replies,
		Inbox:      inbox,
	}
	prometheus.MustRegister(metrics.NewPendingRepliesGauge(replies.Pending))

	// Transport
	grpcServer := transport.NewgRPCServer(history, trusted, gate, privacy, leaderService, cohort, autofill, logger)

	// Metrics
	go func() {
		if err := metrics.StartMetricsServer(cfg.Server.MetricsAddr); err != nil {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	// gRPC
	grpcDone := make(chan struct{})
	go func() {
		defer close(grpcDone)
		if err := transport.StartgRPCServer(mainCtx, cfg.Server.GRPCAddr, grpcServer); err != nil {
			logger.Error("gRPC server failed", zap.Error(err))
			stop()
		}
	}()

	// Replica Leader
	go leaderService.Run(mainCtx)

	// Run background
	go privacy.Run(mainCtx, cfg.PrivacyConfig.RefreshInterval)

	<-mainCtx.Done()
	logger.Info("shutting down gracefully")
	leaderService.GracefulShutdown()

	select {
	case <-grpcDone:
	case <-time.After(5 * time.Second):
		logger.Warn("gRPC server did not stop in time")
	}
	logger.Info("server stopped")
}

func newLeaderLock(cfg config.ReplicaLeaderConfig, redisClient *redis.Client) (repository.LeaderLockRepository, func(), error) {
	switch cfg.Backend {
	case "redis":
		return redisStorage.NewRedisLeaderLock(redisClient), func() {}, nil
	case "etcd":
		etcdClient, err := clientv3.New(clientv3.Config{
			Endpoints:   cfg.EtcdEndpoints,
			DialTimeout: 5 * time.Second,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect to etcd: %w", err)
		}
		return etcdStorage.NewEtcdLeaderLock(etcdClient), func() { _ = etcdClient.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown leader backend %q", cfg.Backend)
	}
}
