// cmd/server/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"team-builder/internal/api"
	"team-builder/internal/common/aws"
	"team-builder/internal/common/config"
	"team-builder/internal/common/database"
	"team-builder/internal/common/logger"
	"team-builder/internal/common/observability"
	"team-builder/internal/session"
	"team-builder/internal/teambuilder"

	ia "team-builder/internal/tasks/ai/invoke-agent"
	qp "team-builder/internal/tasks/data-access/query-players"
	sp "team-builder/internal/tasks/data-access/search-players"
	sn "team-builder/internal/tasks/notify/send-notification"
	bp "team-builder/internal/tasks/team/build-prompt"
	vc "team-builder/internal/tasks/team/validate-constraints"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	configPath := flag.String("config", "", "path to a config file (overrides the configs/ search)")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting team builder server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	if cfg.Observability.TracingEnabled {
		tracing, err := observability.NewTracing(cfg.App.Name, cfg.Observability.JaegerEndpoint)
		if err != nil {
			zapLog.Warn("tracing init failed", zap.Error(err))
		} else {
			defer tracing.Shutdown()
		}
	}

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pgClient *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pgClient, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pgClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "PostgreSQL initialization")
	if err != nil {
		zapLog.Fatal("PostgreSQL init failed", zap.Error(err))
	}
	defer pgClient.Close()

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis initialization")
	if err != nil {
		zapLog.Fatal("Redis init failed", zap.Error(err))
	}
	defer redisClient.Close()

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Elasticsearch initialization")
	if err != nil {
		zapLog.Fatal("Elasticsearch init failed", zap.Error(err))
	}

	// --- Init Bedrock Agent Runtime client ---
	bedrockClient, err := aws.NewBedrockAgentClient(ctx, cfg.Bedrock)
	if err != nil {
		zapLog.Fatal("Bedrock client init failed", zap.Error(err))
	}

	// --- Task handlers ---
	queryConfig := qp.LoadConfig()
	if taskCfg := config.GetTaskConfig(cfg, qp.TaskType); taskCfg.Timeout > 0 {
		queryConfig.Timeout = config.GetDuration(taskCfg.Timeout)
	}
	queryHandler := qp.NewHandler(queryConfig, pgClient.DB, log)

	searchConfig := sp.LoadConfig()
	searchConfig.Index = esClient.PlayerIndex()
	if taskCfg := config.GetTaskConfig(cfg, sp.TaskType); taskCfg.Timeout > 0 {
		searchConfig.Timeout = config.GetDuration(taskCfg.Timeout)
	}
	searchHandler := sp.NewHandler(searchConfig, esClient.Client, log)

	constraintHandler := vc.NewHandler(vc.LoadConfig(), log)
	promptHandler := bp.NewHandler(log)

	agentConfig := ia.LoadConfig()
	if cfg.Bedrock.Timeout > 0 {
		agentConfig.Timeout = config.GetDuration(cfg.Bedrock.Timeout)
	}
	if cfg.Bedrock.MaxRetries > 0 {
		agentConfig.MaxRetries = cfg.Bedrock.MaxRetries
	}
	agentHandler := ia.NewHandler(agentConfig, bedrockClient, log)

	var notifier teambuilder.Notifier
	if config.IsTaskEnabled(cfg, sn.TaskType) {
		notifyConfig := sn.LoadConfig()
		notifyConfig.EmailEnabled = cfg.Notifications.Email.Enabled
		notifyConfig.FromEmail = cfg.Notifications.Email.FromEmail
		notifyConfig.ToEmail = cfg.Notifications.Email.ToEmail
		notifyConfig.SNSEnabled = cfg.Notifications.SNS.Enabled
		notifyConfig.TopicARN = cfg.Notifications.SNS.TopicARN
		notifyConfig.AWSRegion = cfg.Notifications.AWS.Region
		notifyHandler, err := sn.NewHandler(notifyConfig, log)
		if err != nil {
			zapLog.Fatal("notification handler init failed", zap.Error(err))
		}
		notifier = notifyHandler
	} else {
		zapLog.Info("notifications disabled, skipping handler init")
	}

	// --- Session store, progress hub, orchestrator ---
	sessionTTL := time.Duration(cfg.Session.TTL) * time.Second
	sessionStore := session.NewStore(redisClient.Client, sessionTTL, log)

	hub := api.NewProgressHub(log)

	service := teambuilder.NewService(
		queryHandler,
		constraintHandler,
		promptHandler,
		agentHandler,
		notifier,
		sessionStore,
		hub,
		obs,
		log,
	)

	// --- HTTP server ---
	checks := map[string]api.HealthChecker{
		"postgres": func(ctx context.Context) error { return pgClient.Ping(ctx) },
		"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx) },
		"elasticsearch": func(ctx context.Context) error {
			return esClient.Ping(ctx)
		},
	}

	handler := api.NewHandler(service, sessionStore, searchHandler, hub, log)
	router := api.SetupRouter(handler, checks, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// pprof on a separate port, never exposed publicly
	go func() {
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			zapLog.Warn("pprof server stopped", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Server stopped")
}
