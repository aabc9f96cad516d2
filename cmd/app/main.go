package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"webforge/internal/config"
	"webforge/internal/domain/ports/adapter"
	aiAdapters "webforge/internal/infra/adapters/ai"
	"webforge/internal/infra/adapters/fetch"
	"webforge/internal/infra/adapters/storage"
	"webforge/internal/infra/cache"
	pg "webforge/internal/infra/db/postgres"
	"webforge/internal/infra/logging"
	"webforge/internal/infra/metrics"
	red "webforge/internal/infra/redis"
	"webforge/internal/infra/web"
	"webforge/internal/infra/worker"
	"webforge/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, offline generator fallback)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.PoolSize)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	artifactCache := red.NewArtifactCache(redisClient, cfg.Redis.TTL)

	statusCache, err := cache.NewStatusCache(cfg.Pipeline.StatusCacheSize)
	if err != nil {
		logger.Fatal().Err(err).Msg("status cache")
	}

	// ---- Repositories ----
	jobRepo := pg.NewJobRepo(pool)
	siteRepo := pg.NewSiteRepo(pool)
	versionRepo := pg.NewVersionRepo(pool)
	imageRepo := pg.NewImageMappingRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Adapters ----
	fetcher := fetch.NewRestyFetcher(cfg.Pipeline.FetchTimeout, logger)

	rehoster, err := storage.NewMinioRehoster(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("object storage")
	}

	generator, err := buildGenerator(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("generator adapter")
	}
	generator = aiAdapters.NewLimitedGenerator(generator, cfg.AI.ConcurrentLimit)

	// ---- Use cases ----
	resolver := usecase.NewIdentifierResolver(siteRepo, usecase.DefaultRetryPolicy(cfg.Pipeline.SlugAttempts))
	assets := usecase.NewAssetPipeline(imageRepo, rehoster, logger)
	planner := usecase.NewBriefPlanner(generator, cfg.Pipeline.Versions)
	coordinator := usecase.NewGenerationCoordinator(versionRepo, generator, cfg.Pipeline.GenerateTimeout, logger)
	pipeline := usecase.NewPipeline(jobRepo, siteRepo, txManager, fetcher, resolver, assets, planner, coordinator, statusCache, cfg.Pipeline.FetchTimeout, logger)

	pool2 := worker.NewPool(cfg.Pipeline.Workers, logger)
	pool2.Start(ctx)
	defer pool2.Stop()

	jobUC := usecase.NewJobUseCase(jobRepo, siteRepo, statusCache, pool2, pipeline, logger)
	siteUC := usecase.NewSiteUseCase(siteRepo, versionRepo, artifactCache, logger)

	// ---- HTTP server ----
	srv := web.NewServer(jobUC, siteUC, pool, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}

// buildGenerator picks a provider by configured credentials: OpenAI first,
// then Gemini. Dev mode without credentials gets the offline generator.
func buildGenerator(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (adapter.GeneratorAdapter, error) {
	switch {
	case cfg.AI.OpenAIKey != "":
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("generator: openai")
		return aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel, cfg.AI.MaxOutputTokens, cfg.AI.PromptBudget)
	case cfg.AI.GeminiKey != "":
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("generator: gemini")
		return aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel, cfg.AI.MaxOutputTokens, cfg.AI.PromptBudget)
	case cfg.Runtime.Dev:
		logger.Warn().Msg("generator: no provider configured, using offline placeholder")
		return aiAdapters.NewNoopGenerator(), nil
	default:
		return nil, fmt.Errorf("no AI provider configured: set ai.openai_key or ai.gemini_key")
	}
}
