package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/finsight/internal/cache"
	"github.com/sandevgo/finsight/internal/config"
	"github.com/sandevgo/finsight/internal/providers/llm"
	"github.com/sandevgo/finsight/internal/rag"
	"github.com/sandevgo/finsight/internal/storage/sqlite"
	"github.com/sandevgo/finsight/internal/transport/cli"
	"github.com/sandevgo/finsight/pkg/log"
	"github.com/sandevgo/finsight/pkg/srv"
)

func NewServices(ctx context.Context, stop func()) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	cacheCfg := config.NewCacheConfig(ctx)
	openaiCfg := config.NewOpenAIConfig(ctx)

	// 2. Storage
	db, repo, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	// 3. Providers and caches. The same cache-wrapped embedder serves both
	// query embedding in search and the reranker.
	provider := llm.NewOpenAI(openaiCfg)
	caches := cache.NewManager(cacheCfg)

	var embTable *cache.Cache[[]float32]
	if cacheCfg.EnableEmbeddingCache {
		embTable = caches.Embedding
	}
	embedder := rag.NewCachedEmbedder(provider, embTable)
	search := sqlite.NewSearchAdapter(repo, embedder)

	// 4. Pipeline
	chain := rag.NewChain(appCfg, cacheCfg, caches, embedder, search, provider)

	// 5. Transport
	terminal, err := cli.NewReadLine(chain, appCfg, stop)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize terminal")
	}
	services = append(services, terminal)

	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, *sqlite.PassageRepo, error) {
	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, nil, err
	}
	return db, sqlite.NewPassageRepo(db), nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
