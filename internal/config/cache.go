package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/finsight/pkg/log"
)

type CacheConfig struct {
	EnableEmbeddingCache bool `env:"ENABLE_EMBEDDING_CACHE" envDefault:"true"`
	EnableDocumentCache  bool `env:"ENABLE_DOCUMENT_CACHE" envDefault:"true"`
	EnableResponseCache  bool `env:"ENABLE_RESPONSE_CACHE" envDefault:"true"`

	EmbeddingCacheSize int           `env:"EMBEDDING_CACHE_SIZE" envDefault:"1000"`
	EmbeddingCacheTTL  time.Duration `env:"EMBEDDING_CACHE_TTL" envDefault:"24h"`
	DocumentCacheSize  int           `env:"DOCUMENT_CACHE_SIZE" envDefault:"200"`
	DocumentCacheTTL   time.Duration `env:"DOCUMENT_CACHE_TTL" envDefault:"2h"`
	ResponseCacheSize  int           `env:"RESPONSE_CACHE_SIZE" envDefault:"500"`
	ResponseCacheTTL   time.Duration `env:"RESPONSE_CACHE_TTL" envDefault:"1h"`
}

func NewCacheConfig(ctx context.Context) *CacheConfig {
	c := &CacheConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Cache config")
	}
	return c
}
