package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/finsight/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"FINSIGHT_RUNTIME_PATH" envDefault:".finsight"`

	// Retrieval
	DefaultTopK   int `env:"DEFAULT_TOP_K" envDefault:"10"`
	RetrievalTopK int `env:"RETRIEVAL_TOP_K" envDefault:"30"` // retrieve more for reranking

	// Query expansion
	EnableQueryExpansion bool `env:"ENABLE_QUERY_EXPANSION" envDefault:"true"`
	MaxQueryVariations   int  `env:"MAX_QUERY_VARIATIONS" envDefault:"3"`

	// Reranking
	EnableReranking   bool    `env:"ENABLE_RERANKING" envDefault:"true"`
	MMRDiversityScore float64 `env:"MMR_DIVERSITY_SCORE" envDefault:"0.3"`

	// Compression
	EnableCompression bool `env:"ENABLE_COMPRESSION" envDefault:"true"`

	// Conversation
	MaxHistoryTokens int `env:"MAX_HISTORY_TOKENS" envDefault:"4000"`

	LLMTimeout time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "finsight.db")
}
