package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/finsight/pkg/log"
)

type OpenAIConfig struct {
	APIKey             string `env:"OPENAI_API_KEY,required,notEmpty"`
	BaseURL            string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com"`
	Model              string `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	EmbeddingModel     string `env:"OPENAI_EMBEDDING_MODEL" envDefault:"text-embedding-3-large"`
	EmbeddingDimension int    `env:"OPENAI_EMBEDDING_DIMENSION" envDefault:"3072"`
}

func NewOpenAIConfig(ctx context.Context) *OpenAIConfig {
	c := &OpenAIConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse OpenAI config")
	}
	return c
}
