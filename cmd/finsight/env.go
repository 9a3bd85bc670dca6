package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sandevgo/finsight/internal/config"
	"github.com/sandevgo/finsight/pkg/env"
	"github.com/sandevgo/finsight/pkg/log"
	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage the runtime environment file",
}

var envInitCmd = &cobra.Command{
	Use:           "init",
	Short:         "Write a starter .env with default settings",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		runtimePath := config.GetRuntimePath()
		if err := os.MkdirAll(runtimePath, 0755); err != nil {
			return err
		}

		envPath := filepath.Join(runtimePath, ".env")
		if _, err := os.Stat(envPath); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", envPath)
		}

		content, err := defaultEnvContent()
		if err != nil {
			return err
		}
		if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
			return err
		}

		logger.Info().Str("path", envPath).Msg("wrote starter .env, set OPENAI_API_KEY before starting")
		return nil
	},
}

// defaultEnvContent renders the config defaults plus an API key placeholder.
func defaultEnvContent() (string, error) {
	sections := []any{
		&config.OpenAIConfig{
			APIKey:             "sk-your-key-here",
			BaseURL:            "https://api.openai.com",
			Model:              "gpt-3.5-turbo",
			EmbeddingModel:     "text-embedding-3-large",
			EmbeddingDimension: 3072,
		},
		&config.AppConfig{
			DefaultTopK:          10,
			RetrievalTopK:        30,
			EnableQueryExpansion: true,
			MaxQueryVariations:   3,
			EnableReranking:      true,
			MMRDiversityScore:    0.3,
			EnableCompression:    true,
			MaxHistoryTokens:     4000,
			LLMTimeout:           30 * time.Second,
		},
		&config.CacheConfig{
			EnableEmbeddingCache: true,
			EnableDocumentCache:  true,
			EnableResponseCache:  true,
			EmbeddingCacheSize:   1000,
			EmbeddingCacheTTL:    24 * time.Hour,
			DocumentCacheSize:    200,
			DocumentCacheTTL:     2 * time.Hour,
			ResponseCacheSize:    500,
			ResponseCacheTTL:     time.Hour,
		},
	}

	var content string
	for _, s := range sections {
		part, err := env.MarshalEnv(s)
		if err != nil {
			return "", err
		}
		content += part
	}
	return content, nil
}

func init() {
	envCmd.AddCommand(envInitCmd)
	rootCmd.AddCommand(envCmd)
}
