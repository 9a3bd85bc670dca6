package main

import (
	"github.com/sandevgo/finsight/internal/config"
	"github.com/sandevgo/finsight/internal/ingest"
	"github.com/sandevgo/finsight/internal/providers/llm"
	"github.com/sandevgo/finsight/pkg/log"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <dir>",
	Short: "Load financial documents into the local store",
	Long: `Chunks, embeds and stores every .md and .txt file under the given
directory. File names like ACM_balance_sheet.md set the ticker and document
type used for filtered retrieval.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}

		appCfg := config.NewAppConfig(ctx)
		openaiCfg := config.NewOpenAIConfig(ctx)

		db, repo, err := initStorage(ctx, appCfg)
		if err != nil {
			return err
		}
		defer db.Close()

		provider := llm.NewOpenAI(openaiCfg)
		ing := ingest.NewIngester(repo, provider, ingest.DefaultChunkerConfig())

		n, err := ing.IngestDir(ctx, args[0])
		if err != nil {
			return err
		}

		total, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		logger.Info().Int("added", n).Int("total", total).Msg("ingestion complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
