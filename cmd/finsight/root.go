package main

import (
	"context"
	"os"

	"github.com/sandevgo/finsight/internal/config"
	"github.com/sandevgo/finsight/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "finsight",
	Short: "FinSight — financial document Q&A",
	Long:  `FinSight answers questions about company financial statements and 10-K filings with cited sources.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
