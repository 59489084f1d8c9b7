// Package cmd wires the CLI surface of the crawler.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goodbuys/labelcrawler/internal/api"
	"github.com/goodbuys/labelcrawler/internal/config"
	"github.com/goodbuys/labelcrawler/internal/logging"
	"github.com/goodbuys/labelcrawler/internal/runner"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labelcrawler",
		Short: "Evidence-scored entity extraction from certification and retail sites.",
		Long: `labelcrawler visits certification-authority and retailer sites, extracts
candidate entity names, scores them against independent signals, and merges
the surviving entities into a persistent dataset with a full audit trail.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); env vars use the LABELCRAWLER_ prefix")
	cmd.PersistentFlags().Bool("dry-run", false, "crawl and audit without touching the persisted rows")

	cmd.AddCommand(newLabelsCmd())
	cmd.AddCommand(newProductsCmd())
	return cmd
}

// runCrawl is the shared body of the labels and products subcommands.
func runCrawl(cmd *cobra.Command, profile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
		cfg.DryRun = true
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := runner.New(cfg, logger)

	if cfg.Server.Enabled {
		srv := api.New(cfg.Server.Port, r, logger)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("status server shutdown failed", zap.Error(err))
			}
		}()
	}

	if err := r.Run(ctx, profile); err != nil {
		return fmt.Errorf("%s run failed: %w", profile, err)
	}
	return nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
