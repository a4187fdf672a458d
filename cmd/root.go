package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/scout-cli/internal/config"
	"github.com/sells-group/scout-cli/internal/delivery"
	"github.com/sells-group/scout-cli/internal/pipeline"
	"github.com/sells-group/scout-cli/internal/scrape"
	"github.com/sells-group/scout-cli/pkg/anthropic"
	"github.com/sells-group/scout-cli/pkg/resend"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "AI adoption opportunity scanner",
	Long:  "Scans a business website, identifies AI adoption opportunities with Claude, and streams progress as line-delimited JSON.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newPipeline wires the scan pipeline from config.
func newPipeline() *pipeline.Pipeline {
	ai := anthropic.NewClient(anthropic.Config{
		APIKey:    cfg.Anthropic.Key,
		Model:     cfg.Anthropic.Model,
		MaxTokens: cfg.Anthropic.MaxTokens,
	})
	fetcher := scrape.NewHTTPFetcher(
		scrape.WithContentBudget(cfg.Scan.ContentBudget),
		scrape.WithRateLimit(cfg.Scan.FetchRatePerSec, 2),
	)
	return pipeline.New(cfg.Scan, ai, fetcher)
}

// newDispatcher wires report delivery from config.
func newDispatcher() *delivery.Dispatcher {
	client := resend.New(cfg.Delivery.ResendKey, cfg.Delivery.BaseURL)
	return delivery.NewDispatcher(cfg.Delivery, delivery.NewResendSender(client))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
