package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/scout-cli/internal/model"
)

var (
	scanMaxPages int
	scanJSON     bool
	scanEmail    string
)

var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Scan a business website for AI adoption opportunities",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		targetURL := args[0]

		pl := newPipeline()
		events := pl.Scan(ctx, targetURL, scanMaxPages)

		writer := model.NewEventWriter(os.Stdout)
		var terminal model.ProgressEvent

		for event := range events {
			if event.Terminal() {
				terminal = event
			}
			if scanJSON {
				if err := writer.Write(event); err != nil {
					return eris.Wrap(err, "scan: write event")
				}
				continue
			}
			line := fmt.Sprintf("[%3d%%] %-12s %s", event.Progress, event.Stage, event.Message)
			if event.Detail != "" {
				line += " — " + event.Detail
			}
			fmt.Println(line)
		}

		if terminal.Stage == model.StageError {
			return eris.New(terminal.Detail)
		}

		if !scanJSON && terminal.Data != nil {
			printResult(terminal.Data)
		}

		if scanEmail != "" && terminal.Data != nil {
			if err := newDispatcher().Deliver(ctx, terminal.Data, scanEmail); err != nil {
				return eris.Wrap(err, "scan: deliver report")
			}
			zap.L().Info("scan: report delivered", zap.String("recipient", scanEmail))
		}

		return nil
	},
}

func printResult(result *model.ScanResult) {
	fmt.Printf("\n%s (%s) — %d pages analysed\n", result.BusinessName, result.Industry, result.PagesAnalysed)
	for _, o := range result.Opportunities {
		fmt.Printf("  - %s [%s] impact %d/5, complexity %d/5\n", o.Title, o.Category, o.Impact, o.Complexity)
	}
	if result.TopRecommendation != nil {
		fmt.Printf("  Top recommendation: %s\n", result.TopRecommendation.Title)
	}
	if result.Summary != "" {
		fmt.Printf("\n%s\n", result.Summary)
	}
}

func init() {
	scanCmd.Flags().IntVar(&scanMaxPages, "max-pages", 0, "page-count ceiling (default from config)")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "emit progress events as line-delimited JSON")
	scanCmd.Flags().StringVar(&scanEmail, "email", "", "deliver the report to this address on completion")
	rootCmd.AddCommand(scanCmd)
}
