package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/quentin418/clear-fashion/internal/app"
	"github.com/quentin418/clear-fashion/internal/kafka"
	"github.com/quentin418/clear-fashion/internal/scheduler"
	"github.com/quentin418/clear-fashion/internal/server"
	"github.com/quentin418/clear-fashion/internal/usecase"
	"github.com/quentin418/clear-fashion/pkg/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "clearfashion",
	Short:         "Clear fashion product aggregator",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the products API, scraping on SCRAPE_SCHEDULE when set",
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(
			server.StartServer,
			scheduler.Register,
		).Run()
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Consume scraped products from kafka and store them",
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(kafka.StartConsumeProducts).Run()
	},
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape every configured e-shop once and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		var scrape usecase.ScrapeUsecase
		a := app.Invoke(func(uc usecase.ScrapeUsecase) {
			scrape = uc
		})
		if err := a.Err(); err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := a.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = a.Stop(stopCtx)
		}()

		if reset, _ := cmd.Flags().GetBool("reset"); reset {
			if _, err := scrape.Reset(ctx); err != nil {
				return err
			}
		}

		report, err := scrape.Run(ctx)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

func init() {
	scrapeCmd.Flags().Bool("reset", false, "delete every stored product before scraping")
	rootCmd.AddCommand(serveCmd, scrapeCmd, ingestCmd)
}

func Execute() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.MustNamed("cmd").Fatalw("command failed", "error", err)
	}
}
