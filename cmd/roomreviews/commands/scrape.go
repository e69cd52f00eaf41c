package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"roomreviews/internal/adapters/observability"
	"roomreviews/internal/app"
	"roomreviews/internal/export"
	"roomreviews/internal/shared"
)

var (
	scrapeInput    *string
	scrapeFormat   *string
	scrapeOut      *string
	scrapeMaxItems *int
)

func init() {
	scrapeInput = scrapeCmd.Flags().String("input", "data/sample_input.json", "input file listing roomUrls")
	scrapeFormat = scrapeCmd.Flags().String("format", "", "output format: json, jsonl, csv, excel, html, xml")
	scrapeOut = scrapeCmd.Flags().String("out", "", "output path (default data/reviews.<ext>)")
	scrapeMaxItems = scrapeCmd.Flags().Int("max-items", 0, "max reviews per room, 0 means no cap")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--input <path>] [--format <f>] [--out <path>] [--max-items <n>]",
	Short: "Scrapes every room in the input file and writes one export file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := shared.Load()
		if err != nil {
			return err
		}
		setupLogging(cfg)
		observability.Serve()

		in, err := shared.LoadInput(*scrapeInput)
		if err != nil {
			return err
		}

		// flag > input file > env default
		maxItems := cfg.MaxItems
		if in.MaxItems > 0 {
			maxItems = in.MaxItems
		}
		if cmd.Flags().Changed("max-items") {
			maxItems = *scrapeMaxItems
		}

		var formatName, outPath string
		if in.Output != nil {
			formatName = in.Output.Format
			outPath = in.Output.Path
		}
		if *scrapeFormat != "" {
			formatName = *scrapeFormat
		}
		if formatName == "" {
			formatName = string(export.FormatJSON)
		}
		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}
		if *scrapeOut != "" {
			outPath = *scrapeOut
		}
		if outPath == "" {
			outPath = export.DefaultPath(format)
		}

		feed, err := buildFeed(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		orch := app.NewOrchestrator(feed, cfg.Workers)
		results, report := orch.Run(cmd.Context(), in.RoomURLs, maxItems)

		if report.AllFailed() {
			return fmt.Errorf("all %d rooms failed", report.Rooms)
		}
		if report.Reviews == 0 {
			log.Warn().Msg("no reviews collected, skipping export")
			return nil
		}
		if err := export.Write(results, format, outPath); err != nil {
			return err
		}

		log.Info().
			Str("path", outPath).
			Str("format", string(format)).
			Int("rooms", report.Rooms).
			Int("failed", report.Failed).
			Int("reviews", report.Reviews).
			Msg("scrape complete")
		return nil
	},
}
