package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/mcp"
)

var (
	importCountries []string
	importQueries   []string
	importPage      int
	importMax       int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Run one import and print the summary as JSON",
	Example: `  job-aggregator import --countries IN,GB --queries "software developer" --max-per-country 200
  job-aggregator import --store memory`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringSliceVar(&importCountries, "countries", nil, "ISO-2 country codes (default IMPORT_COUNTRIES or the top countries by priority)")
	importCmd.Flags().StringSliceVar(&importQueries, "queries", nil, "Search keywords (default IMPORT_QUERIES)")
	importCmd.Flags().IntVar(&importPage, "page", 1, "Provider results page")
	importCmd.Flags().IntVar(&importMax, "max-per-country", 0, "Jobs kept per country (default MAX_JOBS_PER_COUNTRY)")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, cleanup, err := mcp.InitializeResources(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	req := domain.ImportRequest{
		Countries:         importCountries,
		Queries:           importQueries,
		Page:              importPage,
		MaxJobsPerCountry: importMax,
	}
	if len(req.Countries) == 0 {
		req.Countries = cfg.Import.Countries
	}
	if len(req.Queries) == 0 {
		req.Queries = cfg.Import.Queries
	}

	summary, importErr := res.JobService.Import(ctx, req)
	resp := domain.ImportResponse{Success: importErr == nil, Summary: summary}
	if importErr != nil {
		resp.Error = importErr.Error()
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return err
	}
	if importErr != nil {
		return importErr
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "persisted %s of %s jobs in %s\n",
		humanize.Comma(int64(summary.TotalPersisted)),
		humanize.Comma(int64(summary.TotalJobs)),
		summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond),
	)
	return nil
}
