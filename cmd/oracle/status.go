package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show dataset, advisor and database status",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	deps, err := setupDependencies(ctx)
	if err != nil {
		return err
	}
	defer deps.close()

	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Dataset:")
	fmt.Fprintf(out, "  Source: %s (%s)\n", cfg.Dataset.Source, cfg.Dataset.Location)
	svc, err := deps.predictionService(nil)
	if err != nil {
		return err
	}
	if info, err := svc.RefreshDataset(ctx); err != nil {
		fmt.Fprintf(out, "  Status: unavailable (%v)\n", err)
	} else {
		fmt.Fprintf(out, "  Rows: %d\n", info.Rows)
		fmt.Fprintf(out, "  Loaded at: %s\n", info.LoadedAt.Format(time.RFC3339))
	}
	if cfg.Dataset.RefreshSchedule != "" {
		fmt.Fprintf(out, "  Refresh schedule: %s\n", cfg.Dataset.RefreshSchedule)
	}

	fmt.Fprintln(out, "\nAdvisor:")
	printAdvisorStatus(ctx, out, deps)

	fmt.Fprintln(out, "\nDatabase:")
	printDatabaseStatus(ctx, out, deps)

	return nil
}

func printAdvisorStatus(ctx context.Context, out io.Writer, deps *dependencies) {
	if deps.advisor == nil {
		fmt.Fprintln(out, "  Disabled (fallback heuristic only)")
		return
	}

	fmt.Fprintf(out, "  Model: %s\n", deps.advisor.Model())
	fmt.Fprintf(out, "  Base URL: %s\n", cfg.LLM.BaseURL)
	if err := deps.advisor.HealthCheck(ctx); err != nil {
		fmt.Fprintf(out, "  Health: UNAVAILABLE (%v)\n", err)
	} else {
		fmt.Fprintln(out, "  Health: ONLINE")
	}

	hits, misses, ratio := deps.advisor.GetCacheStats()
	fmt.Fprintf(out, "  Cache: %d hits, %d misses, %.2f%% hit ratio (ttl %ds, max %d)\n",
		hits, misses, ratio*100, cfg.LLM.CacheTTLSeconds, cfg.LLM.CacheMaxSize)
}

func printDatabaseStatus(ctx context.Context, out io.Writer, deps *dependencies) {
	if deps.db == nil {
		fmt.Fprintln(out, "  Disabled")
		return
	}

	if err := deps.db.HealthCheck(ctx); err != nil {
		fmt.Fprintf(out, "  Health: UNAVAILABLE (%v)\n", err)
		return
	}
	fmt.Fprintln(out, "  Health: ONLINE")

	if count, err := deps.repos.Match.Count(ctx); err == nil {
		fmt.Fprintf(out, "  Historical matches: %d\n", count)
	}
	if recent, err := deps.repos.Prediction.ListRecent(ctx, 5); err == nil {
		fmt.Fprintf(out, "  Recent predictions: %d shown\n", len(recent))
		for _, p := range recent {
			fmt.Fprintf(out, "    %s  %-14s %-8s %s\n", p.CreatedAt.Format(time.RFC3339), p.Query, p.Source, p.Decision.BestMarket)
		}
	}
}
