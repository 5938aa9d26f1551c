package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/odds-oracle/internal/database"
	"github.com/yourusername/odds-oracle/internal/dataset"
	"github.com/yourusername/odds-oracle/internal/repository"
	"github.com/yourusername/odds-oracle/internal/service"
)

var (
	importFrom      string
	importReplace   bool
	importBatchSize int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy a historical dataset file or URL into PostgreSQL",
	Long: `Loads a JSON or CSV dataset and appends its rows to historical_matches in
table order, so the postgres dataset source serves the same table.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importFrom, "from", "", "Dataset file path or URL (defaults to dataset.location)")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Delete existing rows before importing")
	importCmd.Flags().IntVar(&importBatchSize, "batch-size", 1000, "Rows per insert batch")
}

func runImport(cmd *cobra.Command, args []string) error {
	if !cfg.Database.Enabled {
		return fmt.Errorf("import requires database.enabled")
	}

	from := importFrom
	if from == "" {
		from = cfg.Dataset.Location
	}
	if from == "" {
		return fmt.Errorf("no dataset location given; use --from")
	}

	ctx := cmd.Context()
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return err
	}

	svc := service.NewImportService(repos.Match, appLog, importBatchSize)
	m, err := svc.Import(ctx, dataset.FromLocation(from, appLog), importReplace)
	if err != nil {
		return err
	}

	total, err := repos.Match.Count(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows from %s in %d batches (%v); table now holds %d rows\n",
		m.InsertedRows, m.Source, m.Batches, m.Duration, total)
	return nil
}
