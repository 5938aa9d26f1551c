package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/odds-oracle/internal/models"
)

var (
	homeOdds   string
	drawOdds   string
	awayOdds   string
	neighborK  int
	jsonOutput bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Recommend a market for one match",
	Long: `Finds historical matches sharing at least two of the three odds and returns
a market recommendation. Odds not given as flags are asked for on stdin.`,
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&homeOdds, "home", "", "Home win odds")
	predictCmd.Flags().StringVar(&drawOdds, "draw", "", "Draw odds")
	predictCmd.Flags().StringVar(&awayOdds, "away", "", "Away win odds")
	predictCmd.Flags().IntVarP(&neighborK, "k", "k", 0, "Maximum number of similar matches (0 uses predictor.default_k)")
	predictCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the prediction as JSON")
}

func runPredict(cmd *cobra.Command, args []string) error {
	query, err := readQuery(cmd.InOrStdin(), cmd.OutOrStdout(), homeOdds, drawOdds, awayOdds)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	deps, err := setupDependencies(ctx)
	if err != nil {
		return err
	}
	defer deps.close()

	svc, err := deps.predictionService(nil)
	if err != nil {
		return err
	}
	if _, err := svc.RefreshDataset(ctx); err != nil {
		return fmt.Errorf("failed to load historical dataset: %w", err)
	}

	p, err := svc.Predict(ctx, query, neighborK)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	printPrediction(cmd.OutOrStdout(), p)
	return nil
}

// readQuery uses the given odds and prompts for any that are missing
func readQuery(in io.Reader, out io.Writer, home, draw, away string) (models.QueryOdds, error) {
	scanner := bufio.NewScanner(in)
	prompts := []struct {
		label string
		value *string
	}{
		{"Home odds", &home},
		{"Draw odds", &draw},
		{"Away odds", &away},
	}

	for _, p := range prompts {
		if strings.TrimSpace(*p.value) != "" {
			continue
		}
		fmt.Fprintf(out, "%s: ", p.label)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return models.QueryOdds{}, err
			}
			return models.QueryOdds{}, errors.New("no odds entered")
		}
		*p.value = scanner.Text()
	}

	return models.ParseQueryOdds(home, draw, away)
}

func printPrediction(out io.Writer, p *models.Prediction) {
	d := p.Decision

	fmt.Fprintf(out, "Query odds:       %s\n", p.Query)
	fmt.Fprintf(out, "Similar matches:  %d (k=%d)\n", p.NeighborCount, p.K)
	fmt.Fprintf(out, "Decision source:  %s", p.Source)
	if p.FallbackReason != "" {
		fmt.Fprintf(out, " (%s)", p.FallbackReason)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Best market:      %s\n", d.BestMarket)
	if outcome := d.Outcome(); outcome != "" {
		fmt.Fprintf(out, "Best outcome:     %s\n", outcome)
	}
	if d.ExpectedTotalGoals != "" {
		fmt.Fprintf(out, "Expected goals:   %s\n", d.ExpectedTotalGoals)
	}
	fmt.Fprintf(out, "Confidence:       %.2f\n", d.Confidence)
	if d.ReasoningSummary != "" {
		fmt.Fprintf(out, "Reasoning:        %s\n", d.ReasoningSummary)
	}
}
