package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phishguard/phishguard/internal/config"
	"github.com/phishguard/phishguard/internal/database"
	"github.com/phishguard/phishguard/internal/model"
)

// Metric comparison directions.
const (
	directionImproved  = "improved"
	directionWorsened  = "worsened"
	directionUnchanged = "unchanged"
)

// NewHistoryCmd creates the history command.
// This command inspects training runs recorded in the local database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded training runs and compare the latest two",
		Long: `History lists training runs recorded in the local database and shows how
held-out metrics moved between the two most recent runs.

Each 'phishguard train' run records its dataset, partition sizes, and
evaluation metrics. Comparing runs over time shows whether dataset or
hyperparameter changes actually helped.

Examples:
  # List recent runs and compare the latest two
  phishguard history

  # Show the last 20 runs
  phishguard history --limit 20

  # Output run history as JSON
  phishguard history --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 10,
		"Maximum number of runs to list")
	cmd.Flags().BoolP("json", "j", false,
		"Output run history in JSON format")
	cmd.Flags().String("db-dir", "",
		"Directory of the run history database (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := cmd.OutOrStdout()

	if jsonOutput {
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No training runs recorded yet.")
		fmt.Fprintln(out, "\nUse 'phishguard train <dataset.csv>' to train a model.")
		return nil
	}

	fmt.Fprintf(out, "Training runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-4s  %-19s  %-8s  %-8s  %-8s  %s\n",
		"ID", "Date", "Rows", "Accuracy", "F1", "Dataset")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 76))
	for _, run := range runs {
		fmt.Fprintf(out, "  %-4d  %-19s  %-8d  %-8.4f  %-8.4f  %s\n",
			run.ID,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Rows,
			run.Metrics.Accuracy,
			run.Metrics.F1,
			run.DatasetPath,
		)
	}

	// ListRuns returns newest first, so runs[0] is latest, runs[1] previous.
	if len(runs) >= 2 {
		fmt.Fprintln(out)
		printComparison(out, runs[1], runs[0])
	}

	return nil
}

// printComparison renders metric movement between two runs.
func printComparison(out io.Writer, previous, latest *model.TrainingRun) {
	fmt.Fprintf(out, "Latest run %d vs run %d:\n\n", latest.ID, previous.ID)

	rows := []struct {
		name          string
		prev, cur     float64
		lowerIsBetter bool
	}{
		{"Loss", previous.Metrics.Loss, latest.Metrics.Loss, true},
		{"Accuracy", previous.Metrics.Accuracy, latest.Metrics.Accuracy, false},
		{"Precision", previous.Metrics.Precision, latest.Metrics.Precision, false},
		{"Recall", previous.Metrics.Recall, latest.Metrics.Recall, false},
		{"F1 Score", previous.Metrics.F1, latest.Metrics.F1, false},
	}

	for _, row := range rows {
		fmt.Fprintf(out, "  %-10s %.4f -> %.4f  (%s)\n",
			row.name+":", row.prev, row.cur,
			metricDirection(row.prev, row.cur, row.lowerIsBetter))
	}
}

// metricDirection classifies the movement of a metric between two runs.
func metricDirection(previous, latest float64, lowerIsBetter bool) string {
	switch {
	case latest == previous:
		return directionUnchanged
	case (latest > previous) != lowerIsBetter:
		return directionImproved
	default:
		return directionWorsened
	}
}
