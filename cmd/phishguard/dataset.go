package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phishguard/phishguard/internal/config"
	"github.com/phishguard/phishguard/internal/dataset"
)

// NewDatasetCmd creates the dataset command group.
func NewDatasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Dataset preparation utilities",
		Long:  `Dataset provides utilities for assembling training datasets from raw CSV sources.`,
	}

	cmd.AddCommand(newDatasetMergeCmd())
	return cmd
}

// newDatasetMergeCmd creates the dataset merge subcommand.
func newDatasetMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge phishing and legitimate URL datasets into one training CSV",
		Long: `Merge combines a phishing URL dataset with a legitimate URL dataset into
a single url,label CSV ready for training.

The legitimate dataset is usually much larger than the phishing one, so
--sample draws a reproducible random sample from it to keep the classes
balanced. Phishing rows are always kept in full.

Examples:
  # Merge with 5000 sampled legitimate rows
  phishguard dataset merge --phishing phish.csv --legitimate benign.csv \
    --sample 5000 -o data/urls.csv

  # Keep every legitimate row
  phishguard dataset merge --phishing phish.csv --legitimate benign.csv \
    -o data/urls.csv`,
		RunE: runDatasetMergeCmd,
	}

	cmd.Flags().StringP("phishing", "p", "",
		"CSV file of phishing URLs (required)")
	cmd.Flags().StringP("legitimate", "l", "",
		"CSV file of legitimate URLs (required)")
	cmd.Flags().StringP("output", "o", "",
		"Output path for the merged dataset (required)")
	cmd.Flags().IntP("sample", "n", 0,
		"Number of legitimate rows to sample (0 keeps all)")
	cmd.Flags().Int64P("seed", "s", config.DefaultSeed,
		"Random seed for the legitimate sample")

	_ = cmd.MarkFlagRequired("phishing")
	_ = cmd.MarkFlagRequired("legitimate")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// runDatasetMergeCmd executes the dataset merge subcommand.
func runDatasetMergeCmd(cmd *cobra.Command, _ []string) error {
	phishingPath, err := cmd.Flags().GetString("phishing")
	if err != nil {
		return err
	}
	legitimatePath, err := cmd.Flags().GetString("legitimate")
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	sample, err := cmd.Flags().GetInt("sample")
	if err != nil {
		return err
	}
	seed, err := cmd.Flags().GetInt64("seed")
	if err != nil {
		return err
	}

	opts := dataset.MergeOptions{
		SampleSize: sample,
		Seed:       seed,
	}
	if err := dataset.Merge(phishingPath, legitimatePath, outPath, opts); err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Merged dataset written to %s\n", outPath)
	return nil
}
