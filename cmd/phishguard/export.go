package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phishguard/phishguard/internal/artifact"
	"github.com/phishguard/phishguard/internal/config"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a trained model as a portable binary artifact",
		Long: `Export converts the JSON model snapshot into a compact binary artifact.

Batch normalization layers are folded into the adjacent dense layers and
weights are stored as float32, so the artifact is smaller and faster to
load while producing the same classifications as the original model.

Examples:
  # Export the default model to the default artifact path
  phishguard export

  # Export a specific model to a custom location
  phishguard export -M mymodel.json -o dist/model.bin`,
		Args: cobra.NoArgs,
		RunE: runExportCmd,
	}

	cmd.Flags().StringP("model", "M", config.DefaultModelPath,
		"Path to the trained model snapshot")
	cmd.Flags().StringP("output", "o", config.DefaultArtifactPath,
		"Output path for the binary artifact")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, _ []string) error {
	modelPath, err := cmd.Flags().GetString("model")
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	if err := artifact.Export(modelPath, outPath); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", modelPath, outPath)
	return nil
}
