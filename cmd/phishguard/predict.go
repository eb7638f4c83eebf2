package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phishguard/phishguard/internal/artifact"
	"github.com/phishguard/phishguard/internal/config"
	"github.com/phishguard/phishguard/internal/feature"
	"github.com/phishguard/phishguard/internal/nn"
)

// scorer is the common surface of the native model and the binary artifact.
type scorer interface {
	PredictOne(features []float64) float64
}

// artifactScorer adapts the artifact model to the scorer interface.
// Artifact prediction can only fail on a width mismatch, which Extract
// rules out, so the error path collapses here.
type artifactScorer struct {
	model *artifact.Model
}

func (s artifactScorer) PredictOne(features []float64) float64 {
	p, err := s.model.Predict(features)
	if err != nil {
		return 0
	}
	return p
}

// NewPredictCmd creates the predict command.
func NewPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict [url...]",
		Short: "Classify URLs with a trained model",
		Long: `Predict extracts lexical features from each URL and scores it with a
trained model. URLs scoring at or above the threshold are reported as
phishing.

By default predictions use the JSON model snapshot. Pass --artifact to
score with the exported binary artifact instead; both produce the same
classifications.

Examples:
  # Classify a single URL
  phishguard predict http://login-secure.example.com/verify

  # Classify several URLs at once
  phishguard predict http://a.example http://b.example

  # Read URLs from a file, one per line
  phishguard predict --list urls.txt

  # Score with the exported artifact
  phishguard predict --artifact model_save/model.bin http://a.example`,
		Args: cobra.ArbitraryArgs,
		RunE: runPredictCmd,
	}

	cmd.Flags().StringP("model", "M", config.DefaultModelPath,
		"Path to the trained model snapshot")
	cmd.Flags().StringP("artifact", "a", "",
		"Score with a binary artifact instead of the model snapshot")
	cmd.Flags().StringP("list", "l", "",
		"File containing URLs to classify, one per line")
	cmd.Flags().Float64P("threshold", "t", config.DefaultThreshold,
		"Probability threshold for classifying a URL as phishing")

	return cmd
}

// runPredictCmd executes the predict command.
func runPredictCmd(cmd *cobra.Command, args []string) error {
	urls, err := collectURLs(cmd, args)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return errors.New("no URLs provided (pass URLs as arguments or use --list)")
	}

	threshold, err := cmd.Flags().GetFloat64("threshold")
	if err != nil {
		return err
	}
	if threshold <= 0 || threshold >= 1 {
		return config.ErrInvalidThreshold
	}

	s, err := loadScorer(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, raw := range urls {
		res := feature.Extract(raw)
		p := s.PredictOne(res.Vector.Slice())

		verdict := "safe"
		if p >= threshold {
			verdict = "PHISHING"
		}
		suffix := ""
		if res.Degraded {
			suffix = "  (unparseable URL, scored as zero vector)"
		}
		fmt.Fprintf(out, "%-8s  p=%.4f  %s%s\n", verdict, p, raw, suffix)
	}
	return nil
}

// collectURLs gathers URLs from positional arguments and the --list file.
func collectURLs(cmd *cobra.Command, args []string) ([]string, error) {
	urls := append([]string(nil), args...)

	listPath, err := cmd.Flags().GetString("list")
	if err != nil {
		return nil, err
	}
	if listPath == "" {
		return urls, nil
	}

	f, err := os.Open(listPath) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open URL list: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	return urls, nil
}

// loadScorer loads either the native model or the binary artifact.
func loadScorer(cmd *cobra.Command) (scorer, error) {
	artifactPath, err := cmd.Flags().GetString("artifact")
	if err != nil {
		return nil, err
	}
	if artifactPath != "" {
		m, err := artifact.Open(artifactPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open artifact: %w", err)
		}
		return artifactScorer{model: m}, nil
	}

	modelPath, err := cmd.Flags().GetString("model")
	if err != nil {
		return nil, err
	}
	network, err := nn.Load(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load model (train one with 'phishguard train'): %w", err)
	}
	return network, nil
}
