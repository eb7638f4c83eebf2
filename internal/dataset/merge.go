package dataset

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

// MergeOptions configures Merge.
type MergeOptions struct {
	// SampleSize is the number of rows randomly sampled from the
	// legitimate dataset. Zero or a value larger than the dataset keeps
	// every legitimate row.
	SampleSize int

	// Seed drives the sampling shuffle so merges are reproducible.
	Seed int64
}

// Merge combines a phishing dataset with a sampled subset of a legitimate
// dataset into a single url/label CSV at outPath, creating parent
// directories as needed.
//
// Sampling the larger legitimate corpus down keeps the class distribution
// roughly balanced, which the trainer assumes. Phishing rows are written
// first, then the sampled legitimate rows.
func Merge(phishingPath, legitimatePath, outPath string, opts MergeOptions) error {
	phishing, err := Load(phishingPath)
	if err != nil {
		return fmt.Errorf("failed to load phishing dataset: %w", err)
	}
	legitimate, err := Load(legitimatePath)
	if err != nil {
		return fmt.Errorf("failed to load legitimate dataset: %w", err)
	}

	if opts.SampleSize > 0 && opts.SampleSize < len(legitimate) {
		r := rand.New(rand.NewSource(opts.Seed))
		perm := r.Perm(len(legitimate))
		sampled := make([]Row, 0, opts.SampleSize)
		for _, idx := range perm[:opts.SampleSize] {
			sampled = append(sampled, legitimate[idx])
		}
		legitimate = sampled
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(outPath) //nolint:gosec // output path is operator input
	if err != nil {
		return fmt.Errorf("failed to create merged dataset: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{urlColumn, labelColumn}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range append(phishing, legitimate...) {
		record := []string{row.URL, strconv.FormatFloat(row.Label, 'f', -1, 64)}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush merged dataset: %w", err)
	}
	return nil
}
