// Package dataset loads labeled URL datasets and turns them into numeric
// training data.
//
// The package covers three stages:
//   - loading url/label rows from CSV, silently dropping malformed rows
//   - building the feature matrix by running the extractor over every row
//   - splitting the matrix into reproducible train/test partitions
//
// It also provides the merge utility that combines a phishing CSV with a
// sampled subset of a legitimate CSV into one balanced training dataset.
//
// Design decision: malformed rows are dropped rather than reported because
// public URL corpora are noisy at the edges (truncated lines, stray quotes)
// and a training run should not fail on scattered bad rows. The loader logs
// nothing per-row; the caller sees only the retained row count.
package dataset
