// Package database provides SQLite-based storage for training run history.
//
// Every completed training run is summarized into a row: dataset size,
// partition sizes, evaluation metrics, and artifact location. Keeping the
// history makes runs comparable over time, so a dataset refresh or a
// hyperparameter change can be judged against the previous runs instead of
// a screenshot of old console output.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
// 1. The database is a single file with no external service
// 2. The CGO-free driver keeps cross-compilation trivial
// 3. A batch trainer writes one row per run; performance is a non-issue
package database
