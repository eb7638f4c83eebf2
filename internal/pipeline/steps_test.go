package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/phishguard/phishguard/internal/config"
	"github.com/phishguard/phishguard/internal/database"
	"github.com/phishguard/phishguard/internal/feature"
)

// writeDataset writes a small labeled CSV and returns its path.
func writeDataset(t *testing.T) string {
	t.Helper()

	content := `url,label
http://login-secure.example.com/verify/account,1
http://1.2.3.4/update//billing,1
https://bit.ly/claim,1
http://paypal.com.secure-check.example/signin,1
http://update-account.example.net/confirm,1
http://203.0.113.9/bank/login,1
https://example.com/,0
https://golang.org/doc/,0
https://news.example.org/articles/today,0
https://docs.example.com/reference,0
https://shop.example.net/cart,0
https://mail.example.com/inbox,0
`
	path := filepath.Join(t.TempDir(), "dataset.csv")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

// fastConfig returns a config sized for quick test runs.
func fastConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.NewConfig()
	cfg.DatasetPath = writeDataset(t)
	cfg.ModelPath = filepath.Join(t.TempDir(), "model.json")
	cfg.Epochs = 3
	cfg.BatchSize = 4
	cfg.HiddenLayers = []int{8, 4}
	cfg.Seed = 7
	return cfg
}

func TestLoadStep_Do(t *testing.T) {
	t.Parallel()

	t.Run("loads rows", func(t *testing.T) {
		t.Parallel()

		state := NewState(fastConfig(t))
		if err := NewLoadStep().Do(context.Background(), state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(state.Rows) != 12 {
			t.Errorf("loaded %d rows, want 12", len(state.Rows))
		}
		if state.Report.Rows != 12 {
			t.Errorf("report rows = %d, want 12", state.Report.Rows)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		cfg := fastConfig(t)
		cfg.DatasetPath = filepath.Join(t.TempDir(), "missing.csv")
		state := NewState(cfg)
		if err := NewLoadStep().Do(context.Background(), state); err == nil {
			t.Error("expected error for missing dataset")
		}
	})

	t.Run("empty dataset", func(t *testing.T) {
		t.Parallel()

		cfg := fastConfig(t)
		path := filepath.Join(t.TempDir(), "empty.csv")
		if err := os.WriteFile(path, []byte("url,label\n"), 0600); err != nil {
			t.Fatal(err)
		}
		cfg.DatasetPath = path

		state := NewState(cfg)
		err := NewLoadStep().Do(context.Background(), state)
		if !errors.Is(err, ErrEmptyDataset) {
			t.Errorf("err = %v, want ErrEmptyDataset", err)
		}
	})
}

func TestExtractStep_Do(t *testing.T) {
	t.Parallel()

	state := NewState(fastConfig(t))
	ctx := context.Background()
	if err := NewLoadStep().Do(ctx, state); err != nil {
		t.Fatal(err)
	}

	step := NewExtractStep(WithExtractLogger(discardLogger()))
	if err := step.Do(ctx, state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(state.X) != len(state.Rows) {
		t.Fatalf("matrix rows = %d, want %d", len(state.X), len(state.Rows))
	}
	if len(state.X[0]) != feature.NumFeatures {
		t.Errorf("feature width = %d, want %d", len(state.X[0]), feature.NumFeatures)
	}
	if state.Report.DegradedRows != 0 {
		t.Errorf("degraded rows = %d, want 0", state.Report.DegradedRows)
	}
}

func TestSplitStep_Do(t *testing.T) {
	t.Parallel()

	state := NewState(fastConfig(t))
	ctx := context.Background()
	for _, step := range []Step{NewLoadStep(), NewExtractStep(WithExtractLogger(discardLogger()))} {
		if err := step.Do(ctx, state); err != nil {
			t.Fatal(err)
		}
	}

	if err := NewSplitStep().Do(ctx, state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 12 rows at the default 0.2 fraction hold out ceil(2.4) = 3 rows.
	if state.Report.TestRows != 3 {
		t.Errorf("test rows = %d, want 3", state.Report.TestRows)
	}
	if state.Report.TrainRows != 9 {
		t.Errorf("train rows = %d, want 9", state.Report.TrainRows)
	}
}

func TestTrainingSteps_EndToEnd(t *testing.T) {
	t.Parallel()

	cfg := fastConfig(t)
	state := NewState(cfg)
	ctx := context.Background()

	p := New(WithLogger(discardLogger()))
	p.AddSteps(
		NewLoadStep(),
		NewExtractStep(WithExtractLogger(discardLogger())),
		NewSplitStep(),
		NewTrainStep(WithTrainLogger(discardLogger())),
		NewEvaluateStep(),
		NewSaveStep(),
	)

	if err := p.Execute(ctx, state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if state.Network == nil {
		t.Fatal("network not populated")
	}
	if state.Report.History == nil || state.Report.History.Epochs() != cfg.Epochs {
		t.Errorf("history epochs = %v, want %d", state.Report.History, cfg.Epochs)
	}
	if state.Report.Metrics.Accuracy < 0 || state.Report.Metrics.Accuracy > 1 {
		t.Errorf("accuracy = %v, want within [0, 1]", state.Report.Metrics.Accuracy)
	}
	if !state.Report.Succeeded() {
		t.Error("report should mark the run as succeeded")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		t.Errorf("model file not written: %v", err)
	}
}

func TestRecordStep_Do(t *testing.T) {
	t.Parallel()

	cfg := fastConfig(t)
	state := NewState(cfg)
	ctx := context.Background()

	p := New(WithLogger(discardLogger()))
	p.AddSteps(
		NewLoadStep(),
		NewExtractStep(WithExtractLogger(discardLogger())),
		NewSplitStep(),
		NewTrainStep(WithTrainLogger(discardLogger())),
		NewEvaluateStep(),
		NewSaveStep(),
	)
	if err := p.Execute(ctx, state); err != nil {
		t.Fatal(err)
	}

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			t.Errorf("close database: %v", err)
		}
	}()

	if err := NewRecordStep(db).Do(ctx, state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	runs, err := db.ListRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(runs))
	}
	if runs[0].DatasetPath != cfg.DatasetPath {
		t.Errorf("run dataset = %q, want %q", runs[0].DatasetPath, cfg.DatasetPath)
	}
	if runs[0].Epochs != cfg.Epochs {
		t.Errorf("run epochs = %d, want %d", runs[0].Epochs, cfg.Epochs)
	}
}
