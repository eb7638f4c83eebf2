package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phishguard/phishguard/internal/model"
)

// writeTrainingCSV writes a small labeled dataset and returns its path.
func writeTrainingCSV(t *testing.T, dir string) string {
	t.Helper()

	content := `url,label
http://login-secure.example.com/verify/account,1
http://1.2.3.4/update//billing,1
https://bit.ly/claim-reward,1
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
	path := filepath.Join(dir, "dataset.csv")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCommand executes the root command with args and returns its output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// TestTrainPredictExportRoundTrip trains a small model and exercises the
// predict, export, and history commands against it.
func TestTrainPredictExportRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	datasetPath := writeTrainingCSV(t, dir)
	modelPath := filepath.Join(dir, "model.json")
	artifactPath := filepath.Join(dir, "model.bin")
	reportPath := filepath.Join(dir, "report.json")
	dbDir := filepath.Join(dir, "db")

	// Train a tiny model with the run database redirected away from XDG.
	_, err := runCommand(t,
		"train", datasetPath,
		"--model", modelPath,
		"--epochs", "3",
		"--batch-size", "4",
		"--hidden", "8,4",
		"--seed", "7",
		"--db-dir", dbDir,
		"--json",
		"-o", reportPath,
	)
	if err != nil {
		t.Fatalf("train failed: %v", err)
	}

	if _, err := os.Stat(modelPath); err != nil {
		t.Fatalf("model file not written: %v", err)
	}

	// The JSON report round-trips into a training report.
	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	var report model.TrainingReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if report.Rows != 12 {
		t.Errorf("report rows = %d, want 12", report.Rows)
	}
	if !report.Succeeded() {
		t.Errorf("report should mark the run as succeeded: %+v", report)
	}

	// Predict with the model snapshot.
	out, err := runCommand(t,
		"predict", "--model", modelPath, "http://1.2.3.4/login",
	)
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if !strings.Contains(out, "p=") || !strings.Contains(out, "http://1.2.3.4/login") {
		t.Errorf("predict output missing verdict line:\n%s", out)
	}

	// Export the binary artifact.
	out, err = runCommand(t,
		"export", "--model", modelPath, "-o", artifactPath,
	)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, artifactPath) {
		t.Errorf("export output missing artifact path:\n%s", out)
	}
	if _, err := os.Stat(artifactPath); err != nil {
		t.Fatalf("artifact file not written: %v", err)
	}

	// Predict with the artifact instead of the snapshot.
	out, err = runCommand(t,
		"predict", "--artifact", artifactPath, "http://1.2.3.4/login",
	)
	if err != nil {
		t.Fatalf("predict with artifact failed: %v", err)
	}
	if !strings.Contains(out, "p=") {
		t.Errorf("artifact predict output missing verdict line:\n%s", out)
	}

	// The run appears in history.
	out, err = runCommand(t, "history", "--db-dir", dbDir)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, datasetPath) {
		t.Errorf("history output missing recorded run:\n%s", out)
	}
}

// TestTrainCmd_MissingDataset tests failure on a nonexistent dataset.
func TestTrainCmd_MissingDataset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := runCommand(t,
		"train", filepath.Join(dir, "missing.csv"),
		"--model", filepath.Join(dir, "model.json"),
		"--db-dir", filepath.Join(dir, "db"),
		"-o", filepath.Join(dir, "report.txt"),
	)
	if err == nil {
		t.Error("expected error for missing dataset")
	}
}

// TestPredictCmd_NoURLs tests failure when no URLs are given.
func TestPredictCmd_NoURLs(t *testing.T) {
	t.Parallel()

	_, err := runCommand(t, "predict")
	if err == nil {
		t.Error("expected error when no URLs are provided")
	}
}

// TestPredictCmd_MissingModel tests failure when the model does not exist.
func TestPredictCmd_MissingModel(t *testing.T) {
	t.Parallel()

	_, err := runCommand(t,
		"predict", "--model", filepath.Join(t.TempDir(), "missing.json"),
		"https://example.com/",
	)
	if err == nil {
		t.Error("expected error for missing model")
	}
}

// TestDatasetMergeCmd tests the dataset merge subcommand end to end.
func TestDatasetMergeCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	phishingPath := filepath.Join(dir, "phishing.csv")
	legitimatePath := filepath.Join(dir, "legitimate.csv")
	outPath := filepath.Join(dir, "merged.csv")

	phishing := "url,label\nhttp://bad.example/a,1\nhttp://bad.example/b,1\n"
	legitimate := "url,label\nhttps://good.example/a,0\nhttps://good.example/b,0\nhttps://good.example/c,0\n"
	if err := os.WriteFile(phishingPath, []byte(phishing), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(legitimatePath, []byte(legitimate), 0600); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t,
		"dataset", "merge",
		"--phishing", phishingPath,
		"--legitimate", legitimatePath,
		"--sample", "2",
		"-o", outPath,
	)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if !strings.Contains(out, outPath) {
		t.Errorf("merge output missing path:\n%s", out)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Count(strings.TrimSpace(string(data)), "\n")
	// Header plus 2 phishing plus 2 sampled legitimate rows.
	if lines != 4 {
		t.Errorf("merged file has %d line breaks, want 4:\n%s", lines, data)
	}
}

// TestHistoryCmd_EmptyDatabase tests output with no recorded runs.
func TestHistoryCmd_EmptyDatabase(t *testing.T) {
	t.Parallel()

	out, err := runCommand(t, "history", "--db-dir", t.TempDir())
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "No training runs recorded") {
		t.Errorf("history output missing empty message:\n%s", out)
	}
}
