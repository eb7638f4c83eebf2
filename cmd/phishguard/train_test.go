package main

import (
	"testing"

	"github.com/phishguard/phishguard/internal/config"
)

// TestNewTrainCmd tests the train command creation.
func TestNewTrainCmd(t *testing.T) {
	t.Parallel()

	cmd := NewTrainCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "train <dataset.csv>" {
			t.Errorf("expected use 'train <dataset.csv>', got %q", cmd.Use)
		}
	})

	t.Run("has hyperparameter flags with defaults", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			flag string
			def  string
		}{
			{"epochs", "50"},
			{"batch-size", "64"},
			{"dropout", "0.2"},
			{"learning-rate", "0.001"},
			{"decay-steps", "1000"},
			{"decay-rate", "0.9"},
			{"seed", "42"},
			{"test-fraction", "0.2"},
			{"threshold", "0.5"},
		}
		for _, tt := range tests {
			flag := cmd.Flags().Lookup(tt.flag)
			if flag == nil {
				t.Errorf("expected %q flag", tt.flag)
				continue
			}
			if flag.DefValue != tt.def {
				t.Errorf("flag %q default = %q, want %q", tt.flag, flag.DefValue, tt.def)
			}
		}
	})

	t.Run("has model flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("model")
		if flag == nil {
			t.Fatal("expected model flag")
		}
		if flag.DefValue != config.DefaultModelPath {
			t.Errorf("model default = %q, want %q", flag.DefValue, config.DefaultModelPath)
		}
	})

	t.Run("has report flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"json", "markdown", "output"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %q flag", name)
			}
		}
	})

	t.Run("requires exactly one argument", func(t *testing.T) {
		t.Parallel()
		if err := cmd.Args(cmd, []string{}); err == nil {
			t.Error("expected error for missing dataset argument")
		}
		if err := cmd.Args(cmd, []string{"a.csv", "b.csv"}); err == nil {
			t.Error("expected error for extra arguments")
		}
		if err := cmd.Args(cmd, []string{"a.csv"}); err != nil {
			t.Errorf("unexpected error for single argument: %v", err)
		}
	})
}

// TestBuildTrainConfig tests flag-to-config mapping.
func TestBuildTrainConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewTrainCmd()
		cmd.Flags().BoolP("verbose", "v", false, "")
		if err := cmd.ParseFlags([]string{}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildTrainConfig(cmd, []string{"data/urls.csv"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.DatasetPath != "data/urls.csv" {
			t.Errorf("DatasetPath = %q, want data/urls.csv", cfg.DatasetPath)
		}
		if cfg.Epochs != config.DefaultEpochs {
			t.Errorf("Epochs = %d, want default %d", cfg.Epochs, config.DefaultEpochs)
		}
		if !cfg.SaveToDB {
			t.Error("SaveToDB should default to true")
		}
		if cfg.DBDir == "" {
			t.Error("DBDir should default to the XDG data directory")
		}
	})

	t.Run("explicit flags", func(t *testing.T) {
		t.Parallel()

		cmd := NewTrainCmd()
		cmd.Flags().BoolP("verbose", "v", false, "")
		args := []string{
			"--epochs", "5",
			"--batch-size", "8",
			"--hidden", "4,2",
			"--seed", "7",
			"--no-db",
			"--json",
		}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildTrainConfig(cmd, []string{"data/urls.csv"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Epochs != 5 {
			t.Errorf("Epochs = %d, want 5", cfg.Epochs)
		}
		if cfg.BatchSize != 8 {
			t.Errorf("BatchSize = %d, want 8", cfg.BatchSize)
		}
		if len(cfg.HiddenLayers) != 2 || cfg.HiddenLayers[0] != 4 || cfg.HiddenLayers[1] != 2 {
			t.Errorf("HiddenLayers = %v, want [4 2]", cfg.HiddenLayers)
		}
		if cfg.Seed != 7 {
			t.Errorf("Seed = %d, want 7", cfg.Seed)
		}
		if cfg.SaveToDB {
			t.Error("SaveToDB should be false with --no-db")
		}
		if !cfg.JSONReport {
			t.Error("JSONReport should be true with --json")
		}
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Parallel()

		cmd := NewTrainCmd()
		cmd.Flags().BoolP("verbose", "v", false, "")
		if err := cmd.ParseFlags([]string{"--config", "/nonexistent/config.yaml"}); err != nil {
			t.Fatal(err)
		}

		if _, err := buildTrainConfig(cmd, []string{"data/urls.csv"}); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})
}
