package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".phishguard"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the YAML configuration file. Every field is a pointer so
// that an absent key leaves the corresponding Config default untouched;
// only keys the user actually wrote override anything.
type File struct {
	Dataset      *string  `yaml:"dataset"`
	Model        *string  `yaml:"model"`
	Artifact     *string  `yaml:"artifact"`
	Seed         *int64   `yaml:"seed"`
	TestFraction *float64 `yaml:"test_fraction"`
	Epochs       *int     `yaml:"epochs"`
	BatchSize    *int     `yaml:"batch_size"`
	HiddenLayers []int    `yaml:"hidden_layers"`
	DropoutRate  *float64 `yaml:"dropout_rate"`
	LearningRate *float64 `yaml:"learning_rate"`
	DecaySteps   *int     `yaml:"decay_steps"`
	DecayRate    *float64 `yaml:"decay_rate"`
	Threshold    *float64 `yaml:"threshold"`
}

// LoadConfigFile loads configuration overrides from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply copies the file's set values onto the config. CLI flags are parsed
// after Apply runs, so explicit flags still win over the file.
func (f *File) Apply(c *Config) {
	if f.Dataset != nil {
		c.DatasetPath = *f.Dataset
	}
	if f.Model != nil {
		c.ModelPath = *f.Model
	}
	if f.Artifact != nil {
		c.ArtifactPath = *f.Artifact
	}
	if f.Seed != nil {
		c.Seed = *f.Seed
	}
	if f.TestFraction != nil {
		c.TestFraction = *f.TestFraction
	}
	if f.Epochs != nil {
		c.Epochs = *f.Epochs
	}
	if f.BatchSize != nil {
		c.BatchSize = *f.BatchSize
	}
	if len(f.HiddenLayers) > 0 {
		c.HiddenLayers = append([]int(nil), f.HiddenLayers...)
	}
	if f.DropoutRate != nil {
		c.DropoutRate = *f.DropoutRate
	}
	if f.LearningRate != nil {
		c.InitialLearningRate = *f.LearningRate
	}
	if f.DecaySteps != nil {
		c.DecaySteps = *f.DecaySteps
	}
	if f.DecayRate != nil {
		c.DecayRate = *f.DecayRate
	}
	if f.Threshold != nil {
		c.Threshold = *f.Threshold
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .phishguard in the current directory
// 3. Look for .phishguard in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
