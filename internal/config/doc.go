// Package config provides configuration management for PhishGuard.
// It defines defaults, CLI-driven options, YAML file overrides, and
// validation for the training and export pipeline.
package config
