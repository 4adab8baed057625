// Package config resolves ganttfold settings from defaults, an optional
// YAML file and GANTTFOLD_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexanderramin/ganttfold/internal/hierarchy"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings.
type Config struct {
	DBPath         string `yaml:"db"`
	LabelPrefix    string `yaml:"label_prefix"`
	Separator      string `yaml:"separator"`
	FolderIDPrefix string `yaml:"folder_prefix"`
	LogCalls       bool   `yaml:"log_calls"`
}

// DefaultConfig returns a Config storing snapshots under ~/.ganttfold.
func DefaultConfig() Config {
	dbPath := "ganttfold.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".ganttfold", "ganttfold.db")
	}
	return Config{
		DBPath:         dbPath,
		LabelPrefix:    hierarchy.DefaultLabelPrefix,
		Separator:      hierarchy.DefaultSeparator,
		FolderIDPrefix: hierarchy.DefaultFolderIDPrefix,
	}
}

// Load reads the config file named by GANTTFOLD_CONFIG (or
// ~/.ganttfold/config.yaml) and then applies environment overrides.
// A missing file is not an error; a malformed one is.
func Load() (Config, error) {
	cfg := DefaultConfig()

	path := os.Getenv("GANTTFOLD_CONFIG")
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".ganttfold", "config.yaml")
		}
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	c.DBPath = nonEmpty(file.DBPath, c.DBPath)
	c.LabelPrefix = nonEmpty(file.LabelPrefix, c.LabelPrefix)
	c.Separator = nonEmpty(file.Separator, c.Separator)
	c.FolderIDPrefix = nonEmpty(file.FolderIDPrefix, c.FolderIDPrefix)
	c.LogCalls = c.LogCalls || file.LogCalls
	return nil
}

func (c *Config) applyEnv() {
	c.DBPath = nonEmpty(os.Getenv("GANTTFOLD_DB"), c.DBPath)
	c.LabelPrefix = nonEmpty(os.Getenv("GANTTFOLD_LABEL_PREFIX"), c.LabelPrefix)
	c.Separator = nonEmpty(os.Getenv("GANTTFOLD_SEPARATOR"), c.Separator)
	c.FolderIDPrefix = nonEmpty(os.Getenv("GANTTFOLD_FOLDER_PREFIX"), c.FolderIDPrefix)
	if v := os.Getenv("GANTTFOLD_LOG_CALLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.LogCalls = b
		}
	}
}

// HierarchyOptions maps the syntax settings onto hierarchy.Options.
func (c Config) HierarchyOptions() hierarchy.Options {
	opts := hierarchy.DefaultOptions()
	opts.LabelPrefix = nonEmpty(c.LabelPrefix, opts.LabelPrefix)
	opts.Separator = nonEmpty(c.Separator, opts.Separator)
	opts.FolderIDPrefix = nonEmpty(c.FolderIDPrefix, opts.FolderIDPrefix)
	return opts
}

func nonEmpty(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
