package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory.
func Load(fsys afero.Fs, path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}
	path = absDir(path)

	configContents, err := afero.ReadFile(fsys, filepath.Join(path, ConfigurationName))
	if err != nil {
		return nil, err
	}

	// Start from the defaults so a partial file only overrides what it names.
	out := defaultConfig()
	if err := yaml.UnmarshalStrict(configContents, out); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigurationName, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigurationName, err)
	}
	out.rootFs = fsys
	out.configFs = afero.NewBasePathFs(fsys, path)
	return out, nil
}

// LoadOrDefault loads the configuration from the directory, falling back to
// the built-in defaults if no configuration file exists there.
func LoadOrDefault(fsys afero.Fs, path string) (*Configuration, error) {
	cfg, err := Load(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		if filepath.Base(path) == ConfigurationName {
			path = filepath.Dir(path)
		}
		cfg = defaultConfig()
		cfg.rootFs = fsys
		cfg.configFs = afero.NewBasePathFs(fsys, absDir(path))
		return cfg, nil
	}
	return cfg, err
}

// Initialize writes the default configuration into dir, leaving an existing
// configuration untouched.
func Initialize(fsys afero.Fs, dir string, logger *log.Logger) (*Configuration, error) {
	if err := fsys.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, ConfigurationName)
	switch exists, err := afero.Exists(fsys, configPath); {
	case err != nil:
		return nil, err
	case exists:
		logger.Info("Configuration already exists, skipping", "path", configPath)
	default:
		logger.Info("Writing default configuration", "path", configPath)
		if err := afero.WriteFile(fsys, configPath, defaultConfigData, 0600); err != nil {
			return nil, err
		}
	}

	return Load(fsys, dir)
}

// absDir makes dir absolute; afero.BasePathFs can't confine to a relative base.
func absDir(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}
