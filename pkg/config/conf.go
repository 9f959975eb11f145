package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/openchallenges/scorer/pkg/gold"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600
)

// Columns names the CSV columns the harness reads. Challenge organizers
// can rename these per challenge without rebuilding.
type Columns struct {
	ID          string `yaml:"id"`
	Label       string `yaml:"label"`
	Probability string `yaml:"probability"`
}

// Config represents app config object.
type Config struct {
	Columns          Columns `yaml:"columns"`
	ManifestFileName string  `yaml:"manifest"`
}

// Default returns the stock challenge template configuration.
func Default() *Config {
	return &Config{
		Columns: Columns{
			ID:          "id",
			Label:       "disease",
			Probability: "probability",
		},
		ManifestFileName: gold.ManifestFileName,
	}
}

// setDefaults fills any field left empty in the config file.
func (c *Config) setDefaults() {
	d := Default()
	if c.Columns.ID == "" {
		c.Columns.ID = d.Columns.ID
	}
	if c.Columns.Label == "" {
		c.Columns.Label = d.Columns.Label
	}
	if c.Columns.Probability == "" {
		c.Columns.Probability = d.Columns.Probability
	}
	if c.ManifestFileName == "" {
		c.ManifestFileName = d.ManifestFileName
	}
}

// Save writes the config into the given directory.
func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}

	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", configFileName)
	}

	return nil
}

// ReadOrCreate reads app config from directory or creates a new one.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dirPath, dirMode); err != nil {
			return nil, errors.Wrapf(err, "failed to create dir: %s", dirPath)
		}
	}

	path := filepath.Join(dirPath, configFileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(dirPath, Default()); err != nil {
			return nil, errors.Wrap(err, "failed to create default config")
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening config file: %s", path)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file: %s", path)
	}

	c := &Config{}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrapf(err, "error parsing config file: %s", path)
	}
	c.setDefaults()

	return c, nil
}
