// Package config loads polycloud run settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/japaniel/polycloud/pkg/render"
)

const defaultConfigFile = "polycloud.yaml"

// Config describes the inputs, output and page layout of one run.
type Config struct {
	// Scores is the phoneme roundness CSV. Empty selects the built-in table.
	Scores        string        `yaml:"scores"`
	Dictionary    string        `yaml:"dictionary"`
	DictionaryURL string        `yaml:"dictionary_url"`
	Corpus        string        `yaml:"corpus"`
	CorpusURL     string        `yaml:"corpus_url"`
	Output        string        `yaml:"output"`
	Database      string        `yaml:"database"`
	Title         string        `yaml:"title"`
	Workers       int           `yaml:"workers"`
	Layout        render.Layout `yaml:"layout"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Dictionary: "cmudict.rep",
		Corpus:     "corpus.txt",
		Output:     "output.svg",
		Workers:    4,
		Layout:     render.DefaultLayout(),
	}
}

// Load reads path (or polycloud.yaml when empty) over the defaults.
// A missing file is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills unset or invalid fields.
func (c *Config) ApplyDefaults() {
	def := Default()
	c.Dictionary = strings.TrimSpace(c.Dictionary)
	if c.Dictionary == "" {
		c.Dictionary = def.Dictionary
	}
	if strings.TrimSpace(c.Output) == "" {
		c.Output = def.Output
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Layout.Width <= 0 {
		c.Layout.Width = def.Layout.Width
	}
	if c.Layout.Height <= 0 {
		c.Layout.Height = def.Layout.Height
	}
}
