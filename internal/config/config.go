package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultSeedURLs are the sample images fetched on first start when seeding
// is enabled. Sample n lands in the store as image_<n>.png.
var defaultSeedURLs = []string{
	"https://images.unsplash.com/photo-1504208434309-cb69f4fe52b0",
	"https://images.unsplash.com/photo-1485833077593-4278bba3f11f",
	"https://images.unsplash.com/photo-1593179357196-ea11a2e7c119",
	"https://images.unsplash.com/photo-1526515579900-98518e7862cc",
	"https://images.unsplash.com/photo-1582376432754-b63cc6a9b8c3",
	"https://images.unsplash.com/photo-1567608198472-6796ad9466a2",
	"https://images.unsplash.com/photo-1487213802982-74d73802997c",
	"https://images.unsplash.com/photo-1552762578-220c07490ea1",
	"https://images.unsplash.com/photo-1569691105751-88df003de7a4",
	"https://images.unsplash.com/photo-1590691566903-692bf5ca7493",
	"https://images.unsplash.com/photo-1497206365907-f5e630693df0",
	"https://images.unsplash.com/photo-1469765904976-5f3afbf59dfb",
}

type Config struct {
	Addr     string     `yaml:"addr"`
	ImageDir string     `yaml:"image_dir"`
	Seed     SeedConfig `yaml:"seed"`
}

type SeedConfig struct {
	Enabled     bool     `yaml:"enabled"`
	URLs        []string `yaml:"urls"`
	Concurrency int      `yaml:"concurrency"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Addr:     ":8080",
		ImageDir: "./images",
		Seed: SeedConfig{
			Enabled:     true,
			URLs:        defaultSeedURLs,
			Concurrency: 4,
		},
	}
}

// Load reads a YAML config file on top of the defaults. An empty path yields
// the defaults unchanged; a path that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ImageDir == "" {
		cfg.ImageDir = "./images"
	}

	return cfg, nil
}
