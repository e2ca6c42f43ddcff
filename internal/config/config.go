package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig holds infrastructure config from standard env vars
type AppConfig struct {
	DBPath     string
	ConfigPath string // Optional path to the YAML site config
}

// SiteConfig holds all target-site specific settings (from YAML)
type SiteConfig struct {
	Source   string   `yaml:"source"`
	Fallback Fallback `yaml:"fallback"`
	Sample   Sample   `yaml:"sample"`
}

// Fallback values are used when the matching filter flag is empty.
type Fallback struct {
	Make  string `yaml:"make"`
	Model string `yaml:"model"`
	Year  string `yaml:"year"`
}

// Sample describes the fixed parts of the placeholder listing.
type Sample struct {
	Price    int64  `yaml:"price"`
	Title    string `yaml:"title"`
	URL      string `yaml:"url"`
	ImageURL string `yaml:"image_url"`
}

// DefaultSiteConfig returns the built-in drom.ru settings.
func DefaultSiteConfig() *SiteConfig {
	return &SiteConfig{
		Source: "drom.ru",
		Fallback: Fallback{
			Make:  "Toyota",
			Model: "Camry",
			Year:  "2020",
		},
		Sample: Sample{
			Price:    2000000,
			Title:    "Toyota Camry 2020",
			URL:      "https://drom.ru/auto/toyota/camry/2020",
			ImageURL: "https://example.com/car.jpg",
		},
	}
}

// GetAppConfig reads basic infrastructure settings from environment variables.
func GetAppConfig() (AppConfig, error) {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./local-data/listings.db"
	}

	return AppConfig{
		DBPath:     dbPath,
		ConfigPath: os.Getenv("CONFIG_PATH"),
	}, nil
}

// LoadSiteConfig reads the YAML file on top of DefaultSiteConfig.
// Keys missing from the file keep their defaults.
func LoadSiteConfig(path string) (*SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file at '%s': %w", path, err)
	}
	cfg := DefaultSiteConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return cfg, nil
}

// SiteConfigFor returns the site config selected by app: the YAML file when
// ConfigPath is set, the defaults otherwise.
func SiteConfigFor(app AppConfig) (*SiteConfig, error) {
	if app.ConfigPath == "" {
		return DefaultSiteConfig(), nil
	}
	return LoadSiteConfig(app.ConfigPath)
}
