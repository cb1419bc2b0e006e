package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Output struct {
		Dir           string `yaml:"dir"`
		PreservePaths bool   `yaml:"preserve_paths"`
		Underlines    bool   `yaml:"underlines"`
		Extension     string `yaml:"extension"`
	} `yaml:"output"`
	Source struct {
		Encoding     string `yaml:"encoding"`
		SkipBadFiles bool   `yaml:"skip_bad_files"`
	} `yaml:"source"`
	Languages struct {
		// File points at a yaml table of extra language definitions merged
		// over the built-in ones.
		File string `yaml:"file"`
	} `yaml:"languages"`
	Cache struct {
		Path string `yaml:"path"`
	} `yaml:"cache"`
}

func defaults() *Config {
	var cfg Config
	cfg.Output.Dir = "docs"
	cfg.Output.Extension = "html"
	cfg.Source.Encoding = "utf-8"
	return &cfg
}

// LoadConfig reads configuration in three layers: a .env file if present,
// the yaml config file, then SIDEDOC_* environment variables on top. A
// missing config file just yields the defaults.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := defaults()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if dir := os.Getenv("SIDEDOC_OUTDIR"); dir != "" {
		cfg.Output.Dir = dir
	}
	if ext := os.Getenv("SIDEDOC_EXTENSION"); ext != "" {
		cfg.Output.Extension = ext
	}
	if enc := os.Getenv("SIDEDOC_ENCODING"); enc != "" {
		cfg.Source.Encoding = enc
	}
	if langs := os.Getenv("SIDEDOC_LANGUAGES"); langs != "" {
		cfg.Languages.File = langs
	}
	if cache := os.Getenv("SIDEDOC_CACHE"); cache != "" {
		cfg.Cache.Path = cache
	}
	if skip := os.Getenv("SIDEDOC_SKIP_BAD_FILES"); skip != "" {
		if v, err := strconv.ParseBool(skip); err == nil {
			cfg.Source.SkipBadFiles = v
		}
	}

	return cfg, nil
}
