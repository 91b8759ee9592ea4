package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/timbenroeck/macos-capture-transcripts/internal/output"
	"github.com/timbenroeck/macos-capture-transcripts/internal/parse"
	"github.com/timbenroeck/macos-capture-transcripts/internal/transcript"
)

type Config struct {
	OutputDir      string  `toml:"output_dir"`
	DBPath         string  `toml:"db_path"`
	Archive        bool    `toml:"archive"`
	Source         string  `toml:"source"`
	Matcher        string  `toml:"matcher"`
	FuzzyThreshold float64 `toml:"fuzzy_threshold"`
	MinOverlap     int     `toml:"min_overlap"`
}

// EnvPath overrides the config file location.
const EnvPath = "MCT_CONFIG"

// Default returns the built-in configuration for the given home directory.
func Default(home string) *Config {
	return &Config{
		OutputDir:      output.DefaultDir,
		DBPath:         filepath.Join(home, ".config", "mct", "mct.db"),
		Archive:        true,
		Source:         parse.SourceAuto,
		Matcher:        transcript.MatcherExact,
		FuzzyThreshold: 0.9,
		MinOverlap:     1,
	}
}

// Path returns the config file Load reads.
func Path(home string) string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return filepath.Join(home, ".config", "mct", "config.toml")
}

// Load reads an optional .env in the working directory, then the config
// file, then MCT_* environment overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(Path(home), home)
}

// LoadFrom decodes cfgPath over the defaults. A missing file is not an error.
func LoadFrom(cfgPath, home string) (*Config, error) {
	cfg := Default(home)

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	// expand ~ in paths
	cfg.OutputDir = expandHome(cfg.OutputDir, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", cfgPath, err)
	}
	return cfg, nil
}

// Validate rejects values the converter cannot act on.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.Archive && c.DBPath == "" {
		return fmt.Errorf("db_path is required when archive is enabled")
	}
	if _, err := transcript.MatcherByName(c.Matcher, c.FuzzyThreshold); err != nil {
		return err
	}
	if c.MinOverlap < 1 {
		return fmt.Errorf("min_overlap must be >= 1, got %d", c.MinOverlap)
	}
	if c.Source == parse.SourceAuto || c.Source == "" {
		return nil
	}
	for _, s := range parse.Sources {
		if c.Source == s {
			return nil
		}
	}
	return fmt.Errorf("unknown source: %s", c.Source)
}

// applyEnv overrides file values with MCT_OUTPUT_DIR, MCT_DB_PATH,
// MCT_ARCHIVE, MCT_SOURCE, MCT_MATCHER, MCT_FUZZY_THRESHOLD and MCT_MIN_OVERLAP.
func (c *Config) applyEnv() error {
	c.OutputDir = getEnv("MCT_OUTPUT_DIR", c.OutputDir)
	c.DBPath = getEnv("MCT_DB_PATH", c.DBPath)
	c.Archive = getEnvBool("MCT_ARCHIVE", c.Archive)
	c.Source = getEnv("MCT_SOURCE", c.Source)
	c.Matcher = getEnv("MCT_MATCHER", c.Matcher)

	if v := os.Getenv("MCT_FUZZY_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("MCT_FUZZY_THRESHOLD: %w", err)
		}
		c.FuzzyThreshold = f
	}
	if v := os.Getenv("MCT_MIN_OVERLAP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MCT_MIN_OVERLAP: %w", err)
		}
		c.MinOverlap = n
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch os.Getenv(key) {
	case "":
		return defaultValue
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
