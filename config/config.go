package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hannajonsd/impact-analysis/impact"
)

// Config is the configuration surface consumed, not owned, by the engine:
// project root override, include/exclude globs, risk thresholds, cache TTL,
// and tuning knobs for the pipeline components.
type Config struct {
	ProjectRoot   string         `yaml:"projectRoot"`
	SourceRoots   []string       `yaml:"sourceRoots"`
	Include       []string       `yaml:"include"`
	Exclude       []string       `yaml:"exclude"`
	BatchSize     int            `yaml:"batchSize"`
	CacheTTL      time.Duration  `yaml:"cacheTTL"`
	ContextWindow int            `yaml:"contextWindow"`
	UseTreeSitter bool           `yaml:"useTreeSitter"`
	MaxRisk       string         `yaml:"maxRisk"`
	Weights       impact.Weights `yaml:"weights"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		MaxRisk: string(impact.LevelHigh),
		Weights: impact.DefaultWeights(),
	}
}

// Load reads configuration from an optional YAML file and applies
// environment overrides. A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	// A .env next to the working directory may set the IMPACT_* variables.
	// Absence is fine.
	_ = godotenv.Load()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else {
			var fileCfg fileConfig
			if err := yaml.Unmarshal(data, &fileCfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
			fileCfg.apply(&cfg)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// fileConfig mirrors Config but keeps every field optional so absent keys
// fall through to defaults.
type fileConfig struct {
	ProjectRoot   *string         `yaml:"projectRoot"`
	SourceRoots   []string        `yaml:"sourceRoots"`
	Include       []string        `yaml:"include"`
	Exclude       []string        `yaml:"exclude"`
	BatchSize     *int            `yaml:"batchSize"`
	CacheTTL      *string         `yaml:"cacheTTL"`
	ContextWindow *int            `yaml:"contextWindow"`
	UseTreeSitter *bool           `yaml:"useTreeSitter"`
	MaxRisk       *string         `yaml:"maxRisk"`
	Weights       *impact.Weights `yaml:"weights"`
}

func (fc *fileConfig) apply(cfg *Config) {
	if fc.ProjectRoot != nil {
		cfg.ProjectRoot = *fc.ProjectRoot
	}
	if fc.SourceRoots != nil {
		cfg.SourceRoots = fc.SourceRoots
	}
	if fc.Include != nil {
		cfg.Include = fc.Include
	}
	if fc.Exclude != nil {
		cfg.Exclude = fc.Exclude
	}
	if fc.BatchSize != nil {
		cfg.BatchSize = *fc.BatchSize
	}
	if fc.CacheTTL != nil {
		if d, err := time.ParseDuration(*fc.CacheTTL); err == nil {
			cfg.CacheTTL = d
		}
	}
	if fc.ContextWindow != nil {
		cfg.ContextWindow = *fc.ContextWindow
	}
	if fc.UseTreeSitter != nil {
		cfg.UseTreeSitter = *fc.UseTreeSitter
	}
	if fc.MaxRisk != nil {
		cfg.MaxRisk = *fc.MaxRisk
	}
	if fc.Weights != nil {
		cfg.Weights = *fc.Weights
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("IMPACT_PROJECT_ROOT"); v != "" {
		cfg.ProjectRoot = v
	}
	if v := os.Getenv("IMPACT_MAX_RISK"); v != "" {
		cfg.MaxRisk = v
	}
	if v := os.Getenv("IMPACT_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CacheTTL = d
		}
	}
	if v := os.Getenv("IMPACT_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BatchSize = n
		}
	}
	if v := os.Getenv("IMPACT_USE_TREE_SITTER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UseTreeSitter = b
		}
	}
}
