package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	config     *RouterConfig
	configOnce sync.Once
	configErr  error
	configMu   sync.RWMutex
)

// Load loads the configuration from the specified YAML file once and caches
// it globally. Subsequent calls return the cached config regardless of path.
func Load(configPath string) (*RouterConfig, error) {
	configOnce.Do(func() {
		cfg, err := Parse(configPath)
		if err != nil {
			configErr = err
			return
		}
		configMu.Lock()
		config = cfg
		configMu.Unlock()
	})
	if configErr != nil {
		return nil, configErr
	}
	configMu.RLock()
	defer configMu.RUnlock()
	return config, nil
}

// Parse parses the YAML config file without touching the global cache.
func Parse(configPath string) (*RouterConfig, error) {
	// Resolve symlinks to handle mounted config directories.
	resolved, _ := filepath.EvalSymlinks(configPath)
	if resolved == "" {
		resolved = configPath
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &RouterConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Get returns the current cached configuration, or nil before Load.
func Get() *RouterConfig {
	configMu.RLock()
	defer configMu.RUnlock()
	return config
}

func validate(cfg *RouterConfig) error {
	t := cfg.Thresholds
	for name, v := range map[string]float64{
		"rule_high":        t.RuleHigh,
		"rule_high_strict": t.RuleHighStrict,
		"ml_high":          t.MLHigh,
		"review":           t.Review,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("threshold %s must be in (0,1], got %v", name, v)
		}
	}
	if cfg.Training.HoldoutFraction <= 0 || cfg.Training.HoldoutFraction >= 1 {
		return fmt.Errorf("training holdout_fraction must be in (0,1), got %v", cfg.Training.HoldoutFraction)
	}
	for i, r := range cfg.Rules {
		if len(r.Keywords) == 0 {
			return fmt.Errorf("rule %d has no keywords", i)
		}
		if r.Label == "" {
			return fmt.Errorf("rule %d has no label", i)
		}
		if r.Confidence <= 0 || r.Confidence > 1 {
			return fmt.Errorf("rule %d confidence must be in (0,1], got %v", i, r.Confidence)
		}
	}
	return nil
}
