package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "5m" or "250ms" parse.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the tunables of one editing session.
type Config struct {
	// CacheTTL bounds the age of rendered-output, resolved-props and
	// field-value cache entries.
	CacheTTL Duration `yaml:"cache_ttl"`
	// SweepSchedule is a cron expression for the background cache janitor; empty
	// disables it so single-threaded embeddings can sweep opportunistically.
	SweepSchedule string `yaml:"sweep_schedule"`
	// DebounceInterval is the quiet period before a field edit propagates.
	DebounceInterval Duration `yaml:"debounce_interval"`
	// PreloadDelay defers warm-up past the critical initial render. Negative
	// disables preloading.
	PreloadDelay Duration `yaml:"preload_delay"`
	// CommonBlocks lists the renderer types the preloader warms.
	CommonBlocks []string `yaml:"common_blocks"`
}

// Default returns the built-in tuning: 5 minute TTL, 300ms debounce, 1s
// preload delay, warm the blocks most pages start with.
func Default() Config {
	return Config{
		CacheTTL:         Duration(5 * time.Minute),
		DebounceInterval: Duration(300 * time.Millisecond),
		PreloadDelay:     Duration(time.Second),
		CommonBlocks:     []string{"HeroSection", "TextBlock", "ServicesGrid"},
	}
}

// Load reads a YAML config file. Absent fields keep their defaults; a missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = Default().CacheTTL
	}
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = Default().DebounceInterval
	}

	return cfg, nil
}
