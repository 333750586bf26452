package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for every setting.
const envPrefix = "PATENTLENS"

// LoadOption adjusts the Viper instance before the configuration is read.
type LoadOption func(*viper.Viper)

// WithDefault overrides the built-in default for key. Values from the config
// file or the environment still take precedence.
func WithDefault(key string, value interface{}) LoadOption {
	return func(v *viper.Viper) { v.SetDefault(key, value) }
}

// newViper builds a Viper with YAML file type, the PATENTLENS_ env prefix,
// automatic env binding, and a "." → "_" key replacer so that
// "analysis.base_url" resolves to PATENTLENS_ANALYSIS_BASE_URL.
func newViper(opts ...LoadOption) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// loadDotEnv loads the first .env file found in paths. Variables already set
// in the process environment win.
func loadDotEnv(paths ...string) (string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return "", fmt.Errorf("config: failed to load %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}

// Load reads the YAML file at configPath, then applies .env and PATENTLENS_*
// environment overrides, defaults, and validation. A .env file next to the
// config file is preferred over one in the working directory.
func Load(configPath string, opts ...LoadOption) (*Config, error) {
	if _, err := loadDotEnv(filepath.Join(filepath.Dir(configPath), ".env"), ".env"); err != nil {
		return nil, err
	}

	v := newViper(opts...)
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from PATENTLENS_* environment variables (and
// ./.env when present) with no config file.
//
//	PATENTLENS_<SECTION>_<FIELD>   e.g.  PATENTLENS_ANALYSIS_BASE_URL
func LoadFromEnv(opts ...LoadOption) (*Config, error) {
	if _, err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	return unmarshalAndFinalize(newViper(opts...))
}

// LoadOrDefault loads configPath when it names an existing file and falls
// back to LoadFromEnv otherwise.
func LoadOrDefault(configPath string, opts ...LoadOption) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv(opts...)
	}
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return LoadFromEnv(opts...)
	}
	return Load(configPath, opts...)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// Watch monitors configPath and calls onChange with the re-parsed Config
// after each modification. Changes that fail to parse or validate are passed
// to onError (when non-nil) and onChange is skipped. Callers apply only the
// settings that are safe to change at runtime, such as the log level.
//
// Watch returns once the watcher is installed.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// MustLoad wraps Load and panics on error. For use in main().
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
