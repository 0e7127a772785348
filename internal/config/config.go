package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"github.com/wb-go/wbf/zlog"

	"scancleaner/internal/model"
)

// Config holds the main configuration for the application.
type Config struct {
	Paths    Paths    `mapstructure:"paths"`
	Pipeline Pipeline `mapstructure:"pipeline"`
	Storage  Storage  `mapstructure:"storage"`
	Retry    Retry    `mapstructure:"retry"`
}

// Paths holds the fixed mount roots the prefix arguments are resolved
// against.
type Paths struct {
	InputRoot  string `mapstructure:"input_root"`
	OutputRoot string `mapstructure:"output_root"`
}

// Pipeline holds the default tunables of the cleanup chain. CLI flags
// override them per run.
type Pipeline struct {
	ImgSize   int `mapstructure:"img_size"`   // target resize basis in pixels
	BinThresh int `mapstructure:"bin_thresh"` // global binary threshold, 0-255
}

// Storage holds configuration for the optional S3-compatible staging
// backend. When Enabled is false the tool works on local directories only.
type Storage struct {
	Enabled    bool   `mapstructure:"enabled"`
	Endpoint   string `mapstructure:"endpoint"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	BucketName string `mapstructure:"bucket_name"`
	UseSSL     bool   `mapstructure:"use_ssl"`
}

// Retry defines the retry policy for staging transfers.
type Retry struct {
	Attempts int           `mapstructure:"attempts"` // Number of retry attempts
	Delay    time.Duration `mapstructure:"delay"`    // Initial delay between retries
	Backoff  float64       `mapstructure:"backoff"`  // Backoff multiplier for delays
}

// Source resolves the source directory for a run from the src prefix.
func (p Paths) Source(prefix string) string {
	return filepath.Join(p.InputRoot, prefix)
}

// Dest resolves the destination directory for a run from the dest prefix.
func (p Paths) Dest(prefix string) string {
	return filepath.Join(p.OutputRoot, prefix)
}

// bindEnv binds credential environment variables to viper keys.
func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"storage.endpoint":   "MINIO_ENDPOINT",
		"storage.access_key": "MINIO_ACCESS_KEY",
		"storage.secret_key": "MINIO_SECRET_KEY",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	return nil
}

// Load reads the configuration from the given file path. With an empty
// path it looks for ./config/config.yml; a missing file is not an error,
// the defaults make the tool runnable from flags alone.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("paths.input_root", "/opt/ml/processing/input")
	v.SetDefault("paths.output_root", "/opt/ml/processing/output")
	v.SetDefault("pipeline.img_size", model.DefaultTargetSize)
	v.SetDefault("pipeline.bin_thresh", model.DefaultBinThreshold)
	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.delay", time.Second)
	v.SetDefault("retry.backoff", 2.0)

	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")

		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// MustLoad is Load for the entry point. It panics if the configuration
// cannot be loaded.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		zlog.Logger.Panic().Err(err).Msg("failed to load config")
	}

	return cfg
}
