package cmd

import (
	"db-copy/internal/engine"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Endpoint is one side of the copy as configured in db-copy.yaml.
type Endpoint struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// GetEndpoint returns the endpoint configured under the given key
// ("source" or "target").
func GetEndpoint(key string) (*Endpoint, error) {
	var ep Endpoint
	if err := viper.UnmarshalKey(key, &ep); err != nil {
		return nil, fmt.Errorf("failed to parse %s config: %w", key, err)
	}
	if ep.DSN == "" {
		return nil, fmt.Errorf("%s.dsn is required (via flag or config)", key)
	}
	if ep.Driver == "" {
		ep.Driver = viper.GetString(key + ".driver")
	}
	return &ep, nil
}

// TransferConfig assembles the engine tunables with flag > config > default
// precedence (the flags are bound to the settings keys in copy.go).
func TransferConfig() engine.Config {
	return engine.Config{
		BatchSize:          viper.GetInt("settings.batch_size"),
		PageSize:           viper.GetInt("settings.page_size"),
		MaxRetries:         viper.GetInt("settings.max_retries"),
		CheckpointInterval: viper.GetUint64("settings.checkpoint_interval"),
		ProgressInterval:   time.Duration(viper.GetInt("settings.progress_interval_ms")) * time.Millisecond,
		RetryBaseDelay:     time.Duration(viper.GetInt("settings.retry_base_delay_ms")) * time.Millisecond,
		MemCheckEvery:      viper.GetInt("settings.mem_check_every"),
		MemSoftMB:          viper.GetUint64("settings.mem_soft_mb"),
		MemHardMB:          viper.GetUint64("settings.mem_hard_mb"),
	}
}

func init() {
	viper.SetDefault("settings.batch_size", 500)
	viper.SetDefault("settings.page_size", 5000)
	viper.SetDefault("settings.max_retries", 3)
	viper.SetDefault("settings.checkpoint_interval", 10000)
	viper.SetDefault("settings.progress_interval_ms", 500)
	viper.SetDefault("settings.retry_base_delay_ms", 1000)
	viper.SetDefault("settings.mem_check_every", 20)
	viper.SetDefault("settings.mem_soft_mb", 512)
	viper.SetDefault("settings.mem_hard_mb", 1024)
	viper.SetDefault("settings.seed_count", 1000)
}
