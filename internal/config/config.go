// Package config loads the driver's tunables: viper for layered
// file/env sourcing, struct tags validated with
// go-playground/validator.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds every tunable surfaced by the benchmark driver.
type Config struct {
	// BatchSize is the combined add count that triggers an early flush
	// of the per-side batches, ahead of the epoch timer.
	BatchSize int `mapstructure:"batch_size" validate:"required,gt=0"`

	// EpochNanos is the wall-clock length of one auction window.
	EpochNanos int64 `mapstructure:"epoch_nanos" validate:"required,gt=0"`

	// Circulation is the live-order watermark above which the driver's
	// load-shedding policy starts synthesizing cancel requests.
	Circulation int `mapstructure:"circulation" validate:"required,gt=0"`

	// Orders is the total number of synthetic orders the driver will
	// generate for one benchmark run.
	Orders int `mapstructure:"orders" validate:"required,gt=0"`

	// PriceMin/PriceMax bound the synthetic order price range (minor
	// currency units); BuySellSpread is the rate offset applied to keep
	// the generated buy and sell prices crossing.
	PriceMin      uint32 `mapstructure:"price_min" validate:"gte=0"`
	PriceMax      uint32 `mapstructure:"price_max" validate:"gtfield=PriceMin"`
	BuySellSpread int32  `mapstructure:"buy_sell_spread"`

	// WorkerPoolSize bounds the ants pool backing the per-side fan-out.
	WorkerPoolSize int `mapstructure:"worker_pool_size" validate:"required,gt=0"`
}

// Default returns the stock benchmark tunables.
func Default() Config {
	return Config{
		BatchSize:      10_000,
		EpochNanos:     100_000_000,
		Circulation:    250_000,
		Orders:         10_000_000,
		PriceMin:       85_000,
		PriceMax:       115_000,
		BuySellSpread:  10_000,
		WorkerPoolSize: 4,
	}
}

// Load reads config.yaml from configPath (the working directory when
// configPath is empty, and the file is optional either way) and from
// CALLAUCTION_-prefixed environment variables, falling back to Default
// for anything unset, then validates the result.
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	} else {
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("CALLAUCTION")
	v.AutomaticEnv()

	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("batch_size", cfg.BatchSize)
	v.SetDefault("epoch_nanos", cfg.EpochNanos)
	v.SetDefault("circulation", cfg.Circulation)
	v.SetDefault("orders", cfg.Orders)
	v.SetDefault("price_min", cfg.PriceMin)
	v.SetDefault("price_max", cfg.PriceMax)
	v.SetDefault("buy_sell_spread", cfg.BuySellSpread)
	v.SetDefault("worker_pool_size", cfg.WorkerPoolSize)
}
