// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"

	"github.com/launchforge/curve-engine/internal/curve"
	"github.com/launchforge/curve-engine/internal/types"
)

type Config struct {
	Strategy             string `mapstructure:"strategy"`
	VirtualBaseReserves  uint64 `mapstructure:"virtual_base_reserves"`
	VirtualQuoteReserves uint64 `mapstructure:"virtual_quote_reserves"`
	RealBaseReserves     uint64 `mapstructure:"real_base_reserves"`
	TotalSupply          uint64 `mapstructure:"total_supply"`
	BasePrice            uint64 `mapstructure:"base_price"`
	MaxSupply            uint64 `mapstructure:"max_supply"`
	GraduationThreshold  uint64 `mapstructure:"graduation_threshold"`
	FeeBasisPoints       uint16 `mapstructure:"fee_basis_points"`
	Curves               int    `mapstructure:"curves"`
	TradesPerCurve       int    `mapstructure:"trades_per_curve"`
	Workers              int    `mapstructure:"workers"`
	DebugLogging         bool   `mapstructure:"debug_logging"`
	PostgresURL          string `mapstructure:"postgres_url"`
	ExportDir            string `mapstructure:"export_dir"`
}

// Defaults mirror the pump.fun mainnet curve: 1.073B virtual tokens against
// 30 SOL of virtual quote, graduating at 85 SOL of real quote (lamports).
const (
	DefaultVirtualBaseReserves  = 1_073_000_000_000_000
	DefaultVirtualQuoteReserves = 30_000_000_000
	DefaultRealBaseReserves     = 793_100_000_000_000
	DefaultTotalSupply          = 1_000_000_000_000_000
	DefaultGraduationThreshold  = 85_000_000_000
	DefaultFeeBasisPoints       = 100
	DefaultCurves               = 4
	DefaultTradesPerCurve       = 250
	DefaultWorkers              = 4
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"strategy":               "constant_product",
		"virtual_base_reserves":  DefaultVirtualBaseReserves,
		"virtual_quote_reserves": DefaultVirtualQuoteReserves,
		"real_base_reserves":     DefaultRealBaseReserves,
		"total_supply":           DefaultTotalSupply,
		"graduation_threshold":   DefaultGraduationThreshold,
		"fee_basis_points":       DefaultFeeBasisPoints,
		"curves":                 DefaultCurves,
		"trades_per_curve":       DefaultTradesPerCurve,
		"workers":                DefaultWorkers,
		"export_dir":             "exports",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvironmentVariables(v, &cfg)

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	switch cfg.Strategy {
	case "constant_product":
		if cfg.VirtualBaseReserves == 0 || cfg.VirtualQuoteReserves == 0 {
			return errors.New("constant_product requires nonzero virtual reserves")
		}
	case "polynomial":
		if cfg.BasePrice == 0 || cfg.MaxSupply == 0 {
			return errors.New("polynomial requires base_price and max_supply")
		}
	default:
		return errors.New("unknown strategy: " + cfg.Strategy)
	}
	if cfg.GraduationThreshold == 0 {
		return errors.New("invalid graduation_threshold")
	}
	if cfg.FeeBasisPoints > curve.BasisPointsDivisor {
		return errors.New("fee_basis_points exceeds 10000")
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.Curves <= 0 {
		return errors.New("invalid curves count")
	}
	if cfg.TradesPerCurve <= 0 {
		return errors.New("invalid trades_per_curve")
	}
	if cfg.Workers <= 0 {
		return errors.New("invalid workers count")
	}
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	v.AutomaticEnv()
	v.SetEnvPrefix("CURVESIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if envURL := v.GetString("POSTGRES_URL"); envURL != "" {
		cfg.PostgresURL = envURL
	}
	if envStrategy := v.GetString("STRATEGY"); envStrategy != "" {
		cfg.Strategy = envStrategy
	}
}

// LaunchParams translates the configured preset into curve launch
// parameters.
func (c *Config) LaunchParams() curve.LaunchParams {
	params := curve.LaunchParams{
		VirtualBaseReserves:  c.VirtualBaseReserves,
		VirtualQuoteReserves: c.VirtualQuoteReserves,
		RealBaseReserves:     c.RealBaseReserves,
		TotalSupply:          c.TotalSupply,
		BasePrice:            c.BasePrice,
		MaxSupply:            c.MaxSupply,
		GraduationThreshold:  c.GraduationThreshold,
		FeeBasisPoints:       c.FeeBasisPoints,
	}
	if c.Strategy == "polynomial" {
		params.Strategy = types.Polynomial
	} else {
		params.Strategy = types.ConstantProduct
	}
	return params
}
