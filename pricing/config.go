package pricing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"farmacia-compras/logger"
)

// Config represents the pricing policy configuration file
type Config struct {
	Currency                  string `json:"currency"`
	DisplayScale              int32  `json:"displayScale"`      // decimals shown for money
	AveragePriceScale         int32  `json:"averagePriceScale"` // decimals shown for blended unit prices
	CounterOfferValidityHours int    `json:"counterOfferValidityHours"`
	VATInclusiveDisplay       bool   `json:"vatInclusiveDisplay"`
}

// DefaultConfig is used when no configuration file is available
func DefaultConfig() Config {
	return Config{
		Currency:                  "COP",
		DisplayScale:              2,
		AveragePriceScale:         4,
		CounterOfferValidityHours: 72,
	}
}

// LoadConfig reads and validates the pricing configuration file
func LoadConfig(configPath string) (Config, error) {
	if !filepath.IsAbs(configPath) {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("failed to get working directory: %w", err)
		}
		configPath = filepath.Join(wd, configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read pricing config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse pricing config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid pricing config: %w", err)
	}

	logger.Log.Infof("✅ PricingConfig: loaded %s (currency=%s, validity=%dh)", configPath, cfg.Currency, cfg.CounterOfferValidityHours)
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	if cfg.DisplayScale < 0 || cfg.AveragePriceScale < 0 {
		return fmt.Errorf("display scales cannot be negative")
	}
	if cfg.CounterOfferValidityHours <= 0 {
		return fmt.Errorf("counterOfferValidityHours must be greater than 0")
	}
	return nil
}

// CounterOfferValidity is how long a buyer has to answer a counter-offer
func (c Config) CounterOfferValidity() time.Duration {
	return time.Duration(c.CounterOfferValidityHours) * time.Hour
}
