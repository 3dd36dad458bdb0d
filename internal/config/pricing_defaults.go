package config

import (
	"fmt"
	"os"

	"scout-service/internal/domain/pricing"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// pricingDefaultsFile keeps amounts as strings so YAML floats never touch them.
type pricingDefaultsFile struct {
	Currency            string              `yaml:"currency"`
	BaseUnitPrice       string              `yaml:"base_unit_price"`
	WeekendMultiplier   string              `yaml:"weekend_multiplier"`
	NightMultiplier     string              `yaml:"night_multiplier"`
	AdditionalUnitPrice string              `yaml:"additional_unit_price"`
	NightWindow         *pricing.NightWindow `yaml:"night_window"`
}

// LoadPricingDefaults reads the rules used by agencies without an override.
func LoadPricingDefaults(path string) (pricing.Rules, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return pricing.Rules{}, fmt.Errorf("failed to read pricing defaults: %w", err)
	}
	return ParsePricingDefaults(b)
}

func ParsePricingDefaults(b []byte) (pricing.Rules, error) {
	var f pricingDefaultsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return pricing.Rules{}, fmt.Errorf("failed to parse pricing defaults: %w", err)
	}

	if len(f.Currency) != 3 {
		return pricing.Rules{}, fmt.Errorf("pricing defaults: currency must be a 3-letter code, got %q", f.Currency)
	}

	rules := pricing.Rules{
		Currency:    f.Currency,
		NightWindow: pricing.DefaultNightWindow(),
	}
	if f.NightWindow != nil {
		rules.NightWindow = *f.NightWindow
	}

	fields := []struct {
		name     string
		raw      string
		fallback string
		dst      *decimal.Decimal
	}{
		{"base_unit_price", f.BaseUnitPrice, "", &rules.BaseUnitPrice},
		{"weekend_multiplier", f.WeekendMultiplier, "1", &rules.WeekendMultiplier},
		{"night_multiplier", f.NightMultiplier, "1", &rules.NightMultiplier},
		{"additional_unit_price", f.AdditionalUnitPrice, "0", &rules.AdditionalUnitPrice},
	}
	for _, fd := range fields {
		raw := fd.raw
		if raw == "" {
			raw = fd.fallback
		}
		if raw == "" {
			return pricing.Rules{}, fmt.Errorf("pricing defaults: %s is required", fd.name)
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return pricing.Rules{}, fmt.Errorf("pricing defaults: %s: %w", fd.name, err)
		}
		*fd.dst = d
	}

	return rules, nil
}
