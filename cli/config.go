package cli

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"flexbalance/tax"
)

// Config is the optional YAML configuration. Everything has a default; the
// file exists so that rate changes don't require a rebuild.
type Config struct {
	Company   string `yaml:"company"`
	PeriodEnd string `yaml:"period_end"`

	// ManagementExpenses are deductible expenses incurred outside the
	// brokerage, in pounds.
	ManagementExpenses float64 `yaml:"management_expenses"`

	// ExpensesCSV is a CSV of itemised deductible expenses, summed on top of
	// ManagementExpenses.
	ExpensesCSV string `yaml:"expenses_csv"`

	// SkipAccounts are loan-workbook accounts whose inbound transfers
	// already appear in the statement as deposits.
	SkipAccounts []string `yaml:"skip_accounts"`

	Tax TaxConfig `yaml:"tax"`
}

// TaxConfig overrides individual corporation-tax parameters. Zero fields
// keep the defaults.
type TaxConfig struct {
	SmallProfitsRate       float64 `yaml:"small_profits_rate"`
	MainRate               float64 `yaml:"main_rate"`
	LowerThreshold         float64 `yaml:"lower_threshold"`
	UpperThreshold         float64 `yaml:"upper_threshold"`
	InterestAllowanceRatio float64 `yaml:"interest_allowance_ratio"`
}

// LoadConfig reads the config file; an empty path yields the zero config.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Rates returns the default tax rates with the config's overrides applied.
func (c *Config) Rates() tax.Rates {
	rates := tax.DefaultRates()
	if c.Tax.SmallProfitsRate > 0 {
		rates.SmallProfitsRate = decimal.NewFromFloat(c.Tax.SmallProfitsRate)
	}
	if c.Tax.MainRate > 0 {
		rates.MainRate = decimal.NewFromFloat(c.Tax.MainRate)
	}
	if c.Tax.LowerThreshold > 0 {
		rates.LowerThreshold = decimal.NewFromFloat(c.Tax.LowerThreshold)
	}
	if c.Tax.UpperThreshold > 0 {
		rates.UpperThreshold = decimal.NewFromFloat(c.Tax.UpperThreshold)
	}
	if c.Tax.InterestAllowanceRatio > 0 {
		rates.InterestAllowanceRatio = decimal.NewFromFloat(c.Tax.InterestAllowanceRatio)
	}
	return rates
}
