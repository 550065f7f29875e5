// Package config loads the application configuration: the phonebook, the
// ledger database path, the pooled wireless account fee, and the Twilio
// credentials for notifications.
package config

import (
	"fmt"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"
)

// envPrefix namespaces environment overrides. Double underscores nest keys:
// ATTSPLIT_TWILIO__AUTH_TOKEN overrides "twilio.auth_token".
const envPrefix = "ATTSPLIT_"

// Line is one phonebook entry. The first entry is the account holder.
type Line struct {
	Name   string `koanf:"name"`
	Number string `koanf:"number"`
}

// Twilio holds the delivery credentials for the notify command.
type Twilio struct {
	// Number is the sending phone number (+11234567890).
	Number string `koanf:"number"`

	// AccountSID is the Twilio account security identifier.
	AccountSID string `koanf:"account_sid"`

	// AuthToken is the Twilio authentication token.
	AuthToken string `koanf:"auth_token"`

	// PaymentMsg is appended to each charge-detail message so recipients
	// know how to pay.
	PaymentMsg string `koanf:"payment_msg"`
}

// Config is the application configuration, loaded from a JSON file with
// environment variable overrides.
type Config struct {
	// DBPath is the SQLite database location.
	DBPath string `koanf:"db_path"`

	// PooledFee is the fixed account-level wireless monthly charge,
	// kept as a string so it parses to an exact decimal.
	PooledFee string `koanf:"pooled_fee"`

	// Phonebook lists all lines on the account, account holder first.
	Phonebook []Line `koanf:"phonebook"`

	Twilio Twilio `koanf:"twilio"`
}

// Load reads configuration from the JSON file at path and applies
// ATTSPLIT_-prefixed environment overrides (double underscore nests keys).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), kjson.Parser()); err != nil {
		return nil, fmt.Errorf("loading config file %s: %w", path, err)
	}
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	cfg := &Config{
		DBPath:    "data/attbillsplitter.db",
		PooledFee: "130.00",
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.Phonebook) == 0 {
		return fmt.Errorf("config: phonebook must contain at least the account holder")
	}
	for i, line := range c.Phonebook {
		if line.Name == "" || line.Number == "" {
			return fmt.Errorf("config: phonebook entry %d is missing name or number", i)
		}
	}
	if _, err := c.PooledFeeAmount(); err != nil {
		return err
	}
	return nil
}

// PooledFeeAmount parses the pooled monthly fee.
func (c *Config) PooledFeeAmount() (decimal.Decimal, error) {
	fee, err := decimal.NewFromString(c.PooledFee)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("config: invalid pooled_fee %q: %w", c.PooledFee, err)
	}
	return fee, nil
}
