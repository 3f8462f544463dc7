package config

import (
	"fmt"
	"time"
)

// Config holds monitor configuration.
type Config struct {
	InputFile string

	Timeout         time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
	JitterMin       time.Duration
	JitterMax       time.Duration
	BlockedDelayMin time.Duration
	BlockedDelayMax time.Duration
	MaxBodyBytes    int64
	ChromeTLS       bool

	Workers         int
	PerHostInterval time.Duration

	PriceChangeThreshold float64
	DescriptionLimit     int

	DataDir      string
	ReportsDir   string
	OutputFormat string // csv, json, or dual

	MetricsAddr string
	Verbose     bool

	EmailEnabled    bool
	SMTPServer      string
	SMTPPort        int
	EmailUser       string
	EmailPassword   string
	EmailRecipients []string
}

// DefaultConfig returns conservative defaults: low concurrency, polite
// delays, few retries.
func DefaultConfig() *Config {
	return &Config{
		Timeout:         10 * time.Second,
		MaxRetries:      3,
		RetryDelay:      2 * time.Second,
		JitterMin:       1 * time.Second,
		JitterMax:       3 * time.Second,
		BlockedDelayMin: 5 * time.Second,
		BlockedDelayMax: 10 * time.Second,
		MaxBodyBytes:    10 << 20,
		ChromeTLS:       false,

		Workers:         4,
		PerHostInterval: 2 * time.Second,

		PriceChangeThreshold: 5.0,
		DescriptionLimit:     500,

		DataDir:      "data",
		ReportsDir:   "reports_output",
		OutputFormat: "csv",

		MetricsAddr: "",
		Verbose:     false,

		EmailEnabled: false,
		SMTPServer:   "smtp.gmail.com",
		SMTPPort:     587,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("max retries must be positive")
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay cannot be negative")
	}
	if c.JitterMin < 0 || c.JitterMax < 0 {
		return fmt.Errorf("jitter bounds cannot be negative")
	}
	if c.JitterMax < c.JitterMin {
		return fmt.Errorf("jitter max (%s) cannot be below jitter min (%s)", c.JitterMax, c.JitterMin)
	}
	if c.BlockedDelayMax < c.BlockedDelayMin {
		return fmt.Errorf("blocked delay max (%s) cannot be below blocked delay min (%s)", c.BlockedDelayMax, c.BlockedDelayMin)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.PerHostInterval < 0 {
		return fmt.Errorf("per-host interval cannot be negative")
	}
	if c.PriceChangeThreshold < 0 {
		return fmt.Errorf("price change threshold cannot be negative")
	}
	if c.DescriptionLimit <= 0 {
		return fmt.Errorf("description limit must be positive")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data dir cannot be empty")
	}
	if c.ReportsDir == "" {
		return fmt.Errorf("reports dir cannot be empty")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	if c.EmailEnabled {
		if c.SMTPServer == "" {
			return fmt.Errorf("smtp server cannot be empty when email is enabled")
		}
		if c.SMTPPort <= 0 {
			return fmt.Errorf("smtp port must be positive when email is enabled")
		}
		if len(c.EmailRecipients) == 0 {
			return fmt.Errorf("email recipients cannot be empty when email is enabled")
		}
	}
	return nil
}
