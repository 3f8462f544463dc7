package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "zero timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = 0
			},
			wantErr: "timeout",
		},
		{
			name: "zero retries",
			mutate: func(cfg *Config) {
				cfg.MaxRetries = 0
			},
			wantErr: "max retries",
		},
		{
			name: "inverted jitter bounds",
			mutate: func(cfg *Config) {
				cfg.JitterMin = 3 * time.Second
				cfg.JitterMax = 1 * time.Second
			},
			wantErr: "jitter max",
		},
		{
			name: "inverted blocked delay bounds",
			mutate: func(cfg *Config) {
				cfg.BlockedDelayMin = 10 * time.Second
				cfg.BlockedDelayMax = 5 * time.Second
			},
			wantErr: "blocked delay max",
		},
		{
			name: "negative workers",
			mutate: func(cfg *Config) {
				cfg.Workers = -1
			},
			wantErr: "workers",
		},
		{
			name: "negative threshold",
			mutate: func(cfg *Config) {
				cfg.PriceChangeThreshold = -1
			},
			wantErr: "threshold",
		},
		{
			name: "unsupported output format",
			mutate: func(cfg *Config) {
				cfg.OutputFormat = "xml"
			},
			wantErr: "output format",
		},
		{
			name: "email enabled without recipients",
			mutate: func(cfg *Config) {
				cfg.EmailEnabled = true
				cfg.EmailRecipients = nil
			},
			wantErr: "recipients",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestDetectSite(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{url: "https://www.amazon.fr/dp/B0ABC123", expected: SiteAmazon},
		{url: "https://boutique.myshopify.com/products/mug", expected: SiteShopify},
		{url: "https://www.etsy.com/listing/12345/handmade-ring", expected: SiteEtsy},
		{url: "https://www.leboncoin.fr/ad/velos/2712345678", expected: SiteLeboncoin},
		{url: "https://beacon.by/studio/offer", expected: SiteBeacon},
		{url: "https://www.fiverr.com/seller/design-a-logo", expected: SiteFiverr},
		{url: "https://example.com/product/1", expected: SiteUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := DetectSite(tt.url); got != tt.expected {
				t.Errorf("DetectSite(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestProfilesCoverSupportedSites(t *testing.T) {
	for _, site := range []string{SiteShopify, SiteAmazon, SiteEtsy, SiteLeboncoin, SiteBeacon, SiteFiverr} {
		profile, ok := ProfileFor(site)
		if !ok {
			t.Fatalf("missing profile for %s", site)
		}
		if len(profile.Selectors.Title) == 0 {
			t.Errorf("%s profile has no title selectors", site)
		}
		if len(profile.Selectors.Price) == 0 {
			t.Errorf("%s profile has no price selectors", site)
		}
	}
	if IsSiteSupported("myspace") {
		t.Fatal("unexpected adapter for unsupported site")
	}
}
