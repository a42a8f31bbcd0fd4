// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Xuanwo/go-locale"
	"github.com/kkyr/fig"
	"golang.org/x/text/language"
)

const (
	configEnv = "RENTALHUB"

	DefaultPropertyTpl   = "{{pad .ID 26}} {{pad .Title 32}} {{money .Price}}/mo  {{.Bedrooms}}bd/{{.Bathrooms}}ba  {{.Address.City}}, {{.Address.State}}"
	DefaultSuggestionTpl = "{{.Label}}"
	DefaultOwnerTpl      = "Properties: {{.TotalProperties}} ({{.AvailableProperties}} available)\n" +
		"Pending applications: {{.PendingApplications}}\nActive agreements: {{.ActiveAgreements}}\n" +
		"Revenue this month: {{money .MonthlyRevenue}}\nUpdated: {{since .GeneratedAt}}\n"
	DefaultTenantTpl = "Applications: {{.Applications}}\nActive rentals: {{.ActiveRentals}}\n" +
		"Updated: {{since .GeneratedAt}}\n"
)

var validProviders = map[string]struct{}{
	"nominatim":     {},
	"opencage":      {},
	"geocode-earth": {},
}

// Config represents the application's configuration structure.
type Config struct {
	LogLevel slog.Level `fig:"loglevel" default:"8"`

	API struct {
		BaseURL string        `fig:"base_url" default:"http://localhost:5001/api"`
		Timeout time.Duration `fig:"timeout" default:"10s"`
	} `fig:"api"`

	Geocoder struct {
		// Allowed values: nominatim, opencage, geocode-earth
		Provider     string        `fig:"provider" default:"nominatim"`
		APIKey       string        `fig:"apikey"`
		// Self-hosted search endpoint, only used by the nominatim provider
		Endpoint     string        `fig:"endpoint"`
		Language     string        `fig:"language"`
		CountryCodes string        `fig:"country_codes" default:"us"`
		Limit        uint          `fig:"limit" default:"5"`
		Debounce     time.Duration `fig:"debounce" default:"300ms"`
		// Requests per second, only used by the nominatim provider
		RateLimit    float64       `fig:"rate_limit" default:"1"`
		CacheHitTTL  time.Duration `fig:"cache_hit_ttl" default:"10m"`
		CacheMissTTL time.Duration `fig:"cache_miss_ttl" default:"1m"`
		DisableCache bool          `fig:"disable_cache"`
	} `fig:"geocoder"`

	Session struct {
		File string `fig:"file"`
	} `fig:"session"`

	Dashboard struct {
		Refresh time.Duration `fig:"refresh" default:"1m"`
	} `fig:"dashboard"`

	Templates struct {
		Property        string `fig:"property"`
		Suggestion      string `fig:"suggestion"`
		OwnerDashboard  string `fig:"owner_dashboard"`
		TenantDashboard string `fig:"tenant_dashboard"`
	} `fig:"templates"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL must not be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("invalid API timeout: %s", c.API.Timeout)
	}
	if _, ok := validProviders[c.Geocoder.Provider]; !ok {
		return fmt.Errorf("invalid geocoder provider: %s", c.Geocoder.Provider)
	}
	if c.Geocoder.Provider != "nominatim" && c.Geocoder.APIKey == "" {
		return fmt.Errorf("geocoder provider %s requires an API key", c.Geocoder.Provider)
	}
	if c.Geocoder.Limit < 1 || c.Geocoder.Limit > 40 {
		return fmt.Errorf("invalid geocoder result limit: %d", c.Geocoder.Limit)
	}
	if c.Geocoder.Debounce < 0 {
		return fmt.Errorf("invalid debounce interval: %s", c.Geocoder.Debounce)
	}
	if c.Geocoder.RateLimit <= 0 {
		return fmt.Errorf("invalid geocoder rate limit: %f", c.Geocoder.RateLimit)
	}
	if c.Dashboard.Refresh < time.Second {
		return fmt.Errorf("invalid dashboard refresh interval: %s", c.Dashboard.Refresh)
	}
	if c.Geocoder.Language == "" {
		c.Geocoder.Language = detectLanguage().String()
	}
	if _, err := language.Parse(c.Geocoder.Language); err != nil {
		return fmt.Errorf("invalid geocoder language %q: %w", c.Geocoder.Language, err)
	}
	if c.Session.File == "" {
		c.Session.File = defaultSessionFile()
	}
	if c.Templates.Property == "" {
		c.Templates.Property = DefaultPropertyTpl
	}
	if c.Templates.Suggestion == "" {
		c.Templates.Suggestion = DefaultSuggestionTpl
	}
	if c.Templates.OwnerDashboard == "" {
		c.Templates.OwnerDashboard = DefaultOwnerTpl
	}
	if c.Templates.TenantDashboard == "" {
		c.Templates.TenantDashboard = DefaultTenantTpl
	}

	return nil
}

// LanguageTag returns the configured geocoder language as language.Tag.
func (c *Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.Geocoder.Language)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

func detectLanguage() language.Tag {
	tag, err := locale.Detect()
	if err != nil || tag == language.Und {
		return language.AmericanEnglish
	}
	return tag
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "rentalhub", "session.json")
}
