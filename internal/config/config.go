package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"github.com/aadnk/ZapTechCostCalculator/internal/model"
	"github.com/aadnk/ZapTechCostCalculator/internal/tariff"
)

// DefaultPath is tried when the user supplies no config file. A missing
// file at this path is not an error; credentials may come from env vars.
const DefaultPath = "config.yaml"

// Config is the on-disk configuration shape (YAML). Every field can also
// be set through the environment.
type Config struct {
	PriceArea string `yaml:"price_area" env:"PRICE_AREA" env-default:"NO2"`
	CacheDir  string `yaml:"cache_dir" env:"PRICE_CACHE_DIR" env-default:"cache"`

	// Base URL overrides, mainly for tests.
	PriceAPIURL  string `yaml:"price_api_url" env:"PRICE_API_URL"`
	ZaptecAPIURL string `yaml:"zaptec_api_url" env:"ZAPTEC_API_URL"`

	// Optional: load tariff rates from a separate YAML. If both TariffFile
	// and Tariff are provided, Tariff overrides TariffFile.
	TariffFile string       `yaml:"tariff_file"`
	Tariff     TariffConfig `yaml:"tariff"`

	Zaptec Credentials `yaml:"zaptec"`
}

type TariffConfig struct {
	LowRate  float64 `yaml:"low_rate" env:"LOW_NET_USAGE_FEE"`
	HighRate float64 `yaml:"high_rate" env:"HIGH_NET_USAGE_FEE"`
}

func (t TariffConfig) ToRates() tariff.Rates {
	return tariff.Rates{Low: t.LowRate, High: t.HighRate}
}

type Credentials struct {
	Username string `yaml:"username" env:"ZAPTEC_USERNAME"`
	Password string `yaml:"password" env:"ZAPTEC_PASSWORD"`
}

// Load reads the config file (if present), applies environment overrides,
// merges a tariff file when referenced, fills defaults, and validates.
// A missing file is only an error when the user named it explicitly.
func Load(path string) (*Config, error) {
	c := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, c); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if path != DefaultPath {
		return nil, fmt.Errorf("config file %s does not exist; create it or provide settings via environment variables", path)
	} else {
		if err := cleanenv.ReadEnv(c); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if c.TariffFile != "" {
		tariffPath := c.TariffFile
		if !filepath.IsAbs(tariffPath) {
			// Prefer paths relative to the config file directory, falling
			// back to the path as given (relative to cwd).
			cand := filepath.Join(filepath.Dir(path), tariffPath)
			if _, err := os.Stat(cand); err == nil {
				tariffPath = cand
			}
		}
		loaded, err := loadTariffFile(tariffPath)
		if err != nil {
			return nil, err
		}
		c.Tariff = mergeTariff(loaded, c.Tariff)
	}

	if c.Tariff.LowRate == 0 {
		c.Tariff.LowRate = tariff.DefaultLowRate
	}
	if c.Tariff.HighRate == 0 {
		c.Tariff.HighRate = tariff.DefaultHighRate
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := model.ParseArea(c.PriceArea); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}
	if c.Tariff.LowRate < 0 || c.Tariff.HighRate < 0 {
		return errors.New("config invalid: tariff rates must be non-negative")
	}
	if c.CacheDir == "" {
		return errors.New("config invalid: cache_dir is required")
	}
	return nil
}

// Area returns the configured bidding zone. Call after Validate.
func (c *Config) Area() model.PriceArea {
	a, _ := model.ParseArea(c.PriceArea)
	return a
}

// ResolveCredentials applies the precedence order: explicit flags beat the
// environment, which beats the config file. Missing credentials are fatal.
func (c *Config) ResolveCredentials(username, password string) (Credentials, error) {
	creds := c.Zaptec
	if username != "" && password != "" {
		creds = Credentials{Username: username, Password: password}
	}
	if creds.Username == "" || creds.Password == "" {
		return Credentials{}, errors.New(
			"credentials are missing: provide them via ZAPTEC_USERNAME/ZAPTEC_PASSWORD, a config file, or command line flags")
	}
	return creds, nil
}

type tariffFileWrapper struct {
	Tariff TariffConfig `yaml:"tariff"`
}

func loadTariffFile(path string) (TariffConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return TariffConfig{}, err
	}
	var w tariffFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return TariffConfig{}, err
	}
	return w.Tariff, nil
}

// mergeTariff overlays non-zero fields from override onto base.
func mergeTariff(base, override TariffConfig) TariffConfig {
	out := base
	if override.LowRate != 0 {
		out.LowRate = override.LowRate
	}
	if override.HighRate != 0 {
		out.HighRate = override.HighRate
	}
	return out
}
