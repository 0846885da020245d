package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/neighborly/internal/core/config"
)

// ConfigCheck validates the configuration and describes where history,
// products and prices come from.
type ConfigCheck struct {
	config     *config.Config
	configPath string
}

// NewConfigCheck creates a new configuration check.
func NewConfigCheck(cfg *config.Config, configPath string) *ConfigCheck {
	return &ConfigCheck{
		config:     cfg,
		configPath: configPath,
	}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.config == nil {
		result.fail("Config", "configuration not loaded")
		return result
	}

	result.pass("Config file", c.describeFile())

	if err := c.config.ValidateDeep(c.configPath); err != nil {
		var fieldErrs criterio.FieldErrors
		if !errors.As(err, &fieldErrs) {
			fieldErrs = criterio.FieldErrors{{Field: "config", Err: err}}
		}
		for _, fe := range fieldErrs {
			result.fail(fe.Field, fe.Err.Error())
		}
	} else {
		cfg := c.config
		result.pass("Storage", describeStorage(cfg))
		result.pass("Catalog", describeCatalog(cfg))
		result.pass("Currency", describeCurrency(cfg))
		result.pass("Recommendations", fmt.Sprintf("%s, %d per list", cfg.Recommend.DefaultStrategy, cfg.Recommend.DefaultLimit))
	}

	for _, w := range c.config.Warnings() {
		label := w.Item
		if label == "" {
			label = w.Category
		}
		result.warn(label, w.Message)
	}

	return result
}

func (c *ConfigCheck) describeFile() string {
	if c.configPath == "" {
		return "none, using defaults"
	}
	if _, err := os.Stat(c.configPath); errors.Is(err, os.ErrNotExist) {
		return c.configPath + " not found, using defaults"
	}
	return c.configPath
}

func describeStorage(cfg *config.Config) string {
	if path := cfg.StoragePath(); path != "" {
		return cfg.Storage.Backend + " at " + path
	}
	return cfg.Storage.Backend + " (not persisted)"
}

func describeCatalog(cfg *config.Config) string {
	if cfg.Catalog.Source == config.SourceFile {
		return "file " + cfg.CatalogFile()
	}
	return cfg.Catalog.Source + " " + cfg.Catalog.URL
}

func describeCurrency(cfg *config.Config) string {
	if cfg.Currency.Mode == config.CurrencyModeFixed {
		return "fixed " + cfg.Currency.Fixed
	}
	if cfg.Currency.Locale != "" {
		return "from locale " + cfg.Currency.Locale
	}
	return "from the environment locale"
}
