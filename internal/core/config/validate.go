package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"

	"github.com/hay-kot/neighborly/internal/core/currency"
	"github.com/hay-kot/neighborly/internal/core/recommend"
	"github.com/hay-kot/neighborly/pkg/tmpl"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ProductTemplateData defines the fields available to display.product_template.
type ProductTemplateData struct {
	ID           string
	Title        string
	Description  string
	Category     string
	Seller       string
	Image        string
	Price        string
	LocalPrice   string
	Rating       float64
	ReviewCount  int
	Sold         int
	Stock        int
	FreeShipping bool
}

type fieldErrors struct {
	errs criterio.FieldErrors
}

func (f *fieldErrors) add(field string, err error) {
	f.errs = append(f.errs, criterio.FieldErrors{{Field: field, Err: err}}...)
}

func (f *fieldErrors) addf(field, format string, args ...any) {
	f.add(field, fmt.Errorf(format, args...))
}

func (f *fieldErrors) err() error {
	if len(f.errs) == 0 {
		return nil
	}
	return f.errs
}

// Validate checks that the configuration is valid. All problems are reported
// together as criterio.FieldErrors.
func (c *Config) Validate() error {
	var fe fieldErrors
	c.validateFields(&fe)
	return fe.err()
}

func (c *Config) validateFields(fe *fieldErrors) {
	if c.DataDir == "" {
		fe.addf("data_dir", "data directory cannot be empty")
	}

	backends := []string{BackendJSONFile, BackendSQLite, BackendBadger, BackendMemory, BackendNone}
	if !slices.Contains(backends, c.Storage.Backend) {
		fe.addf("storage.backend", "unknown backend %q (expected one of %s)", c.Storage.Backend, strings.Join(backends, ", "))
	}

	if c.History.MaxEntries < 1 {
		fe.addf("history.max_entries", "must be at least 1")
	}

	switch c.Catalog.Source {
	case SourcePlatzi:
		if u, err := url.Parse(c.Catalog.URL); err != nil || u.Scheme == "" || u.Host == "" {
			fe.addf("catalog.url", "invalid url %q", c.Catalog.URL)
		}
	case SourceFile:
		if c.Catalog.File == "" {
			fe.addf("catalog.file", "required when catalog.source is %q", SourceFile)
		}
	default:
		fe.addf("catalog.source", "unknown source %q (expected %q or %q)", c.Catalog.Source, SourcePlatzi, SourceFile)
	}

	if c.Catalog.Timeout < 0 {
		fe.addf("catalog.timeout", "cannot be negative")
	}
	if c.Catalog.RequestsPerSecond < 0 {
		fe.addf("catalog.requests_per_second", "cannot be negative")
	}

	resolver := currency.Resolver{Mode: currency.Mode(c.Currency.Mode), Fixed: c.Currency.Fixed}
	if err := resolver.Validate(); err != nil {
		fe.add("currency.mode", err)
	}

	if c.Recommend.DefaultLimit < 1 {
		fe.addf("recommend.default_limit", "must be at least 1")
	}
	if _, err := recommend.ParseStrategy(c.Recommend.DefaultStrategy); err != nil {
		fe.add("recommend.default_strategy", err)
	}

	if c.Server.Addr == "" {
		fe.addf("server.addr", "cannot be empty")
	}
	if c.Server.RateLimit < 0 {
		fe.addf("server.rate_limit", "must be 0 (disabled) or positive")
	}
	for i, origin := range c.Server.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			fe.addf(fmt.Sprintf("server.allowed_origins[%d]", i), "cannot be empty")
		}
	}
}

// ValidateDeep performs comprehensive validation of the configuration.
// Unlike Validate(), this checks file access and template syntax.
func (c *Config) ValidateDeep(configPath string) error {
	var fe fieldErrors
	c.validateFields(&fe)
	c.validateFileAccess(&fe, configPath)

	if c.Display.ProductTemplate != "" {
		if err := validateTemplate(c.Display.ProductTemplate, ProductTemplateData{}); err != nil {
			fe.addf("display.product_template", "template error: %v", err)
		}
	}

	return fe.err()
}

// validateFileAccess checks the config file, data directory and catalog file.
func (c *Config) validateFileAccess(fe *fieldErrors, configPath string) {
	if configPath != "" {
		if info, err := os.Stat(configPath); err == nil && info.IsDir() {
			fe.addf("config", "%s is a directory, not a file", configPath)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			fe.addf("config", "cannot access %s: %v", configPath, err)
		}
	}

	if c.DataDir != "" {
		if info, err := os.Stat(c.DataDir); err == nil && !info.IsDir() {
			fe.addf("data_dir", "%s exists but is not a directory", c.DataDir)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			fe.addf("data_dir", "cannot access %s: %v", c.DataDir, err)
		}
	}

	if c.Catalog.Source == SourceFile && c.Catalog.File != "" {
		if _, err := os.Stat(c.CatalogFile()); err != nil {
			fe.addf("catalog.file", "cannot access %s: %v", c.CatalogFile(), err)
		}
	}
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	switch c.Storage.Backend {
	case BackendMemory, BackendNone:
		warnings = append(warnings, ValidationWarning{
			Category: "Storage",
			Item:     "storage.backend",
			Message:  fmt.Sprintf("backend %q does not persist history between runs", c.Storage.Backend),
		})
	}

	if c.Currency.Mode == CurrencyModeFixed {
		conv := currency.NewConverter(nil, zerolog.Nop())
		code := currency.Normalize(c.Currency.Fixed)
		if code != "" && !conv.CanConvert(currency.USD, code) {
			warnings = append(warnings, ValidationWarning{
				Category: "Currency",
				Item:     "currency.fixed",
				Message:  fmt.Sprintf("no exchange rate for %s; prices will be shown unconverted", code),
			})
		}
	}

	if c.Catalog.Source == SourcePlatzi && c.Catalog.RequestsPerSecond == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Catalog",
			Item:     "catalog.requests_per_second",
			Message:  "rate limiting disabled",
		})
	}

	return warnings
}

// validateTemplate dry-runs a template against zero data to catch syntax
// errors and unknown fields.
func validateTemplate(tmplStr string, data any) error {
	_, err := tmpl.Render(tmplStr, data)
	return err
}
