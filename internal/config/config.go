package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"

	"github.com/gompdf/photolog/internal/layout"
	"github.com/gompdf/photolog/internal/model"
	"github.com/gompdf/photolog/internal/pagination"
	"github.com/gompdf/photolog/pkg/api"
)

//go:embed config.yaml
var defaultConfig []byte

type (
	MarginsConfig struct {
		Top    float64 `yaml:"top"`
		Right  float64 `yaml:"right"`
		Bottom float64 `yaml:"bottom"`
		Left   float64 `yaml:"left"`
	}

	PageConfig struct {
		Size        string        `yaml:"size"`
		Orientation string        `yaml:"orientation"`
		Margins     MarginsConfig `yaml:"margins"`
	}

	LayoutConfig struct {
		SeparatorHeight float64      `yaml:"separator_height"`
		FooterHeight    float64      `yaml:"footer_height"`
		MaxPerPage      int          `yaml:"max_per_page"`
		MinGap          float64      `yaml:"min_gap"`
		LoneEntryFactor float64      `yaml:"lone_entry_factor"`
		Concurrency     int          `yaml:"concurrency"`
		Style           layout.Style `yaml:"style"`
	}

	HeaderConfig struct {
		Title  string `yaml:"title"`
		Logo   string `yaml:"logo"`
		Author string `yaml:"author"`
	}

	StoreConfig struct {
		Path     string `yaml:"path"`
		Capacity int    `yaml:"capacity"`
	}

	Config struct {
		Version int           `yaml:"version"`
		Page    PageConfig    `yaml:"page"`
		Layout  LayoutConfig  `yaml:"layout"`
		Header  HeaderConfig  `yaml:"header"`
		Store   StoreConfig   `yaml:"store"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

func unmarshalConfig(data []byte, cfg *Config) (*Config, error) {
	// only fields we defined are accepted, so no yaml.Unmarshal here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of the built in defaults and performs
// validation. An empty path yields the defaults.
func LoadConfiguration(path string) (*Config, error) {
	cfg, err := unmarshalConfig(defaultConfig, &Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to process default configuration: %w", err)
	}

	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if cfg, err = unmarshalConfig(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to process configuration file: %w", err)
		}
		if cfg.Header.Logo != "" && !filepath.IsAbs(cfg.Header.Logo) {
			cfg.Header.Logo = filepath.Join(filepath.Dir(path), cfg.Header.Logo)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Prepare returns the built in configuration with its comments
func Prepare() []byte {
	return bytes.Clone(defaultConfig)
}

// Dump returns the effective configuration as yaml
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

// Validate reports every problem found in the configuration
func (c *Config) Validate() error {
	var errs error
	add := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf(format, args...))
	}

	if c.Version != 1 {
		add("unsupported version %d", c.Version)
	}

	if _, ok := pagination.LookupPageSize(c.Page.Size); !ok {
		add("unknown page size %q", c.Page.Size)
	}
	switch api.PageOrientation(c.Page.Orientation) {
	case api.PageOrientationPortrait, api.PageOrientationLandscape:
	default:
		add("unknown page orientation %q", c.Page.Orientation)
	}
	m := c.Page.Margins
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		add("page margins must not be negative")
	}

	l := c.Layout
	if l.SeparatorHeight < 0 || l.FooterHeight < 0 || l.MinGap < 0 {
		add("separator height, footer height and minimum gap must not be negative")
	}
	if l.MaxPerPage < 1 {
		add("max_per_page must be at least 1, got %d", l.MaxPerPage)
	}
	if l.LoneEntryFactor <= 0 {
		add("lone_entry_factor must be positive, got %g", l.LoneEntryFactor)
	}
	if l.Concurrency < 0 {
		add("concurrency must not be negative")
	}
	if err := l.Style.Validate(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("style: %w", err))
	}

	if c.Store.Capacity < 1 {
		add("store capacity must be at least 1, got %d", c.Store.Capacity)
	}

	errs = multierr.Append(errs, c.Logging.validate())
	return errs
}

// StorePath returns the project database location
func (c *Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("unable to locate store: %w", err)
	}
	return filepath.Join(dir, "photolog", "projects.db"), nil
}

// ExportOptions converts the configuration into exporter options
func (c *Config) ExportOptions() []api.Option {
	size, ok := pagination.LookupPageSize(c.Page.Size)
	if !ok {
		size = pagination.PageSizeA4
	}
	m := c.Page.Margins
	opts := []api.Option{
		api.WithPageSize(size),
		api.WithPageOrientation(api.PageOrientation(c.Page.Orientation)),
		api.WithMargins(m.Top, m.Right, m.Bottom, m.Left),
		api.WithSeparatorHeight(c.Layout.SeparatorHeight),
		api.WithMaxPerPage(c.Layout.MaxPerPage),
		api.WithSpacing(pagination.Spacing{MinGap: c.Layout.MinGap, LoneEntryFactor: c.Layout.LoneEntryFactor}),
		api.WithStyle(c.Layout.Style),
		api.WithConcurrency(c.Layout.Concurrency),
		api.WithTitle(c.Header.Title),
		api.WithAuthor(c.Header.Author),
		api.WithFooterHeight(c.Layout.FooterHeight),
	}
	if c.Header.Logo != "" {
		opts = append(opts, api.WithLogo(model.ImageRef{URL: c.Header.Logo}))
	}
	return opts
}
