package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/podhmo/bigrpn/internal/utils/stringutils"
)

// EnvPrefix is prepended to every environment variable read by ApplyEnv.
const EnvPrefix = "BIGRPN_"

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the configuration for the bigrpn tool itself.
// Values are layered: Default, then a YAML file, then environment, then flags.
type Config struct {
	Format      string `yaml:"format"`        // Output format: "text" or "json"
	Color       bool   `yaml:"color"`         // Colorize values and errors
	Jobs        int    `yaml:"jobs"`          // Number of lines evaluated concurrently
	MaxTokens   int    `yaml:"max_tokens"`    // Maximum tokens per line, 0 for no limit
	MaxDigits   int    `yaml:"max_digits"`    // Maximum digits per literal, 0 for no limit
	FailOnError bool   `yaml:"fail_on_error"` // Exit with status 1 if any line fails
}

// Default returns the configuration used when nothing else is given.
func Default() *Config {
	return &Config{
		Format: FormatText,
		Jobs:   1,
	}
}

// LoadFile reads a YAML configuration file on top of Default.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

type field struct {
	name string
	set  func(c *Config, v string) error
}

var fields = []field{
	{"Format", func(c *Config, v string) error { c.Format = v; return nil }},
	{"Color", func(c *Config, v string) (err error) { c.Color, err = strconv.ParseBool(v); return }},
	{"Jobs", func(c *Config, v string) (err error) { c.Jobs, err = strconv.Atoi(v); return }},
	{"MaxTokens", func(c *Config, v string) (err error) { c.MaxTokens, err = strconv.Atoi(v); return }},
	{"MaxDigits", func(c *Config, v string) (err error) { c.MaxDigits, err = strconv.Atoi(v); return }},
	{"FailOnError", func(c *Config, v string) (err error) { c.FailOnError, err = strconv.ParseBool(v); return }},
}

// EnvVar returns the environment variable name for a Config field name,
// e.g. "MaxTokens" -> "BIGRPN_MAX_TOKENS".
func EnvVar(fieldName string) string {
	return EnvPrefix + stringutils.ToScreamingSnakeCase(fieldName)
}

// FieldNames lists the settable Config fields in declaration order.
func FieldNames() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

// Set parses value into the field called fieldName (e.g. "MaxTokens").
func (c *Config) Set(fieldName, value string) error {
	for _, f := range fields {
		if f.name == fieldName {
			return f.set(c, value)
		}
	}
	return fmt.Errorf("unknown config field %q", fieldName)
}

// ApplyEnv overrides fields from environment variables found by lookup
// (usually os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	for _, f := range fields {
		name := EnvVar(f.name)
		v, ok := lookup(name)
		if !ok {
			continue
		}
		if err := c.Set(f.name, v); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s=%q: %w", name, v, err))
		}
	}
	return errors.Join(errs...)
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error
	if c.Format != FormatText && c.Format != FormatJSON {
		errs = append(errs, fmt.Errorf("format must be %q or %q, got %q", FormatText, FormatJSON, c.Format))
	}
	if c.Jobs < 1 {
		errs = append(errs, fmt.Errorf("jobs must be at least 1, got %d", c.Jobs))
	}
	if c.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("max tokens must not be negative, got %d", c.MaxTokens))
	}
	if c.MaxDigits < 0 {
		errs = append(errs, fmt.Errorf("max digits must not be negative, got %d", c.MaxDigits))
	}
	return errors.Join(errs...)
}
