// Package connection resolves named database connections for fluentql
// builders and executes compiled statements over database/sql.
package connection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/zoobzio/fluentql"
)

// EnvPrefix prefixes environment variables that override file settings.
// Nested keys are separated by a double underscore:
// FLUENTQL_CONNECTIONS__MYSQL__HOST sets connections.mysql.host.
const EnvPrefix = "FLUENTQL_"

// Default ports per driver.
const (
	DefaultMySQLPort     = 3306
	DefaultPostgresPort  = 5432
	DefaultSQLServerPort = 1433
)

// Config maps connection names to their details.
type Config struct {
	Connections map[string]fluentql.ConnectionDetails `koanf:"connections"`
	Default     string                                `koanf:"default"`
}

// LoadConfig reads a YAML file, then applies FLUENTQL_ environment
// overrides and driver defaults.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	// FLUENTQL_CONNECTIONS__MYSQL__HOST -> connections.mysql.host
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	return unmarshal(k)
}

// ConfigFromMap builds a configuration from a plain mapping, as produced
// by an application's own settings layer. Keys follow the YAML layout.
func ConfigFromMap(values map[string]any) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load config map: %w", err)
	}
	return unmarshal(k)
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills in default ports and, when exactly one connection is
// configured, the default connection name.
func (c *Config) ApplyDefaults() {
	for name, details := range c.Connections {
		c.Connections[name] = WithDefaults(details)
	}
	if c.Default == "" && len(c.Connections) == 1 {
		for name := range c.Connections {
			c.Default = name
		}
	}
}

// Validate checks that every connection names a known driver and that the
// default refers to a configured connection.
func (c *Config) Validate() error {
	if len(c.Connections) == 0 {
		return fmt.Errorf("no connections configured")
	}
	for _, name := range c.Names() {
		if _, err := lookupDriver(c.Connections[name].Driver); err != nil {
			return fmt.Errorf("connection %q: %w", name, err)
		}
	}
	if c.Default != "" {
		if _, ok := c.Connections[c.Default]; !ok {
			return fmt.Errorf("default connection %q is not configured", c.Default)
		}
	}
	return nil
}

// Names returns the configured connection names in sorted order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Connections))
	for name := range c.Connections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithDefaults returns details with the driver's default port applied.
func WithDefaults(details fluentql.ConnectionDetails) fluentql.ConnectionDetails {
	details.Driver = strings.ToLower(details.Driver)
	if details.Port == 0 {
		switch details.Driver {
		case DriverMySQL, DriverMariaDB:
			details.Port = DefaultMySQLPort
		case DriverPostgres:
			details.Port = DefaultPostgresPort
		case DriverSQLServer:
			details.Port = DefaultSQLServerPort
		}
	}
	return details
}
