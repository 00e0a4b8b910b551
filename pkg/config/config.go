// Package config loads tabbridge settings from TOML.
//
// A configuration file looks like:
//
//	[client]
//	type_prefix = "rwt.widgets."
//	id_start = 1
//
//	[log]
//	level = "info"
//
//	[devtools]
//	addr = "127.0.0.1:9229"
//
// Every key is optional; missing keys keep their defaults.
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/tabbridge/pkg/errors"
	"github.com/matzehuels/tabbridge/pkg/widget"
)

// DefaultDevtoolsAddr is the address the devtools server listens on.
const DefaultDevtoolsAddr = "127.0.0.1:9229"

// Config is the complete configuration.
type Config struct {
	Client   Client   `toml:"client"`
	Log      Log      `toml:"log"`
	Devtools Devtools `toml:"devtools"`
}

// Client configures widget creation.
type Client struct {
	TypePrefix string `toml:"type_prefix"`
	IDStart    int64  `toml:"id_start"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// Devtools configures the introspection server.
type Devtools struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Client:   Client{TypePrefix: widget.DefaultTypePrefix, IDStart: 1},
		Log:      Log{Level: "info"},
		Devtools: Devtools{Addr: DefaultDevtoolsAddr},
	}
}

// Load reads the configuration file at path on top of the defaults.
func Load(path string) (Config, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML data on top of the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Client.IDStart < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "client.id_start must be positive, got %d", c.Client.IDStart)
	}
	if c.Client.TypePrefix != "" && !strings.HasSuffix(c.Client.TypePrefix, ".") {
		return errors.New(errors.ErrCodeInvalidConfig, "client.type_prefix %q must end with a dot", c.Client.TypePrefix)
	}
	if _, err := c.Log.ParseLevel(); err != nil {
		return err
	}
	return nil
}

// ParseLevel returns the configured log level.
func (l Log) ParseLevel() (log.Level, error) {
	if l.Level == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(l.Level)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	return lvl, nil
}

// WidgetOptions returns client options carrying the configured values.
func (c Config) WidgetOptions() widget.Options {
	return widget.Options{
		TypePrefix: c.Client.TypePrefix,
		IDStart:    c.Client.IDStart,
	}
}
