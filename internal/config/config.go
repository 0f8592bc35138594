// Package config resolves nmclient settings from flags, NMCLIENT_*
// environment variables and an optional TOML config file, in that order of
// precedence.
package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/peterbourgon/ff/v3"
)

// EnvVarPrefix prefixes the environment variable of every flag, e.g.
// --log-level is read from NMCLIENT_LOG_LEVEL.
const EnvVarPrefix = "NMCLIENT"

// ConfigFlag names the flag holding the config file path.
const ConfigFlag = "config"

// Config holds the resolved global settings.
type Config struct {
	Mock     bool
	Binary   string `validate:"required"`
	LogLevel string `validate:"oneof=debug info warn error"`
	JSON     bool
	File     string
}

var validate = validator.New()

// RegisterFlags binds the global flags to a new Config.
func RegisterFlags(fs *flag.FlagSet) *Config {
	c := &Config{}
	fs.BoolVar(&c.Mock, "mock", false, "serve canned fixtures instead of running nmcli (env: NMCLIENT_MOCK)")
	fs.StringVar(&c.Binary, "nmcli", "nmcli", "nmcli binary to run (env: NMCLIENT_NMCLI)")
	fs.StringVar(&c.LogLevel, "log-level", "warn", "log level: debug, info, warn or error (env: NMCLIENT_LOG_LEVEL)")
	fs.BoolVar(&c.JSON, "json", false, "output in JSON format (env: NMCLIENT_JSON)")
	fs.StringVar(&c.File, ConfigFlag, "", "path to a TOML config file (env: NMCLIENT_CONFIG)")
	return c
}

// Options returns the ff options that wire up env vars and the config file.
func Options() []ff.Option {
	return []ff.Option{
		ff.WithEnvVarPrefix(EnvVarPrefix),
		ff.WithConfigFileFlag(ConfigFlag),
		ff.WithConfigFileParser(TOMLParser),
	}
}

// Validate checks the resolved values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return l
}

// TOMLParser is an ff.ConfigFileParser for flat TOML files whose keys are
// flag names:
//
//	nmcli = "/usr/bin/nmcli"
//	log-level = "debug"
//	mock = true
func TOMLParser(r io.Reader, set func(name, value string) error) error {
	var values map[string]any
	if _, err := toml.NewDecoder(r).Decode(&values); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}

	for name, v := range values {
		var value string
		switch v := v.(type) {
		case map[string]any:
			return fmt.Errorf("config key %q: tables are not supported", name)
		case []any:
			parts := make([]string, len(v))
			for i, p := range v {
				parts[i] = fmt.Sprint(p)
			}
			value = strings.Join(parts, ",")
		default:
			value = fmt.Sprint(v)
		}
		if err := set(name, value); err != nil {
			return fmt.Errorf("config key %q: %w", name, err)
		}
	}
	return nil
}
