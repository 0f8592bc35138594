package config

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/peterbourgon/ff/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args []string) (*Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("nmclient", flag.ContinueOnError)
	c := RegisterFlags(fs)
	err := ff.Parse(fs, args, Options()...)
	return c, err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nmclient.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	c, err := parse(t, nil)
	require.NoError(t, err)
	assert.Equal(t, &Config{Binary: "nmcli", LogLevel: "warn"}, c)
	assert.NoError(t, c.Validate())
	assert.Equal(t, slog.LevelWarn, c.Level())
}

func TestConfigFile(t *testing.T) {
	path := writeConfig(t, `
nmcli = "/usr/local/bin/nmcli"
log-level = "debug"
mock = true
`)
	c, err := parse(t, []string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/nmcli", c.Binary)
	assert.Equal(t, slog.LevelDebug, c.Level())
	assert.True(t, c.Mock)
}

func TestPrecedence(t *testing.T) {
	path := writeConfig(t, `log-level = "debug"
nmcli = "/from/file"
`)
	t.Setenv("NMCLIENT_LOG_LEVEL", "info")

	c, err := parse(t, []string{"--config", path, "--nmcli", "/from/flag"})
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", c.Binary)
	assert.Equal(t, "info", c.LogLevel)
}

func TestConfigFileErrors(t *testing.T) {
	_, err := parse(t, []string{"--config", writeConfig(t, "[nmcli]\npath = \"x\"\n")})
	assert.ErrorContains(t, err, "tables are not supported")

	_, err = parse(t, []string{"--config", writeConfig(t, "unknown = 1\n")})
	assert.Error(t, err)

	_, err = parse(t, []string{"--config", writeConfig(t, "nmcli = \n")})
	assert.ErrorContains(t, err, "error parsing config file")
}

func TestTOMLParserArrays(t *testing.T) {
	got := map[string]string{}
	err := TOMLParser(strings.NewReader(`dns = ["1.1.1.1", "8.8.8.8"]`), func(name, value string) error {
		got[name] = value
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"dns": "1.1.1.1,8.8.8.8"}, got)
}

func TestValidate(t *testing.T) {
	c := &Config{Binary: "nmcli", LogLevel: "verbose"}
	assert.Error(t, c.Validate())

	c = &Config{LogLevel: "info"}
	assert.Error(t, c.Validate())
}
