//go:build linux

package nmcli

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wifinm/nmclient/nm"
)

func TestRunCapturesCombinedOutput(t *testing.T) {
	e, err := New("/bin/sh")
	require.NoError(t, err)

	r, err := e.Run("-c", "echo out; echo err 1>&2")
	require.NoError(t, err)
	assert.Equal(t, 0, r.ExitCode)
	assert.Contains(t, r.Output, "out\n")
	assert.Contains(t, r.Output, "err\n")
}

func TestRunNonZeroExitIsNotAnError(t *testing.T) {
	e, err := New("/bin/sh")
	require.NoError(t, err)

	r, err := e.Run("-c", "echo 'Error: unknown connection'; exit 10")
	require.NoError(t, err)
	assert.Equal(t, 10, r.ExitCode)
	assert.Equal(t, "Error: unknown connection\n", r.Output)
	assert.False(t, r.OK())
}

func TestRunMissingBinary(t *testing.T) {
	e, err := New("/nonexistent/nmcli")
	require.NoError(t, err)

	_, err = e.Run("--version")
	require.Error(t, err)
	assert.True(t, errors.Is(err, nm.ErrCommandFailed))

	// The cause stays reachable so the client can log the filename.
	var pathErr *os.PathError
	require.True(t, errors.As(err, &pathErr))
	assert.Equal(t, "/nonexistent/nmcli", pathErr.Path)
}

func TestNewDefaultsBinary(t *testing.T) {
	e, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBinary, e.Binary)
}
