//go:build linux

package nmcli

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"

	"github.com/wifinm/nmclient/nm"
)

// DefaultBinary is the tool looked up on $PATH when no binary is configured.
const DefaultBinary = "nmcli"

// Executor runs nmcli as a subprocess.
type Executor struct {
	Binary string
}

// New creates an Executor for binary, or DefaultBinary if empty.
func New(binary string) (*Executor, error) {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Executor{Binary: binary}, nil
}

// Run launches the binary with args and waits for it to exit. Stdout and
// stderr are captured together since nmcli reports some errors on stdout.
// A launch failure is returned unlogged; nm.Client logs it.
func (e *Executor) Run(args ...string) (nm.Result, error) {
	var out bytes.Buffer
	cmd := exec.Command(e.Binary, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if err == nil {
		return nm.Result{ExitCode: 0, Output: out.String()}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nm.Result{ExitCode: exitErr.ExitCode(), Output: out.String()}, nil
	}

	return nm.Result{}, fmt.Errorf("failed to run %s: %w: %w", e.Binary, nm.ErrCommandFailed, err)
}
