//go:build !linux

package nmcli

import (
	"fmt"

	"github.com/wifinm/nmclient/nm"
)

// DefaultBinary is the tool looked up on $PATH when no binary is configured.
const DefaultBinary = "nmcli"

// Executor is unavailable outside linux.
type Executor struct{}

// New returns nm.ErrNotSupported on this operating system.
func New(binary string) (*Executor, error) {
	return nil, fmt.Errorf("nmcli executor: %w", nm.ErrNotSupported)
}

// Run always fails with nm.ErrNotSupported.
func (e *Executor) Run(args ...string) (nm.Result, error) {
	return nm.Result{}, nm.ErrNotSupported
}
