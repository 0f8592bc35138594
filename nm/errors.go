package nm

import "errors"

var (
	ErrNotSupported       = errors.New("not supported")
	ErrNotFound           = errors.New("not found")
	ErrNotActive          = errors.New("device not active")
	ErrCommandFailed      = errors.New("command failed")
	ErrMissingField       = errors.New("missing field")
	ErrUnsupportedVersion = errors.New("unsupported nmcli version")
	ErrInvalidDetails     = errors.New("invalid connection details")
)
