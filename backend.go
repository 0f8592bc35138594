package main

import (
	"log/slog"

	"github.com/wifinm/nmclient/internal/config"
	"github.com/wifinm/nmclient/nm"
	"github.com/wifinm/nmclient/nm/mock"
	"github.com/wifinm/nmclient/nm/nmcli"
)

// GetExecutor returns the fixture executor in mock mode, otherwise one that
// runs the configured nmcli binary.
func GetExecutor(cfg *config.Config, logger *slog.Logger) (nm.Executor, error) {
	if cfg.Mock {
		logger.Info("using mock fixtures instead of nmcli")
		return mock.New(), nil
	}
	e, err := nmcli.New(cfg.Binary)
	if err != nil {
		return nil, err
	}
	return e, nil
}
