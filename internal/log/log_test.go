package log

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferHandlerForwardsEnabledOnly(t *testing.T) {
	var out bytes.Buffer
	h := NewBufferHandler(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelWarn}), 10)
	logger := slog.New(h)

	logger.Debug("nmcli command", "command", "-t -f TYPE dev")
	logger.Warn("nmcli command failed", "exit_code", 8)

	assert.NotContains(t, out.String(), "TYPE dev")
	assert.Contains(t, out.String(), "exit_code=8")
	assert.Len(t, h.Logs(), 2)
}

func TestBufferHandlerKeepsMostRecent(t *testing.T) {
	var out bytes.Buffer
	h := NewBufferHandler(slog.NewTextHandler(&out, nil), 3)
	logger := slog.New(h)

	for i := 0; i < 5; i++ {
		logger.Info(fmt.Sprintf("message %d", i))
	}

	logs := h.Logs()
	if assert.Len(t, logs, 3) {
		assert.Equal(t, "message 2", logs[0].Message)
		assert.Equal(t, "message 4", logs[2].Message)
	}
}

func TestBufferHandlerWithAttrsSharesBuffer(t *testing.T) {
	var out bytes.Buffer
	h := NewBufferHandler(slog.NewTextHandler(&out, nil), 10)
	slog.New(h).With("component", "nm").Info("hello")

	assert.Len(t, h.Logs(), 1)
	assert.Contains(t, out.String(), "component=nm")
}

func TestReplay(t *testing.T) {
	var out bytes.Buffer
	h := NewBufferHandler(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelWarn}), 10)
	logger := slog.New(h)

	logger.Debug("nmcli command", "command", "--version")
	logger.Warn("nmcli command failed", "exit_code", 8)

	var replay bytes.Buffer
	h.Replay(&replay, slog.LevelWarn)
	lines := strings.Split(strings.TrimSpace(replay.String()), "\n")
	assert.Equal(t, []string{"DEBUG nmcli command command=--version"}, lines)
}

func TestInit(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var out bytes.Buffer
	logger := Init(slog.NewTextHandler(&out, nil))
	logger.Info("ready")

	assert.Len(t, Logs(), 1)
	assert.Contains(t, out.String(), "msg=ready")
}
