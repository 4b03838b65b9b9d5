package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ledgerdash/ledgerdash/internal/backend"
	"github.com/ledgerdash/ledgerdash/internal/config"
	"github.com/ledgerdash/ledgerdash/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closeLog := newLogger(cfg)
	defer closeLog()

	api := backend.New(cfg.Backend.URL, cfg.APIKey(), logger)

	p := tea.NewProgram(tui.New(ctx, api, &cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes structured logs to the configured file. Stdout is owned
// by the TUI, so a broken log path degrades to a silent logger.
func newLogger(cfg config.Config) (*slog.Logger, func()) {
	level := slog.LevelInfo
	if cfg.Backend.LogRequests {
		level = slog.LevelDebug
	}
	if err := os.MkdirAll(filepath.Dir(cfg.UI.LogFile), 0o755); err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}
	f, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }
}
