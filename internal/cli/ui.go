package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/config"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/logger"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/notify"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/tui"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/env"
)

type UICfg struct {
	Config *config.Config
	Fs     afero.Fs
}

// UICmd opens the interactive activities page. Logging moves to a file for
// as long as the page owns the terminal.
func UICmd(ctx context.Context, cfg *UICfg) error {
	logPath, err := config.UILogPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := logger.InitFile(logPath, cfg.Config.Verbose); err != nil {
		return err
	}

	rt, err := newRuntime(cfg.Config, cfg.Fs)
	if err != nil {
		return err
	}
	rt.log.Info("Starting interactive UI", "server", cfg.Config.ServerURL, "log", logPath)
	n := notify.New(notify.WithDismissAfter(env.SignupMessageTimeout.Get()))
	return tui.RunUI(ctx, rt.sessions, rt.clients.Activity, n, rt.log.WithName("ui"))
}

func newUICmd(fsys afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive activities page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve()
			if err != nil {
				return err
			}
			return UICmd(cmd.Context(), &UICfg{Config: cfg, Fs: fsys})
		},
	}
}
