package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/config"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/session"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/client"
)

type StatusCfg struct {
	Config *config.Config
	Fs     afero.Fs
	Out    io.Writer
	Err    io.Writer
	Now    func() time.Time
}

// StatusReport is the machine-readable form of `signup status`.
type StatusReport struct {
	Server      string     `json:"server" yaml:"server"`
	SessionFile string     `json:"sessionFile" yaml:"sessionFile"`
	LoggedIn    bool       `json:"loggedIn" yaml:"loggedIn"`
	Username    string     `json:"username,omitempty" yaml:"username,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
	// Reachable is false when the server could not be asked about the token.
	Reachable bool `json:"reachable" yaml:"reachable"`
}

// StatusCmd reports the stored session after validating it with the server.
// A token the server rejects is dropped.
func StatusCmd(ctx context.Context, cfg *StatusCfg) error {
	if err := validateOutput(cfg.Config.OutputFormat); err != nil {
		return err
	}
	rt, err := newRuntime(cfg.Config, cfg.Fs)
	if err != nil {
		return err
	}
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}

	before := rt.sessions.Current()
	report := StatusReport{Server: cfg.Config.ServerURL, SessionFile: rt.store.Path(), Reachable: true}

	stop := startSpinner(cfg.Err, "Checking session...")
	s, err := rt.sessions.Validate(ctx)
	stop()
	if err != nil {
		rt.log.Error(err, "Token validation error")
		report.Reachable = false
	}

	report.LoggedIn = s.Authenticated()
	report.Username = s.Username
	if exp, ok := s.ExpiresAt(); ok {
		report.ExpiresAt = &exp
	}

	if done, err := printStructured(cfg.Out, cfg.Config.OutputFormat, report); done {
		return err
	}

	fmt.Fprintf(cfg.Out, "%s %s\n", config.BoldYellow("Server:"), report.Server)
	switch {
	case report.LoggedIn:
		fmt.Fprintf(cfg.Out, "%s logged in as %s\n", config.BoldGreen("Session:"), report.Username)
		if report.ExpiresAt != nil {
			left := report.ExpiresAt.Sub(now()).Round(time.Second)
			if s.Expired(now()) {
				fmt.Fprintf(cfg.Out, "%s expired at %s\n", config.BoldRed("Token:"), report.ExpiresAt.Format(time.RFC3339))
			} else {
				fmt.Fprintf(cfg.Out, "%s expires at %s (in %s)\n", config.BoldYellow("Token:"), report.ExpiresAt.Format(time.RFC3339), left)
			}
		}
		if !report.Reachable {
			fmt.Fprintf(cfg.Out, "%s could not reach the server, session kept\n", config.BoldRed("Warning:"))
		}
	case before.Authenticated():
		fmt.Fprintf(cfg.Out, "%s the stored token was rejected and has been removed\n", config.BoldRed("Session:"))
	default:
		fmt.Fprintf(cfg.Out, "%s not logged in\n", config.BoldYellow("Session:"))
	}
	return nil
}

type WhoAmICfg struct {
	Config *config.Config
	Fs     afero.Fs
	Out    io.Writer
	Err    io.Writer
}

// WhoAmICmd prints the profile of the logged-in teacher.
func WhoAmICmd(ctx context.Context, cfg *WhoAmICfg) error {
	if err := validateOutput(cfg.Config.OutputFormat); err != nil {
		return err
	}
	rt, err := newRuntime(cfg.Config, cfg.Fs)
	if err != nil {
		return err
	}

	stop := startSpinner(cfg.Err, "Fetching profile...")
	profile, err := rt.sessions.WhoAmI(ctx)
	stop()
	if errors.Is(err, session.ErrNotLoggedIn) {
		return fmt.Errorf("not logged in: run 'signup login' first")
	}
	if err != nil {
		return fmt.Errorf("failed to get profile: %s", client.DetailOr(err, err.Error()))
	}

	if done, err := printStructured(cfg.Out, cfg.Config.OutputFormat, profile); done {
		return err
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendRows([]table.Row{
		{"Username", profile.Username},
		{"Name", profile.Name},
		{"Email", profile.Email},
		{"Role", cases.Title(language.English).String(profile.Role)},
	})
	fmt.Fprintln(cfg.Out, tw.Render())
	return nil
}

func newStatusCmd(fsys afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show and validate the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve()
			if err != nil {
				return err
			}
			return StatusCmd(cmd.Context(), &StatusCfg{Config: cfg, Fs: fsys, Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()})
		},
	}
}

func newWhoAmICmd(fsys afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in teacher's profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve()
			if err != nil {
				return err
			}
			return WhoAmICmd(cmd.Context(), &WhoAmICfg{Config: cfg, Fs: fsys, Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()})
		},
	}
}
