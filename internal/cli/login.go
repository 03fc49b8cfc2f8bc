package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/config"
)

type LoginCfg struct {
	Username string
	Password string
	Config   *config.Config
	Fs       afero.Fs
	In       io.Reader
	Out      io.Writer
	Err      io.Writer
}

// LoginCmd exchanges credentials for a token and stores the session.
// Missing credentials are prompted for on In.
func LoginCmd(ctx context.Context, cfg *LoginCfg) error {
	rt, err := newRuntime(cfg.Config, cfg.Fs)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(cfg.In)
	if cfg.Username == "" {
		if cfg.Username, err = prompt(reader, cfg.Out, "Username: "); err != nil {
			return fmt.Errorf("failed to read username: %v", err)
		}
	}
	if cfg.Password == "" {
		if cfg.Password, err = promptPassword(reader, cfg.In, cfg.Out, "Password: "); err != nil {
			return fmt.Errorf("failed to read password: %v", err)
		}
	}

	stop := startSpinner(cfg.Err, "Logging in...")
	s, err := rt.sessions.Login(ctx, cfg.Username, cfg.Password)
	stop()
	if err != nil {
		return err
	}

	fmt.Fprintf(cfg.Out, "%s Logged in as %s\n", config.BoldGreen("✓"), s.Username)
	return nil
}

type LogoutCfg struct {
	Config *config.Config
	Fs     afero.Fs
	Out    io.Writer
}

// LogoutCmd forgets the stored session.
func LogoutCmd(cfg *LogoutCfg) error {
	rt, err := newRuntime(cfg.Config, cfg.Fs)
	if err != nil {
		return err
	}
	was := rt.sessions.Current()
	rt.sessions.Logout()

	if !was.Authenticated() {
		fmt.Fprintln(cfg.Out, "Not logged in")
		return nil
	}
	fmt.Fprintf(cfg.Out, "%s Logged out %s\n", config.BoldGreen("✓"), was.Username)
	return nil
}

func prompt(r *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo when in is a terminal.
func promptPassword(r *bufio.Reader, in io.Reader, w io.Writer, label string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(w, label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return prompt(r, w, label)
}

func newLoginCmd(fsys afero.Fs) *cobra.Command {
	loginCfg := &LoginCfg{}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as a teacher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve()
			if err != nil {
				return err
			}
			loginCfg.Config = cfg
			loginCfg.Fs = fsys
			loginCfg.In = cmd.InOrStdin()
			loginCfg.Out = cmd.OutOrStdout()
			loginCfg.Err = cmd.ErrOrStderr()
			return LoginCmd(cmd.Context(), loginCfg)
		},
	}
	cmd.Flags().StringVarP(&loginCfg.Username, "username", "u", "", "Teacher username")
	cmd.Flags().StringVarP(&loginCfg.Password, "password", "p", "", "Password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(fsys afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve()
			if err != nil {
				return err
			}
			return LogoutCmd(&LogoutCfg{Config: cfg, Fs: fsys, Out: cmd.OutOrStdout()})
		},
	}
}
