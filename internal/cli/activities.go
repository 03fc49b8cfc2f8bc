package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/activity"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/config"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/notify"
)

type ActivitiesCfg struct {
	Config *config.Config
	Fs     afero.Fs
	Out    io.Writer
	Err    io.Writer
}

// ActivitiesCmd lists every activity in server order.
func ActivitiesCmd(ctx context.Context, cfg *ActivitiesCfg) error {
	if err := validateOutput(cfg.Config.OutputFormat); err != nil {
		return err
	}
	rt, err := newRuntime(cfg.Config, cfg.Fs)
	if err != nil {
		return err
	}
	n := notify.New()
	defer n.Close()
	view := activity.NewView(rt.clients.Activity, n, rt.sessions.Current(), activity.WithViewLogger(rt.log.WithName("activity")))

	stop := startSpinner(cfg.Err, "Loading activities...")
	page := view.Refresh(ctx)
	stop()
	if page.Error != "" {
		return errors.New(page.Error)
	}

	if done, err := printStructured(cfg.Out, cfg.Config.OutputFormat, view.Activities()); done {
		return err
	}
	fmt.Fprintln(cfg.Out, activity.RenderTable(page))
	return nil
}

// Action selects what RosterCmd does to a roster.
type Action int

const (
	ActionRegister Action = iota
	ActionUnregister
)

type RosterCfg struct {
	Action   Action
	Activity string
	Email    string
	Config   *config.Config
	Fs       afero.Fs
	Out      io.Writer
	Err      io.Writer
}

// RosterError carries the message shown for a failed register or unregister.
type RosterError struct {
	Message string
	Err     error
}

func (e *RosterError) Error() string { return e.Message }

func (e *RosterError) Unwrap() error { return e.Err }

// RosterCmd registers or unregisters a student with the stored session.
func RosterCmd(ctx context.Context, cfg *RosterCfg) error {
	rt, err := newRuntime(cfg.Config, cfg.Fs)
	if err != nil {
		return err
	}
	if !rt.sessions.Current().Authenticated() {
		return errors.New(activity.MsgLoginRequired)
	}

	n := notify.New()
	defer n.Close()
	view := activity.NewView(rt.clients.Activity, n, rt.sessions.Current(), activity.WithViewLogger(rt.log.WithName("activity")))

	stop := startSpinner(cfg.Err, "Sending request...")
	var page activity.Page
	if cfg.Action == ActionUnregister {
		page, err = view.Unregister(ctx, cfg.Activity, cfg.Email)
	} else {
		page, err = view.Signup(ctx, cfg.Activity, cfg.Email)
	}
	stop()

	msg, _ := n.Current()
	if err != nil {
		return &RosterError{Message: msg.Text, Err: err}
	}

	fmt.Fprintf(cfg.Out, "%s %s\n", config.BoldGreen("✓"), msg.Text)
	for _, card := range page.Cards {
		if card.Name == cfg.Activity {
			fmt.Fprintf(cfg.Out, "%s %s\n", config.BoldYellow(card.Name+":"), card.Availability)
		}
	}
	return nil
}

func newActivitiesCmd(fsys afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:     "activities",
		Aliases: []string{"ls", "list"},
		Short:   "List activities and their participants",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve()
			if err != nil {
				return err
			}
			return ActivitiesCmd(cmd.Context(), &ActivitiesCfg{Config: cfg, Fs: fsys, Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()})
		},
	}
}

func newRosterCmd(fsys afero.Fs, action Action, use string, aliases []string, short string) *cobra.Command {
	return &cobra.Command{
		Use:     use + " <activity> <email>",
		Aliases: aliases,
		Short:   short,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve()
			if err != nil {
				return err
			}
			return RosterCmd(cmd.Context(), &RosterCfg{
				Action:   action,
				Activity: args[0],
				Email:    args[1],
				Config:   cfg,
				Fs:       fsys,
				Out:      cmd.OutOrStdout(),
				Err:      cmd.ErrOrStderr(),
			})
		},
	}
}

func newRegisterCmd(fsys afero.Fs) *cobra.Command {
	return newRosterCmd(fsys, ActionRegister, "register", []string{"signup"}, "Register a student for an activity")
}

func newUnregisterCmd(fsys afero.Fs) *cobra.Command {
	return newRosterCmd(fsys, ActionUnregister, "unregister", []string{"remove"}, "Unregister a student from an activity")
}
