package envdoc

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/env"
)

var exporters = map[string]func(component string) string{
	"markdown": env.ExportMarkdown,
	"md":       env.ExportMarkdown,
	"json":     env.ExportJSON,
}

// NewEnvCmd returns a hidden command that prints the declared SIGNUP_*
// variables with their defaults.
func NewEnvCmd() *cobra.Command {
	var format, component string

	names := []string{"all"}
	for _, c := range env.Components() {
		names = append(names, string(c))
	}

	cmd := &cobra.Command{
		Use:    "env",
		Hidden: true,
		Short:  "Document the SIGNUP_* environment variables",
		Args:   cobra.NoArgs,
		// Documents declarations, so no config or logger is needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			export, ok := exporters[format]
			if !ok {
				return fmt.Errorf("unknown format %q: use markdown or json", format)
			}
			if !slices.Contains(names, component) {
				return fmt.Errorf("unknown component %q: use one of %s", component, strings.Join(names, ", "))
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), export(component))
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "markdown", "Output format (markdown or json)")
	cmd.Flags().StringVar(&component, "component", "all", "Only list one component: "+strings.Join(names, ", "))
	return cmd
}
