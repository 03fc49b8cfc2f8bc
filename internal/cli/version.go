package cli

import (
	"fmt"
	goruntime "runtime"

	"github.com/spf13/cobra"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "signup %s (commit %s, built %s, %s/%s)\n",
				version.Version, version.GitCommit, version.BuildDate, goruntime.GOOS, goruntime.GOARCH)
			return nil
		},
	}
}
