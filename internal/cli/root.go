package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/cli/envdoc"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/config"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/logger"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/env"
)

const defaultEnvFile = ".env"

// NewRootCmd returns the signup command tree working on the real filesystem.
func NewRootCmd() *cobra.Command {
	return newRootCmd(afero.NewOsFs())
}

func newRootCmd(fsys afero.Fs) *cobra.Command {
	var (
		configFile string
		envFile    string
	)

	root := &cobra.Command{
		Use:           "signup",
		Short:         "Mergington High School activities client",
		Long:          "List extracurricular activities and, as a teacher, register or unregister students.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(envFile); err != nil {
				return err
			}
			if err := config.Init(configFile); err != nil {
				return err
			}
			logger.Init(viper.GetBool("verbose"))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default $XDG_CONFIG_HOME/signup/config.yaml)")
	flags.StringVar(&envFile, "env-file", defaultEnvFile, "File of SIGNUP_* variables to load if present")
	flags.String("server", env.SignupServerURL.DefaultValue(), "Activities server URL")
	flags.String("session-file", "", "Session file (default $XDG_CONFIG_HOME/signup/session.json)")
	flags.Duration("timeout", env.SignupTimeout.DefaultValue(), "Request timeout")
	flags.StringP("output", "o", env.SignupOutputFormat.DefaultValue(), "Output format: table, json, yaml")
	flags.BoolP("verbose", "v", false, "Log requests to stderr")

	bindFlags(flags)

	root.AddCommand(
		newLoginCmd(fsys),
		newLogoutCmd(fsys),
		newStatusCmd(fsys),
		newWhoAmICmd(fsys),
		newActivitiesCmd(fsys),
		newRegisterCmd(fsys),
		newUnregisterCmd(fsys),
		newUICmd(fsys),
		newVersionCmd(),
		envdoc.NewEnvCmd(),
	)
	return root
}

// configKeys maps persistent flags to their viper keys.
var configKeys = map[string]string{
	"server":       "server_url",
	"session-file": "session_file",
	"timeout":      "timeout",
	"output":       "output_format",
	"verbose":      "verbose",
}

func bindFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if key, ok := configKeys[f.Name]; ok {
			_ = viper.BindPFlag(key, f)
		}
	})
}

// loadEnvFile exports the variables of path unless they are already set. A
// missing file is ignored.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %v", path, err)
	}
	return nil
}
