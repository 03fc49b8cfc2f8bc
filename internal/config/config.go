package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/spf13/viper"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/session"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/client"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/env"
)

const (
	appName    = "signup"
	envPrefix  = "SIGNUP"
	configName = "config"
)

var (
	BoldGreen  = color.New(color.FgGreen, color.Bold).SprintFunc()
	BoldYellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	BoldRed    = color.New(color.FgRed, color.Bold).SprintFunc()
)

type Config struct {
	ServerURL    string        `mapstructure:"server_url"`
	SessionFile  string        `mapstructure:"session_file"`
	OutputFormat string        `mapstructure:"output_format"`
	Verbose      bool          `mapstructure:"verbose"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// Defaults returns the built-in configuration, taken from the registered
// environment variable defaults.
func Defaults() Config {
	return Config{
		ServerURL:    env.SignupServerURL.DefaultValue(),
		SessionFile:  env.SignupSessionFile.DefaultValue(),
		OutputFormat: env.SignupOutputFormat.DefaultValue(),
		Timeout:      env.SignupTimeout.DefaultValue(),
	}
}

// Dir returns the directory holding config.yaml and session.json.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %v", err)
	}
	return filepath.Join(base, appName), nil
}

// Init wires viper to the config file, SIGNUP_* environment variables and the
// built-in defaults. A missing config file is not an error.
func Init(configFile string) error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		viper.AddConfigPath(dir)
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	d := Defaults()
	viper.SetDefault("server_url", d.ServerURL)
	viper.SetDefault("session_file", d.SessionFile)
	viper.SetDefault("output_format", d.OutputFormat)
	viper.SetDefault("timeout", d.Timeout)
	viper.SetDefault("verbose", false)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if configFile == "" && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %v", err)
	}
	return nil
}

// Get returns the configuration currently held by viper.
func Get() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}
	return &cfg, nil
}

// Resolve is Get with every empty field filled from Defaults.
func Resolve() (*Config, error) {
	cfg, err := Get()
	if err != nil {
		return nil, err
	}
	if err := mergo.Merge(cfg, Defaults()); err != nil {
		return nil, fmt.Errorf("failed to merge config defaults: %v", err)
	}
	return cfg, nil
}

// Client returns an API client for the configured server.
func (c *Config) Client(log logr.Logger) *client.ClientSet {
	return client.New(c.ServerURL, client.WithTimeout(c.Timeout), client.WithLogger(log))
}

// SessionPath returns the session store location, falling back to the
// default path under the user config directory.
func (c *Config) SessionPath() (string, error) {
	if c.SessionFile != "" {
		return c.SessionFile, nil
	}
	return session.DefaultPath()
}

// UILogPath returns where the interactive UI writes its log: SIGNUP_UI_LOG_FILE
// if set, otherwise ui.log under the user config directory.
func UILogPath() (string, error) {
	if path := env.SignupUILogFile.Get(); path != "" {
		return path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ui.log"), nil
}
