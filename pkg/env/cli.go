package env

import "time"

// Environment variables read by the signup CLI and UI. Values set through
// flags or the config file take precedence; these are the fallbacks viper
// binds to.
var (
	SignupServerURL = NewString(
		"SIGNUP_SERVER_URL",
		"http://localhost:8000",
		"Base URL of the activities backend.",
		ComponentCLI,
	)

	SignupSessionFile = NewString(
		"SIGNUP_SESSION_FILE",
		"",
		"Path of the file that persists the auth token and username. Defaults to <user config dir>/signup/session.json.",
		ComponentCLI,
	)

	SignupTimeout = NewDuration(
		"SIGNUP_TIMEOUT",
		30*time.Second,
		"Timeout applied to each backend request.",
		ComponentCLI,
	)

	SignupOutputFormat = NewString(
		"SIGNUP_OUTPUT_FORMAT",
		"table",
		"Output format for commands that print data (table, json or yaml).",
		ComponentCLI,
	)

	SignupMessageTimeout = NewDuration(
		"SIGNUP_MESSAGE_TIMEOUT",
		5*time.Second,
		"How long a status message stays visible in the interactive UI.",
		ComponentUI,
	)

	SignupUILogFile = NewString(
		"SIGNUP_UI_LOG_FILE",
		"",
		"File the interactive UI logs to while it owns the terminal. Defaults to <user config dir>/signup/ui.log.",
		ComponentUI,
	)

	SignupLogLevel = NewString(
		"SIGNUP_LOG_LEVEL",
		"info",
		"Log level (debug, info, warn, error).",
		ComponentLogging,
	)

	SignupEnv = NewString(
		"SIGNUP_ENV",
		"",
		"Set to development for human-readable, colored log output.",
		ComponentLogging,
	)
)
