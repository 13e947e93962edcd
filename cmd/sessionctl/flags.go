package main

import (
	"log/slog"

	"github.com/urfave/cli"
)

const (
	flagCaptcha   = "captcha"
	flagsCaptcha  = "captcha, c"
	flagEmail     = "email"
	flagsEmail    = "email, e"
	flagLogLevel  = "log-level"
	flagsLogLevel = "log-level"
	flagOutput    = "output"
	flagsOutput   = "output, o"
	flagPassword  = "password"
	flagsPassword = "password, p"
	flagPrefs     = "prefs"
	flagsPrefs    = "prefs"
	flagProfile   = "profile"
	flagsProfile  = "profile"
)

var (
	cliFlagOutput = cli.StringFlag{
		Name:  flagsOutput,
		Usage: "Return output in another format. Supported formats: table, json",
		Value: "table",
	}
	cliFlagPrefs = cli.StringFlag{
		Name: flagsPrefs,
		Usage: "Fallback preferences file. Defaults to GOSESSION_STORE_FILE_PATH " +
			"or ~/.gosession/prefs.json",
	}
	cliFlagLogLevel = cli.IntFlag{
		Name:  flagsLogLevel,
		Usage: "slog level for diagnostics on stderr (-4 debug, 0 info, 4 warn, 8 error)",
		Value: int(slog.LevelWarn),
	}
)
