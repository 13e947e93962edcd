package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "sessionctl"
	app.Usage = "Inspect and drive a persisted storefront session"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cliFlagPrefs,
		cliFlagLogLevel,
	}
	app.Commands = []cli.Command{
		{
			Name:   "status",
			Usage:  "Run the boot check and print the session state",
			Flags:  []cli.Flag{cliFlagOutput},
			Action: status,
		},
		{
			Name:  "login",
			Usage: "Sign in against the storefront backend",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  flagsEmail,
					Usage: "Account e-mail address (required)",
				},
				cli.StringFlag{
					Name:   flagsPassword,
					Usage:  "Account password (required)",
					EnvVar: "GOSESSION_PASSWORD",
				},
				cli.StringFlag{
					Name:  flagsCaptcha,
					Usage: "Captcha response token",
				},
			},
			Action: login,
		},
		{
			Name:   "logout",
			Usage:  "Remove every session key from storage",
			Flags:  []cli.Flag{cliFlagOutput},
			Action: logout,
		},
		{
			Name:  "whoami",
			Usage: "Print the claims of the stored token",
			Flags: []cli.Flag{
				cliFlagOutput,
				cli.BoolFlag{
					Name:  flagsProfile,
					Usage: "Also fetch the customer profile from the backend",
				},
			},
			Action: whoami,
		},
		{
			Name:  "store",
			Usage: "Manage raw persisted entries",
			Subcommands: []cli.Command{
				{
					Name:   "get",
					Usage:  "Print the value of a key",
					Action: storeGet,
				},
				{
					Name:   "set",
					Usage:  "Store a value under a key",
					Action: storeSet,
				},
				{
					Name:   "rm",
					Usage:  "Remove a key",
					Action: storeRemove,
				},
				{
					Name:   "keys",
					Usage:  "List stored keys",
					Flags:  []cli.Flag{cliFlagOutput},
					Action: storeKeys,
				},
				{
					Name:   "clear",
					Usage:  "Remove every entry",
					Action: storeClear,
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "\n%s\n\n", err)
		os.Exit(1)
	}
}
