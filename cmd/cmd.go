// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// -v belongs to --verbose.
func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// rootCommand builds the cloudup application. Without a subcommand it runs an upload.
//
// Flags declared here are inherited by every subcommand.
func rootCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "cloudup",
		Usage:    "Upload local music files to your cloud music library",
		Version:  "0.3.0",
		Flags:    rootFlags(),
		Action:   r.Upload,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		uploadCommand, authCommand, configCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to configuration file",
			Value: defaultConfigPath,
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
		&cli.StringFlag{
			Name:    "countrycode",
			Aliases: []string{"c"},
			Usage:   "Country code of the login phone number (default 86)",
		},
		&cli.StringFlag{
			Name:    "phone",
			Aliases: []string{"m"},
			Usage:   "Login phone number",
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "Login password",
		},
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Music file to upload",
		},
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "Directory of music files to upload",
		},
		&cli.StringFlag{
			Name:    "name",
			Aliases: []string{"n"},
			Usage:   "Song name to use instead of the file's tag (single file only)",
		},
		&cli.StringFlag{
			Name:    "artist",
			Aliases: []string{"a"},
			Usage:   "Artist to use instead of the file's tag (single file only)",
		},
		&cli.StringFlag{
			Name:    "album",
			Aliases: []string{"A"},
			Usage:   "Album to use instead of the file's tag (single file only)",
		},
		&cli.BoolFlag{
			Name:    "save-cookie",
			Aliases: []string{"S"},
			Usage:   "Save the session cookie to the config after login",
		},
		&cli.BoolFlag{
			Name:    "save-login-info",
			Aliases: []string{"s"},
			Usage:   "Save phone number and password to the config after login",
		},
		&cli.StringFlag{
			Name:  "report",
			Usage: "Print the run report after uploading: text, json or csv",
		},
		&cli.BoolFlag{
			Name:  "ui",
			Usage: "Show an interactive progress view",
		},
	}
}

// uploadCommand uploads a file or directory; the same as running cloudup without a subcommand.
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "upload",
		Aliases: []string{"up"},
		Usage:   "Upload a file or directory to the cloud library",
		Action:  r.Upload,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the login session",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Log in with --phone/--password and save the session cookie",
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check whether the saved session is still valid",
				Action: r.AuthStatus,
			},
		},
	}
}

// configCommand handles configuration file operations
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file operations",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a default configuration file and initialize the history database",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing configuration file",
					},
				},
				Action: r.ConfigInit,
			},
		},
	}
}

// historyCommand handles upload history queries
func historyCommand(r *Runner) *cli.Command {
	formatFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:  "format",
			Usage: "Output format: text, json or csv",
			Value: "text",
		}
	}

	return &cli.Command{
		Name:  "history",
		Usage: "Show past upload runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent runs",
				Flags: []cli.Flag{
					formatFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Only show runs authenticated via explicit, session or saved",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show the uploads of one run (by ID or run number)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "run"},
				},
				Flags:  []cli.Flag{formatFlag()},
				Action: r.HistoryShow,
			},
		},
	}
}
