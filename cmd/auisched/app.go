package main

import (
	"github.com/urfave/cli"
)

func run(args []string) error {
	app := cli.NewApp()
	app.Name = "auisched"
	app.HelpName = "auisched"
	app.Usage = "register agent team schedules with the native OS scheduler"
	app.Version = version
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "path to config file (yaml or json)",
		},
		cli.StringFlag{
			Name:  "project, p",
			Value: ".",
			Usage: "project root holding the .aui manifest",
		},
		cli.StringFlag{
			Name:  "platform",
			Value: "auto",
			Usage: "script/scheduler target: auto, posix, windows",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "create",
			Usage:     "create a schedule: write its script, register the OS task, persist the record",
			ArgsUsage: " ",
			Action:    createAction,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "team-name, team", Usage: "team display name (required)"},
				cli.StringFlag{Name: "team-id", Usage: "stable team identifier"},
				cli.StringFlag{Name: "cron", Usage: "5-field cron expression (required)"},
				cli.StringFlag{Name: "prompt", Usage: "prompt passed to the agent at fire time"},
				cli.StringFlag{Name: "primer-file", Usage: "file whose contents become the primer (- for stdin)"},
				cli.StringFlag{Name: "deploy-script", Usage: "existing script to run instead of the agent (pipeline mode)"},
			},
		},
		{
			Name:    "list",
			Aliases: []string{"ls"},
			Usage:   "print the project's schedule records",
			Action:  listAction,
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "json", Usage: "emit the raw manifest JSON"},
			},
		},
		{
			Name:      "toggle",
			Usage:     "enable or disable a schedule by id",
			ArgsUsage: "<id>",
			Action:    toggleAction,
		},
		{
			Name:      "delete",
			Aliases:   []string{"rm"},
			Usage:     "remove a schedule and its OS task",
			ArgsUsage: "<id>",
			Action:    deleteAction,
		},
		{
			Name:   "tasks",
			Usage:  "print the raw OS scheduler listing for our tasks",
			Action: tasksAction,
		},
		{
			Name:      "run",
			Usage:     "open a schedule's script in an interactive terminal now",
			ArgsUsage: "<id>",
			Action:    runAction,
		},
		{
			Name:      "next",
			Usage:     "print the translated start time and next fire time of a cron expression",
			ArgsUsage: "<cron>",
			Action:    nextAction,
		},
		{
			Name:  "config",
			Usage: "inspect the effective configuration",
			Subcommands: []cli.Command{
				{
					Name:   "show",
					Usage:  "print the effective config as JSON",
					Action: configShowAction,
				},
				{
					Name:   "watch",
					Usage:  "follow the config file and print each reload until interrupted",
					Action: configWatchAction,
				},
			},
		},
	}
	return app.Run(args)
}
