package main

import (
	"context"
	"os"

	"github.com/questx-lab/agora/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	s := &srv{ctx: context.Background()}

	app := cli.NewApp()
	app.Name = "agora"
	app.Usage = "Social discussion backend"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path of the TOML configuration file",
			EnvVars: []string{"AGORA_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "token-secret",
			Usage:   "overrides auth.TokenSecret",
			EnvVars: []string{"AGORA_TOKEN_SECRET"},
		},
		&cli.StringFlag{
			Name:    "db-password",
			Usage:   "overrides database.Password",
			EnvVars: []string{"AGORA_DB_PASSWORD"},
		},
	}
	app.Before = s.loadConfig
	app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Serves every HTTP api. Without a Kafka broker, it also serves the notification websocket.`,
		},
		{
			Action:      s.startNotification,
			Name:        "notification",
			Usage:       "Start service notification",
			Category:    "Websocket",
			Description: `Consumes the notification topic and pushes notifications to websocket sessions.`,
		},
		{
			Action:   s.startMigrate,
			Name:     "migrate",
			Usage:    "Migrate the database",
			Category: "Database",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "version",
					Usage: "run only this migration version, even if it has been applied before",
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.NewLogger(logger.ERROR).Errorf("%v", err)
		os.Exit(1)
	}
}
