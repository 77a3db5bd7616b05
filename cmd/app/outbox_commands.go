package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/wingedsheep/eco-logique/cmd/app/commands"
	"github.com/wingedsheep/eco-logique/internal/app"
	"github.com/wingedsheep/eco-logique/internal/config"
)

func getOutboxCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "clean-outbox",
			Usage: "Delete processed outbox events older than specified days",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "days",
					Aliases:  []string{"d"},
					Required: true,
					Usage:    "Delete processed events older than this many days",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many events would be deleted without deleting",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				maintenanceUseCase, err := container.MaintenanceUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanOutbox(
					ctx,
					maintenanceUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("days")),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "requeue-outbox",
			Usage: "Return failed outbox events to pending so they are delivered again",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Usage:   "Outbox event ID (UUID), repeatable",
				},
				&cli.BoolFlag{
					Name:    "all",
					Aliases: []string{"a"},
					Value:   false,
					Usage:   "Requeue every failed event",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				maintenanceUseCase, err := container.MaintenanceUseCase()
				if err != nil {
					return err
				}

				return commands.RunRequeueOutbox(
					ctx,
					maintenanceUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.StringSlice("id"),
					cmd.Bool("all"),
					cmd.String("format"),
				)
			},
		},
	}
}
