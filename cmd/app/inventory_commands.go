package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/wingedsheep/eco-logique/cmd/app/commands"
	"github.com/wingedsheep/eco-logique/internal/app"
	"github.com/wingedsheep/eco-logique/internal/config"
)

func getInventoryCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "seed-stock",
			Usage: "Set on-hand stock for products in warehouses",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:     "item",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Stock entry as product:warehouse:quantity, repeatable",
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

				inventoryUseCase, err := container.InventoryUseCase()
				if err != nil {
					return err
				}

				return commands.RunSeedStock(
					ctx,
					inventoryUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.StringSlice("item"),
					cmd.String("format"),
				)
			},
		},
	}
}
