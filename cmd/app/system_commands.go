package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/PrLayt0n/FiLeaked/cmd/app/commands"
	"github.com/PrLayt0n/FiLeaked/internal/app"
	"github.com/PrLayt0n/FiLeaked/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP API and metrics servers",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "create-master-secret",
			Usage: "Generate a new MASTER_SECRET, optionally wrapped with a KMS key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-provider",
					Usage: "KMS provider (localsecrets, gcpkms, awskms, azurekeyvault, hashivault)",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Usage: "KMS key URI (e.g., base64key://..., gcpkms://projects/.../cryptoKeys/...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateMasterSecret(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("kms-provider"),
					cmd.String("kms-key-uri"),
				)
			},
		},
	}
}
