package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/PrLayt0n/FiLeaked/cmd/app/commands"
	"github.com/PrLayt0n/FiLeaked/internal/app"
	"github.com/PrLayt0n/FiLeaked/internal/config"
)

func typeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "type",
		Aliases: []string{"t"},
		Usage:   "File type (pdf, png, txt); detected from the extension when omitted",
	}
}

func getFingerprintCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "embed",
			Usage: "Write a fingerprinted copy of a document",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "Document to fingerprint"},
				&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output path (default: <name>_<copy><ext> next to the input)"},
				&cli.Uint64Flag{Name: "copy-id", Aliases: []string{"c"}, Required: true, Usage: "Copy reference (positive)"},
				&cli.Uint64Flag{Name: "distribution-id", Aliases: []string{"d"}, Usage: "Distribution reference (0 when unknown)"},
				typeFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				logger := container.Logger()
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.FingerprintUseCase()
				if err != nil {
					return err
				}

				return commands.RunEmbed(ctx, useCase, logger, commands.EmbedOptions{
					InputPath:      cmd.String("input"),
					OutputPath:     cmd.String("output"),
					DistributionID: cmd.Uint64("distribution-id"),
					CopyID:         cmd.Uint64("copy-id"),
					FileType:       cmd.String("type"),
				}, commands.DefaultIO())
			},
		},
		{
			Name:  "identify",
			Usage: "Find the fingerprint in a suspect file",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "Suspect file"},
				typeFlag(),
				&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "Output format: 'text' or 'json'"},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				logger := container.Logger()
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.FingerprintUseCase()
				if err != nil {
					return err
				}

				return commands.RunIdentify(
					ctx,
					useCase,
					logger,
					cmd.String("input"),
					cmd.String("type"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "distribute",
			Usage: "Write one fingerprinted copy per recipient",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "Document to distribute"},
				&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Required: true, Usage: "Directory for the copies"},
				&cli.Uint64Flag{Name: "distribution-id", Aliases: []string{"d"}, Required: true, Usage: "Distribution reference"},
				&cli.IntFlag{Name: "copies", Aliases: []string{"n"}, Usage: "Number of copies, numbered 1..n"},
				&cli.StringFlag{Name: "copy-ids", Usage: "Comma separated copy references (instead of --copies)"},
				&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Concurrent embeds (default DISTRIBUTE_WORKERS)"},
				typeFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				copyRefs, err := commands.ParseCopyRefs(int(cmd.Int("copies")), cmd.String("copy-ids"))
				if err != nil {
					return err
				}

				cfg := config.Load()
				if workers := int(cmd.Int("workers")); workers > 0 {
					cfg.DistributeWorkers = workers
				}
				container := app.NewContainer(cfg)
				logger := container.Logger()
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.FingerprintUseCase()
				if err != nil {
					return err
				}

				return commands.RunDistribute(ctx, useCase, logger, commands.DistributeOptions{
					InputPath:      cmd.String("input"),
					OutputDir:      cmd.String("output-dir"),
					DistributionID: cmd.Uint64("distribution-id"),
					CopyRefs:       copyRefs,
					FileType:       cmd.String("type"),
				}, commands.DefaultIO())
			},
		},
	}
}
