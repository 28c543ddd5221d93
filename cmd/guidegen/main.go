package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/guidegen/internal"
	"github.com/starford/guidegen/internal/apperr"
	pkgconfig "github.com/starford/guidegen/pkg/config"
)

const argsUsage = "ROOT_MD OUTPUT_DIR"

type runFunc func(ctx context.Context, rootPath, outputDir string, opts ...internal.Option) error

func action(name string, run runFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() != 2 {
			fmt.Fprintf(os.Stderr, "Usage: %s %s\n", name, argsUsage)
			return apperr.ErrUsage
		}

		cfg := internal.NewDefaultConfig()
		if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}

		rootPath, outputDir := cmd.Args().Get(0), cmd.Args().Get(1)
		if err := run(ctx, rootPath, outputDir, internal.WithConfig(cfg)); err != nil {
			return fmt.Errorf("generate error: %w", err)
		}
		return nil
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "guidegen",
		Usage:     "Convert a markdown developer guide into a static JSON API, index page, and MCP manifest",
		ArgsUsage: argsUsage,
		Action:    action("guidegen", internal.Run),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "guidegen.yaml",
				Value:       "guidegen.yaml",
				Sources:     cli.EnvVars("GUIDEGEN_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "watch",
				Usage:     "Generate, then regenerate whenever the sources change",
				ArgsUsage: argsUsage,
				Action:    action("guidegen watch", internal.Watch),
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
