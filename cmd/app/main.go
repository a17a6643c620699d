package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/velikov/donefold/internal"
	pkgconfig "github.com/velikov/donefold/pkg/config"
)

const defaultConfigPath = "config/config.yaml"

// loadConfig reads the config file named by the --config flag. When the flag
// is left at its default and the file does not exist, the built-in defaults
// are used so one-shot commands work without any configuration.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	path := cmd.String("config")

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !cmd.IsSet("config") {
		return cfg, nil
	}

	if err := pkgconfig.Load(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runAggregate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunAggregate(ctx, cfg, cmd.String("report-file"), cmd.String("done-file"), os.Stdout)
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, cfg)
}

func runReadStats(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunReadStats(ctx, cfg)
}

func main() {
	cmd := &cli.Command{
		Name:  "donefold",
		Usage: "Fold a Done journal into weekly Markdown reports, with history and live preview",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: defaultConfigPath,
				Value:       defaultConfigPath,
				Sources:     cli.EnvVars("DONEFOLD_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "aggregate",
				Usage:  "Merge one week's Done entries into a weekly report",
				Action: runAggregate,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "report-file",
						Aliases:  []string{"r"},
						Usage:    "Report path relative to the journal root (week number is taken from the filename)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "done-file",
						Aliases: []string{"d"},
						Usage:   "Done journal path relative to the journal root (defaults to the configured one)",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Run the live-preview API server with a journal watcher",
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "Run the MCP stdio server",
				Action: runMCP,
			},
			{
				Name:   "readstats",
				Usage:  "Fetch reading-list statistics",
				Action: runReadStats,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
