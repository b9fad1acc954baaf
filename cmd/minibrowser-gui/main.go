package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"minibrowser/pkg/browser"
	"minibrowser/pkg/config"
	"minibrowser/pkg/resource"
	"minibrowser/pkg/text"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		cfg.Logging.ConsoleLogger.Level = "debug"
	}
	log := cfg.Logging.Prepare()
	defer func() { _ = log.Sync() }()

	faces, err := text.NewFaces(cfg.FontConfig())
	if err != nil {
		return fmt.Errorf("unable to load fonts: %w", err)
	}
	tab := browser.NewTab(resource.NewFetcher(log), faces, cfg.BrowserOptions(), log)

	start := cmd.Args().First()
	if len(start) == 0 {
		start = cfg.Home
	}
	log.Debug("Opening window", zap.String("url", start))

	w := newBrowserWindow(ctx, app.New(), tab, faces, log)
	w.navigate(start)
	w.window.ShowAndRun()
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "minibrowser-gui",
		Usage:     "browse pages in a window",
		ArgsUsage: "[URL]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log debug messages to the console"},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
		os.Exit(1)
	}
}
