package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"minibrowser/pkg/config"
)

// initializeAppContext loads configuration and prepares the logger after the
// command line has been parsed.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	env := envFromContext(ctx)

	configFile := cmd.String("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		cfg.Logging.ConsoleLogger.Level = "debug"
	}
	env.Cfg = cfg
	env.Log = cfg.Logging.Prepare()
	env.redirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	env.Log.Debug("Program ended", zap.Duration("elapsed", env.uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	env.restoreLog()
	return nil
}

// Errors from subcommands are logged here, before the logger is closed.
var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := envFromContext(ctx)
	if env.Cfg != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            "minibrowser",
		Usage:           "a small web browser: fetch, parse, style, lay out and paint pages",
		Version:         "1.0 (" + runtime.Version() + ")",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log debug messages to the console"},
		},
		Commands: []*cli.Command{
			{
				Name:         "render",
				Usage:        "Renders a page to a PNG image the size of the viewport",
				OnUsageError: usageErrorHandler,
				Action:       renderPage,
				ArgsUsage:    "[URL] [DESTINATION]",
				Flags: []cli.Flag{
					&cli.FloatFlag{Name: "scroll", Aliases: []string{"s"}, Usage: "scroll the page down by `PIXELS` before painting"},
				},
			},
			{
				Name:         "tree",
				Usage:        "Prints the document tree of a page",
				OnUsageError: usageErrorHandler,
				Action:       printTree,
				ArgsUsage:    "[URL]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "styles", Usage: "print the resolved style of every node"},
				},
			},
			{
				Name:         "layout",
				Usage:        "Prints the layout tree of a page",
				OnUsageError: usageErrorHandler,
				Action:       printLayout,
				ArgsUsage:    "[URL]",
			},
			{
				Name:         "display-list",
				Usage:        "Prints the paint commands of a page",
				OnUsageError: usageErrorHandler,
				Action:       printDisplayList,
				ArgsUsage:    "[URL]",
			},
			{
				Name:         "reftest",
				Usage:        "Renders a test page and its reference page and compares the images",
				OnUsageError: usageErrorHandler,
				Action:       runReftest,
				ArgsUsage:    "TEST [REFERENCE]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "tolerance", Value: 2, Usage: "largest per-channel `DIFFERENCE` still counted as equal"},
					&cli.IntFlag{Name: "fuzzy", Usage: "let pixels match within `RADIUS` pixels"},
					&cli.StringFlag{Name: "diff", Usage: "write an image marking mismatched pixels to `FILE`"},
				},
				CustomHelpTemplate: fmt.Sprintf(`%s
TEST:
    page to check
REFERENCE:
    page it must look like, if absent - the href of <link rel="match"> in TEST
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "dumpconfig",
				Usage:        "Dumps either default or actual configuration (YAML)",
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "[DESTINATION]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(contextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	var err error
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = newApp().Run(ctx, os.Args)
}
