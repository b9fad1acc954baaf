package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"minibrowser/pkg/browser"
	"minibrowser/pkg/config"
	"minibrowser/pkg/html"
	"minibrowser/pkg/layout"
	"minibrowser/pkg/render"
	"minibrowser/pkg/resource"
	"minibrowser/pkg/text"
	"minibrowser/pkg/visualtest"
	stdnet "minibrowser/std/net"
)

// pageURL picks the URL argument, or the configured home page. A locator
// that cannot be parsed falls back to the default page.
func pageURL(env *localEnv, cmd *cli.Command) *stdnet.URL {
	raw := cmd.Args().First()
	if len(raw) == 0 {
		raw = env.Cfg.Home
	}
	u, err := stdnet.Parse(raw)
	if err != nil {
		env.Log.Warn("Using default page", zap.String("requested", raw), zap.Error(err))
		return stdnet.ParseOrDefault(raw)
	}
	return u
}

// loadPage loads the page named on the command line into a new tab measured
// with the configured fonts.
func loadPage(ctx context.Context, cmd *cli.Command) (*browser.Tab, *text.Faces, error) {
	env := envFromContext(ctx)
	faces, err := text.NewFaces(env.Cfg.FontConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("unable to load fonts: %w", err)
	}
	tab := browser.NewTab(resource.NewFetcher(env.Log), faces, env.Cfg.BrowserOptions(), env.Log)
	if err := tab.Load(ctx, pageURL(env, cmd)); err != nil {
		return nil, nil, err
	}
	return tab, faces, nil
}

func renderPage(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	if cmd.Args().Len() > 2 {
		env.Log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	tab, faces, err := loadPage(ctx, cmd)
	if err != nil {
		return err
	}
	tab.ScrollTo(cmd.Float("scroll"))

	out := cmd.Args().Get(1)
	if len(out) == 0 {
		out = "page.png"
	}
	r := render.NewRenderer(env.Cfg.Viewport.Width, env.Cfg.Viewport.Height, faces)
	r.Clear()
	tab.Draw(r, 0)
	if err := r.SavePNG(out); err != nil {
		return fmt.Errorf("unable to save image: %w", err)
	}
	env.Log.Info("Rendered page", zap.Stringer("url", tab.URL()), zap.String("file", out), zap.Float64("scroll", tab.Scroll()))
	return nil
}

func printTree(ctx context.Context, cmd *cli.Command) error {
	tab, _, err := loadPage(ctx, cmd)
	if err != nil {
		return err
	}
	return html.PrintTree(cmd.Root().Writer, tab.Nodes(), cmd.Bool("styles"))
}

func printLayout(ctx context.Context, cmd *cli.Command) error {
	tab, _, err := loadPage(ctx, cmd)
	if err != nil {
		return err
	}
	return layout.PrintTree(cmd.Root().Writer, tab.Document())
}

func printDisplayList(ctx context.Context, cmd *cli.Command) error {
	tab, _, err := loadPage(ctx, cmd)
	if err != nil {
		return err
	}
	w := cmd.Root().Writer
	for _, c := range tab.DisplayList() {
		if _, err := fmt.Fprintln(w, c); err != nil {
			return err
		}
	}
	return nil
}

var errMismatch = errors.New("page does not match its reference")

func runReftest(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	if cmd.Args().Len() == 0 {
		return errors.New("missing test page")
	}
	faces, err := text.NewFaces(env.Cfg.FontConfig())
	if err != nil {
		return fmt.Errorf("unable to load fonts: %w", err)
	}
	h := &visualtest.Harness{
		Fetcher: resource.NewFetcher(env.Log),
		Faces:   faces,
		Options: env.Cfg.BrowserOptions(),
		Log:     env.Log,
	}

	test := pageURL(env, cmd)
	var reference *stdnet.URL
	if raw := cmd.Args().Get(1); len(raw) > 0 {
		if reference, err = stdnet.Parse(raw); err != nil {
			return err
		}
	}
	diffFile := cmd.String("diff")
	result, err := h.Reftest(ctx, test, reference, visualtest.Options{
		Tolerance:   int(cmd.Int("tolerance")),
		FuzzyRadius: int(cmd.Int("fuzzy")),
		Diff:        len(diffFile) > 0,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "%s: %d of %d pixels differ (max difference %d)\n",
		test, result.DifferentPixels, result.TotalPixels, result.MaxDifference)
	if result.Diff != nil && !result.Match {
		if err := writeDiff(diffFile, result.Diff); err != nil {
			return err
		}
	}
	if !result.Match {
		return errMismatch
	}
	return nil
}

func writeDiff(fname string, img image.Image) error {
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("unable to create diff image: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("unable to write diff image: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to write diff image: %w", err)
	}
	return nil
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	var (
		data  []byte
		err   error
		state string
	)
	if cmd.Bool("default") {
		state = "default"
		data = config.Default()
	} else {
		state = "actual"
		if data, err = config.Dump(env.Cfg); err != nil {
			return fmt.Errorf("unable to get configuration: %w", err)
		}
	}

	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		_, err = cmd.Root().Writer.Write(data)
		fname = "STDOUT"
	} else {
		err = os.WriteFile(fname, data, 0o644)
	}
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	env.Log.Debug("Wrote configuration", zap.String("state", state), zap.String("file", fname))
	return nil
}
