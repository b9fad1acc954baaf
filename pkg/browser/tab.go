package browser

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"minibrowser/pkg/css"
	"minibrowser/pkg/html"
	"minibrowser/pkg/layout"
	"minibrowser/pkg/paint"
	"minibrowser/pkg/resource"
	"minibrowser/pkg/text"
	stdnet "minibrowser/std/net"
)

// Options describe the viewport a tab renders into.
type Options struct {
	Width      float64
	Height     float64
	HStep      float64
	VStep      float64
	ScrollStep float64
}

func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     600,
		HStep:      layout.DefaultHStep,
		VStep:      layout.DefaultVStep,
		ScrollStep: 100,
	}
}

// Tab holds one page: its DOM, geometry and display list, plus the scroll
// position and the history of visited URLs.
type Tab struct {
	fetcher resource.Fetcher
	engine  *layout.LayoutEngine
	opts    Options
	log     *zap.Logger

	url         *stdnet.URL
	history     []*stdnet.URL
	nodes       *html.Node
	document    *layout.Box
	displayList []paint.Command
	scroll      float64
}

func NewTab(fetcher resource.Fetcher, provider text.Provider, opts Options, log *zap.Logger) *Tab {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tab{
		fetcher: fetcher,
		engine: layout.NewLayoutEngine(provider,
			layout.WithMargins(opts.HStep, opts.VStep),
			layout.WithLogger(log)),
		opts: opts,
		log:  log.Named("tab"),
	}
}

// Load fetches u and runs the whole pipeline on it. Only a failure to fetch
// the page itself is returned; broken stylesheets are logged and skipped.
func (t *Tab) Load(ctx context.Context, u *stdnet.URL) error {
	body, err := resource.FetchText(ctx, t.fetcher, u)
	if err != nil {
		return fmt.Errorf("loading %s: %w", u, err)
	}
	t.url = u
	t.history = append(t.history, u)
	t.scroll = 0

	t.nodes = html.NewParser(body, t.log).Parse()

	rules := css.DefaultStylesheet()
	linked, err := t.linkedRules(ctx)
	if err != nil {
		t.log.Warn("Skipping stylesheets", zap.Stringer("url", u), zap.Error(err))
	}
	rules = append(rules, linked...)
	css.SortRules(rules)
	css.Style(t.nodes, rules)

	t.document = t.engine.Layout(t.nodes, t.opts.Width)
	t.displayList = paint.PaintTree(t.document, nil)

	t.log.Debug("Loaded page",
		zap.Stringer("url", u),
		zap.Int("rules", len(rules)),
		zap.Int("commands", len(t.displayList)),
		zap.Float64("height", t.document.Height))
	return nil
}

// linkedRules collects the rules of every <link rel=stylesheet>. Stylesheets
// that cannot be resolved or fetched are skipped and reported together.
func (t *Tab) linkedRules(ctx context.Context) ([]css.Rule, error) {
	var (
		rules []css.Rule
		errs  error
	)
	for _, node := range html.TreeToList(t.nodes, nil) {
		if !node.IsElement("link") || node.Attributes["rel"] != "stylesheet" {
			continue
		}
		href, ok := node.GetAttribute("href")
		if !ok {
			continue
		}
		u, err := t.url.Resolve(href)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		sheet, err := resource.FetchCSS(ctx, t.fetcher, u)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		rules = append(rules, css.NewParser(sheet, t.log).Parse()...)
	}
	return rules, errs
}

// Draw sends the commands visible at the current scroll position to sink.
// offset is the height of anything drawn above the page.
func (t *Tab) Draw(sink paint.Sink, offset float64) {
	paint.Draw(sink, t.displayList, t.scroll, offset, t.opts.Height)
}

func (t *Tab) maxScroll() float64 {
	if t.document == nil {
		return 0
	}
	return math.Max(t.document.Height+2*t.opts.VStep-t.opts.Height, 0)
}

// ScrollDown moves one step down, stopping where the page ends.
func (t *Tab) ScrollDown() {
	t.scroll = math.Min(t.scroll+t.opts.ScrollStep, t.maxScroll())
}

func (t *Tab) ScrollUp() {
	t.scroll = math.Max(t.scroll-t.opts.ScrollStep, 0)
}

// ScrollTo jumps to y, clamped to the scrollable range.
func (t *Tab) ScrollTo(y float64) {
	t.scroll = math.Max(math.Min(y, t.maxScroll()), 0)
}

// Click handles a click at viewport coordinates. A click on a link loads
// its target, or the default page when the href is malformed; anything else
// is ignored.
func (t *Tab) Click(ctx context.Context, x, y float64) error {
	if t.document == nil {
		return nil
	}
	link := paint.HitTest(t.document, x, y+t.scroll)
	if link == nil {
		return nil
	}
	href := link.Attributes["href"]
	target, err := t.url.Resolve(href)
	if err != nil {
		t.log.Warn("Following link to default page", zap.String("href", href), zap.Error(err))
		target = stdnet.ParseOrDefault(stdnet.DefaultURL)
	}
	t.log.Debug("Following link", zap.Stringer("url", target))
	return t.Load(ctx, target)
}

// Back returns to the previous page in history, if any.
func (t *Tab) Back(ctx context.Context) error {
	if len(t.history) < 2 {
		return nil
	}
	history := t.history
	previous := history[len(history)-2]
	t.history = history[:len(history)-2:len(history)-2]
	if err := t.Load(ctx, previous); err != nil {
		t.history = history
		return err
	}
	return nil
}

func (t *Tab) URL() *stdnet.URL { return t.url }

func (t *Tab) History() []*stdnet.URL { return t.history }

func (t *Tab) Nodes() *html.Node { return t.nodes }

func (t *Tab) Document() *layout.Box { return t.document }

func (t *Tab) DisplayList() []paint.Command { return t.displayList }

func (t *Tab) Scroll() float64 { return t.scroll }

func (t *Tab) Options() Options { return t.opts }
