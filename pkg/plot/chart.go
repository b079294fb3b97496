package plot

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/raykavin/hindsight/pkg/core"
	"github.com/raykavin/hindsight/pkg/feed"
	"github.com/raykavin/hindsight/pkg/logger"
	"github.com/raykavin/hindsight/pkg/storage"
)

// Static assets embedded in the binary
var (
	//go:embed assets
	staticFiles embed.FS
)

// Default canvas used until a session reports its measured viewport.
const (
	defaultViewWidth  = 960.0
	defaultViewHeight = 540.0
)

// Chart serves the page and renders every visualization panel from the
// loaded documents plus per-session view state.
type Chart struct {
	sync.Mutex
	port  int
	debug bool
	log   logger.Logger
	cfg   core.RenderConfig

	comparison *core.ComparisonDocument
	pair       *core.BenchmarkPairDocument
	hindsight  core.HindsightDocument
	markers    []core.EventMarker
	holdings   []Holding
	investment float64
	revealSeed int64

	sessions      storage.ViewStore
	scriptContent string
	indexHTML     *template.Template
	lastUpdate    time.Time
}

// Option defines a function type for configuring a Chart instance
type Option func(*Chart)

// WithPort sets the HTTP server port
func WithPort(port int) Option {
	return func(chart *Chart) {
		chart.port = port
	}
}

// WithDebug enables debug mode (disables script minification)
func WithDebug() Option {
	return func(chart *Chart) {
		chart.debug = true
	}
}

// WithRenderConfig sets the device/behavior configuration.
func WithRenderConfig(cfg core.RenderConfig) Option {
	return func(chart *Chart) {
		chart.cfg = cfg
	}
}

// WithComparison loads the all-stocks comparison document.
func WithComparison(doc *core.ComparisonDocument) Option {
	return func(chart *Chart) {
		chart.comparison = doc
	}
}

// WithBenchmarkPair loads the two pre-aligned normalized series.
func WithBenchmarkPair(doc *core.BenchmarkPairDocument) Option {
	return func(chart *Chart) {
		chart.pair = doc
	}
}

// WithHindsight loads the long-series document.
func WithHindsight(doc core.HindsightDocument) Option {
	return func(chart *Chart) {
		chart.hindsight = doc
	}
}

// WithMarkers annotates the comparison chart with event markers.
func WithMarkers(markers ...core.EventMarker) Option {
	return func(chart *Chart) {
		chart.markers = markers
	}
}

// WithPortfolio sets the toy portfolio for the allocation panel.
func WithPortfolio(investment float64, holdings ...Holding) Option {
	return func(chart *Chart) {
		chart.investment = investment
		chart.holdings = holdings
	}
}

// WithRevealSeed seeds the synthetic background path.
func WithRevealSeed(seed int64) Option {
	return func(chart *Chart) {
		chart.revealSeed = seed
	}
}

// WithViewStore sets the session state store.
func WithViewStore(store storage.ViewStore) Option {
	return func(chart *Chart) {
		chart.sessions = store
	}
}

// NewChart creates a new chart instance with the provided options
func NewChart(log logger.Logger, options ...Option) (*Chart, error) {
	cfg, err := core.NewRenderConfig(false)
	if err != nil {
		return nil, err
	}

	chart := &Chart{
		port:       8080,
		log:        log,
		cfg:        cfg,
		investment: 10000,
		revealSeed: 42,
		lastUpdate: time.Now(),
	}

	// Apply all options
	for _, option := range options {
		option(chart)
	}

	if chart.sessions == nil {
		chart.sessions, err = storage.FromMemory()
		if err != nil {
			return nil, fmt.Errorf("failed to open session store: %w", err)
		}
	}

	// Parse chart HTML template
	chart.indexHTML, err = template.ParseFS(staticFiles, "assets/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse chart template: %w", err)
	}

	// Read and transpile chart JavaScript
	chartJS, err := staticFiles.ReadFile("assets/js/main.js")
	if err != nil {
		return nil, fmt.Errorf("failed to read main.js: %w", err)
	}

	transpileChartJS := api.Transform(string(chartJS), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2015,
		MinifySyntax:      !chart.debug,
		MinifyIdentifiers: !chart.debug,
		MinifyWhitespace:  !chart.debug,
	})

	if len(transpileChartJS.Errors) > 0 {
		return nil, fmt.Errorf("chart script failed with: %v", transpileChartJS.Errors)
	}

	chart.scriptContent = string(transpileChartJS.Code)

	return chart, nil
}

// GetPort returns the configured port
func (c *Chart) GetPort() int {
	return c.port
}

// RegisterHandlers registers all necessary handlers on the HTTP server
func (c *Chart) RegisterHandlers(server HTTPServer) {
	// Register static file handler
	server.RegisterFileServer("/assets/", http.FS(staticFiles))

	// Serve the transpiled script over the raw embedded source
	server.RegisterHandler("/assets/main.js", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		fmt.Fprint(w, c.scriptContent)
	})

	// Register API handlers
	server.RegisterHandler("/health", c.handleHealth)
	server.RegisterHandler("/api/comparison", c.handleComparison)
	server.RegisterHandler("/api/benchmark", c.handleBenchmark)
	server.RegisterHandler("/api/hindsight", c.handleHindsight)
	server.RegisterHandler("/api/brush", c.handleBrush)
	server.RegisterHandler("/api/reset", c.handleReset)
	server.RegisterHandler("/api/hover", c.handleHover)
	server.RegisterHandler("/api/zoom", c.handleZoom)
	server.RegisterHandler("/api/breadcrumb", c.handleBreadcrumb)
	server.RegisterHandler("/api/mode", c.handleMode)
	server.RegisterHandler("/api/scroll", c.handleScroll)
	server.RegisterHandler("/api/viewport", c.handleViewport)
	server.RegisterHandler("/svg/", c.handleSVG)
	server.RegisterHandler("/", c.handleIndex)
}

// Start registers the handlers on a standard server and serves.
func (c *Chart) Start() error {
	server := NewStandardHTTPServer()
	c.RegisterHandlers(server)

	c.log.Infof("chart server listening on :%d", c.port)
	return server.Start(c.port)
}

// session loads a session's view state, starting fresh when absent.
func (c *Chart) session(id string) *storage.ViewState {
	if id == "" {
		id = "default"
	}

	state, err := c.sessions.Get(id)
	if err != nil {
		return &storage.ViewState{
			SessionID: id,
			Width:     defaultViewWidth,
			Height:    defaultViewHeight,
		}
	}
	return state
}

func (c *Chart) saveSession(state *storage.ViewState) {
	if err := c.sessions.Save(state); err != nil {
		c.log.WithError(err).Warn("failed to save view state")
	}
}

func (c *Chart) viewport(state *storage.ViewState) core.ViewportGeometry {
	width, height := state.Width, state.Height
	if width <= 0 {
		width = defaultViewWidth
	}
	if height <= 0 {
		height = defaultViewHeight
	}

	return core.ViewportGeometry{
		Width:   width,
		Height:  height,
		Margins: core.DefaultMargins(),
	}
}

// timeSeries rebuilds the comparison renderer from the benchmark pair
// and the session's zoom state. Returns nil when the document is absent.
func (c *Chart) timeSeries(state *storage.ViewState) *TimeSeries {
	if c.pair == nil {
		return nil
	}

	target := feed.SeriesFromEntry("target", "#1f77b4", c.pair.TargetStock)
	index := feed.SeriesFromEntry("sp500", "#ff7f0e", c.pair.SP500)

	ts := NewTimeSeries(c.log, c.cfg, target, index, c.markers, c.viewport(state))
	if state.ZoomFrom != nil && state.ZoomTo != nil {
		ts.RestoreZoom(*state.ZoomFrom, *state.ZoomTo)
	}
	return ts
}

// histogram rebuilds the returns distribution around the index's
// annualized return. Returns nil when the document is absent.
func (c *Chart) histogram(state *storage.ViewState) *Histogram {
	if c.comparison == nil {
		return nil
	}

	var samples []HistSample
	for _, symbol := range feed.SortedSymbols(c.comparison.Stocks) {
		samples = append(samples, HistSample{
			ID:    symbol,
			Value: c.comparison.Stocks[symbol].Metrics.AnnualizedReturn * 100,
		})
	}

	benchmark := c.comparison.SP500.Metrics.AnnualizedReturn * 100
	return NewHistogram(c.log, c.cfg, c.viewport(state), samples, benchmark)
}

// marketMap rebuilds the navigator from the comparison stocks and the
// session's focus path. Returns nil when the document is absent.
func (c *Chart) marketMap(state *storage.ViewState) *Navigator {
	if c.comparison == nil {
		return nil
	}

	// Map iteration order must not leak into the layout: the tiling has
	// to reproduce bit-for-bit across rebuilds.
	var records []LeafRecord
	for _, symbol := range feed.SortedSymbols(c.comparison.Stocks) {
		entry := c.comparison.Stocks[symbol]
		records = append(records, LeafRecord{
			Symbol:        symbol,
			Sector:        entry.Sector,
			Industry:      entry.Industry,
			Value:         entry.Metrics.MarketCap,
			ReturnPct:     entry.Metrics.AnnualizedReturn * 100,
			VolatilityPct: entry.Metrics.Volatility * 100,
			MarketCap:     entry.Metrics.MarketCap,
		})
	}

	benchmark := c.comparison.SP500.Metrics.AnnualizedReturn * 100
	nav := NewNavigator(c.log, c.cfg, c.viewport(state), records, benchmark)
	nav.RestoreFocus(state.FocusPath)
	return nav
}

// allocation rebuilds the portfolio chart in the session's mode.
func (c *Chart) allocation(state *storage.ViewState) *Allocation {
	if len(c.holdings) == 0 {
		return nil
	}

	alloc, err := NewAllocation(c.log, c.cfg, c.viewport(state), c.holdings, c.investment)
	if err != nil {
		c.log.WithError(err).Warn("invalid portfolio")
		return nil
	}

	if state.Calculated {
		alloc.SetCalculated(true)
	}
	return alloc
}

// reveal rebuilds the scroll background at the session's progress.
func (c *Chart) reveal(state *storage.ViewState) *Reveal {
	r := NewReveal(c.log, c.cfg, c.viewport(state), c.revealSeed, 120)
	r.progress = state.Scroll
	return r
}
