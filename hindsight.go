package hindsight

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/raykavin/hindsight/pkg/core"
	"github.com/raykavin/hindsight/pkg/feed"
	"github.com/raykavin/hindsight/pkg/logger"
	"github.com/raykavin/hindsight/pkg/plot"
	"github.com/raykavin/hindsight/pkg/storage"

	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
)

// DefaultLog is the process-wide logger, configured from the environment.
var DefaultLog logger.Logger

// Document file names expected inside the data directory.
const (
	comparisonFile = "comparison.json"
	benchmarkFile  = "target_vs_sp500.json"
	hindsightFile  = "hindsight.json"
)

// Hindsight assembles the documents, session store and chart server.
type Hindsight struct {
	logger     logger.Logger
	cfg        core.RenderConfig
	store      storage.ViewStore
	port       int
	debug      bool
	investment float64
	holdings   []plot.Holding
	markers    []core.EventMarker

	comparison *core.ComparisonDocument
	pair       *core.BenchmarkPairDocument
	long       core.HindsightDocument
}

type Option func(*Hindsight)

// New creates the application with the provided options. Documents are
// loaded separately via LoadDocuments so a partially populated data
// directory still serves whatever panels it can.
func New(log logger.Logger, options ...Option) (*Hindsight, error) {
	cfg, err := core.NewRenderConfig(false)
	if err != nil {
		return nil, err
	}

	app := &Hindsight{
		logger:     log,
		cfg:        cfg,
		port:       8080,
		investment: 10000,
	}

	// Apply custom options
	for _, option := range options {
		option(app)
	}

	// Sessions live in memory; a page load starts from a clean slate
	// after every restart.
	if app.store == nil {
		app.store, err = storage.FromMemory()
		if err != nil {
			return nil, err
		}
	}

	return app, nil
}

// WithPort sets the chart server port.
func WithPort(port int) Option {
	return func(app *Hindsight) {
		app.port = port
	}
}

// WithDebug disables script minification on the served page.
func WithDebug() Option {
	return func(app *Hindsight) {
		app.debug = true
	}
}

// WithRenderConfig overrides animation and binning behavior.
func WithRenderConfig(cfg core.RenderConfig) Option {
	return func(app *Hindsight) {
		app.cfg = cfg
	}
}

// WithViewStore replaces the default in-memory session store.
func WithViewStore(store storage.ViewStore) Option {
	return func(app *Hindsight) {
		app.store = store
	}
}

// WithPortfolio sets the toy portfolio shown in the allocation panel.
func WithPortfolio(investment float64, holdings ...plot.Holding) Option {
	return func(app *Hindsight) {
		app.investment = investment
		app.holdings = holdings
	}
}

// WithMarkers annotates the comparison chart.
func WithMarkers(markers ...core.EventMarker) Option {
	return func(app *Hindsight) {
		app.markers = markers
	}
}

// WithLogLevel sets the log level. eg: logger.DebugLevel, logger.InfoLevel, logger.WarnLevel
func WithLogLevel(level logger.Level) Option {
	return func(app *Hindsight) {
		app.logger.SetLevel(level)
	}
}

// LoadDocuments reads whichever documents exist in dir. A missing file
// leaves its document nil and the matching panels empty.
func (h *Hindsight) LoadDocuments(dir string) error {
	var err error

	h.comparison, err = feed.ComparisonFromFile(filepath.Join(dir, comparisonFile))
	if err != nil {
		return fmt.Errorf("loading %s: %w", comparisonFile, err)
	}

	h.pair, err = feed.BenchmarkPairFromFile(filepath.Join(dir, benchmarkFile))
	if err != nil {
		return fmt.Errorf("loading %s: %w", benchmarkFile, err)
	}

	h.long, err = feed.HindsightFromFile(filepath.Join(dir, hindsightFile))
	if err != nil {
		return fmt.Errorf("loading %s: %w", hindsightFile, err)
	}

	h.logger.WithFields(map[string]any{
		"comparison": h.comparison != nil,
		"benchmark":  h.pair != nil,
		"hindsight":  h.long != nil,
	}).Info("documents loaded")

	return nil
}

// Serve builds the chart server from the loaded documents and blocks.
func (h *Hindsight) Serve() error {
	options := []plot.Option{
		plot.WithPort(h.port),
		plot.WithRenderConfig(h.cfg),
		plot.WithComparison(h.comparison),
		plot.WithBenchmarkPair(h.pair),
		plot.WithHindsight(h.long),
		plot.WithMarkers(h.markers...),
		plot.WithPortfolio(h.investment, h.holdings...),
		plot.WithViewStore(h.store),
	}
	if h.debug {
		h.logger.SetLevel(logger.DebugLevel)
		options = append(options, plot.WithDebug())
	}

	chart, err := plot.NewChart(h.logger, options...)
	if err != nil {
		return err
	}

	return chart.Start()
}

// Summary prints the per-stock metrics table and a terminal histogram of
// annualized returns to stdout.
func (h *Hindsight) Summary() error {
	if h.comparison == nil {
		return core.ErrMissingData
	}

	buffer := bytes.NewBuffer(nil)
	table := tablewriter.NewWriter(buffer)
	table.SetHeader([]string{"Symbol", "Name", "Sector", "Points", "Total", "Annualized", "Volatility"})
	table.SetFooterAlignment(tablewriter.ALIGN_RIGHT)

	bar := progressbar.Default(int64(len(h.comparison.Stocks)))

	var returns []float64
	totalPoints := 0
	for _, symbol := range feed.SortedSymbols(h.comparison.Stocks) {
		entry := h.comparison.Stocks[symbol]
		annualized := entry.Metrics.AnnualizedReturn * 100
		returns = append(returns, annualized)
		totalPoints += len(entry.Data)

		table.Append([]string{
			symbol,
			entry.Name,
			entry.Sector,
			strconv.Itoa(len(entry.Data)),
			fmt.Sprintf("%.1f %%", entry.Metrics.TotalReturn*100),
			fmt.Sprintf("%.1f %%", annualized),
			fmt.Sprintf("%.1f %%", entry.Metrics.Volatility*100),
		})

		if err := bar.Add(1); err != nil {
			h.logger.Warnf("update progressbar fail: %v", err)
		}
	}

	table.SetFooter([]string{
		"TOTAL",
		strconv.Itoa(len(h.comparison.Stocks)),
		"",
		strconv.Itoa(totalPoints),
		"",
		fmt.Sprintf("S&P %.1f %%", h.comparison.SP500.Metrics.AnnualizedReturn*100),
		"",
	})
	table.Render()

	fmt.Println(buffer.String())
	fmt.Println("------ ANNUALIZED RETURN -------")
	hist := histogram.Hist(15, returns)
	if err := histogram.Fprint(os.Stdout, hist, histogram.Linear(10)); err != nil {
		return err
	}
	fmt.Println()

	return nil
}

// Close releases the session store.
func (h *Hindsight) Close() error {
	return h.store.Close()
}
