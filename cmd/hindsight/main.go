package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/raykavin/hindsight"
	"github.com/raykavin/hindsight/pkg/core"
	"github.com/raykavin/hindsight/pkg/plot"
	"github.com/raykavin/hindsight/pkg/synthetic"
	"github.com/spf13/cobra"
)

// Command line flags
var (
	// Serve command flags
	dataDir       string
	port          int
	debug         bool
	reducedMotion bool

	// Generate command flags
	seed       int64
	candles    int
	outputFile string
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:     "hindsight",
		Short:   "Interactive stock performance visualizations",
		Version: "1.0.0",
	}

	// Add commands
	rootCmd.AddCommand(buildServeCmd())
	rootCmd.AddCommand(buildInspectCmd())
	rootCmd.AddCommand(buildGenerateCmd())

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the visualization page",
		RunE:  runServe,
	}

	serveCmd.Flags().StringVarP(&dataDir, "data", "d", "./data", "Directory holding the JSON documents")
	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP port")
	serveCmd.Flags().BoolVar(&debug, "debug", false, "Disable script minification and raise log level")
	serveCmd.Flags().BoolVar(&reducedMotion, "reduced-motion", false, "Halve all animation durations")

	return serveCmd
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.LoadDocuments(dataDir); err != nil {
		return err
	}

	return app.Serve()
}

func buildInspectCmd() *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print per-stock metrics and a return distribution",
		RunE:  runInspect,
	}

	inspectCmd.Flags().StringVarP(&dataDir, "data", "d", "./data", "Directory holding the JSON documents")

	return inspectCmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.LoadDocuments(dataDir); err != nil {
		return err
	}

	return app.Summary()
}

func buildGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic OHLC path",
		RunE:  runGenerate,
	}

	generateCmd.Flags().Int64VarP(&seed, "seed", "s", 42, "Random seed")
	generateCmd.Flags().IntVarP(&candles, "candles", "n", 120, "Number of candles")
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (e.g. ./path.csv)")

	generateCmd.MarkFlagRequired("output")

	return generateCmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	gen := synthetic.NewGenerator(seed, synthetic.DefaultConfig())

	file, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"open", "high", "low", "close"}); err != nil {
		return err
	}

	for _, c := range gen.Path(candles) {
		record := []string{
			strconv.FormatFloat(c.Open, 'f', 4, 64),
			strconv.FormatFloat(c.High, 'f', 4, 64),
			strconv.FormatFloat(c.Low, 'f', 4, 64),
			strconv.FormatFloat(c.Close, 'f', 4, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	hindsight.DefaultLog.Infof("wrote %d candles to %s", candles, outputFile)
	return nil
}

func newApp() (*hindsight.Hindsight, error) {
	cfg, err := core.NewRenderConfig(reducedMotion)
	if err != nil {
		return nil, err
	}

	options := []hindsight.Option{
		hindsight.WithPort(port),
		hindsight.WithRenderConfig(cfg),
		hindsight.WithPortfolio(10000,
			plot.Holding{ID: "Tech", Weight: 0.4, ReturnPct: 0.82},
			plot.Holding{ID: "Health", Weight: 0.25, ReturnPct: 0.31},
			plot.Holding{ID: "Energy", Weight: 0.2, ReturnPct: -0.12},
			plot.Holding{ID: "Bonds", Weight: 0.15, ReturnPct: 0.05},
		),
	}
	if debug {
		options = append(options, hindsight.WithDebug())
	}

	return hindsight.New(hindsight.DefaultLog, options...)
}
