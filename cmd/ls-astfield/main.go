// Command ls-astfield assigns positions to artificial star lists: spread
// across metric-binned sky tiles, or ringed around real catalog stars.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-astfield/internal/campaign"
	"github.com/litescript/ls-astfield/internal/logging"
	"github.com/litescript/ls-astfield/internal/place"
	"github.com/litescript/ls-astfield/internal/skymap"
	"github.com/litescript/ls-astfield/internal/table"
	"github.com/litescript/ls-astfield/internal/ui"
	"github.com/litescript/ls-astfield/internal/version"
	"github.com/litescript/ls-astfield/internal/wcs"
)

// CLI flags
var (
	mode        string
	starsPath   string
	mapPath     string
	nBins       int
	nRealize    int
	refPath     string
	outPath     string
	catalogPath string
	astsPath    string
	separation  float64
	maxAttempts int
	seed        int64
	summaryMode bool
	tuiMode     bool
	showVersion bool
)

func main() {
	flag.StringVar(&mode, "mode", "", "Placement mode: background, density or neighbor")
	flag.StringVar(&starsPath, "stars", "", "Star/SED table to place (map modes)")
	flag.StringVar(&mapPath, "map", "", "Tile map table (map modes)")
	flag.IntVar(&nBins, "bins", 0, "Number of metric bins (map modes)")
	flag.IntVar(&nRealize, "nrealize", 1, "Realizations per star per bin")
	flag.StringVar(&refPath, "ref", "", "Reference image header for sky-to-pixel conversion")
	flag.StringVar(&outPath, "out", "", "Output table path (map modes; empty writes to stdout)")
	flag.StringVar(&catalogPath, "catalog", "", "Real source catalog (neighbor mode)")
	flag.StringVar(&astsPath, "asts", "", "AST magnitude table, rewritten in place (neighbor mode)")
	flag.Float64Var(&separation, "separation", 5, "Annulus inner radius in pixels (neighbor mode)")
	flag.IntVar(&maxAttempts, "max-attempts", place.DefaultMaxDrawAttempts, "Retry budget per row for off-image draws")
	flag.Int64Var(&seed, "seed", 0, "RNG seed (0 seeds from the clock)")
	flag.BoolVar(&summaryMode, "summary", false, "Print the map bin summary and exit (map modes)")
	flag.BoolVar(&tuiMode, "tui", false, "Show the progress TUI (TTY only)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	if showVersion {
		fmt.Printf("ls-astfield %s\n", version.Version)
		return
	}

	logger := logging.New(logging.ParseLevel(*logLevel))

	if err := run(logger); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run(logger *logging.Logger) error {
	src := seed
	if src == 0 {
		src = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(src))
	logger.Debug("rng seed %d", src)

	switch mode {
	case "background", "density":
		return runMapMode(rng, logger.With(mode))
	case "neighbor":
		return runNeighbor(rng, logger.With(mode))
	case "":
		return fmt.Errorf("missing -mode: want background, density or neighbor")
	default:
		return fmt.Errorf("unknown mode %q: want background, density or neighbor", mode)
	}
}

// runMapMode spreads the input stars across metric-binned map tiles and
// writes the placed table to -out or stdout.
func runMapMode(rng *rand.Rand, log *logging.Logger) error {
	if mapPath == "" {
		return fmt.Errorf("%s mode needs -map", mode)
	}
	if nBins < 1 {
		return fmt.Errorf("%s mode needs -bins, at least 1", mode)
	}

	metric := skymap.MetricBackground
	if mode == "density" {
		metric = skymap.MetricSourceDensity
	}

	m, err := loadMap(metric, log)
	if err != nil {
		return err
	}

	if summaryMode {
		bounds, err := skymap.LinearBins(m.Values(), nBins)
		if err != nil {
			return err
		}
		sets := skymap.GroupTiles(skymap.Digitize(m.Values(), bounds), nBins)
		skymap.WriteSummary(os.Stdout, m, bounds, sets)
		return nil
	}

	if starsPath == "" {
		return fmt.Errorf("%s mode needs -stars", mode)
	}
	stars, err := table.ReadFile(starsPath)
	if err != nil {
		return err
	}

	ref, err := loadConverter(log)
	if err != nil {
		return err
	}

	s := skymap.Summarize(m)
	log.Info("metric %s: min %.4g median %.4g max %.4g", m.Metric, s.Min, s.Median, s.Max)
	log.Info("placing %d stars × %d realizations per bin", stars.NumRows(), nRealize)

	mgr := campaign.NewManager(campaign.DefaultConfig())
	opts := place.Options{
		Nrealize:        nRealize,
		Ref:             ref,
		RNG:             rng,
		MaxDrawAttempts: maxAttempts,
		Progress: func(p place.Progress) {
			mgr.Report(p)
			log.Debug("bin %d/%d done, %d/%d rows", p.Bin+1, p.Bins, p.RowsDone, p.RowsTotal)
		},
	}

	placeOnce := func() (*table.Table, error) {
		mgr.Start()
		mgr.SetPhase(campaign.PhaseBinning)
		out, err := placeStars(stars, m, opts)
		if err == nil && outPath != "" {
			mgr.SetPhase(campaign.PhaseWriting)
			err = table.WriteFile(outPath, out)
		}
		mgr.Finish(err)
		return out, err
	}

	var out *table.Table
	if wantTUI(log) {
		out, err = runUnderTUI(mgr, placeOnce)
	} else {
		out, err = placeOnce()
	}
	if err != nil {
		return err
	}

	if outPath == "" {
		return table.Write(os.Stdout, out)
	}
	log.Info("wrote %d rows to %s", out.NumRows(), outPath)
	return nil
}

// placeStars dispatches to the placement routine of the map's metric.
func placeStars(stars *table.Table, m *skymap.Map, opts place.Options) (*table.Table, error) {
	if m.Metric == skymap.MetricSourceDensity {
		return place.PerSourceDensity(stars, m, nBins, opts)
	}
	return place.PerBackground(stars, m, nBins, opts)
}

// runNeighbor rewrites the AST table in place with positions ringed around
// randomly chosen catalog stars.
func runNeighbor(rng *rand.Rand, log *logging.Logger) error {
	if catalogPath == "" || astsPath == "" {
		return fmt.Errorf("neighbor mode needs -catalog and -asts")
	}
	if separation < 0 {
		return fmt.Errorf("-separation must not be negative, got %g", separation)
	}

	catalog, err := table.ReadFile(catalogPath)
	if err != nil {
		return err
	}
	log.Info("catalog %s: %d sources", catalogPath, catalog.NumRows())

	ref, err := loadConverter(log)
	if err != nil {
		return err
	}

	out, err := place.RewriteASTFile(astsPath, catalog, separation, ref, rng)
	if err != nil {
		return err
	}
	log.Info("rewrote %s: %d ASTs within %g to %g px of a catalog star",
		astsPath, out.NumRows(), separation, separation+place.AnnulusWidth)
	return nil
}

func loadMap(metric skymap.Metric, log *logging.Logger) (*skymap.Map, error) {
	tbl, err := table.ReadFile(mapPath)
	if err != nil {
		return nil, err
	}
	m, err := skymap.FromTable(tbl, metric)
	if err != nil {
		return nil, err
	}
	log.Info("map %s: %d tiles", mapPath, len(m.Tiles))
	return m, nil
}

// loadConverter builds the optional WCS converter from -ref header text.
func loadConverter(log *logging.Logger) (wcs.Converter, error) {
	if refPath == "" {
		return nil, nil
	}
	h, err := wcs.ParseHeaderFile(refPath)
	if err != nil {
		return nil, err
	}
	conv, err := wcs.FromHeader(h)
	if err != nil {
		return nil, err
	}
	log.Debug("TAN projection from %s", refPath)
	return conv, nil
}

// wantTUI reports whether the progress TUI should run.
func wantTUI(log *logging.Logger) bool {
	if !tuiMode {
		return false
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		log.Warn("stdout is not a terminal, running headless")
		return false
	}
	return true
}

// runUnderTUI drives the placement in a background goroutine while the
// Bubble Tea program polls the campaign manager, blocking until quit.
func runUnderTUI(mgr *campaign.Manager, placeOnce func() (*table.Table, error)) (*table.Table, error) {
	p := tea.NewProgram(ui.New(mgr), tea.WithAltScreen())

	go func() {
		out, err := placeOnce()
		p.Send(ui.RunDoneMsg{Result: out, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running TUI: %w", err)
	}

	model := final.(ui.Model)
	if !model.Done() {
		return nil, fmt.Errorf("aborted before placement finished")
	}
	return model.Result(), model.Err()
}
