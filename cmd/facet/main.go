package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/unbound-force/facet/internal/annotate"
	"github.com/unbound-force/facet/internal/catalog"
	"github.com/unbound-force/facet/internal/config"
	"github.com/unbound-force/facet/internal/markup"
	"github.com/unbound-force/facet/internal/metricdata"
	"github.com/unbound-force/facet/internal/render"
	"github.com/unbound-force/facet/internal/selection"
)

// logger is the application-wide structured logger (writes to stderr).
var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: false,
})

// Set by build flags.
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "facet",
		Short: "Facet — metric-annotated source reports and their display controller",
		Long: `Facet turns per-line metric data into annotated source reports
and drives their display: cycling through metric groups, selecting
individual metrics, and keeping visibility, legend colors, and
button state in sync.`,
		Version: version,
	}

	root.AddCommand(newAnnotateCmd())
	root.AddCommand(newApplyCmd())
	root.AddCommand(newViewCmd())
	root.AddCommand(newSchemaCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// annotateParams holds the parsed flags for the annotate command.
type annotateParams struct {
	sourcePath string
	dataPath   string
	outputDir  string
	configPath string
	stdout     io.Writer
	stderr     io.Writer
}

// runAnnotate is the extracted, testable body of the annotate command.
func runAnnotate(p annotateParams) error {
	cfg, err := config.Load(p.configPath)
	if err != nil {
		return err
	}
	outputDir := cfg.Annotate.OutputDir
	if p.outputDir != "" {
		outputDir = p.outputDir
	}

	source, err := os.ReadFile(p.sourcePath)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	rev, err := loadRevision(p.dataPath)
	if err != nil {
		return err
	}
	cy, hal, raw, err := detailsFor(rev, p.sourcePath)
	if err != nil {
		return err
	}

	logger.Info("annotating source", "file", p.sourcePath)
	res, err := annotate.Generate(annotate.Options{
		Filename: p.sourcePath,
		Source:   string(source),
		Metrics: annotate.Metrics{
			Cyclomatic: metricdata.MapCyclomaticLines(cy),
			Halstead:   metricdata.MapHalsteadLines(hal),
			Raw:        metricdata.MapRawLines(raw),
		},
		Maxima: cfg.Annotate.Maxima,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	outPath := filepath.Join(outputDir, filepath.Base(p.sourcePath)+".html")
	if err := os.WriteFile(outPath, []byte(res.HTML), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	logger.Info("report written", "path", outPath, "buckets", len(res.Styles))
	fmt.Fprintln(p.stdout, outPath)
	return nil
}

func loadRevision(path string) (*metricdata.Revision, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening metric data: %w", err)
	}
	defer f.Close()
	rev, err := metricdata.Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading metric data: %w", err)
	}
	return rev, nil
}

// detailsFor looks up one source file's entries across all three
// operators, matching the exact key first and the basename as a
// fallback. Halstead and raw data are optional; cyclomatic data is
// required.
func detailsFor(rev *metricdata.Revision, sourcePath string) (cy, hal, raw map[string]metricdata.Detail, err error) {
	key, ok := matchFile(rev.Files(), sourcePath)
	if !ok {
		return nil, nil, nil, fmt.Errorf("no metric data for %q", sourcePath)
	}
	cy = rev.OperatorData.Cyclomatic[key].Detailed
	hal = rev.OperatorData.Halstead[key].Detailed
	raw = rev.OperatorData.Raw[key].Detailed
	return cy, hal, raw, nil
}

func matchFile(files []string, sourcePath string) (string, bool) {
	for _, f := range files {
		if f == sourcePath {
			return f, true
		}
	}
	for _, f := range files {
		if filepath.Base(f) == filepath.Base(sourcePath) {
			return f, true
		}
	}
	return "", false
}

func newAnnotateCmd() *cobra.Command {
	var (
		outputDir  string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "annotate [source-file] [metric-data.json]",
		Short: "Generate an annotated report for a source file",
		Long: `Generate a self-contained annotated HTML report: each source line
carries its cyclomatic, halstead, and raw metric values, colored by
a per-metric green-to-red scale, with selector buttons and a legend.

Metric data is wily-style revision JSON and is validated against the
embedded schema (see 'facet schema').`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(annotateParams{
				sourcePath: args[0],
				dataPath:   args[1],
				outputDir:  outputDir,
				configPath: configPath,
				stdout:     os.Stdout,
				stderr:     os.Stderr,
			})
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "",
		"directory for generated reports (default: config output_dir)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"path to .facet.yaml (default: look in working directory)")

	return cmd
}

// applyParams holds the parsed flags for the apply command.
type applyParams struct {
	reportPath string
	toggles    int
	metric     string
	showAll    bool
	outPath    string
	stdout     io.Writer
	stderr     io.Writer
}

// runApply is the extracted, testable body of the apply command.
func runApply(p applyParams) error {
	if p.toggles < 0 {
		return fmt.Errorf("invalid toggles %d: must be >= 0", p.toggles)
	}

	f, err := os.Open(p.reportPath)
	if err != nil {
		return fmt.Errorf("opening report: %w", err)
	}
	doc, err := markup.Parse(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("parsing report: %w", err)
	}

	cat := catalog.Default()
	ctl := selection.New(cat, render.NewSurface(doc, cat))

	for i := 0; i < p.toggles; i++ {
		ctl.Toggle()
	}
	switch {
	case p.metric != "":
		ctl.SelectMetric(p.metric, p.showAll)
	case p.toggles == 0:
		// No interaction requested; materialize the initial view.
		ctl.SelectMetric(catalog.CyclomaticMetric, false)
	}

	logger.Info("selection applied",
		"mode", ctl.State().Mode(), "toggles", p.toggles, "metric", p.metric)

	out := p.stdout
	if p.outPath != "" {
		file, err := os.Create(p.outPath)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer file.Close()
		out = file
	}
	return doc.Render(out)
}

func newApplyCmd() *cobra.Command {
	var (
		toggles int
		metric  string
		showAll bool
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "apply [report.html]",
		Short: "Apply a display selection to an annotated report",
		Long: `Drive the display controller over an annotated report without a
viewer: cycle the metric group a number of times, optionally select
a metric, and write the re-rendered document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(applyParams{
				reportPath: args[0],
				toggles:    toggles,
				metric:     metric,
				showAll:    showAll,
				outPath:    outPath,
				stdout:     os.Stdout,
				stderr:     os.Stderr,
			})
		},
	}

	cmd.Flags().IntVar(&toggles, "toggles", 0,
		"number of times to cycle the metric group before selecting")
	cmd.Flags().StringVarP(&metric, "metric", "m", "",
		"metric to select after toggling")
	cmd.Flags().BoolVar(&showAll, "show-all", false,
		"show every metric in the selected metric's group")
	cmd.Flags().StringVarP(&outPath, "output", "o", "",
		"output file (default: stdout)")

	return cmd
}

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [report.html]",
		Short: "Browse an annotated report interactively",
		Long: `Open an annotated report in a terminal viewer. Keys cycle the
metric group, step through the metrics of the active group, and
toggle show-all, exactly as the report's own controls would.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening report: %w", err)
			}
			doc, err := markup.Parse(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("parsing report: %w", err)
			}
			return runInteractiveView(filepath.Base(args[0]), doc)
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for metric data input",
		Long: `Print the JSON Schema (Draft 2020-12) that metric-data JSON is
validated against before annotation. Useful for checking revision
files produced by external tooling.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), metricdata.Schema)
			return err
		},
	}
}
