// Package annotate generates annotated source report markup: each
// source line carries metric value spans for every catalog group,
// color-bucket classes pairing code blocks with legend entries, and
// the metric selector buttons the display controller drives.
package annotate

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/unbound-force/facet/internal/catalog"
	"github.com/unbound-force/facet/internal/metricdata"
	"github.com/unbound-force/facet/internal/render"
)

// Metrics holds the per-line column rows for one source file, as
// produced by the metricdata line mappers. Keys are zero-based line
// indices.
type Metrics struct {
	Cyclomatic map[int][]string
	Halstead   map[int][]string
	Raw        map[int][]string
}

// Options configures report generation for one file.
type Options struct {
	// Filename is displayed in the report header and used to pick a
	// syntax highlighting lexer.
	Filename string

	// Source is the file content to annotate.
	Source string

	// Metrics are the mapped metric rows for the file.
	Metrics Metrics

	// Maxima overrides the color scale maximum per metric id.
	// Metrics without an entry fall back to DefaultMaxima.
	Maxima map[string]float64
}

// Result is a generated report.
type Result struct {
	// HTML is the complete self-contained report document.
	HTML string

	// Styles maps every registered bucket label
	// ("<metric>_<bucket>") to its background color, for building a
	// shared stylesheet across files.
	Styles map[string]string
}

// Generate builds the annotated report for one file.
func Generate(opts Options) (*Result, error) {
	cat := catalog.Default()
	lines, highlightCSS, err := highlightLines(opts.Source, opts.Filename)
	if err != nil {
		return nil, fmt.Errorf("highlighting %s: %w", opts.Filename, err)
	}

	styles := make(map[string]string)
	var body strings.Builder
	body.WriteString(`<pre class="chroma annotated">` + "\n")
	for i, code := range lines {
		body.WriteString(annotateLine(i, code, opts, styles))
		body.WriteString("\n")
	}
	body.WriteString("</pre>\n")

	var doc strings.Builder
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&doc, "<title>%s</title>\n", html.EscapeString(opts.Filename))
	doc.WriteString("<style>\n")
	doc.WriteString(baseCSS)
	doc.WriteString(highlightCSS)
	doc.WriteString(StyleRules(styles))
	doc.WriteString("</style>\n</head>\n<body>\n")
	fmt.Fprintf(&doc, "<h1>%s</h1>\n", html.EscapeString(opts.Filename))
	doc.WriteString(controlsHTML(cat))
	doc.WriteString(legendHTML(styles))
	doc.WriteString(body.String())
	doc.WriteString("</body>\n</html>\n")

	return &Result{HTML: doc.String(), Styles: styles}, nil
}

// annotateLine renders one source line: metric spans for each group,
// then the highlighted code, inside a container div carrying any
// color-bucket classes. Lines without metric data get placeholder
// spans and a plain white background.
func annotateLine(i int, code string, opts Options, styles map[string]string) string {
	raw := rowOrPlaceholder(opts.Metrics.Raw, i, catalog.RawNames)
	cc := rowOrPlaceholder(opts.Metrics.Cyclomatic, i, []string{"", ""})
	hal := rowOrPlaceholder(opts.Metrics.Halstead, i, catalog.HalsteadNames)

	classes := []string{"line"}
	var spans strings.Builder

	for col, name := range catalog.RawNames {
		fmt.Fprintf(&spans, `<span class="raw_span %s_val">%s </span>`, name, raw[col])
	}

	fmt.Fprintf(&spans, `<span class="cyclomatic_span cc_function_val">%s </span>`, strings.Join(cc, " "))
	if bucket, ok := bucketOf(cc[1]); ok {
		classes = append(classes, registerBucket(styles, catalog.CyclomaticMetric, bucket, opts.Maxima))
	}

	halsteadHasValues := !metricdata.IsPlaceholder(hal)
	for col, name := range catalog.HalsteadNames {
		fmt.Fprintf(&spans, `<span class="halstead_span %s_val">%s </span>`, name, hal[col])
		if !halsteadHasValues {
			continue
		}
		if bucket, ok := bucketOf(hal[col]); ok {
			classes = append(classes, registerBucket(styles, name, bucket, opts.Maxima))
		}
	}

	style := ""
	if metricdata.IsPlaceholder(cc) && !halsteadHasValues {
		style = ` style="background-color: #ffffff; width: 100%"`
	}
	return fmt.Sprintf(`<div class="%s"%s>%s| %s</div>`,
		strings.Join(classes, " "), style, spans.String(), code)
}

// rowOrPlaceholder returns the mapped row for a line, or a placeholder
// row sized like shape when the line has no data.
func rowOrPlaceholder(rows map[int][]string, i int, shape []string) []string {
	if row, ok := rows[i]; ok {
		return row
	}
	placeholder := make([]string, len(shape))
	for j := range placeholder {
		placeholder[j] = "----"
	}
	if len(shape) == 2 { // cyclomatic row
		placeholder = []string{"--", "--"}
	}
	return placeholder
}

// bucketOf discretizes a formatted column value into a color bucket.
// Placeholder columns have no bucket.
func bucketOf(col string) (int, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(col), 64)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// registerBucket records the bucket's color (first registration wins)
// and returns the code-block class for the line container.
func registerBucket(styles map[string]string, metric string, bucket int, maxima map[string]float64) string {
	label := fmt.Sprintf("%s_%d", metric, bucket)
	if _, ok := styles[label]; !ok {
		styles[label] = ScaleColor(float64(bucket), maximumFor(metric, maxima))
	}
	return label + render.CodeSuffix
}

func maximumFor(metric string, maxima map[string]float64) float64 {
	if m, ok := maxima[metric]; ok && m > 0 {
		return m
	}
	if m, ok := DefaultMaxima[metric]; ok {
		return m
	}
	return 50
}

// controlsHTML emits the mode toggle plus one selector button per
// metric, each button scoped to its owning group.
func controlsHTML(cat *catalog.Catalog) string {
	var sb strings.Builder
	sb.WriteString(`<div class="controls">` + "\n")
	fmt.Fprintf(&sb, `<button id="%s">cycle metrics</button>`+"\n", render.ToggleButtonID)
	for _, g := range catalog.Groups() {
		for _, id := range cat.Members(g) {
			fmt.Fprintf(&sb, `<button id="%s" class="%s">%s</button>`+"\n", id, g, id)
		}
	}
	sb.WriteString("</div>\n")
	return sb.String()
}

// legendHTML emits one legend entry per registered bucket label, with
// its color inline so viewers resolve it without a stylesheet.
func legendHTML(styles map[string]string) string {
	labels := make([]string, 0, len(styles))
	for label := range styles {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var sb strings.Builder
	sb.WriteString(`<div class="legend">` + "\n")
	for _, label := range labels {
		fmt.Fprintf(&sb, `<span class="%s" style="background-color: %s">%s </span>`+"\n",
			label, styles[label], label)
	}
	sb.WriteString("</div>\n")
	return sb.String()
}

const baseCSS = `body { font-family: monospace; }
.controls button { border-style: outset; }
.legend span { padding: 0 4px; }
pre.annotated div { margin: 0; }
`
