// Package metricdata loads precomputed metric data for annotated
// reports: a revision JSON document holding per-file, per-entity
// cyclomatic, halstead, and raw metric details, mapped onto source
// lines as formatted column values.
//
// Facet never computes metrics; this package only consumes data an
// external analysis pipeline produced.
package metricdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Revision is one decoded revision of metric data.
type Revision struct {
	OperatorData OperatorData `json:"operator_data"`
}

// OperatorData groups per-file details by the operator that produced
// them.
type OperatorData struct {
	Cyclomatic map[string]FileDetails `json:"cyclomatic"`
	Halstead   map[string]FileDetails `json:"halstead"`
	Raw        map[string]FileDetails `json:"raw"`
}

// FileDetails holds the detailed entries for one source file, keyed by
// entity name (function, method, or class).
type FileDetails struct {
	Detailed map[string]Detail `json:"detailed"`
}

// Detail is one entity's metric values with its line extent. Fields
// are populated per operator; presence of IsMethod or IsClass carries
// meaning, so both are pointers.
type Detail struct {
	Lineno  *int `json:"lineno,omitempty"`
	Endline int  `json:"endline"`

	// Cyclomatic.
	Complexity int   `json:"complexity,omitempty"`
	IsMethod   *bool `json:"is_method,omitempty"`
	IsClass    *bool `json:"is_class,omitempty"`

	// Halstead.
	H1         int     `json:"h1,omitempty"`
	H2         int     `json:"h2,omitempty"`
	N1         int     `json:"N1,omitempty"`
	N2         int     `json:"N2,omitempty"`
	Vocabulary int     `json:"vocabulary,omitempty"`
	Length     int     `json:"length,omitempty"`
	Volume     float64 `json:"volume,omitempty"`
	Effort     float64 `json:"effort,omitempty"`
	Difficulty float64 `json:"difficulty,omitempty"`

	// Raw.
	Loc            int `json:"loc,omitempty"`
	Lloc           int `json:"lloc,omitempty"`
	Sloc           int `json:"sloc,omitempty"`
	Comments       int `json:"comments,omitempty"`
	Multi          int `json:"multi,omitempty"`
	Blank          int `json:"blank,omitempty"`
	SingleComments int `json:"single_comments,omitempty"`
}

// Load reads, validates, and decodes a revision JSON document. Input
// that does not satisfy the embedded schema is rejected before
// decoding.
func Load(r io.Reader) (*Revision, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading metric data: %w", err)
	}

	if err := validate(data); err != nil {
		return nil, fmt.Errorf("invalid metric data: %w", err)
	}

	var rev Revision
	if err := json.Unmarshal(data, &rev); err != nil {
		return nil, fmt.Errorf("decoding metric data: %w", err)
	}
	return &rev, nil
}

func validate(data []byte) error {
	compiler := jsonschema.NewCompiler()
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(Schema))
	if err != nil {
		return err
	}
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return err
	}
	sch, err := compiler.Compile(schemaURL)
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return sch.Validate(inst)
}

// Files returns the source files that have cyclomatic data, the
// operator every annotated file is required to carry.
func (r *Revision) Files() []string {
	files := make([]string, 0, len(r.OperatorData.Cyclomatic))
	for name := range r.OperatorData.Cyclomatic {
		files = append(files, name)
	}
	return files
}

// ---------------------------------------------------------------------------
// line mapping
// ---------------------------------------------------------------------------

// Placeholder column values, matching the column widths the report
// displays for lines without metric data.
var (
	cyclomaticPlaceholder = []string{"--", "--"}
	halsteadPlaceholder   = []string{"---", "---", "---", "---", "---", "---", "-------", "-------", "-------"}
	rawPlaceholder        = []string{"----", "----", "----", "----", "----", "----", "----"}
)

// IsPlaceholder reports whether a mapped row carries no metric values.
func IsPlaceholder(cols []string) bool {
	for _, c := range cols {
		if strings.Trim(c, "-") != "" {
			return false
		}
	}
	return true
}

// LastLine returns the largest zero-based line index covered by any
// detail entry, or -1 when nothing has a line extent.
func LastLine(details map[string]Detail) int {
	last := 0
	for _, d := range details {
		if d.Endline > last {
			last = d.Endline
		}
	}
	return last - 1
}

// MapCyclomaticLines maps complexity values onto zero-based source
// lines. Each row has two columns: the enclosing class's complexity
// and the function or method's complexity; either may be a
// placeholder.
func MapCyclomaticLines(details map[string]Detail) map[int][]string {
	lines := placeholderRows(details, cyclomaticPlaceholder)
	for _, d := range details {
		if d.Lineno == nil || *d.Lineno < 1 {
			continue
		}
		col := 0
		if d.IsMethod != nil {
			col = 1
		}
		for i := *d.Lineno - 1; i < d.Endline; i++ {
			row := lines[i]
			row[col] = fmt.Sprintf("%02d", d.Complexity)
		}
	}
	return lines
}

// MapHalsteadLines maps halstead values onto zero-based source lines,
// nine columns per row in report order (h1, h2, N1, N2, vocabulary,
// length, volume, effort, difficulty).
func MapHalsteadLines(details map[string]Detail) map[int][]string {
	lines := placeholderRows(details, halsteadPlaceholder)
	for _, d := range details {
		if d.Lineno == nil || *d.Lineno < 1 {
			continue
		}
		row := []string{
			fmt.Sprintf("%03d", d.H1),
			fmt.Sprintf("%03d", d.H2),
			fmt.Sprintf("%03d", d.N1),
			fmt.Sprintf("%03d", d.N2),
			fmt.Sprintf("%03d", d.Vocabulary),
			fmt.Sprintf("%03d", d.Length),
			fmt.Sprintf("%07.2f", d.Volume),
			fmt.Sprintf("%07.2f", d.Effort),
			fmt.Sprintf("%07.2f", d.Difficulty),
		}
		for i := *d.Lineno - 1; i < d.Endline; i++ {
			copy(lines[i], row)
		}
	}
	return lines
}

// MapRawLines maps raw line-count values onto zero-based source lines,
// seven columns per row in report order (loc, lloc, sloc, comments,
// multi, blank, single_comments). Classes, modules, and entries
// without line numbers are skipped.
func MapRawLines(details map[string]Detail) map[int][]string {
	lines := placeholderRows(details, rawPlaceholder)
	for _, d := range details {
		if d.Lineno == nil || *d.Lineno < 1 || d.IsClass == nil || *d.IsClass {
			continue
		}
		row := []string{
			fmt.Sprintf("%04d", d.Loc),
			fmt.Sprintf("%04d", d.Lloc),
			fmt.Sprintf("%04d", d.Sloc),
			fmt.Sprintf("%04d", d.Comments),
			fmt.Sprintf("%04d", d.Multi),
			fmt.Sprintf("%04d", d.Blank),
			fmt.Sprintf("%04d", d.SingleComments),
		}
		for i := *d.Lineno - 1; i < d.Endline; i++ {
			copy(lines[i], row)
		}
	}
	return lines
}

// placeholderRows builds a row per line from 0 through the last known
// line, each initialized to a copy of the placeholder.
func placeholderRows(details map[string]Detail, placeholder []string) map[int][]string {
	last := LastLine(details)
	lines := make(map[int][]string, last+1)
	for i := 0; i <= last; i++ {
		row := make([]string, len(placeholder))
		copy(row, placeholder)
		lines[i] = row
	}
	return lines
}
