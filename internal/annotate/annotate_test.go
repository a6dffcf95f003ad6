package annotate

import (
	"strings"
	"testing"

	"github.com/unbound-force/facet/internal/catalog"
	"github.com/unbound-force/facet/internal/markup"
	"github.com/unbound-force/facet/internal/render"
	"github.com/unbound-force/facet/internal/selection"
)

func TestScaleColor_LowValueIsGreen(t *testing.T) {
	if got := ScaleColor(1, 50); got != "rgba(0, 255, 0, 0.75)" {
		t.Errorf("ScaleColor(1, 50) = %q, want full green", got)
	}
}

func TestScaleColor_MaximumIsRed(t *testing.T) {
	if got := ScaleColor(50, 50); got != "rgba(255, 10, 0, 0.75)" {
		t.Errorf("ScaleColor(50, 50) = %q, want saturated red", got)
	}
}

func TestScaleColor_MidValue(t *testing.T) {
	// red = (2/50)*255*9 = 91.8, green clamps at 255.
	if got := ScaleColor(10, 50); got != "rgba(92, 255, 0, 0.75)" {
		t.Errorf("ScaleColor(10, 50) = %q", got)
	}
}

func TestScaleColor_ClampsBeyondMaximum(t *testing.T) {
	if got := ScaleColor(500, 50); got != "rgba(255, 0, 0, 0.75)" {
		t.Errorf("ScaleColor(500, 50) = %q, want clamped red", got)
	}
}

func TestSimplifyCSS_GroupsSameColor(t *testing.T) {
	simplified := SimplifyCSS(map[string]string{
		"effort_3":       "rgba(0, 255, 0, 0.75)",
		"h1_2":           "rgba(0, 255, 0, 0.75)",
		"cc_function_12": "rgba(122, 255, 0, 0.75)",
	})
	if len(simplified) != 2 {
		t.Fatalf("rules = %d, want 2", len(simplified))
	}
	if got := simplified[".effort_3, .h1_2"]; got != "rgba(0, 255, 0, 0.75)" {
		t.Errorf("grouped selector color = %q", got)
	}
	if got := simplified[".cc_function_12"]; got != "rgba(122, 255, 0, 0.75)" {
		t.Errorf("lone selector color = %q", got)
	}
}

func TestStyleRules_Deterministic(t *testing.T) {
	styles := map[string]string{
		"h1_2":     "rgba(10, 255, 0, 0.75)",
		"effort_3": "rgba(20, 255, 0, 0.75)",
	}
	want := ".effort_3 { background-color: rgba(20, 255, 0, 0.75);}\n" +
		".h1_2 { background-color: rgba(10, 255, 0, 0.75);}\n"
	for range [5]struct{}{} {
		if got := StyleRules(styles); got != want {
			t.Fatalf("StyleRules = %q, want %q", got, want)
		}
	}
}

// sampleOptions annotates a three-line python snippet: line 0 carries
// raw values only, line 1 carries cyclomatic and halstead values, line
// 2 has no data at all.
func sampleOptions() Options {
	return Options{
		Filename: "widget.py",
		Source:   "class Widget:\n    def render(self):\n        return 1\n",
		Metrics: Metrics{
			Cyclomatic: map[int][]string{
				1: {"01", "05"},
			},
			Halstead: map[int][]string{
				1: {"002", "001", "003", "002", "003", "005", "0011.61", "0023.22", "0002.00"},
			},
			Raw: map[int][]string{
				0: {"0003", "0003", "0003", "0000", "0000", "0000", "0000"},
			},
		},
	}
}

func TestGenerate_DocumentStructure(t *testing.T) {
	res, err := Generate(sampleOptions())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, want := range []string{
		`<button id="mode_toggle">`,
		`<button id="cc_function" class="cyclomatic">cc_function</button>`,
		`<button id="effort" class="halstead">effort</button>`,
		`<button id="loc" class="raw">loc</button>`,
		`cc_function_5_code`,
		`<span class="halstead_span effort_val">0023.22 </span>`,
		`<span class="raw_span loc_val">0003 </span>`,
	} {
		if !strings.Contains(res.HTML, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestGenerate_RegistersBucketStyles(t *testing.T) {
	res, err := Generate(sampleOptions())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if got := res.Styles["cc_function_5"]; got != ScaleColor(5, 50) {
		t.Errorf("cc_function_5 color = %q, want %q", got, ScaleColor(5, 50))
	}
	if got := res.Styles["effort_23"]; got != ScaleColor(23, 2000) {
		t.Errorf("effort_23 color = %q, want %q", got, ScaleColor(23, 2000))
	}
	if !strings.Contains(res.HTML, `<span class="effort_23" style="background-color: `+res.Styles["effort_23"]) {
		t.Error("legend entry for effort_23 missing or uncolored")
	}
}

func TestGenerate_MaximaOverride(t *testing.T) {
	opts := sampleOptions()
	opts.Maxima = map[string]float64{"cc_function": 10}
	res, err := Generate(opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := res.Styles["cc_function_5"]; got != ScaleColor(5, 10) {
		t.Errorf("overridden cc_function_5 color = %q, want %q", got, ScaleColor(5, 10))
	}
}

func TestGenerate_PlaceholderLineBackground(t *testing.T) {
	res, err := Generate(sampleOptions())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// Line 2 has neither cyclomatic nor halstead data.
	if !strings.Contains(res.HTML, `style="background-color: #ffffff; width: 100%"`) {
		t.Error("placeholder line missing white background")
	}
}

// TestGenerate_DrivesDisplayController checks that a generated report
// is a usable surface for the selection controller: toggling into the
// halstead group shows the remembered metric, syncs its legend color
// onto the line, and presses its button.
func TestGenerate_DrivesDisplayController(t *testing.T) {
	res, err := Generate(sampleOptions())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	doc, err := markup.ParseString(res.HTML)
	if err != nil {
		t.Fatalf("parse generated report: %v", err)
	}
	cat := catalog.Default()
	ctl := selection.New(cat, render.NewSurface(doc, cat))

	if got := ctl.Toggle(); got != "effort" {
		t.Fatalf("first toggle resolved %q, want effort", got)
	}

	if got := doc.ElementsWithClass("effort_val")[0].StyleValue("display"); got != "inline" {
		t.Errorf("effort_val display = %q, want inline", got)
	}
	if got := doc.ElementsWithClass("h1_val")[0].StyleValue("display"); got != "none" {
		t.Errorf("h1_val display = %q, want none", got)
	}

	colored := doc.ElementsWithClass("effort_23_code")
	if len(colored) == 0 {
		t.Fatal("no line carries effort_23_code")
	}
	if got := colored[0].StyleValue("background-color"); got != res.Styles["effort_23"] {
		t.Errorf("synced line color = %q, want %q", got, res.Styles["effort_23"])
	}

	if got := doc.ElementByID("effort").StyleValue("border-style"); got != "inset" {
		t.Errorf("effort button border-style = %q, want inset", got)
	}
	if got := doc.ElementByID("loc").StyleValue("display"); got != "none" {
		t.Errorf("raw button display = %q, want none in halstead mode", got)
	}
}
