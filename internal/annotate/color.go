package annotate

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DefaultMaxima holds the value at which each metric's color scale
// reaches full red. Values beyond the maximum clamp.
// TODO: the halstead maxima are still guesses; calibrate them against
// a corpus of real reports.
var DefaultMaxima = map[string]float64{
	"cc_function": 50,
	"h1":          40,
	"h2":          40,
	"N1":          40,
	"N2":          40,
	"vocabulary":  80,
	"length":      80,
	"volume":      500,
	"effort":      2000,
	"difficulty":  40,
}

// ScaleColor converts a metric value to a color on a green-yellow-red
// scale, returned as an rgba() string with fixed alpha. maximum is the
// value mapped to full red.
func ScaleColor(val, maximum float64) string {
	factor := 2 / maximum
	red := clampChannel(factor * 255 * (val - 1))
	green := clampChannel(factor * 255 * (maximum - val + 1))
	return fmt.Sprintf("rgba(%d, %d, 0, 0.75)", red, green)
}

func clampChannel(v float64) int {
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return r
}

// SimplifyCSS collapses style entries that share a color into one
// grouped selector per color. Keys of the result are full selector
// lists (".a, .b"); values are background colors.
func SimplifyCSS(styles map[string]string) map[string]string {
	byColor := make(map[string][]string)
	for name, color := range styles {
		byColor[color] = append(byColor[color], name)
	}
	out := make(map[string]string, len(byColor))
	for color, names := range byColor {
		sort.Strings(names)
		out["."+strings.Join(names, ", .")] = color
	}
	return out
}

// StyleRules renders bucket styles as CSS text, one rule per color,
// in deterministic order.
func StyleRules(styles map[string]string) string {
	simplified := SimplifyCSS(styles)
	selectors := make([]string, 0, len(simplified))
	for sel := range simplified {
		selectors = append(selectors, sel)
	}
	sort.Strings(selectors)

	var sb strings.Builder
	for _, sel := range selectors {
		fmt.Fprintf(&sb, "%s { background-color: %s;}\n", sel, simplified[sel])
	}
	return sb.String()
}
