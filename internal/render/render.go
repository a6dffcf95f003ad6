// Package render keeps an annotated report's visual affordances in
// sync with the metric selection: element visibility, code block
// colors, and button state.
//
// Every pass is a bounded walk over the current document. Elements
// that are missing for a given class are skipped; partial markup
// degrades to "that piece does not update".
package render

import (
	"strings"

	"github.com/unbound-force/facet/internal/catalog"
	"github.com/unbound-force/facet/internal/markup"
)

// Class vocabulary shared with report generation.
const (
	// ValSuffix marks elements holding a metric's displayed value
	// ("effort_val").
	ValSuffix = "_val"

	// SpanSuffix marks inline overlay containers for a group
	// ("halstead_span").
	SpanSuffix = "_span"

	// CodeSuffix marks code block elements colored for a metric
	// bucket ("effort_3_code"); the matching legend element carries
	// the label without the suffix.
	CodeSuffix = "_code"

	// ToggleButtonID is the mode-switch control. It stays visible no
	// matter which group is active.
	ToggleButtonID = "mode_toggle"
)

// Button appearance.
const (
	pressedFill   = "#c8c8c8"
	unpressedFill = "buttonface"
)

// Surface applies selection state to one parsed report document. It
// satisfies the controller's render interface.
type Surface struct {
	doc *markup.Document
	cat *catalog.Catalog
}

// NewSurface returns a render surface over doc using cat's metric
// vocabulary.
func NewSurface(doc *markup.Document, cat *catalog.Catalog) *Surface {
	return &Surface{doc: doc, cat: cat}
}

// ApplyVisibility shows and hides metric value elements and group
// containers for the given selection.
//
// A value element "<metric>_val" is visible when its group is the
// active mode and either show-all is set or the metric is the resolved
// one. The resolved metric's own elements are always forced visible,
// even outside the active mode. Group containers follow the active
// mode, laid out block for the cyclomatic group and inline otherwise.
//
// Value spans carry their group's "_span" class too, so the container
// pass runs first and the per-metric pass last: on shared elements the
// metric rule wins.
func (s *Surface) ApplyVisibility(mode catalog.Group, resolvedID string, showAll bool) {
	for _, g := range catalog.Groups() {
		containerDisplay := "none"
		if g == mode {
			if g == catalog.Cyclomatic {
				containerDisplay = "block"
			} else {
				containerDisplay = "inline"
			}
		}
		for _, e := range s.doc.ElementsWithClass(string(g)) {
			e.SetStyle("display", containerDisplay)
		}
		for _, e := range s.doc.ElementsWithClass(string(g) + SpanSuffix) {
			e.SetStyle("display", containerDisplay)
		}

		for _, id := range s.cat.Members(g) {
			visible := id == resolvedID || (g == mode && showAll)
			display := "none"
			if visible {
				display = "inline"
			}
			for _, e := range s.doc.ElementsWithClass(id + ValSuffix) {
				e.SetStyle("display", display)
			}
		}
	}
}

// SyncColors copies each legend color for the resolved metric onto the
// code blocks carrying the matching bucket label. Labels without a
// legend element, or whose legend has no resolvable background, are
// skipped individually. Re-running against an unchanged document
// assigns identical colors.
func (s *Surface) SyncColors(resolvedID string) {
	for _, label := range s.doc.ClassesWithSuffix(CodeSuffix) {
		if !strings.HasPrefix(label, resolvedID+"_") {
			continue
		}
		legend := s.doc.FirstWithClass(strings.TrimSuffix(label, CodeSuffix))
		color := s.doc.ResolvedBackground(legend)
		if color == "" {
			continue
		}
		for _, e := range s.doc.ElementsWithClass(label) {
			e.SetStyle("background-color", color)
		}
	}
}

// UpdateButtons marks the resolved metric's button pressed and all
// other metric buttons unpressed, then scopes button visibility to the
// active mode. Buttons without a mode-name class are left alone; the
// mode toggle control is always re-shown last.
func (s *Surface) UpdateButtons(resolvedID string, mode catalog.Group) {
	for _, id := range s.cat.Names() {
		btn := s.doc.ElementByID(id)
		if btn == nil {
			continue
		}
		if id == resolvedID {
			btn.SetStyle("border-style", "inset")
			btn.SetStyle("background-color", pressedFill)
		} else {
			btn.SetStyle("border-style", "outset")
			btn.SetStyle("background-color", unpressedFill)
		}

		if owner, scoped := buttonMode(btn); scoped {
			if owner == mode {
				btn.SetStyle("display", "inline")
			} else {
				btn.SetStyle("display", "none")
			}
		}
	}

	if toggle := s.doc.ElementByID(ToggleButtonID); toggle != nil {
		toggle.SetStyle("display", "inline")
	}
}

// buttonMode returns the mode-name class carried by a button, if any.
func buttonMode(btn *markup.Element) (catalog.Group, bool) {
	for _, g := range catalog.Groups() {
		if btn.HasClass(string(g)) {
			return g, true
		}
	}
	return "", false
}
