package selection

import (
	"testing"

	"github.com/unbound-force/facet/internal/catalog"
)

// recordingSurface captures every render call for assertions.
type recordingSurface struct {
	calls []renderCall
}

type renderCall struct {
	mode     catalog.Group
	resolved string
	showAll  bool
}

func (r *recordingSurface) ApplyVisibility(mode catalog.Group, resolvedID string, showAll bool) {
	r.calls = append(r.calls, renderCall{mode: mode, resolved: resolvedID, showAll: showAll})
}

func (r *recordingSurface) SyncColors(string) {}

func (r *recordingSurface) UpdateButtons(string, catalog.Group) {}

func (r *recordingSurface) last(t *testing.T) renderCall {
	t.Helper()
	if len(r.calls) == 0 {
		t.Fatal("no render calls recorded")
	}
	return r.calls[len(r.calls)-1]
}

func newController(surface Surface) *Controller {
	return New(catalog.Default(), surface)
}

func TestNewState_Initial(t *testing.T) {
	s := NewState()
	if s.Mode() != catalog.Cyclomatic {
		t.Errorf("initial mode = %s, want cyclomatic", s.Mode())
	}
	if last, _ := s.LastShown(catalog.Halstead); last != "effort" {
		t.Errorf("initial halstead last-shown = %q, want effort", last)
	}
	if last, _ := s.LastShown(catalog.Raw); last != "loc" {
		t.Errorf("initial raw last-shown = %q, want loc", last)
	}
	if _, ok := s.LastShown(catalog.Cyclomatic); ok {
		t.Error("cyclomatic group must not track a last-shown metric")
	}
}

func TestToggle_ThreeTogglesReturnToStart(t *testing.T) {
	c := newController(nil)
	start := c.State().Mode()
	c.Toggle()
	c.Toggle()
	c.Toggle()
	if got := c.State().Mode(); got != start {
		t.Errorf("mode after three toggles = %s, want %s", got, start)
	}
}

func TestResolve_ShowAllReturnsLastShownUnmodified(t *testing.T) {
	c := newController(nil)
	got := c.Resolve("volume", true)
	if got != "effort" {
		t.Errorf("Resolve(volume, true) = %q, want effort", got)
	}
	if last, _ := c.State().LastShown(catalog.Halstead); last != "effort" {
		t.Errorf("last-shown mutated to %q by show-all resolve", last)
	}
}

func TestResolve_DirectRequestUpdatesLastShown(t *testing.T) {
	c := newController(nil)
	if got := c.Resolve("volume", false); got != "volume" {
		t.Errorf("Resolve(volume, false) = %q, want volume", got)
	}
	if last, _ := c.State().LastShown(catalog.Halstead); last != "volume" {
		t.Errorf("halstead last-shown = %q, want volume", last)
	}

	if got := c.Resolve("sloc", false); got != "sloc" {
		t.Errorf("Resolve(sloc, false) = %q, want sloc", got)
	}
	if last, _ := c.State().LastShown(catalog.Raw); last != "sloc" {
		t.Errorf("raw last-shown = %q, want sloc", last)
	}
}

func TestResolve_CyclomaticPassesThrough(t *testing.T) {
	c := newController(nil)
	if got := c.Resolve("cc_function", true); got != "cc_function" {
		t.Errorf("Resolve(cc_function, true) = %q, want cc_function", got)
	}
	if got := c.Resolve("cc_function", false); got != "cc_function" {
		t.Errorf("Resolve(cc_function, false) = %q, want cc_function", got)
	}
}

func TestResolve_UnknownIDPassesThrough(t *testing.T) {
	c := newController(nil)
	if got := c.Resolve("mystery", true); got != "mystery" {
		t.Errorf("Resolve(mystery, true) = %q, want mystery", got)
	}
	if last, _ := c.State().LastShown(catalog.Halstead); last != "effort" {
		t.Errorf("unknown id disturbed halstead last-shown: %q", last)
	}
}

func TestToggle_FirstToggleScenario(t *testing.T) {
	// Start cyclomatic; first toggle enters halstead, the forced h1
	// baseline resolves to the remembered default, and "effort" is
	// what ends up shown.
	surface := &recordingSurface{}
	c := newController(surface)

	shown := c.Toggle()
	if c.State().Mode() != catalog.Halstead {
		t.Fatalf("mode after first toggle = %s, want halstead", c.State().Mode())
	}
	if shown != "effort" {
		t.Errorf("metric shown after first toggle = %q, want effort", shown)
	}
	last := surface.last(t)
	if last.mode != catalog.Halstead || last.resolved != "effort" || last.showAll {
		t.Errorf("render call = %+v, want halstead/effort/showAll=false", last)
	}
}

func TestToggle_FirstUseRuleFiresOnlyOnce(t *testing.T) {
	c := newController(nil)
	c.Toggle()                 // halstead: first-use rule fires
	c.Resolve("volume", false) // user picks a different halstead metric
	c.Toggle()                 // raw
	c.Toggle()                 // cyclomatic
	c.Toggle()                 // halstead again: no forced h1 reset
	if last, _ := c.State().LastShown(catalog.Halstead); last != "volume" {
		t.Errorf("halstead last-shown = %q after re-entering group, want volume", last)
	}
}

func TestToggle_RestoresLastShownPerGroup(t *testing.T) {
	c := newController(nil)
	c.Toggle() // halstead
	c.SelectMetric("difficulty", false)
	c.Toggle() // raw
	c.SelectMetric("blank", false)
	c.Toggle() // cyclomatic

	if shown := c.Toggle(); shown != "difficulty" { // halstead again
		t.Errorf("re-entering halstead shows %q, want difficulty", shown)
	}
	if shown := c.Toggle(); shown != "blank" { // raw again
		t.Errorf("re-entering raw shows %q, want blank", shown)
	}
}

func TestToggle_CyclomaticShowsFixedMetric(t *testing.T) {
	c := newController(nil)
	c.Toggle() // halstead
	c.Toggle() // raw
	if shown := c.Toggle(); shown != "cc_function" {
		t.Errorf("cyclomatic mode shows %q, want cc_function", shown)
	}
}

func TestSelectMetric_DirectSelection(t *testing.T) {
	// Mode raw, select loc directly: last-shown updates and the
	// surface renders loc without show-all.
	surface := &recordingSurface{}
	c := newController(surface)
	c.Toggle() // halstead
	c.Toggle() // raw

	shown := c.SelectMetric("loc", false)
	if shown != "loc" {
		t.Errorf("SelectMetric(loc, false) = %q, want loc", shown)
	}
	if last, _ := c.State().LastShown(catalog.Raw); last != "loc" {
		t.Errorf("raw last-shown = %q, want loc", last)
	}
	last := surface.last(t)
	if last.mode != catalog.Raw || last.resolved != "loc" || last.showAll {
		t.Errorf("render call = %+v, want raw/loc/showAll=false", last)
	}
}

func TestSelectMetric_ShowAllKeepsGroupHistory(t *testing.T) {
	surface := &recordingSurface{}
	c := newController(surface)
	c.Toggle() // halstead
	c.SelectMetric("N2", false)

	shown := c.SelectMetric("h1", true)
	if shown != "N2" {
		t.Errorf("show-all selection resolved to %q, want remembered N2", shown)
	}
	last := surface.last(t)
	if !last.showAll {
		t.Error("show-all selection rendered with showAll=false")
	}
}

func TestSelectMetric_DoesNotChangeMode(t *testing.T) {
	c := newController(nil)
	c.Toggle() // halstead
	c.SelectMetric("loc", false)
	if got := c.State().Mode(); got != catalog.Halstead {
		t.Errorf("mode after cross-group selection = %s, want halstead", got)
	}
}

func TestController_NilSurface(t *testing.T) {
	c := newController(nil)
	// Must not panic with nothing to render onto.
	c.Toggle()
	c.SelectMetric("loc", false)
}
