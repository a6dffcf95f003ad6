// Package selection implements the metric display state machine: which
// metric group is active, which concrete metric within it is shown,
// and how user interactions move between them.
//
// All state lives in an explicit State value owned by one Controller.
// Operations run synchronously inside a single interaction and never
// block or perform I/O; re-rendering is delegated to a Surface.
package selection

import "github.com/unbound-force/facet/internal/catalog"

// Default per-group selections used before the user has picked a
// metric in a group.
const (
	DefaultHalstead = "effort"
	DefaultRaw      = "loc"
)

// Surface receives the resolved selection after every state change.
// Implementations re-render visual affordances from it; they must not
// call back into the controller.
type Surface interface {
	// ApplyVisibility shows and hides metric value and group
	// container elements for the given selection.
	ApplyVisibility(mode catalog.Group, resolvedID string, showAll bool)

	// SyncColors propagates the resolved metric's legend colors onto
	// matching code blocks.
	SyncColors(resolvedID string)

	// UpdateButtons reflects the selection in metric button
	// appearance and visibility.
	UpdateButtons(resolvedID string, mode catalog.Group)
}

// State holds the controller's session state. It is never persisted;
// a fresh State starts every viewing session.
type State struct {
	mode            catalog.Group
	lastShown       map[catalog.Group]string
	firstToggleDone bool
}

// NewState returns the initial session state: cyclomatic mode, with
// the halstead and raw groups remembering their defaults.
func NewState() *State {
	return &State{
		mode: catalog.Cyclomatic,
		lastShown: map[catalog.Group]string{
			catalog.Halstead: DefaultHalstead,
			catalog.Raw:      DefaultRaw,
		},
	}
}

// Mode returns the active display group.
func (s *State) Mode() catalog.Group { return s.mode }

// LastShown returns the metric last shown in a group. Only the
// halstead and raw groups track history; ok is false otherwise.
func (s *State) LastShown(g catalog.Group) (string, bool) {
	id, ok := s.lastShown[g]
	return id, ok
}

// Controller owns a State and drives it through its two entry points,
// Toggle and SelectMetric.
type Controller struct {
	catalog *catalog.Catalog
	state   *State
	surface Surface
}

// New returns a controller over the given catalog that renders onto
// surface. A nil surface is allowed; state still advances, nothing is
// rendered.
func New(cat *catalog.Catalog, surface Surface) *Controller {
	return &Controller{
		catalog: cat,
		state:   NewState(),
		surface: surface,
	}
}

// State exposes the controller's session state for inspection.
func (c *Controller) State() *State { return c.state }

// Resolve maps a requested metric id to the metric that will actually
// be shown.
//
// With showAll set, a request inside the halstead or raw group is
// overridden by whatever was last shown in that group; the cyclomatic
// group has a single member and no history, so the request passes
// through. The resolved metric becomes the group's new last-shown
// entry. Identifiers not in the catalog pass through untouched.
func (c *Controller) Resolve(id string, showAll bool) string {
	g, ok := c.catalog.GroupOf(id)
	if !ok {
		return id
	}
	if g == catalog.Cyclomatic {
		return id
	}
	if showAll {
		id = c.state.lastShown[g]
	}
	c.state.lastShown[g] = id
	return id
}

// Toggle advances the display mode one step around the group ring and
// re-renders. It returns the metric now shown.
//
// The very first toggle of a session forces a Resolve("h1", true)
// before anything else, materializing the halstead baseline; this
// fires exactly once.
func (c *Controller) Toggle() string {
	if !c.state.firstToggleDone {
		c.Resolve("h1", true)
		c.state.firstToggleDone = true
	}
	c.state.mode = c.state.mode.Next()

	var resolved string
	switch c.state.mode {
	case catalog.Cyclomatic:
		resolved = c.catalog.Members(catalog.Cyclomatic)[0]
	default:
		resolved = c.Resolve(c.state.lastShown[c.state.mode], false)
	}
	c.render(resolved, false)
	return resolved
}

// SelectMetric shows a concrete metric directly, as a metric button
// click does. The display mode is left untouched; the resolved
// metric's own elements are forced visible by the renderer even when
// its group is not the active mode. Returns the metric now shown.
func (c *Controller) SelectMetric(name string, showAll bool) string {
	resolved := c.Resolve(name, showAll)
	c.render(resolved, showAll)
	return resolved
}

func (c *Controller) render(resolvedID string, showAll bool) {
	if c.surface == nil {
		return
	}
	c.surface.ApplyVisibility(c.state.mode, resolvedID, showAll)
	c.surface.SyncColors(resolvedID)
	c.surface.UpdateButtons(resolvedID, c.state.mode)
}
