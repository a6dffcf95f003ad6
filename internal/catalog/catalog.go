// Package catalog defines the metric group taxonomy for annotated
// source reports: which metric identifiers exist, which display group
// each belongs to, and the order groups cycle in.
package catalog

import "fmt"

// Group identifies one of the three metric display groups.
type Group string

// Display group constants, in ring order.
const (
	Cyclomatic Group = "cyclomatic"
	Halstead   Group = "halstead"
	Raw        Group = "raw"
)

// Next returns the group that follows g in the fixed display ring
// (cyclomatic -> halstead -> raw -> cyclomatic).
func (g Group) Next() Group {
	switch g {
	case Cyclomatic:
		return Halstead
	case Halstead:
		return Raw
	default:
		return Cyclomatic
	}
}

// Groups lists all display groups in ring order.
func Groups() []Group {
	return []Group{Cyclomatic, Halstead, Raw}
}

// CyclomaticMetric is the single member of the cyclomatic group.
const CyclomaticMetric = "cc_function"

// HalsteadNames lists the halstead group members in report column order.
var HalsteadNames = []string{
	"h1", "h2", "N1", "N2",
	"vocabulary", "length", "volume", "effort", "difficulty",
}

// RawNames lists the raw group members in report column order.
var RawNames = []string{
	"loc", "lloc", "sloc", "comments", "multi", "blank", "single_comments",
}

// Catalog is an immutable mapping from metric identifier to its display
// group. The three groups partition the catalog: every identifier
// belongs to exactly one group.
type Catalog struct {
	groups  map[string]Group
	members map[Group][]string
}

// Default returns the catalog for wily-style annotated reports:
// cc_function alone in the cyclomatic group, plus the halstead and raw
// metric families.
func Default() *Catalog {
	c, err := New(map[Group][]string{
		Cyclomatic: {CyclomaticMetric},
		Halstead:   HalsteadNames,
		Raw:        RawNames,
	})
	if err != nil {
		// The built-in tables are disjoint; reaching here is a bug.
		panic(err)
	}
	return c
}

// New builds a catalog from group member lists. It returns an error if
// an identifier appears in more than one group, if an identifier is
// empty, or if the cyclomatic group does not have exactly one member.
func New(members map[Group][]string) (*Catalog, error) {
	c := &Catalog{
		groups:  make(map[string]Group),
		members: make(map[Group][]string),
	}
	for _, g := range Groups() {
		for _, id := range members[g] {
			if id == "" {
				return nil, fmt.Errorf("catalog: empty metric id in group %s", g)
			}
			if prev, ok := c.groups[id]; ok {
				return nil, fmt.Errorf("catalog: metric %q in both %s and %s", id, prev, g)
			}
			c.groups[id] = g
			c.members[g] = append(c.members[g], id)
		}
	}
	if n := len(c.members[Cyclomatic]); n != 1 {
		return nil, fmt.Errorf("catalog: cyclomatic group must have exactly one member, got %d", n)
	}
	return c, nil
}

// GroupOf returns the display group that owns the given metric id.
// The second return is false for identifiers not in the catalog.
func (c *Catalog) GroupOf(id string) (Group, bool) {
	g, ok := c.groups[id]
	return g, ok
}

// Members returns the metric ids belonging to a group, in report
// column order. The returned slice must not be mutated.
func (c *Catalog) Members(g Group) []string {
	return c.members[g]
}

// Names returns every metric id in the catalog, grouped in ring order.
func (c *Catalog) Names() []string {
	var names []string
	for _, g := range Groups() {
		names = append(names, c.members[g]...)
	}
	return names
}

// Len returns the total number of metric ids in the catalog.
func (c *Catalog) Len() int {
	return len(c.groups)
}
