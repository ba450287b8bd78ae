package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/relink/pkg/types"
)

// DesignBuilder assembles a hierarchical schematic for tests. Screens are
// registered by name so several sheets can share one.
type DesignBuilder struct {
	t         *testing.T
	Schematic *types.Schematic
	screens   map[string]*types.Screen
	sheets    map[string]*types.Sheet
}

// NewDesign creates a design whose root sheet holds the "root" screen
func NewDesign(t *testing.T) *DesignBuilder {
	t.Helper()
	rootScreen := types.NewScreen("root")
	root := types.NewSheet("root", rootScreen)
	return &DesignBuilder{
		t:         t,
		Schematic: &types.Schematic{Root: root},
		screens:   map[string]*types.Screen{"root": rootScreen},
		sheets:    map[string]*types.Sheet{"root": root},
	}
}

// Screen returns the named screen, creating it on first use
func (d *DesignBuilder) Screen(name string) *types.Screen {
	if sc, ok := d.screens[name]; ok {
		return sc
	}
	sc := types.NewScreen(name)
	d.screens[name] = sc
	return sc
}

// Sheet returns a sheet registered with AddSheet, or the root
func (d *DesignBuilder) Sheet(name string) *types.Sheet {
	d.t.Helper()
	sh, ok := d.sheets[name]
	require.True(d.t, ok, "unknown sheet %q", name)
	return sh
}

// AddSheet adds a sub-sheet named name under parent, displaying screen. Two
// sheets given the same screen name share the container.
func (d *DesignBuilder) AddSheet(parent, name, screen string) *types.Sheet {
	d.t.Helper()
	child := types.NewSheet(name, d.Screen(screen))
	d.Sheet(parent).AddChild(child)
	d.sheets[name] = child
	return child
}

// Path returns the sheet path reaching the named sheets, root first. The root
// is implied and must not be listed.
func (d *DesignBuilder) Path(names ...string) types.SheetPath {
	d.t.Helper()
	path := types.SheetPath{d.Schematic.Root}
	for _, n := range names {
		path = append(path, d.Sheet(n))
	}
	return path
}

// SymbolOption customizes a placed symbol
type SymbolOption func(*types.Symbol)

// WithUnit sets the placed unit
func WithUnit(unit int) SymbolOption {
	return func(s *types.Symbol) { s.Unit = unit }
}

// WithValue sets the Value field text
func WithValue(value string) SymbolOption {
	return func(s *types.Symbol) { s.GetField(types.FieldValue).Text = value }
}

// WithFootprint sets the Footprint field text
func WithFootprint(fp string) SymbolOption {
	return func(s *types.Symbol) { s.GetField(types.FieldFootprint).Text = fp }
}

// WithField adds an optional field
func WithField(name, text string) SymbolOption {
	return func(s *types.Symbol) {
		s.AddField(types.Field{
			Name:     name,
			Text:     text,
			Effects:  types.DefaultTextEffects(),
			Position: s.Position,
		})
	}
}

// WithPosition moves the symbol and its fields to pos
func WithPosition(pos types.Point) SymbolOption {
	return func(s *types.Symbol) {
		s.Position = pos
		for i := range s.Fields {
			s.Fields[i].Position = pos
		}
	}
}

// WithTemplate caches a flattened template on the symbol
func WithTemplate(tmpl *types.LibSymbol) SymbolOption {
	return func(s *types.Symbol) { s.LibSymbol = tmpl.Clone() }
}

// Place adds a symbol to the named screen. The reference is written to the
// Reference field; use Annotate for per-path references.
func (d *DesignBuilder) Place(screen, ref, libID string, opts ...SymbolOption) *types.Symbol {
	d.t.Helper()
	id, err := types.ParseLibID(libID)
	require.NoError(d.t, err)

	sym := types.NewSymbol(id, 1, types.Point{})
	sym.GetField(types.FieldReference).Text = ref
	for _, opt := range opts {
		opt(sym)
	}
	d.Screen(screen).Append(sym)
	return sym
}

// Annotate records the reference sym carries when reached through path
func (d *DesignBuilder) Annotate(sym *types.Symbol, path types.SheetPath, ref string) {
	sym.Instances = append(sym.Instances, types.InstanceReference{
		Path:      path.Key(),
		Reference: ref,
	})
}
