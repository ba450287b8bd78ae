package types

import (
	"strings"

	"github.com/google/uuid"
)

// Screen is the item container of one sheet file. Reused sub-sheets share a
// single Screen, so its symbols are reachable from several sheet paths.
type Screen struct {
	Name    string
	symbols []*Symbol
}

// NewScreen creates an empty screen
func NewScreen(name string) *Screen {
	return &Screen{Name: name}
}

// Symbols returns the held symbols in insertion order
func (sc *Screen) Symbols() []*Symbol {
	return append([]*Symbol(nil), sc.symbols...)
}

// Append adds a symbol to the end of the container
func (sc *Screen) Append(s *Symbol) {
	sc.symbols = append(sc.symbols, s)
}

// Remove detaches the symbol with s's identity and returns its former index,
// or -1 if it was not held.
func (sc *Screen) Remove(s *Symbol) int {
	for i, held := range sc.symbols {
		if held.UUID == s.UUID {
			sc.symbols = append(sc.symbols[:i], sc.symbols[i+1:]...)
			return i
		}
	}
	return -1
}

// Insert places s at index i, clamped to the container bounds
func (sc *Screen) Insert(i int, s *Symbol) {
	if i < 0 || i >= len(sc.symbols) {
		sc.Append(s)
		return
	}
	sc.symbols = append(sc.symbols[:i], append([]*Symbol{s}, sc.symbols[i:]...)...)
}

// Find returns the held symbol with the given identity, or nil
func (sc *Screen) Find(id uuid.UUID) *Symbol {
	for _, held := range sc.symbols {
		if held.UUID == id {
			return held
		}
	}
	return nil
}

// Len returns the number of held symbols
func (sc *Screen) Len() int {
	return len(sc.symbols)
}

// Sheet is a node of the design hierarchy
type Sheet struct {
	UUID     uuid.UUID
	Name     string
	Screen   *Screen
	Children []*Sheet
}

// NewSheet creates a sheet with a fresh identity
func NewSheet(name string, screen *Screen) *Sheet {
	return &Sheet{UUID: uuid.New(), Name: name, Screen: screen}
}

// AddChild appends a sub-sheet and returns it
func (sh *Sheet) AddChild(child *Sheet) *Sheet {
	sh.Children = append(sh.Children, child)
	return child
}

// SheetPath is the route from the root sheet to one sheet occurrence
type SheetPath []*Sheet

// Key identifies the path; symbol instance references are keyed by it
func (p SheetPath) Key() string {
	var b strings.Builder
	for _, sh := range p {
		b.WriteByte('/')
		b.WriteString(sh.UUID.String())
	}
	return b.String()
}

// String renders the path with sheet names, the root being "/"
func (p SheetPath) String() string {
	if len(p) <= 1 {
		return "/"
	}
	names := make([]string, 0, len(p)-1)
	for _, sh := range p[1:] {
		names = append(names, sh.Name)
	}
	return "/" + strings.Join(names, "/") + "/"
}

// Last returns the leaf sheet, or nil for an empty path
func (p SheetPath) Last() *Sheet {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// LastScreen returns the screen of the leaf sheet, or nil
func (p SheetPath) LastScreen() *Screen {
	if last := p.Last(); last != nil {
		return last.Screen
	}
	return nil
}

// Schematic is a hierarchical design rooted at a single sheet
type Schematic struct {
	Root *Sheet
}

// Sheets enumerates every sheet path depth-first, parents before children and
// children in declaration order. The order is stable for a given design.
func (s *Schematic) Sheets() []SheetPath {
	if s == nil || s.Root == nil {
		return nil
	}
	var out []SheetPath
	var walk func(path SheetPath, sh *Sheet)
	walk = func(path SheetPath, sh *Sheet) {
		// Copy so siblings never share a backing array
		current := append(append(SheetPath(nil), path...), sh)
		out = append(out, current)
		for _, child := range sh.Children {
			walk(current, child)
		}
	}
	walk(nil, s.Root)
	return out
}

// Screens returns each distinct screen once, in first-reached order
func (s *Schematic) Screens() []*Screen {
	seen := make(map[*Screen]bool)
	var out []*Screen
	for _, path := range s.Sheets() {
		sc := path.LastScreen()
		if sc == nil || seen[sc] {
			continue
		}
		seen[sc] = true
		out = append(out, sc)
	}
	return out
}

// FindSymbol returns the symbol with the given identity and its screen
func (s *Schematic) FindSymbol(id uuid.UUID) (*Symbol, *Screen) {
	for _, sc := range s.Screens() {
		if sym := sc.Find(id); sym != nil {
			return sym, sc
		}
	}
	return nil, nil
}
