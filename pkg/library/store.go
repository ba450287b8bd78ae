package library

import (
	"sort"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/types"
)

// Store looks up raw, possibly derived, templates
type Store interface {
	LookupSymbol(id types.LibID) (*types.LibSymbol, bool)
}

// Lister is implemented by stores that can enumerate their contents
type Lister interface {
	Nicknames() []string
	SymbolNames(nickname string) []string
}

// MemoryStore keeps templates in memory, keyed by nickname then name
type MemoryStore struct {
	libraries map[string]map[string]*types.LibSymbol
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{libraries: make(map[string]map[string]*types.LibSymbol)}
}

// Add stores a template under its identifier, replacing any previous one
func (m *MemoryStore) Add(sym *types.LibSymbol) error {
	if sym == nil {
		return errors.New(errors.ErrInvalidInput, "nil template")
	}
	if err := sym.ID.Validate(); err != nil {
		return err
	}
	lib, ok := m.libraries[sym.ID.Nickname]
	if !ok {
		lib = make(map[string]*types.LibSymbol)
		m.libraries[sym.ID.Nickname] = lib
	}
	lib[sym.ID.Name] = sym
	return nil
}

// Merge adds every template of other, replacing same-named ones
func (m *MemoryStore) Merge(other *MemoryStore) {
	for _, lib := range other.libraries {
		for _, sym := range lib {
			_ = m.Add(sym)
		}
	}
}

// LookupSymbol returns the stored template. An identifier without nickname is
// searched in every library, nicknames in sorted order.
func (m *MemoryStore) LookupSymbol(id types.LibID) (*types.LibSymbol, bool) {
	if id.Nickname != "" {
		sym, ok := m.libraries[id.Nickname][id.Name]
		return sym, ok
	}
	for _, nick := range m.Nicknames() {
		if sym, ok := m.libraries[nick][id.Name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// Nicknames returns the library nicknames in sorted order
func (m *MemoryStore) Nicknames() []string {
	out := make([]string, 0, len(m.libraries))
	for nick := range m.libraries {
		out = append(out, nick)
	}
	sort.Strings(out)
	return out
}

// SymbolNames returns the template names of one library in sorted order
func (m *MemoryStore) SymbolNames(nickname string) []string {
	lib := m.libraries[nickname]
	out := make([]string, 0, len(lib))
	for name := range lib {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the total number of stored templates
func (m *MemoryStore) Len() int {
	n := 0
	for _, lib := range m.libraries {
		n += len(lib)
	}
	return n
}
