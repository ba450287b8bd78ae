package matchers

import (
	"sort"

	"github.com/google/uuid"

	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/types"
)

// Entry is one scheduled symbol together with the container owning it
type Entry struct {
	Symbol *types.Symbol
	Screen *types.Screen

	// Path is the first sheet path through which the symbol matched
	Path types.SheetPath
}

// Collection is the deduplicated result of a hierarchy scan. Entries keep the
// order in which symbols were first matched.
type Collection struct {
	entries []Entry
	index   map[uuid.UUID]int
}

func newCollection() *Collection {
	return &Collection{index: make(map[uuid.UUID]int)}
}

// put schedules a symbol. A symbol already present keeps its position and
// first path; only the owning screen is overwritten.
func (c *Collection) put(symbol *types.Symbol, screen *types.Screen, path types.SheetPath) bool {
	if i, ok := c.index[symbol.UUID]; ok {
		c.entries[i].Screen = screen
		return false
	}
	c.index[symbol.UUID] = len(c.entries)
	c.entries = append(c.entries, Entry{Symbol: symbol, Screen: screen, Path: path})
	return true
}

// Entries returns the scheduled symbols in scan order
func (c *Collection) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Len returns the number of distinct scheduled symbols
func (c *Collection) Len() int {
	return len(c.entries)
}

// Contains reports whether the symbol with the given identity is scheduled
func (c *Collection) Contains(id uuid.UUID) bool {
	_, ok := c.index[id]
	return ok
}

// Collect walks every sheet path of sch in canonical order and schedules each
// symbol that matches through at least one of them. A symbol in a reused
// sub-sheet is reached once per path but scheduled once, keyed by identity.
func Collect(sch *types.Schematic, evaluator *Evaluator) *Collection {
	logger := logging.GetLogger("matchers.scanner")
	result := newCollection()

	if evaluator.Err() != nil {
		logger.Debug().Err(evaluator.Err()).Msg("Criterion cannot match, skipping scan")
		return result
	}

	visits := 0
	for _, path := range sch.Sheets() {
		screen := path.LastScreen()
		if screen == nil {
			logger.Warn().Str("sheet", path.String()).Msg("Sheet has no screen, skipping")
			continue
		}

		for _, symbol := range screen.Symbols() {
			if !evaluator.Matches(symbol, path) {
				continue
			}
			visits++
			if !result.put(symbol, screen, path) {
				logger.Trace().
					Str("symbol", symbol.UUID.String()).
					Str("sheet", path.String()).
					Msg("Symbol already scheduled through another sheet path")
			}
		}
	}

	logger.Debug().
		Str("criterion", evaluator.Criterion().Describe()).
		Int("matches", visits).
		Int("scheduled", result.Len()).
		Msg("Hierarchy scan completed")

	return result
}

// TemplateResolver resolves a library identifier to a flattened template
type TemplateResolver interface {
	Resolve(id types.LibID) (*types.LibSymbol, error)
}

// CandidateFieldNames returns the sorted union of optional field names defined
// by the templates of every matching symbol. These are the names a caller can
// put in a policy's update set. Symbols whose template cannot be resolved are
// skipped. With a non-nil target every symbol is looked up against it instead,
// as a retarget batch would.
func CandidateFieldNames(sch *types.Schematic, evaluator *Evaluator, resolver TemplateResolver, target *types.LibID) []string {
	names := make(map[string]bool)
	for _, entry := range Collect(sch, evaluator).Entries() {
		id := entry.Symbol.LibID
		if target != nil {
			id = *target
		}
		tmpl, err := resolver.Resolve(id)
		if err != nil {
			continue
		}
		for _, f := range tmpl.OptionalFields() {
			names[f.Name] = true
		}
	}

	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
