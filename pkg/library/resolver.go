package library

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/types"
)

// maxDerivationDepth bounds parent chains; deeper chains are reported as cycles
const maxDerivationDepth = 32

// Resolver turns identifiers into flattened templates
type Resolver struct {
	store  Store
	cache  map[types.LibID]*types.LibSymbol
	logger zerolog.Logger
}

// NewResolver creates a resolver over store. Flattened templates are cached
// for the resolver's lifetime, so create one per batch if the store changes.
func NewResolver(store Store) *Resolver {
	return &Resolver{
		store:  store,
		cache:  make(map[types.LibID]*types.LibSymbol),
		logger: logging.GetLogger("library.resolver"),
	}
}

// Resolve looks up id and flattens its derivation chain. A missing template is
// an ErrSymbolNotFound error, an expected outcome callers handle per symbol.
func (r *Resolver) Resolve(id types.LibID) (*types.LibSymbol, error) {
	if cached, ok := r.cache[id]; ok {
		return cached.Clone(), nil
	}

	sym, ok := r.store.LookupSymbol(id)
	if !ok {
		r.logger.Debug().Str("lib_id", id.String()).Msg("Template not found")
		return nil, errors.Newf(errors.ErrSymbolNotFound, "symbol %q not found", id.String()).
			WithDetail("lib_id", id.String())
	}

	flat, err := r.flatten(sym)
	if err != nil {
		return nil, err
	}

	r.cache[id] = flat
	r.logger.Trace().
		Str("lib_id", id.String()).
		Int("units", flat.UnitCount).
		Int("fields", len(flat.Fields)).
		Msg("Template resolved")
	return flat.Clone(), nil
}

// flatten collapses sym and its ancestors into one template. Unit count comes
// from the root ancestor; everything else is overlaid from the root down.
func (r *Resolver) flatten(sym *types.LibSymbol) (*types.LibSymbol, error) {
	chain := []*types.LibSymbol{sym}
	seen := map[string]bool{sym.ID.Name: true}

	for cur := sym; cur.IsAlias(); {
		parentID := types.LibID{Nickname: cur.ID.Nickname, Name: cur.ParentName}
		if seen[parentID.Name] || len(chain) > maxDerivationDepth {
			return nil, errors.Newf(errors.ErrAliasCycle, "derivation cycle through %q", parentID.String()).
				WithDetail("lib_id", sym.ID.String())
		}
		parent, ok := r.store.LookupSymbol(parentID)
		if !ok {
			return nil, errors.Newf(errors.ErrSymbolNotFound, "parent %q of %q not found",
				parentID.String(), cur.ID.String()).
				WithDetail("lib_id", sym.ID.String())
		}
		seen[parentID.Name] = true
		chain = append(chain, parent)
		cur = parent
	}

	flat := chain[len(chain)-1].Clone()
	for i := len(chain) - 2; i >= 0; i-- {
		flat = overlay(flat, chain[i])
	}
	flat.ID = sym.ID
	flat.ParentName = ""
	return flat, nil
}

// overlay applies a derived template on top of its flattened parent
func overlay(base, derived *types.LibSymbol) *types.LibSymbol {
	out := base.Clone()
	out.ID = derived.ID
	if derived.Description != "" {
		out.Description = derived.Description
	}
	if derived.Keywords != "" {
		out.Keywords = derived.Keywords
	}
	if derived.Revision != 0 {
		out.Revision = derived.Revision
	}

	for _, f := range derived.Fields {
		if f.IsMandatory() {
			if f.Text == "" {
				continue
			}
			if existing := out.Field(f.ID); existing != nil {
				*existing = f
			} else {
				out.Fields = append(out.Fields, f)
			}
			continue
		}
		// Optional ids stay dense: replaced fields keep the parent's id
		if existing := out.FindField(f.Name); existing != nil {
			f.ID = existing.ID
			*existing = f
		} else {
			f.ID = types.MandatoryFieldCount + len(out.OptionalFields())
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}

// Suggest returns up to n identifiers in id's library whose names resemble
// id's name, closest first. Stores that cannot list their contents yield nil.
func (r *Resolver) Suggest(id types.LibID, n int) []types.LibID {
	lister, ok := r.store.(Lister)
	if !ok || n <= 0 {
		return nil
	}

	nicknames := []string{id.Nickname}
	if id.Nickname == "" {
		nicknames = lister.Nicknames()
	}

	type candidate struct {
		id       types.LibID
		distance int
	}
	var candidates []candidate
	for _, nick := range nicknames {
		for _, rank := range fuzzy.RankFindFold(id.Name, lister.SymbolNames(nick)) {
			candidates = append(candidates, candidate{
				id:       types.LibID{Nickname: nick, Name: rank.Target},
				distance: rank.Distance,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].id.String() < candidates[j].id.String()
	})

	var out []types.LibID
	for _, c := range candidates {
		if len(out) == n {
			break
		}
		if c.id == id {
			continue
		}
		out = append(out, c.id)
	}
	return out
}
