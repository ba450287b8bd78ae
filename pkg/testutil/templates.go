package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/relink/pkg/library"
	"github.com/arthur-debert/relink/pkg/types"
)

// TemplateBuilder builds a library template with all mandatory fields
type TemplateBuilder struct {
	sym *types.LibSymbol
}

// NewTemplate starts a single unit template for the given identifier
func NewTemplate(libID string) *TemplateBuilder {
	sym := &types.LibSymbol{
		ID:        types.MustParseLibID(libID),
		UnitCount: 1,
	}
	for i := 0; i < types.MandatoryFieldCount; i++ {
		sym.Fields = append(sym.Fields, types.LibField{
			ID:      i,
			Name:    types.DefaultFieldName(i),
			Effects: types.DefaultTextEffects(),
		})
	}
	return &TemplateBuilder{sym: sym}
}

// Units sets the unit count
func (b *TemplateBuilder) Units(n int) *TemplateBuilder {
	b.sym.UnitCount = n
	return b
}

// Extends makes the template derive from a parent in the same library
func (b *TemplateBuilder) Extends(parent string) *TemplateBuilder {
	b.sym.ParentName = parent
	return b
}

// Description sets the template description
func (b *TemplateBuilder) Description(desc string) *TemplateBuilder {
	b.sym.Description = desc
	return b
}

// Mandatory sets the text of a mandatory field
func (b *TemplateBuilder) Mandatory(id int, text string) *TemplateBuilder {
	b.sym.Field(id).Text = text
	return b
}

// MandatoryAt sets the text and offset of a mandatory field
func (b *TemplateBuilder) MandatoryAt(id int, text string, offset types.Point) *TemplateBuilder {
	f := b.sym.Field(id)
	f.Text = text
	f.Offset = offset
	return b
}

// Optional appends a named field with default effects
func (b *TemplateBuilder) Optional(name, text string) *TemplateBuilder {
	return b.OptionalWith(name, text, types.DefaultTextEffects(), types.Point{})
}

// OptionalWith appends a named field with explicit effects and offset
func (b *TemplateBuilder) OptionalWith(name, text string, effects types.TextEffects, offset types.Point) *TemplateBuilder {
	b.sym.Fields = append(b.sym.Fields, types.LibField{
		ID:      types.MandatoryFieldCount + len(b.sym.OptionalFields()),
		Name:    name,
		Text:    text,
		Effects: effects,
		Offset:  offset,
	})
	return b
}

// Build returns the template
func (b *TemplateBuilder) Build() *types.LibSymbol {
	return b.sym.Clone()
}

// NewStore puts the given templates in a memory store
func NewStore(t *testing.T, templates ...*types.LibSymbol) *library.MemoryStore {
	t.Helper()
	store := library.NewMemoryStore()
	for _, tmpl := range templates {
		require.NoError(t, store.Add(tmpl))
	}
	return store
}

// NewResolver puts the given templates in a store and resolves against it
func NewResolver(t *testing.T, templates ...*types.LibSymbol) *library.Resolver {
	t.Helper()
	return library.NewResolver(NewStore(t, templates...))
}
