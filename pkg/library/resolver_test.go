package library_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/library"
	"github.com/arthur-debert/relink/pkg/testutil"
	"github.com/arthur-debert/relink/pkg/types"
)

func TestResolver_Resolve(t *testing.T) {
	base := testutil.NewTemplate("Device:R").
		Units(1).
		Description("Resistor").
		Mandatory(types.FieldFootprint, "Resistor_SMD:R_0603").
		Optional("Tolerance", "5%").
		Build()

	t.Run("plain template", func(t *testing.T) {
		r := testutil.NewResolver(t, base)
		got, err := r.Resolve(types.MustParseLibID("Device:R"))
		require.NoError(t, err)
		assert.Equal(t, "Resistor", got.Description)
		assert.Equal(t, "Resistor_SMD:R_0603", got.Field(types.FieldFootprint).Text)
	})

	t.Run("missing template", func(t *testing.T) {
		r := testutil.NewResolver(t, base)
		_, err := r.Resolve(types.MustParseLibID("Device:C"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrSymbolNotFound))
	})

	t.Run("returned template is a copy", func(t *testing.T) {
		r := testutil.NewResolver(t, base)
		first, err := r.Resolve(types.MustParseLibID("Device:R"))
		require.NoError(t, err)
		first.Description = "mutated"

		second, err := r.Resolve(types.MustParseLibID("Device:R"))
		require.NoError(t, err)
		assert.Equal(t, "Resistor", second.Description)
	})

	t.Run("empty nickname searches every library", func(t *testing.T) {
		r := testutil.NewResolver(t, base)
		got, err := r.Resolve(types.LibID{Name: "R"})
		require.NoError(t, err)
		assert.Equal(t, "Device:R", got.ID.String())
	})
}

func TestResolver_Flatten(t *testing.T) {
	parent := testutil.NewTemplate("Device:R").
		Units(2).
		Description("Resistor").
		Mandatory(types.FieldFootprint, "Resistor_SMD:R_0603").
		Mandatory(types.FieldDatasheet, "~").
		Optional("Tolerance", "5%").
		Optional("Power", "0.1W").
		Build()
	derived := testutil.NewTemplate("Device:R_Small").
		Units(7).
		Extends("R").
		Mandatory(types.FieldFootprint, "Resistor_SMD:R_0402").
		Optional("Tolerance", "1%").
		Optional("Package", "0402").
		Build()
	grandchild := testutil.NewTemplate("Device:R_Tiny").
		Extends("R_Small").
		Description("Tiny resistor").
		Build()

	r := testutil.NewResolver(t, parent, derived, grandchild)

	t.Run("derived overlays parent", func(t *testing.T) {
		got, err := r.Resolve(types.MustParseLibID("Device:R_Small"))
		require.NoError(t, err)

		assert.Equal(t, "Device:R_Small", got.ID.String())
		assert.False(t, got.IsAlias())
		assert.Equal(t, 2, got.UnitCount, "unit count comes from the root")
		assert.Equal(t, "Resistor", got.Description)
		assert.Equal(t, "Resistor_SMD:R_0402", got.Field(types.FieldFootprint).Text)
		assert.Equal(t, "~", got.Field(types.FieldDatasheet).Text, "empty mandatory text keeps the parent's")
		assert.Equal(t, "1%", got.FindField("Tolerance").Text)
		assert.Equal(t, "0.1W", got.FindField("Power").Text)
		assert.Equal(t, "0402", got.FindField("Package").Text)
	})

	t.Run("multi-level chain", func(t *testing.T) {
		got, err := r.Resolve(types.MustParseLibID("Device:R_Tiny"))
		require.NoError(t, err)
		assert.Equal(t, "Tiny resistor", got.Description)
		assert.Equal(t, "Resistor_SMD:R_0402", got.Field(types.FieldFootprint).Text)
		assert.Equal(t, 2, got.UnitCount)
	})

	t.Run("cycle", func(t *testing.T) {
		a := testutil.NewTemplate("Loop:A").Extends("B").Build()
		b := testutil.NewTemplate("Loop:B").Extends("A").Build()
		_, err := testutil.NewResolver(t, a, b).Resolve(types.MustParseLibID("Loop:A"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrAliasCycle))
	})

	t.Run("self reference", func(t *testing.T) {
		a := testutil.NewTemplate("Loop:A").Extends("A").Build()
		_, err := testutil.NewResolver(t, a).Resolve(types.MustParseLibID("Loop:A"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrAliasCycle))
	})

	t.Run("missing parent", func(t *testing.T) {
		orphan := testutil.NewTemplate("Device:Orphan").Extends("Gone").Build()
		_, err := testutil.NewResolver(t, orphan).Resolve(types.MustParseLibID("Device:Orphan"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrSymbolNotFound))
	})
}

func TestResolver_Suggest(t *testing.T) {
	r := testutil.NewResolver(t,
		testutil.NewTemplate("Device:R").Build(),
		testutil.NewTemplate("Device:R_Small").Build(),
		testutil.NewTemplate("Device:R_Pack04").Build(),
		testutil.NewTemplate("Device:C").Build(),
		testutil.NewTemplate("Other:R_Small").Build(),
	)

	got := r.Suggest(types.MustParseLibID("Device:R_Smal"), 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "Device:R_Small", got[0].String())
	for _, id := range got {
		assert.Equal(t, "Device", id.Nickname, "suggestions stay in the requested library")
	}

	assert.Empty(t, r.Suggest(types.MustParseLibID("Device:Zzz"), 3))
	assert.Nil(t, r.Suggest(types.MustParseLibID("Device:R"), 0))
}

func TestMemoryStore(t *testing.T) {
	store := library.NewMemoryStore()
	require.NoError(t, store.Add(testutil.NewTemplate("B:x").Build()))
	require.NoError(t, store.Add(testutil.NewTemplate("A:y").Build()))
	require.NoError(t, store.Add(testutil.NewTemplate("A:x").Build()))

	assert.Equal(t, []string{"A", "B"}, store.Nicknames())
	assert.Equal(t, []string{"x", "y"}, store.SymbolNames("A"))
	assert.Equal(t, 3, store.Len())

	sym, ok := store.LookupSymbol(types.LibID{Name: "x"})
	require.True(t, ok)
	assert.Equal(t, "A:x", sym.ID.String(), "nicknames are searched in sorted order")

	err := store.Add(&types.LibSymbol{})
	assert.Error(t, err)
	assert.Error(t, store.Add(nil))
}
