package fields_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/fields"
	"github.com/arthur-debert/relink/pkg/testutil"
	"github.com/arthur-debert/relink/pkg/types"
)

func placed(t *testing.T, opts ...testutil.SymbolOption) *types.Symbol {
	d := testutil.NewDesign(t)
	opts = append([]testutil.SymbolOption{testutil.WithPosition(types.Point{X: 1000, Y: 2000})}, opts...)
	return d.Place("root", "R1", "Device:R", opts...)
}

func TestCheckUnits(t *testing.T) {
	sym := placed(t, testutil.WithUnit(3))

	err := fields.CheckUnits(sym, testutil.NewTemplate("Device:R").Units(2).Build())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTooFewUnits))

	assert.NoError(t, fields.CheckUnits(sym, testutil.NewTemplate("Device:R").Units(3).Build()))
}

func TestReconcile_TooFewUnitsLeavesSymbolUntouched(t *testing.T) {
	sym := placed(t, testutil.WithUnit(3), testutil.WithField("Extra", "x"))
	before := sym.Clone()

	changed, err := fields.Reconcile(sym,
		testutil.NewTemplate("Device:R").Units(2).Build(),
		fields.Policy{RemoveExtraFields: true, ResetPositions: true})

	require.Error(t, err)
	assert.False(t, changed)
	assert.Equal(t, before, sym)
}

func TestReconcile_MandatoryFieldsNeverRemoved(t *testing.T) {
	sym := placed(t, testutil.WithField("Extra", "x"))
	tmpl := testutil.NewTemplate("Device:R").Build()
	// A template exposing no fields at all
	tmpl.Fields = nil

	changed, err := fields.Reconcile(sym, tmpl, fields.Policy{RemoveExtraFields: true})
	require.NoError(t, err)
	assert.True(t, changed)

	require.Len(t, sym.Fields, types.MandatoryFieldCount)
	for i := 0; i < types.MandatoryFieldCount; i++ {
		assert.NotNil(t, sym.GetField(i))
	}
	assert.Nil(t, sym.FindField("Extra"))
}

func TestReconcile_ExtraFieldPersistsWithoutRemoval(t *testing.T) {
	sym := placed(t, testutil.WithField("Tolerance", "1%"))
	tmpl := testutil.NewTemplate("Device:R_Small").Optional("Power", "0.1W").Build()

	changed, err := fields.Reconcile(sym, tmpl, fields.Policy{
		ResetEffects:    true,
		ResetVisibility: true,
		ResetPositions:  true,
	})
	require.NoError(t, err)

	tol := sym.FindField("Tolerance")
	require.NotNil(t, tol)
	assert.Equal(t, "1%", tol.Text)
	assert.Equal(t, types.Point{X: 1000, Y: 2000}, tol.Position)
	assert.Nil(t, sym.FindField("Power"), "fields outside the update set are never created")
	assert.False(t, changed, "fields already sit at the template's zero offsets")
}

func TestReconcile_UpdateSetCreatesField(t *testing.T) {
	sym := placed(t)
	hidden := types.DefaultTextEffects()
	hidden.Visible = false
	hidden.Italic = true
	tmpl := testutil.NewTemplate("Device:R").
		OptionalWith("Tolerance", "5%", hidden, types.Point{X: 50, Y: -100}).
		Optional("Power", "0.1W").
		Build()

	changed, err := fields.Reconcile(sym, tmpl, fields.Policy{UpdateFields: []string{"Tolerance", "Missing"}})
	require.NoError(t, err)
	assert.True(t, changed)

	require.Len(t, sym.Fields, types.MandatoryFieldCount+1)
	tol := sym.FindField("Tolerance")
	require.NotNil(t, tol)
	assert.Equal(t, "5%", tol.Text)
	assert.Equal(t, types.Point{X: 1050, Y: 1900}, tol.Position)
	assert.Equal(t, hidden, tol.Effects)
	assert.False(t, tol.IsMandatory())
}

func TestReconcile_UpdateSetLeavesExistingFields(t *testing.T) {
	tmpl := testutil.NewTemplate("Device:R").
		Mandatory(types.FieldReference, "R").
		Mandatory(types.FieldDatasheet, "r.pdf").
		OptionalWith("Tolerance", "5%", types.TextEffects{Size: types.Point{X: 70, Y: 70}, Bold: true, Visible: true}, types.Point{X: 10}).
		Build()

	policy := fields.DefaultPolicy()
	policy.UpdateFields = append(policy.UpdateFields, "Tolerance")

	tests := []struct {
		name   string
		policy fields.Policy
	}{
		{"default axes", policy},
		{"every axis enabled", fields.Policy{
			RemoveExtraFields: true,
			ResetEmptyFields:  true,
			ResetVisibility:   true,
			ResetEffects:      true,
			ResetPositions:    true,
			UpdateFields:      policy.UpdateFields,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym := placed(t, testutil.WithField("Tolerance", "1%"))
			sym.GetField(types.FieldDatasheet).Text = "mine.pdf"
			sym.FindField("Tolerance").SetVisible(false)
			before := sym.Clone()

			changed, err := fields.Reconcile(sym, tmpl, tt.policy)
			require.NoError(t, err)
			assert.False(t, changed)
			assert.Equal(t, before, sym)
			assert.Equal(t, "1%", sym.FindField("Tolerance").Text)
			assert.Equal(t, "mine.pdf", sym.GetField(types.FieldDatasheet).Text)
		})
	}
}

func TestReconcile_UpdateSetMatchesMandatoryNamesIgnoringCase(t *testing.T) {
	tmpl := testutil.NewTemplate("Device:R").Build()

	sym := placed(t, testutil.WithFootprint("R_0603"))
	_, err := fields.Reconcile(sym, tmpl, fields.Policy{ResetEmptyFields: true, UpdateFields: []string{"footprint"}})
	require.NoError(t, err)
	assert.Equal(t, "R_0603", sym.GetField(types.FieldFootprint).Text, "protected by the update set")

	_, err = fields.Reconcile(sym, tmpl, fields.Policy{ResetEmptyFields: true})
	require.NoError(t, err)
	assert.Equal(t, "", sym.GetField(types.FieldFootprint).Text)
}

func TestReconcile_Axes(t *testing.T) {
	libEffects := types.TextEffects{Size: types.Point{X: 30, Y: 30}, Bold: true, Visible: false}
	tmpl := testutil.NewTemplate("Device:R").
		OptionalWith("Note", "", libEffects, types.Point{X: 5, Y: 5}).
		Build()

	tests := []struct {
		name   string
		policy fields.Policy
		check  func(t *testing.T, f *types.Field)
	}{
		{
			name:   "no axes",
			policy: fields.Policy{},
			check: func(t *testing.T, f *types.Field) {
				assert.Equal(t, "keep", f.Text)
				assert.Equal(t, types.DefaultTextEffects(), f.Effects)
			},
		},
		{
			name:   "reset empty",
			policy: fields.Policy{ResetEmptyFields: true},
			check: func(t *testing.T, f *types.Field) {
				assert.Equal(t, "", f.Text)
			},
		},
		{
			name:   "reset visibility",
			policy: fields.Policy{ResetVisibility: true},
			check: func(t *testing.T, f *types.Field) {
				assert.False(t, f.IsVisible())
				assert.False(t, f.Effects.Bold)
			},
		},
		{
			name:   "reset effects keeps own visibility",
			policy: fields.Policy{ResetEffects: true},
			check: func(t *testing.T, f *types.Field) {
				assert.True(t, f.Effects.Bold)
				assert.Equal(t, types.Point{X: 30, Y: 30}, f.Effects.Size)
				assert.True(t, f.IsVisible())
			},
		},
		{
			name:   "reset effects and visibility",
			policy: fields.Policy{ResetEffects: true, ResetVisibility: true},
			check: func(t *testing.T, f *types.Field) {
				assert.Equal(t, libEffects, f.Effects)
			},
		},
		{
			name:   "reset position",
			policy: fields.Policy{ResetPositions: true},
			check: func(t *testing.T, f *types.Field) {
				assert.Equal(t, types.Point{X: 1005, Y: 2005}, f.Position)
				assert.Equal(t, "keep", f.Text)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym := placed(t, testutil.WithField("Note", "keep"))
			_, err := fields.Reconcile(sym, tmpl, tt.policy)
			require.NoError(t, err)
			tt.check(t, sym.FindField("Note"))
		})
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	tmpl := testutil.NewTemplate("Device:R").
		MandatoryAt(types.FieldValue, "R", types.Point{X: 0, Y: 100}).
		Mandatory(types.FieldFootprint, "R_0603").
		Optional("Tolerance", "5%").
		Optional("Power", "").
		Build()
	policy := fields.Policy{
		RemoveExtraFields: true,
		ResetEmptyFields:  true,
		ResetVisibility:   true,
		ResetEffects:      true,
		ResetPositions:    true,
		UpdateFields:      []string{"Footprint", "Tolerance"},
	}

	sym := placed(t, testutil.WithValue("10k"), testutil.WithField("Power", "1W"), testutil.WithField("Old", "x"))

	changed, err := fields.Reconcile(sym, tmpl, policy)
	require.NoError(t, err)
	assert.True(t, changed)

	snapshot := sym.Clone()
	changed, err = fields.Reconcile(sym, tmpl, policy)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, snapshot, sym)
	assert.Equal(t, "10k", sym.GetField(types.FieldValue).Text, "non-empty template text never overwrites a merged field")
}

func TestPolicy(t *testing.T) {
	assert.Equal(t, []string{"Footprint", "Datasheet"}, fields.DefaultUpdateFields())

	p := fields.Policy{UpdateFields: []string{" Tolerance", "Power", "Tolerance", ""}}.Normalize()
	assert.Equal(t, []string{"Power", "Tolerance"}, p.UpdateFields)
	assert.True(t, p.InUpdateSet("Power"))
	assert.False(t, p.InUpdateSet("power"))

	p = fields.Policy{UpdateFields: []string{"footprint", "Footprint", "DATASHEET"}}
	assert.True(t, p.InUpdateSet("Footprint"))
	assert.True(t, p.InUpdateSet("datasheet"))
	assert.Equal(t, []string{"Datasheet", "Footprint"}, p.Normalize().UpdateFields)
}

func TestDiff(t *testing.T) {
	before := placed(t, testutil.WithField("Gone", "g"), testutil.WithField("Kept", "k"))
	after := before.Clone()
	after.RemoveField("Gone")
	after.FindField("Kept").Text = "k2"
	after.GetField(types.FieldValue).Position = types.Point{X: 1, Y: 2}
	after.AddField(types.Field{Name: "New", Text: "n"})

	changes := fields.Diff(before, after)
	require.Len(t, changes, 4)
	assert.Equal(t, fields.Change{Field: "Value", Kind: fields.ChangePosition, From: "(1000,2000)", To: "(1,2)"}, changes[0])
	assert.Equal(t, fields.ChangeText, changes[1].Kind)
	assert.Equal(t, fields.ChangeAdded, changes[2].Kind)
	assert.Equal(t, fields.Change{Field: "Gone", Kind: fields.ChangeRemoved, From: "g"}, changes[3])
	assert.Equal(t, `Gone: removed "g"`, changes[3].String())
}
