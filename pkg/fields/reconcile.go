package fields

import (
	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/types"
)

// CheckUnits rejects a template that cannot host the symbol's unit. It must be
// called before the symbol is touched.
func CheckUnits(symbol *types.Symbol, tmpl *types.LibSymbol) error {
	if tmpl.UnitCount < symbol.Unit {
		return errors.Newf(errors.ErrTooFewUnits,
			"template %s has %d unit(s), symbol uses unit %d", tmpl.ID, tmpl.UnitCount, symbol.Unit).
			WithDetail("units", tmpl.UnitCount).
			WithDetail("unit", symbol.Unit)
	}
	return nil
}

// Reconcile merges tmpl's fields into symbol in place under policy and
// reports whether any field was added, removed or changed. On ErrTooFewUnits
// the symbol is left untouched.
//
// Fields outside the update set are merged axis by axis against their template
// counterpart; optional fields without one are removed when RemoveExtraFields
// is set. Update-set fields the symbol already has are left alone. Optional
// template fields named in the update set and missing on the symbol are
// created.
func Reconcile(symbol *types.Symbol, tmpl *types.LibSymbol, policy Policy) (bool, error) {
	if err := CheckUnits(symbol, tmpl); err != nil {
		return false, err
	}

	before := symbol.Clone()

	var extras []string
	for i := range symbol.Fields {
		field := &symbol.Fields[i]
		if policy.InUpdateSet(fieldName(field)) {
			continue
		}

		libField := counterpart(tmpl, field)
		if libField == nil {
			if !field.IsMandatory() && policy.RemoveExtraFields {
				extras = append(extras, field.Name)
			}
			continue
		}
		merge(symbol, field, libField, policy)
	}
	for _, name := range extras {
		symbol.RemoveField(name)
	}

	for _, libField := range tmpl.OptionalFields() {
		if !policy.InUpdateSet(libField.Name) || symbol.FindField(libField.Name) != nil {
			continue
		}
		symbol.AddField(types.Field{
			Name:     libField.Name,
			Text:     libField.Text,
			Effects:  libField.Effects,
			Position: symbol.Position.Add(libField.Offset),
		})
	}

	return len(Diff(before, symbol)) > 0, nil
}

// fieldName is the name a field is known by in the update set. Mandatory
// fields always answer to their canonical name.
func fieldName(f *types.Field) string {
	if f.IsMandatory() {
		return types.DefaultFieldName(f.ID)
	}
	return f.Name
}

func counterpart(tmpl *types.LibSymbol, f *types.Field) *types.LibField {
	if f.IsMandatory() {
		return tmpl.Field(f.ID)
	}
	return tmpl.FindField(f.Name)
}

func merge(symbol *types.Symbol, field *types.Field, libField *types.LibField, policy Policy) {
	if policy.ResetEmptyFields && libField.Text == "" {
		field.Text = ""
	}
	if policy.ResetVisibility {
		field.SetVisible(libField.Effects.Visible)
	}
	if policy.ResetEffects {
		visible := field.IsVisible()
		field.Effects = libField.Effects
		field.SetVisible(visible)
	}
	if policy.ResetPositions {
		field.Position = symbol.Position.Add(libField.Offset)
	}
}
