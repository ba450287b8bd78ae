package fields

import (
	"fmt"

	"github.com/arthur-debert/relink/pkg/types"
)

// ChangeKind classifies one field difference
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeText     ChangeKind = "text"
	ChangeEffects  ChangeKind = "effects"
	ChangePosition ChangeKind = "position"
)

// Change is one difference between two states of a symbol's fields
type Change struct {
	Field string
	Kind  ChangeKind
	From  string
	To    string
}

func (c Change) String() string {
	switch c.Kind {
	case ChangeAdded:
		return fmt.Sprintf("%s: added %q", c.Field, c.To)
	case ChangeRemoved:
		return fmt.Sprintf("%s: removed %q", c.Field, c.From)
	}
	return fmt.Sprintf("%s: %s %s -> %s", c.Field, c.Kind, c.From, c.To)
}

// Diff lists the field differences between before and after, mandatory fields
// by id then optional fields by name, in after's order. Removed fields come last.
func Diff(before, after *types.Symbol) []Change {
	var changes []Change
	for i := range after.Fields {
		field := &after.Fields[i]
		name := fieldName(field)

		var old *types.Field
		if field.IsMandatory() {
			old = before.GetField(field.ID)
		} else {
			old = before.FindField(field.Name)
		}
		if old == nil {
			changes = append(changes, Change{Field: name, Kind: ChangeAdded, To: field.Text})
			continue
		}

		if old.Text != field.Text {
			changes = append(changes, Change{Field: name, Kind: ChangeText, From: old.Text, To: field.Text})
		}
		if old.Effects != field.Effects {
			changes = append(changes, Change{
				Field: name,
				Kind:  ChangeEffects,
				From:  describeEffects(old.Effects),
				To:    describeEffects(field.Effects),
			})
		}
		if old.Position != field.Position {
			changes = append(changes, Change{
				Field: name,
				Kind:  ChangePosition,
				From:  describePoint(old.Position),
				To:    describePoint(field.Position),
			})
		}
	}

	for i := range before.Fields {
		field := &before.Fields[i]
		if field.IsMandatory() {
			continue
		}
		if after.FindField(field.Name) == nil {
			changes = append(changes, Change{Field: field.Name, Kind: ChangeRemoved, From: field.Text})
		}
	}
	return changes
}

func describePoint(p types.Point) string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func describeEffects(e types.TextEffects) string {
	s := fmt.Sprintf("size=%s", describePoint(e.Size))
	if e.Bold {
		s += " bold"
	}
	if e.Italic {
		s += " italic"
	}
	if !e.Visible {
		s += " hidden"
	}
	return s
}
