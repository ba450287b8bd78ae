package types

import "strings"

// Mandatory field ids. These fields exist on every symbol and are addressed by
// position, never by name.
const (
	FieldReference = iota
	FieldValue
	FieldFootprint
	FieldDatasheet

	// MandatoryFieldCount is the number of position-addressed fields
	MandatoryFieldCount
)

var defaultFieldNames = [MandatoryFieldCount]string{
	FieldReference: "Reference",
	FieldValue:     "Value",
	FieldFootprint: "Footprint",
	FieldDatasheet: "Datasheet",
}

// DefaultFieldName returns the canonical name of a mandatory field, or "" for
// an optional field id.
func DefaultFieldName(id int) string {
	if id < 0 || id >= MandatoryFieldCount {
		return ""
	}
	return defaultFieldNames[id]
}

// MandatoryFieldID returns the id of the mandatory field called name, compared
// case-insensitively, or -1 for an optional field name
func MandatoryFieldID(name string) int {
	for i, n := range defaultFieldNames {
		if strings.EqualFold(name, n) {
			return i
		}
	}
	return -1
}

// IsMandatoryField reports whether id addresses a mandatory field
func IsMandatoryField(id int) bool {
	return id >= 0 && id < MandatoryFieldCount
}

// Point is a position in design units
type Point struct {
	X int `yaml:"x" toml:"x" json:"x"`
	Y int `yaml:"y" toml:"y" json:"y"`
}

// Add returns p translated by q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Justify is a text justification
type Justify int

const (
	JustifyCenter Justify = iota
	JustifyLeft
	JustifyRight
)

// TextEffects holds a field's style. Visibility lives here as well, so copying
// effects wholesale also copies the visible bit.
type TextEffects struct {
	Size      Point   `yaml:"size" toml:"size" json:"size"`
	Thickness int     `yaml:"thickness,omitempty" toml:"thickness,omitempty" json:"thickness,omitempty"`
	Bold      bool    `yaml:"bold,omitempty" toml:"bold,omitempty" json:"bold,omitempty"`
	Italic    bool    `yaml:"italic,omitempty" toml:"italic,omitempty" json:"italic,omitempty"`
	Visible   bool    `yaml:"visible" toml:"visible" json:"visible"`
	HJustify  Justify `yaml:"h_justify,omitempty" toml:"h_justify,omitempty" json:"hJustify,omitempty"`
	VJustify  Justify `yaml:"v_justify,omitempty" toml:"v_justify,omitempty" json:"vJustify,omitempty"`
}

// DefaultTextEffects is the style given to fields created without a template
func DefaultTextEffects() TextEffects {
	return TextEffects{Size: Point{X: 50, Y: 50}, Visible: true}
}

// Field is an editable text attribute of a placed symbol. Position is absolute.
type Field struct {
	ID       int
	Name     string
	Text     string
	Effects  TextEffects
	Position Point
}

// IsMandatory reports whether the field is position-addressed
func (f *Field) IsMandatory() bool {
	return IsMandatoryField(f.ID)
}

// IsVisible reports the visibility bit of the field's effects
func (f *Field) IsVisible() bool {
	return f.Effects.Visible
}

// SetVisible sets the visibility bit of the field's effects
func (f *Field) SetVisible(visible bool) {
	f.Effects.Visible = visible
}

// LibField is a field as defined by a library template. Offset is relative to
// the symbol origin.
type LibField struct {
	ID      int
	Name    string
	Text    string
	Effects TextEffects
	Offset  Point
}

// IsMandatory reports whether the template field is position-addressed
func (f *LibField) IsMandatory() bool {
	return IsMandatoryField(f.ID)
}
