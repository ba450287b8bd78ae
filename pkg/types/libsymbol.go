package types

// LibSymbol is a library template. A symbol with a ParentName derives from
// another symbol of the same library and is only usable once flattened.
type LibSymbol struct {
	ID          LibID
	Description string
	Keywords    string
	ParentName  string
	UnitCount   int
	Revision    int

	// Fields holds the mandatory fields by id followed by optional fields
	Fields []LibField
}

// IsAlias reports whether the template derives from a parent
func (s *LibSymbol) IsAlias() bool {
	return s.ParentName != ""
}

// Field returns the mandatory template field with the given id, or nil
func (s *LibSymbol) Field(id int) *LibField {
	if !IsMandatoryField(id) {
		return nil
	}
	for i := range s.Fields {
		if s.Fields[i].ID == id {
			return &s.Fields[i]
		}
	}
	return nil
}

// FindField returns the optional template field with the given name, or nil
func (s *LibSymbol) FindField(name string) *LibField {
	for i := range s.Fields {
		if !s.Fields[i].IsMandatory() && s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// OptionalFields returns the named, non-mandatory template fields in order
func (s *LibSymbol) OptionalFields() []LibField {
	var out []LibField
	for _, f := range s.Fields {
		if !f.IsMandatory() {
			out = append(out, f)
		}
	}
	return out
}

// Clone returns a deep copy
func (s *LibSymbol) Clone() *LibSymbol {
	if s == nil {
		return nil
	}
	c := *s
	c.Fields = append([]LibField(nil), s.Fields...)
	return &c
}

// Equal reports whether two templates are interchangeable for a bound symbol
func (s *LibSymbol) Equal(o *LibSymbol) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.ID != o.ID || s.Description != o.Description || s.Keywords != o.Keywords ||
		s.ParentName != o.ParentName || s.UnitCount != o.UnitCount || s.Revision != o.Revision ||
		len(s.Fields) != len(o.Fields) {
		return false
	}
	for i := range s.Fields {
		if s.Fields[i] != o.Fields[i] {
			return false
		}
	}
	return true
}
