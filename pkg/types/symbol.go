package types

import (
	"strings"

	"github.com/google/uuid"
)

// InstanceReference holds the per-sheet-path annotation of a symbol. A symbol
// inside a reused sub-sheet has one entry per sheet path reaching it.
type InstanceReference struct {
	Path      string
	Reference string
	Value     string
}

// Symbol is a placed instance of a library template. It is owned by the Screen
// holding it and referenced by every sheet path that reaches that screen.
type Symbol struct {
	UUID        uuid.UUID
	LibID       LibID
	Unit        int
	Position    Point
	Orientation int

	// Fields holds the mandatory fields by id followed by optional fields
	Fields []Field

	// LibSymbol caches the flattened template the symbol is bound to
	LibSymbol *LibSymbol

	Instances []InstanceReference
}

// NewSymbol creates a symbol with a fresh identity and all mandatory fields
func NewSymbol(id LibID, unit int, pos Point) *Symbol {
	s := &Symbol{
		UUID:     uuid.New(),
		LibID:    id,
		Unit:     unit,
		Position: pos,
	}
	for i := 0; i < MandatoryFieldCount; i++ {
		s.Fields = append(s.Fields, Field{
			ID:       i,
			Name:     DefaultFieldName(i),
			Effects:  DefaultTextEffects(),
			Position: pos,
		})
	}
	return s
}

// GetField returns the mandatory field with the given id, or nil
func (s *Symbol) GetField(id int) *Field {
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

// FindField returns the optional field with the given name, or nil
func (s *Symbol) FindField(name string) *Field {
	for i := range s.Fields {
		if !s.Fields[i].IsMandatory() && s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// AddField appends an optional field and returns a pointer to the stored copy.
// The pointer is valid until the next AddField or RemoveField.
func (s *Symbol) AddField(f Field) *Field {
	if f.IsMandatory() {
		f.ID = s.nextFieldID()
	}
	s.Fields = append(s.Fields, f)
	return &s.Fields[len(s.Fields)-1]
}

func (s *Symbol) nextFieldID() int {
	next := MandatoryFieldCount
	for _, f := range s.Fields {
		if f.ID >= next {
			next = f.ID + 1
		}
	}
	return next
}

// RemoveField deletes the optional field with the given name. Mandatory fields
// are never removed.
func (s *Symbol) RemoveField(name string) bool {
	for i := range s.Fields {
		if !s.Fields[i].IsMandatory() && s.Fields[i].Name == name {
			s.Fields = append(s.Fields[:i], s.Fields[i+1:]...)
			return true
		}
	}
	return false
}

// Ref returns the reference designator as seen from the given sheet path,
// falling back to the Reference field text.
func (s *Symbol) Ref(path string) string {
	for _, inst := range s.Instances {
		if inst.Path == path && inst.Reference != "" {
			return inst.Reference
		}
	}
	if f := s.GetField(FieldReference); f != nil {
		return f.Text
	}
	return ""
}

// Value returns the value as seen from the given sheet path, falling back to
// the Value field text.
func (s *Symbol) Value(path string) string {
	for _, inst := range s.Instances {
		if inst.Path == path && inst.Value != "" {
			return inst.Value
		}
	}
	if f := s.GetField(FieldValue); f != nil {
		return f.Text
	}
	return ""
}

// References returns every per-path reference, space separated, in instance
// order. Without instance data the Reference field text is used.
func (s *Symbol) References() string {
	var refs []string
	for _, inst := range s.Instances {
		refs = append(refs, inst.Reference)
	}
	if len(refs) == 0 {
		return s.Ref("")
	}
	return strings.Join(refs, " ")
}

// Clone returns a deep copy sharing the cached template, which is read-only
func (s *Symbol) Clone() *Symbol {
	if s == nil {
		return nil
	}
	c := *s
	c.Fields = append([]Field(nil), s.Fields...)
	c.Instances = append([]InstanceReference(nil), s.Instances...)
	return &c
}

// Restore overwrites s with the state of a previously cloned pre-image,
// keeping s's identity (pointer) intact.
func (s *Symbol) Restore(pre *Symbol) {
	*s = *pre.Clone()
}
