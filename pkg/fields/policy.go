// Package fields reconciles the editable fields of a placed symbol against a
// flattened library template.
package fields

import (
	"sort"
	"strings"

	"github.com/arthur-debert/relink/pkg/types"
)

// Policy selects which aspects of a symbol's fields are reset from the
// template. The axes are independent of each other.
type Policy struct {
	RemoveExtraFields bool `koanf:"remove_extra_fields" toml:"remove_extra_fields"`
	ResetEmptyFields  bool `koanf:"reset_empty_fields" toml:"reset_empty_fields"`
	ResetVisibility   bool `koanf:"reset_visibility" toml:"reset_visibility"`
	ResetEffects      bool `koanf:"reset_effects" toml:"reset_effects"`
	ResetPositions    bool `koanf:"reset_positions" toml:"reset_positions"`

	// UpdateFields names fields that are never merged. Optional template fields
	// listed here are created on symbols that lack them.
	UpdateFields []string `koanf:"update_fields" toml:"update_fields"`
}

// DefaultUpdateFields is every mandatory field name except Reference and Value
func DefaultUpdateFields() []string {
	var out []string
	for i := 0; i < types.MandatoryFieldCount; i++ {
		if i == types.FieldReference || i == types.FieldValue {
			continue
		}
		out = append(out, types.DefaultFieldName(i))
	}
	return out
}

// DefaultPolicy merges nothing and protects DefaultUpdateFields
func DefaultPolicy() Policy {
	return Policy{UpdateFields: DefaultUpdateFields()}
}

// InUpdateSet reports whether name is in the update set. Mandatory field
// names match case-insensitively, optional names exactly.
func (p Policy) InUpdateSet(name string) bool {
	id := types.MandatoryFieldID(name)
	for _, n := range p.UpdateFields {
		if n == name || (id >= 0 && types.MandatoryFieldID(n) == id) {
			return true
		}
	}
	return false
}

// Normalize trims, deduplicates and sorts the update set. Mandatory field
// names are spelled canonically.
func (p Policy) Normalize() Policy {
	seen := make(map[string]bool)
	var names []string
	for _, n := range p.UpdateFields {
		n = strings.TrimSpace(n)
		if id := types.MandatoryFieldID(n); id >= 0 {
			n = types.DefaultFieldName(id)
		}
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	sort.Strings(names)
	p.UpdateFields = names
	return p
}
