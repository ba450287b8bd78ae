package types

import (
	"strings"

	"github.com/arthur-debert/relink/pkg/errors"
)

// illegalLibIDChars may not appear in either part of a library identifier
const illegalLibIDChars = ":\\\t\n\r"

// LibID identifies a symbol template as nickname:name. The nickname names the
// library and may be empty; the name is required.
type LibID struct {
	Nickname string
	Name     string
}

// ParseLibID parses "nickname:name" or a bare "name". The returned error carries
// ErrLibIDInvalid when the text cannot form a valid identifier.
func ParseLibID(s string) (LibID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LibID{}, errors.New(errors.ErrLibIDInvalid, "library identifier is empty")
	}

	var id LibID
	if i := strings.IndexByte(s, ':'); i >= 0 {
		id.Nickname = s[:i]
		id.Name = s[i+1:]
	} else {
		id.Name = s
	}

	if err := id.Validate(); err != nil {
		return LibID{}, err
	}
	return id, nil
}

// MustParseLibID is ParseLibID for literals known to be valid. It panics otherwise.
func MustParseLibID(s string) LibID {
	id, err := ParseLibID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Validate reports why the identifier is not usable, or nil
func (id LibID) Validate() error {
	if strings.TrimSpace(id.Name) == "" {
		return errors.New(errors.ErrLibIDInvalid, "symbol name is empty").
			WithDetail("lib_id", id.String())
	}
	if i := strings.IndexAny(id.Name, illegalLibIDChars); i >= 0 {
		return errors.Newf(errors.ErrLibIDInvalid, "illegal character %q in symbol name", id.Name[i]).
			WithDetail("lib_id", id.String())
	}
	if i := strings.IndexAny(id.Nickname, illegalLibIDChars); i >= 0 {
		return errors.Newf(errors.ErrLibIDInvalid, "illegal character %q in library nickname", id.Nickname[i]).
			WithDetail("lib_id", id.String())
	}
	return nil
}

// IsValid is shorthand for Validate() == nil
func (id LibID) IsValid() bool {
	return id.Validate() == nil
}

// String formats the identifier the way ParseLibID reads it
func (id LibID) String() string {
	if id.Nickname == "" {
		return id.Name
	}
	return id.Nickname + ":" + id.Name
}
