// Package matchers selects the symbols a relink batch operates on.
//
// An Evaluator decides, for one symbol seen through one sheet path, whether it
// satisfies the active Criterion. Collect walks a whole schematic with an
// Evaluator and returns each matching symbol once, however many sheet paths
// reach it.
package matchers

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/types"
)

// Kind selects how symbols are matched. Exactly one is active per batch.
type Kind int

const (
	MatchAll Kind = iota
	MatchSelection
	MatchReference
	MatchValue
	MatchLibID
)

var kindNames = map[Kind]string{
	MatchAll:       "all",
	MatchSelection: "selection",
	MatchReference: "reference",
	MatchValue:     "value",
	MatchLibID:     "lib-id",
}

var kindAliases = map[string]Kind{
	"ref":    MatchReference,
	"id":     MatchLibID,
	"lib_id": MatchLibID,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind maps a criterion name to its Kind
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	if k, ok := kindAliases[name]; ok {
		return k, nil
	}
	return MatchAll, errors.Newf(errors.ErrCriterionInvalid, "unknown match criterion %q", s)
}

// Criterion is the match rule of one batch
type Criterion struct {
	Kind Kind

	// Pattern is the wildcard for MatchReference and MatchValue
	Pattern string

	// LibID is the identifier text for MatchLibID
	LibID string

	// Focus is the symbol the caller has selected, for MatchSelection
	Focus uuid.UUID

	// CaseSensitive disables case folding of wildcard comparisons
	CaseSensitive bool
}

// All matches every symbol
func All() Criterion {
	return Criterion{Kind: MatchAll}
}

// Describe renders the criterion for logs and reports
func (c Criterion) Describe() string {
	switch c.Kind {
	case MatchSelection:
		return fmt.Sprintf("selection %s", c.Focus)
	case MatchReference, MatchValue:
		return fmt.Sprintf("%s %q", c.Kind, c.Pattern)
	case MatchLibID:
		return fmt.Sprintf("lib-id %q", c.LibID)
	}
	return c.Kind.String()
}

// Evaluator applies one Criterion. Build it once per batch: the library
// identifier of a MatchLibID criterion is parsed here, up front.
type Evaluator struct {
	criterion Criterion
	libID     types.LibID
	err       error
}

// NewEvaluator prepares a criterion for matching. When the criterion is
// unusable Err reports why and Matches is false for every symbol.
func NewEvaluator(c Criterion) *Evaluator {
	e := &Evaluator{criterion: c}
	switch c.Kind {
	case MatchAll, MatchSelection, MatchReference, MatchValue:
	case MatchLibID:
		id, err := types.ParseLibID(c.LibID)
		if err != nil {
			e.err = errors.Wrapf(err, errors.ErrLibIDInvalid, "invalid library identifier %q", c.LibID)
		} else {
			e.libID = id
		}
	default:
		e.err = errors.Newf(errors.ErrCriterionInvalid, "unknown match criterion %d", int(c.Kind))
	}
	return e
}

// Err returns the reason the criterion cannot match anything, or nil
func (e *Evaluator) Err() error {
	return e.err
}

// Criterion returns the criterion being evaluated
func (e *Evaluator) Criterion() Criterion {
	return e.criterion
}

// Matches reports whether symbol, seen through path, satisfies the criterion.
// Reference and value are annotation dependent, so the same symbol may match
// through one path and not another.
func (e *Evaluator) Matches(symbol *types.Symbol, path types.SheetPath) bool {
	if e.err != nil || symbol == nil {
		return false
	}

	c := e.criterion
	switch c.Kind {
	case MatchAll:
		return true
	case MatchSelection:
		return c.Focus != uuid.Nil && symbol.UUID == c.Focus
	case MatchReference:
		return WildcardMatch(c.Pattern, symbol.Ref(path.Key()), c.CaseSensitive)
	case MatchValue:
		return WildcardMatch(c.Pattern, symbol.Value(path.Key()), c.CaseSensitive)
	case MatchLibID:
		return symbol.LibID == e.libID
	}
	return false
}

// pathSeparatorStandIn replaces '/' so doublestar's '*' can cross it
const pathSeparatorStandIn = "\x1f"

// WildcardMatch compares text against a pattern where '*' matches any run of
// characters and '?' any single character. Every other character is literal.
func WildcardMatch(pattern, text string, caseSensitive bool) bool {
	if !caseSensitive {
		pattern = strings.ToLower(pattern)
		text = strings.ToLower(text)
	}

	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '*', '?':
			b.WriteRune(r)
		case '/':
			b.WriteString(pathSeparatorStandIn)
		case '[', ']', '{', '}', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}

	matched, err := doublestar.Match(b.String(), strings.ReplaceAll(text, "/", pathSeparatorStandIn))
	if err != nil {
		return false
	}
	return matched
}
