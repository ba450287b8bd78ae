package relink

import (
	"github.com/google/uuid"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/fields"
	"github.com/arthur-debert/relink/pkg/matchers"
	"github.com/arthur-debert/relink/pkg/report"
	"github.com/arthur-debert/relink/pkg/types"
)

// Mode selects where each symbol's target template comes from
type Mode int

const (
	// ModeUpdate re-syncs each symbol with its own current identifier
	ModeUpdate Mode = iota
	// ModeChange binds every symbol to Request.NewLibID
	ModeChange
)

func (m Mode) String() string {
	if m == ModeChange {
		return "change"
	}
	return "update"
}

// Request describes one batch
type Request struct {
	Criterion matchers.Criterion
	Mode      Mode

	// NewLibID is the retarget identifier text, used with ModeChange only
	NewLibID string

	Policy fields.Policy
}

// Status is the per-symbol result of a batch
type Status int

const (
	StatusUpdated Status = iota
	StatusUnchanged
	StatusNotFound
	StatusTooFewUnits
)

var statusNames = map[Status]string{
	StatusUpdated:     "updated",
	StatusUnchanged:   "unchanged",
	StatusNotFound:    "not-found",
	StatusTooFewUnits: "too-few-units",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Failed reports whether the symbol was skipped because of an error
func (s Status) Failed() bool {
	return s == StatusNotFound || s == StatusTooFewUnits
}

// Outcome records what happened to one scheduled symbol
type Outcome struct {
	Symbol     uuid.UUID
	References string
	OldID      types.LibID
	NewID      types.LibID
	Status     Status
	Changes    []fields.Change
	Err        error
}

// Result is what a batch hands back to its caller
type Result struct {
	// Changed is true when at least one symbol was mutated. Callers use it to
	// decide on connectivity re-analysis and marking the design modified.
	Changed bool

	Report   []report.Entry
	Outcomes []Outcome

	// Aborted is set when validation failed and nothing was touched
	Aborted error
}

// Count returns the number of outcomes with the given status
func (r Result) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// validate parses every identifier the batch depends on
func (req Request) validate() (*matchers.Evaluator, types.LibID, error) {
	var target types.LibID
	if req.Mode == ModeChange {
		id, err := types.ParseLibID(req.NewLibID)
		if err != nil {
			return nil, target, errors.Wrapf(err, errors.ErrLibIDInvalid, "invalid new library identifier %q", req.NewLibID)
		}
		target = id
	}

	evaluator := matchers.NewEvaluator(req.Criterion)
	if err := evaluator.Err(); err != nil {
		return nil, target, err
	}
	return evaluator, target, nil
}
