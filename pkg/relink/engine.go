package relink

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/fields"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/matchers"
	"github.com/arthur-debert/relink/pkg/report"
	"github.com/arthur-debert/relink/pkg/types"
	"github.com/arthur-debert/relink/pkg/undo"
)

// maxSuggestions bounds the alternatives offered for a missing template
const maxSuggestions = 3

// Notifier is told about every symbol the batch re-inserted
type Notifier interface {
	Notify(symbol *types.Symbol)
}

// NopNotifier ignores notifications
type NopNotifier struct{}

// Notify does nothing
func (NopNotifier) Notify(*types.Symbol) {}

// Suggester offers identifiers close to one that could not be resolved
type Suggester interface {
	Suggest(id types.LibID, n int) []types.LibID
}

// Option configures an Engine
type Option func(*Engine)

// WithUndo sets the sink receiving pre-images of mutated symbols
func WithUndo(sink undo.Sink) Option {
	return func(e *Engine) { e.undo = sink }
}

// WithNotifier sets the view collaborator
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithReporter forwards every report entry to r as well as to the Result
func WithReporter(r report.Reporter) Option {
	return func(e *Engine) { e.reporter = r }
}

// WithLogger replaces the component logger
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithDryRun makes the engine report what would change without mutating.
// Result.Changed then tells whether anything would have been mutated.
func WithDryRun(dryRun bool) Option {
	return func(e *Engine) { e.dryRun = dryRun }
}

// Engine runs relink batches. It holds no per-batch state; a batch runs to
// completion synchronously and the design must not be edited concurrently.
type Engine struct {
	resolver matchers.TemplateResolver
	undo     undo.Sink
	notifier Notifier
	reporter report.Reporter
	logger   zerolog.Logger
	dryRun   bool
}

// New creates an engine resolving templates through resolver
func New(resolver matchers.TemplateResolver, opts ...Option) *Engine {
	e := &Engine{
		resolver: resolver,
		notifier: NopNotifier{},
		reporter: report.Discard,
		logger:   logging.GetLogger("relink"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// batch carries the state of one Run
type batch struct {
	*Engine
	req     Request
	target  types.LibID
	result  Result
	records int
}

// Run executes one batch over sch
func (e *Engine) Run(sch *types.Schematic, req Request) Result {
	done := logging.LogOperationStart(e.logger, "relink")
	defer done()

	evaluator, target, err := req.validate()
	if err != nil {
		e.logger.Warn().Err(err).Str("mode", req.Mode.String()).Msg("Batch aborted before any change")
		return Result{Aborted: err}
	}

	b := &batch{Engine: e, req: req, target: target}
	collection := matchers.Collect(sch, evaluator)

	e.logger.Info().
		Str("mode", req.Mode.String()).
		Str("criterion", req.Criterion.Describe()).
		Int("symbols", collection.Len()).
		Bool("dry_run", e.dryRun).
		Msg("Relinking symbols")

	for _, entry := range collection.Entries() {
		b.process(entry)
	}

	e.logger.Info().
		Bool("changed", b.result.Changed).
		Int("updated", b.result.Count(StatusUpdated)).
		Int("unchanged", b.result.Count(StatusUnchanged)).
		Int("failed", b.result.Count(StatusNotFound)+b.result.Count(StatusTooFewUnits)).
		Msg("Relink batch completed")

	return b.result
}

func (b *batch) process(entry matchers.Entry) {
	sym := entry.Symbol
	outcome := Outcome{
		Symbol:     sym.UUID,
		References: sym.References(),
		OldID:      sym.LibID,
		NewID:      sym.LibID,
	}
	if b.req.Mode == ModeChange {
		outcome.NewID = b.target
	}

	logger := b.logger.With().
		Str("symbol", outcome.References).
		Str("from", outcome.OldID.String()).
		Str("to", outcome.NewID.String()).
		Logger()

	tmpl, err := b.resolver.Resolve(outcome.NewID)
	if err != nil {
		logger.Debug().Err(err).Msg("Target template unavailable")
		outcome.Status = StatusNotFound
		outcome.Err = err
		b.finish(outcome, report.SeverityError, b.notFoundSuffix(outcome.NewID, err))
		return
	}

	if err := fields.CheckUnits(sym, tmpl); err != nil {
		logger.Debug().Err(err).Msg("Symbol rejected")
		outcome.Status = StatusTooFewUnits
		outcome.Err = err
		b.finish(outcome, report.SeverityError, "*** new symbol has too few units ***")
		return
	}

	// Work on a copy first so unchanged symbols are never detached or recorded
	preview := sym.Clone()
	fieldsChanged, _ := fields.Reconcile(preview, tmpl, b.req.Policy)
	outcome.Changes = fields.Diff(sym, preview)

	if !fieldsChanged && sym.LibID == outcome.NewID && sym.LibSymbol.Equal(tmpl) {
		outcome.Status = StatusUnchanged
		b.finish(outcome, report.SeverityInfo, "OK")
		return
	}

	outcome.Status = StatusUpdated
	for _, c := range outcome.Changes {
		logger.Trace().Str("change", c.String()).Msg("Field change")
	}

	if !b.dryRun {
		b.apply(entry, tmpl, outcome.NewID)
	}
	b.result.Changed = true
	b.finish(outcome, report.SeverityAction, "OK")
}

// apply performs the detach, record, mutate, re-insert sequence
func (b *batch) apply(entry matchers.Entry, tmpl *types.LibSymbol, newID types.LibID) {
	sym := entry.Symbol
	index := entry.Screen.Remove(sym)

	if b.undo != nil {
		b.undo.RecordChange(entry.Screen, sym, undo.ChangeKindChanged, b.records > 0)
		b.records++
	}

	// Units were checked above; Reconcile cannot reject here
	_, _ = fields.Reconcile(sym, tmpl, b.req.Policy)
	sym.LibID = newID
	sym.LibSymbol = tmpl

	entry.Screen.Insert(index, sym)
	b.notifier.Notify(sym)
}

func (b *batch) notFoundSuffix(id types.LibID, err error) string {
	suffix := "*** symbol not found ***"
	if errors.IsErrorCode(err, errors.ErrAliasCycle) {
		return suffix + " (derivation cycle)"
	}

	suggester, ok := b.resolver.(Suggester)
	if !ok {
		return suffix
	}
	alternatives := suggester.Suggest(id, maxSuggestions)
	if len(alternatives) == 0 {
		return suffix
	}
	names := make([]string, len(alternatives))
	for i, alt := range alternatives {
		names[i] = fmt.Sprintf("%q", alt.String())
	}
	return fmt.Sprintf("%s (did you mean %s?)", suffix, strings.Join(names, ", "))
}

func (b *batch) finish(outcome Outcome, severity report.Severity, suffix string) {
	msg := fmt.Sprintf("%s: %s", describe(b.req.Mode, outcome), suffix)
	b.result.Outcomes = append(b.result.Outcomes, outcome)
	b.result.Report = append(b.result.Report, report.Entry{Message: msg, Severity: severity})
	b.reporter.Report(msg, severity)
}

// describe renders the head of a report line, e.g.
// `Update symbols "R1 R2" from "Device:R" to "Device:R"`
func describe(mode Mode, o Outcome) string {
	verb := "Update"
	if mode == ModeChange {
		verb = "Change"
	}
	noun := "symbol"
	if strings.Contains(o.References, " ") {
		noun = "symbols"
	}
	return fmt.Sprintf("%s %s %q from %q to %q", verb, noun, o.References, o.OldID.String(), o.NewID.String())
}
