// Package relink runs a bulk re-link batch over a hierarchical design.
//
// A batch selects symbols with a matchers.Criterion, resolves the template
// each one should be bound to, and reconciles its fields under a
// fields.Policy. Refresh-in-place (ModeUpdate) re-syncs every symbol against
// its own current template; retarget (ModeChange) binds every matched symbol
// to one new identifier.
//
// The engine validates everything it can before touching the design: an
// invalid target identifier aborts the batch with no mutation and an empty
// report. Once processing starts, failures are per symbol. A missing template
// or a template with too few units is reported and the batch moves on.
//
// Every mutated symbol is detached from its screen, recorded in the undo sink
// and re-inserted at its old index. The first record opens a transaction and
// the rest append to it, so one undo step reverts the whole batch.
package relink
