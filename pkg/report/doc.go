// Package report collects the per-symbol messages produced by a relink batch
// and renders them for the terminal, plain text or JSON.
//
// A Log is append-only while a batch runs; callers Clear it between runs.
package report
