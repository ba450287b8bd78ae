// Package types defines the design model shared by relink's packages: library
// identifiers and templates, placed symbols with their fields, and the sheet
// hierarchy that places them.
//
// A Screen owns its symbols. Sheets point at screens, and a screen used by
// more than one sheet (a reused sub-sheet) makes its symbols reachable through
// several SheetPaths. Symbol identity is the UUID, never the pointer.
package types
