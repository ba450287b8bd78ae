// Package library resolves library identifiers to flattened symbol templates.
//
// Templates live in a Store, grouped by library nickname. A template may derive
// from a parent in the same library; Resolver.Resolve walks that chain and
// returns one self-contained template. Stores are read-only to relink: every
// resolved template is a fresh copy.
//
// Library fixture files can be written in TOML, YAML or XML:
//
//	nickname = "Device"
//
//	[[symbols]]
//	name = "R"
//	units = 1
//
//	[[symbols.fields]]
//	name = "Reference"
//	text = "R"
//	y = -100
package library
