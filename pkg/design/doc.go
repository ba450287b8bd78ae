// Package design reads and writes design snapshots in YAML or TOML.
//
// A snapshot holds the sheet tree, the screens the sheets display (a screen
// shown by several sheets is stored once and shared on load), and a cache of
// the flattened templates the symbols were last bound to:
//
//	version: 1
//	root:
//	  uuid: 0b6d...
//	  name: root
//	  screen: main
//	  children:
//	    - {uuid: 4f1e..., name: left, screen: psu}
//	    - {uuid: 9a2c..., name: right, screen: psu}
//	screens:
//	  - name: psu
//	    symbols:
//	      - uuid: 6ba7...
//	        lib_id: Regulator:LM7805
//	        unit: 1
//	        fields:
//	          - {name: Reference, text: U?}
//	        instances:
//	          - {path: /0b6d.../4f1e..., reference: U3}
//	templates:
//	  - lib_id: Regulator:LM7805
//	    units: 1
package design
