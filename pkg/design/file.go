package design

import (
	"github.com/arthur-debert/relink/pkg/types"
)

// CurrentVersion is written by Save; Load accepts it or 0
const CurrentVersion = 1

type designFile struct {
	Version   int            `yaml:"version" toml:"version"`
	Root      sheetFile      `yaml:"root" toml:"root"`
	Screens   []screenFile   `yaml:"screens" toml:"screens"`
	Templates []templateFile `yaml:"templates,omitempty" toml:"templates,omitempty"`
}

type sheetFile struct {
	UUID     string      `yaml:"uuid" toml:"uuid"`
	Name     string      `yaml:"name" toml:"name"`
	Screen   string      `yaml:"screen" toml:"screen"`
	Children []sheetFile `yaml:"children,omitempty" toml:"children,omitempty"`
}

type screenFile struct {
	Name    string       `yaml:"name" toml:"name"`
	Symbols []symbolFile `yaml:"symbols,omitempty" toml:"symbols,omitempty"`
}

type symbolFile struct {
	UUID        string         `yaml:"uuid" toml:"uuid"`
	LibID       string         `yaml:"lib_id" toml:"lib_id"`
	Unit        int            `yaml:"unit" toml:"unit"`
	Position    types.Point    `yaml:"position" toml:"position"`
	Orientation int            `yaml:"orientation,omitempty" toml:"orientation,omitempty"`
	Fields      []fieldFile    `yaml:"fields,omitempty" toml:"fields,omitempty"`
	Instances   []instanceFile `yaml:"instances,omitempty" toml:"instances,omitempty"`
}

type fieldFile struct {
	Name     string             `yaml:"name" toml:"name"`
	Text     string             `yaml:"text" toml:"text"`
	Effects  *types.TextEffects `yaml:"effects,omitempty" toml:"effects,omitempty"`
	Position *types.Point       `yaml:"position,omitempty" toml:"position,omitempty"`
}

type instanceFile struct {
	Path      string `yaml:"path" toml:"path"`
	Reference string `yaml:"reference" toml:"reference"`
	Value     string `yaml:"value,omitempty" toml:"value,omitempty"`
}

type templateFile struct {
	LibID       string         `yaml:"lib_id" toml:"lib_id"`
	Description string         `yaml:"description,omitempty" toml:"description,omitempty"`
	Keywords    string         `yaml:"keywords,omitempty" toml:"keywords,omitempty"`
	Units       int            `yaml:"units" toml:"units"`
	Revision    int            `yaml:"revision,omitempty" toml:"revision,omitempty"`
	Fields      []libFieldFile `yaml:"fields,omitempty" toml:"fields,omitempty"`
}

type libFieldFile struct {
	Name    string            `yaml:"name" toml:"name"`
	Text    string            `yaml:"text" toml:"text"`
	Effects types.TextEffects `yaml:"effects" toml:"effects"`
	Offset  types.Point       `yaml:"offset" toml:"offset"`
}
