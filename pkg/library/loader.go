package library

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/types"
)

// Format is a library fixture encoding
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
)

// FormatForPath picks the encoding from a file extension
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".xml":
		return FormatXML, true
	}
	return "", false
}

type libraryFile struct {
	Nickname string       `toml:"nickname" yaml:"nickname"`
	Symbols  []symbolFile `toml:"symbols" yaml:"symbols"`
}

type symbolFile struct {
	Name        string      `toml:"name" yaml:"name"`
	Description string      `toml:"description" yaml:"description"`
	Keywords    string      `toml:"keywords" yaml:"keywords"`
	Extends     string      `toml:"extends" yaml:"extends"`
	Units       int         `toml:"units" yaml:"units"`
	Revision    int         `toml:"revision" yaml:"revision"`
	Fields      []fieldFile `toml:"fields" yaml:"fields"`
}

type fieldFile struct {
	Name   string `toml:"name" yaml:"name"`
	Text   string `toml:"text" yaml:"text"`
	X      int    `toml:"x" yaml:"x"`
	Y      int    `toml:"y" yaml:"y"`
	Size   int    `toml:"size" yaml:"size"`
	Bold   bool   `toml:"bold" yaml:"bold"`
	Italic bool   `toml:"italic" yaml:"italic"`
	Hidden bool   `toml:"hidden" yaml:"hidden"`
}

// LoadFile reads one library fixture. The nickname defaults to the file's
// base name when the file does not declare one.
func LoadFile(path string) (*MemoryStore, error) {
	format, ok := FormatForPath(path)
	if !ok {
		return nil, errors.Newf(errors.ErrLibraryLoad, "unsupported library file %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrLibraryLoad, "cannot open library %s", path)
	}
	defer func() { _ = f.Close() }()

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Load(f, format, base)
}

// LoadDir reads every library fixture directly inside dir, in name order
func LoadDir(dir string) (*MemoryStore, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrLibraryLoad, "cannot read library directory %s", dir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := FormatForPath(e.Name()); ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	store := NewMemoryStore()
	for _, name := range names {
		lib, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		store.Merge(lib)
	}
	return store, nil
}

// LoadPaths loads a mix of library files and directories into one store
func LoadPaths(paths []string) (*MemoryStore, error) {
	logger := logging.GetLogger("library.loader")
	store := NewMemoryStore()
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrLibraryLoad, "cannot access library %s", p)
		}
		var lib *MemoryStore
		if info.IsDir() {
			lib, err = LoadDir(p)
		} else {
			lib, err = LoadFile(p)
		}
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("path", p).Int("symbols", lib.Len()).Msg("Library loaded")
		store.Merge(lib)
	}
	return store, nil
}

// Load decodes a library fixture from r
func Load(r io.Reader, format Format, defaultNickname string) (*MemoryStore, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrLibraryLoad, "cannot read library")
	}

	var lib libraryFile
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &lib)
	case FormatYAML:
		err = yaml.Unmarshal(data, &lib)
	case FormatXML:
		lib, err = decodeXML(data)
	default:
		return nil, errors.Newf(errors.ErrLibraryLoad, "unsupported library format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrLibraryLoad, "cannot decode %s library", format)
	}

	if lib.Nickname == "" {
		lib.Nickname = defaultNickname
	}

	store := NewMemoryStore()
	for _, sf := range lib.Symbols {
		sym, err := sf.toLibSymbol(lib.Nickname)
		if err != nil {
			return nil, err
		}
		if err := store.Add(sym); err != nil {
			return nil, errors.Wrapf(err, errors.ErrLibraryLoad, "invalid symbol %q in library %q", sf.Name, lib.Nickname)
		}
	}
	return store, nil
}

func (sf symbolFile) toLibSymbol(nickname string) (*types.LibSymbol, error) {
	id := types.LibID{Nickname: nickname, Name: sf.Name}
	if err := id.Validate(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrLibraryLoad, "invalid symbol in library %q", nickname)
	}

	sym := &types.LibSymbol{
		ID:          id,
		Description: sf.Description,
		Keywords:    sf.Keywords,
		ParentName:  sf.Extends,
		UnitCount:   sf.Units,
		Revision:    sf.Revision,
	}
	if sym.UnitCount <= 0 && !sym.IsAlias() {
		sym.UnitCount = 1
	}

	var mandatory [types.MandatoryFieldCount]*types.LibField
	var optional []types.LibField
	for _, ff := range sf.Fields {
		lf := ff.toLibField()
		if id := types.MandatoryFieldID(ff.Name); id >= 0 {
			lf.ID = id
			lf.Name = types.DefaultFieldName(id)
			mandatory[id] = &lf
			continue
		}
		lf.ID = types.MandatoryFieldCount + len(optional)
		optional = append(optional, lf)
	}

	for i := 0; i < types.MandatoryFieldCount; i++ {
		if mandatory[i] != nil {
			sym.Fields = append(sym.Fields, *mandatory[i])
			continue
		}
		sym.Fields = append(sym.Fields, types.LibField{
			ID:      i,
			Name:    types.DefaultFieldName(i),
			Effects: types.DefaultTextEffects(),
		})
	}
	sym.Fields = append(sym.Fields, optional...)
	return sym, nil
}

func (ff fieldFile) toLibField() types.LibField {
	effects := types.DefaultTextEffects()
	if ff.Size > 0 {
		effects.Size = types.Point{X: ff.Size, Y: ff.Size}
	}
	effects.Bold = ff.Bold
	effects.Italic = ff.Italic
	effects.Visible = !ff.Hidden
	return types.LibField{
		Name:    ff.Name,
		Text:    ff.Text,
		Effects: effects,
		Offset:  types.Point{X: ff.X, Y: ff.Y},
	}
}


// decodeXML reads the <library nickname=".."><symbol ..><field ../></symbol></library> layout
func decodeXML(data []byte) (libraryFile, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(bytes.NewReader(data)); err != nil {
		return libraryFile{}, err
	}

	root := doc.SelectElement("library")
	if root == nil {
		return libraryFile{}, errors.New(errors.ErrLibraryLoad, "missing <library> root element")
	}

	lib := libraryFile{Nickname: root.SelectAttrValue("nickname", "")}
	for _, el := range root.SelectElements("symbol") {
		sf := symbolFile{
			Name:        el.SelectAttrValue("name", ""),
			Description: el.SelectAttrValue("description", ""),
			Keywords:    el.SelectAttrValue("keywords", ""),
			Extends:     el.SelectAttrValue("extends", ""),
			Units:       intAttr(el, "units"),
			Revision:    intAttr(el, "revision"),
		}
		for _, fel := range el.SelectElements("field") {
			sf.Fields = append(sf.Fields, fieldFile{
				Name:   fel.SelectAttrValue("name", ""),
				Text:   fel.SelectAttrValue("text", fel.Text()),
				X:      intAttr(fel, "x"),
				Y:      intAttr(fel, "y"),
				Size:   intAttr(fel, "size"),
				Bold:   boolAttr(fel, "bold"),
				Italic: boolAttr(fel, "italic"),
				Hidden: boolAttr(fel, "hidden"),
			})
		}
		lib.Symbols = append(lib.Symbols, sf)
	}
	return lib, nil
}

func intAttr(el *etree.Element, key string) int {
	n, err := strconv.Atoi(el.SelectAttrValue(key, "0"))
	if err != nil {
		return 0
	}
	return n
}

func boolAttr(el *etree.Element, key string) bool {
	b, err := strconv.ParseBool(el.SelectAttrValue(key, "false"))
	return err == nil && b
}
