package design

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/types"
)

// Save writes sch to path in the format its extension selects. The file is
// replaced atomically.
func Save(path string, sch *types.Schematic) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	data, err := Encode(sch, format)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, errors.ErrDesignSave, "cannot write design %s", path)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, errors.ErrDesignSave, "cannot write design %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrDesignSave, "cannot write design %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, errors.ErrDesignSave, "cannot replace design %s", path)
	}

	logger := logging.GetLogger("design")
	logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("Design saved")
	return nil
}

// Encode renders sch as snapshot bytes
func Encode(sch *types.Schematic, format Format) ([]byte, error) {
	if sch == nil || sch.Root == nil {
		return nil, errors.New(errors.ErrDesignSave, "design has no root sheet")
	}
	df := encode(sch)

	var buf bytes.Buffer
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(df); err != nil {
			return nil, errors.Wrap(err, errors.ErrDesignSave, "cannot encode design")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, errors.ErrDesignSave, "cannot encode design")
		}
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(df); err != nil {
			return nil, errors.Wrap(err, errors.ErrDesignSave, "cannot encode design")
		}
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported design format %q", format)
	}
	return buf.Bytes(), nil
}

func encode(sch *types.Schematic) *designFile {
	df := &designFile{Version: CurrentVersion, Root: encodeSheet(sch.Root)}
	templates := make(map[string]*types.LibSymbol)

	for _, screen := range sch.Screens() {
		sf := screenFile{Name: screen.Name}
		for _, sym := range screen.Symbols() {
			sf.Symbols = append(sf.Symbols, encodeSymbol(sym))
			if sym.LibSymbol != nil {
				templates[sym.LibSymbol.ID.String()] = sym.LibSymbol
			}
		}
		df.Screens = append(df.Screens, sf)
	}

	keys := make([]string, 0, len(templates))
	for k := range templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		df.Templates = append(df.Templates, encodeTemplate(templates[k]))
	}
	return df
}

func encodeSheet(sh *types.Sheet) sheetFile {
	sf := sheetFile{UUID: sh.UUID.String(), Name: sh.Name}
	if sh.Screen != nil {
		sf.Screen = sh.Screen.Name
	}
	for _, child := range sh.Children {
		sf.Children = append(sf.Children, encodeSheet(child))
	}
	return sf
}

func encodeSymbol(sym *types.Symbol) symbolFile {
	sf := symbolFile{
		UUID:        sym.UUID.String(),
		LibID:       sym.LibID.String(),
		Unit:        sym.Unit,
		Position:    sym.Position,
		Orientation: sym.Orientation,
	}
	for _, f := range sym.Fields {
		effects := f.Effects
		pos := f.Position
		sf.Fields = append(sf.Fields, fieldFile{Name: f.Name, Text: f.Text, Effects: &effects, Position: &pos})
	}
	for _, inst := range sym.Instances {
		sf.Instances = append(sf.Instances, instanceFile{Path: inst.Path, Reference: inst.Reference, Value: inst.Value})
	}
	return sf
}

func encodeTemplate(tmpl *types.LibSymbol) templateFile {
	tf := templateFile{
		LibID:       tmpl.ID.String(),
		Description: tmpl.Description,
		Keywords:    tmpl.Keywords,
		Units:       tmpl.UnitCount,
		Revision:    tmpl.Revision,
	}
	for _, f := range tmpl.Fields {
		tf.Fields = append(tf.Fields, libFieldFile{Name: f.Name, Text: f.Text, Effects: f.Effects, Offset: f.Offset})
	}
	return tf
}
