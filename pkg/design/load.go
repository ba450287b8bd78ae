package design

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/types"
)

// Format is a snapshot encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the encoding from a file extension
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unsupported design file %s, expected .yaml or .toml", path)
}

// Load reads the snapshot at path
func Load(path string) (*types.Schematic, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDesignLoad, "cannot read design %s", path)
	}

	sch, err := Decode(data, format)
	if err != nil {
		return nil, err
	}

	logger := logging.GetLogger("design")
	logger.Debug().
		Str("path", path).
		Int("sheets", len(sch.Sheets())).
		Int("screens", len(sch.Screens())).
		Msg("Design loaded")
	return sch, nil
}

// Decode builds a schematic from snapshot bytes
func Decode(data []byte, format Format) (*types.Schematic, error) {
	var df designFile
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &df)
	case FormatTOML:
		err = toml.Unmarshal(data, &df)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported design format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDesignLoad, "cannot decode %s design", format)
	}

	if df.Version > CurrentVersion {
		return nil, errors.Newf(errors.ErrDesignInvalid, "design version %d is newer than supported %d", df.Version, CurrentVersion)
	}
	return (&decoder{}).build(&df)
}

type decoder struct {
	templates map[string]*types.LibSymbol
	screens   map[string]*types.Screen
	symbols   map[uuid.UUID]bool
	sheets    map[uuid.UUID]bool
}

func (d *decoder) build(df *designFile) (*types.Schematic, error) {
	d.templates = make(map[string]*types.LibSymbol)
	d.screens = make(map[string]*types.Screen)
	d.symbols = make(map[uuid.UUID]bool)
	d.sheets = make(map[uuid.UUID]bool)

	for _, tf := range df.Templates {
		tmpl, err := decodeTemplate(tf)
		if err != nil {
			return nil, err
		}
		d.templates[tmpl.ID.String()] = tmpl
	}

	for _, sf := range df.Screens {
		if sf.Name == "" {
			return nil, errors.New(errors.ErrDesignInvalid, "screen without a name")
		}
		if _, dup := d.screens[sf.Name]; dup {
			return nil, errors.Newf(errors.ErrDesignInvalid, "duplicate screen %q", sf.Name)
		}
		screen := types.NewScreen(sf.Name)
		for i, symf := range sf.Symbols {
			sym, err := d.decodeSymbol(symf)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrDesignInvalid, "screen %q symbol %d", sf.Name, i).
					WithDetail("screen", sf.Name)
			}
			screen.Append(sym)
		}
		d.screens[sf.Name] = screen
	}

	root, err := d.decodeSheet(df.Root)
	if err != nil {
		return nil, err
	}
	return &types.Schematic{Root: root}, nil
}

func (d *decoder) decodeSheet(sf sheetFile) (*types.Sheet, error) {
	screen, ok := d.screens[sf.Screen]
	if !ok {
		return nil, errors.Newf(errors.ErrDesignInvalid, "sheet %q displays unknown screen %q", sf.Name, sf.Screen)
	}

	id, err := parseUUID(sf.UUID)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDesignInvalid, "sheet %q", sf.Name)
	}
	if d.sheets[id] {
		return nil, errors.Newf(errors.ErrDesignInvalid, "duplicate sheet uuid %s", id)
	}
	d.sheets[id] = true

	sheet := &types.Sheet{UUID: id, Name: sf.Name, Screen: screen}
	for _, child := range sf.Children {
		c, err := d.decodeSheet(child)
		if err != nil {
			return nil, err
		}
		sheet.AddChild(c)
	}
	return sheet, nil
}

func (d *decoder) decodeSymbol(sf symbolFile) (*types.Symbol, error) {
	libID, err := types.ParseLibID(sf.LibID)
	if err != nil {
		return nil, err
	}
	id, err := parseUUID(sf.UUID)
	if err != nil {
		return nil, err
	}
	if d.symbols[id] {
		return nil, errors.Newf(errors.ErrDesignInvalid, "duplicate symbol uuid %s", id)
	}
	d.symbols[id] = true

	unit := sf.Unit
	if unit <= 0 {
		unit = 1
	}
	sym := types.NewSymbol(libID, unit, sf.Position)
	sym.UUID = id
	sym.Orientation = sf.Orientation
	sym.LibSymbol = d.templates[libID.String()]

	for _, ff := range sf.Fields {
		field := types.Field{
			Name:     ff.Name,
			Text:     ff.Text,
			Effects:  types.DefaultTextEffects(),
			Position: sf.Position,
		}
		if ff.Effects != nil {
			field.Effects = *ff.Effects
		}
		if ff.Position != nil {
			field.Position = *ff.Position
		}

		if mid := types.MandatoryFieldID(ff.Name); mid >= 0 {
			field.ID = mid
			field.Name = types.DefaultFieldName(mid)
			*sym.GetField(mid) = field
			continue
		}
		if ff.Name == "" {
			return nil, errors.New(errors.ErrDesignInvalid, "optional field without a name")
		}
		if sym.FindField(ff.Name) != nil {
			return nil, errors.Newf(errors.ErrDesignInvalid, "duplicate field %q", ff.Name)
		}
		sym.AddField(field)
	}

	for _, inst := range sf.Instances {
		sym.Instances = append(sym.Instances, types.InstanceReference{
			Path:      inst.Path,
			Reference: inst.Reference,
			Value:     inst.Value,
		})
	}
	return sym, nil
}

func decodeTemplate(tf templateFile) (*types.LibSymbol, error) {
	id, err := types.ParseLibID(tf.LibID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDesignInvalid, "cached template")
	}
	tmpl := &types.LibSymbol{
		ID:          id,
		Description: tf.Description,
		Keywords:    tf.Keywords,
		UnitCount:   tf.Units,
		Revision:    tf.Revision,
	}
	next := types.MandatoryFieldCount
	for _, lf := range tf.Fields {
		field := types.LibField{Name: lf.Name, Text: lf.Text, Effects: lf.Effects, Offset: lf.Offset}
		if mid := types.MandatoryFieldID(lf.Name); mid >= 0 {
			field.ID = mid
		} else {
			field.ID = next
			next++
		}
		tmpl.Fields = append(tmpl.Fields, field)
	}
	return tmpl, nil
}


// parseUUID accepts an empty string as "assign a fresh identity"
func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.Wrapf(err, errors.ErrDesignInvalid, "invalid uuid %q", s)
	}
	return id, nil
}
