package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cli "github.com/arthur-debert/relink/cmd/relink"
	"github.com/arthur-debert/relink/pkg/design"
	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/report"
	"github.com/arthur-debert/relink/pkg/testutil"
	"github.com/arthur-debert/relink/pkg/types"
)

const deviceLibrary = `
nickname = "Device"

[[symbols]]
name = "R"

  [[symbols.fields]]
  name = "Footprint"
  text = "R_0603"

  [[symbols.fields]]
  name = "Tolerance"
  text = "5%"

[[symbols]]
name = "R_Small"

  [[symbols.fields]]
  name = "Footprint"
  text = "R_0402"

[[symbols]]
name = "C"

  [[symbols.fields]]
  name = "Voltage"
  text = "16V"
`

// workspace is an isolated directory holding a library and a design
type workspace struct {
	dir     string
	library string
	design  string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	testutil.Chdir(t, dir)

	d := testutil.NewDesign(t)
	d.Place("root", "R1", "Device:R", testutil.WithValue("10k"),
		testutil.WithFootprint("R_0805"), testutil.WithField("MPN", "RC0805"))
	d.Place("root", "R2", "Device:R", testutil.WithValue("1k"))
	d.Place("root", "C1", "Device:C", testutil.WithValue("100n"))

	w := &workspace{
		dir:     dir,
		library: testutil.CreateFile(t, dir, "device.toml", deviceLibrary),
		design:  filepath.Join(dir, "board.yaml"),
	}
	require.NoError(t, design.Save(w.design, d.Schematic))
	return w
}

// run executes the root command and returns stdout and stderr
func (w *workspace) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd := cli.NewRootCmd()
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (w *workspace) load(t *testing.T) *types.Schematic {
	t.Helper()
	sch, err := design.Load(w.design)
	require.NoError(t, err)
	return sch
}

func findByRef(t *testing.T, sch *types.Schematic, ref string) *types.Symbol {
	t.Helper()
	for _, sc := range sch.Screens() {
		for _, sym := range sc.Symbols() {
			if sym.References() == ref {
				return sym
			}
		}
	}
	t.Fatalf("no symbol %s", ref)
	return nil
}

func TestUpdate_RefreshesDesignInPlace(t *testing.T) {
	w := newWorkspace(t)

	out, _, err := w.run(t, "update", w.design, "-L", w.library, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, `Update symbol "R1" from "Device:R" to "Device:R": OK`)
	assert.Contains(t, out, `Update symbol "C1" from "Device:C" to "Device:C": OK`)
	assert.Contains(t, out, "design modified")

	sch := w.load(t)
	r1 := findByRef(t, sch, "R1")
	assert.NotNil(t, r1.LibSymbol)
	assert.Equal(t, "R_0805", r1.GetField(types.FieldFootprint).Text, "update-set fields keep their instance value")
	assert.Equal(t, "10k", r1.GetField(types.FieldValue).Text)
	assert.NotNil(t, r1.FindField("MPN"))
	assert.Nil(t, r1.FindField("Tolerance"), "optional fields outside the update set are not created")
}

func TestUpdate_UpdateFieldCreatesOptional(t *testing.T) {
	w := newWorkspace(t)

	_, _, err := w.run(t, "update", w.design, "-L", w.library, "--format", "text",
		"--ref", "R*", "--update-field", "Tolerance")
	require.NoError(t, err)

	for _, ref := range []string{"R1", "R2"} {
		tol := findByRef(t, w.load(t), ref).FindField("Tolerance")
		require.NotNil(t, tol)
		assert.Equal(t, "5%", tol.Text)
	}
}

func TestUpdate_SecondRunIsUpToDate(t *testing.T) {
	w := newWorkspace(t)

	_, _, err := w.run(t, "update", w.design, "-L", w.library, "--format", "text")
	require.NoError(t, err)
	before, err := os.ReadFile(w.design)
	require.NoError(t, err)

	out, _, err := w.run(t, "update", w.design, "-L", w.library, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "0 updated, 3 up to date, 0 failed, design unchanged")

	after, err := os.ReadFile(w.design)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestChange_RetargetsMatchingSymbols(t *testing.T) {
	w := newWorkspace(t)

	out, _, err := w.run(t, "change", w.design, "-L", w.library, "--format", "text",
		"--lib-id", "Device:R", "--to", "Device:R_Small", "--remove-extra", "--explain")
	require.NoError(t, err)
	assert.Contains(t, out, `Change symbol "R1" from "Device:R" to "Device:R_Small": OK`)
	assert.NotContains(t, out, "C1")
	assert.Contains(t, out, "R1 (Device:R -> Device:R_Small):")
	assert.Contains(t, out, "MPN")

	sch := w.load(t)
	for _, ref := range []string{"R1", "R2"} {
		sym := findByRef(t, sch, ref)
		assert.Equal(t, "Device:R_Small", sym.LibID.String())
		assert.Nil(t, sym.FindField("MPN"))
	}
	assert.Equal(t, "R_0805", findByRef(t, sch, "R1").GetField(types.FieldFootprint).Text)
	assert.Empty(t, findByRef(t, sch, "R2").GetField(types.FieldFootprint).Text)
	assert.Equal(t, "Device:C", findByRef(t, sch, "C1").LibID.String())
}

func TestChange_UnknownTargetReportsNotFound(t *testing.T) {
	w := newWorkspace(t)

	out, _, err := w.run(t, "change", w.design, "-L", w.library, "--format", "text",
		"--ref", "R1", "--to", "Device:R_Smal")
	require.NoError(t, err)
	assert.Contains(t, out, `*** symbol not found ***`)
	assert.Contains(t, out, `did you mean "Device:R_Small"`)
	assert.Equal(t, "Device:R", findByRef(t, w.load(t), "R1").LibID.String())
}

func TestChange_InvalidTargetAborts(t *testing.T) {
	w := newWorkspace(t)
	before, err := os.ReadFile(w.design)
	require.NoError(t, err)

	out, _, err := w.run(t, "change", w.design, "-L", w.library, "--to", "Device:")
	require.Error(t, err)
	assert.Equal(t, errors.ErrLibIDInvalid, errors.GetErrorCode(err))
	assert.Empty(t, out)

	after, err := os.ReadFile(w.design)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestChange_RequiresTarget(t *testing.T) {
	w := newWorkspace(t)

	_, _, err := w.run(t, "change", w.design, "-L", w.library)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "to")
}

func TestUpdate_DryRunLeavesDesign(t *testing.T) {
	w := newWorkspace(t)
	before, err := os.ReadFile(w.design)
	require.NoError(t, err)

	out, stderr, err := w.run(t, "update", w.design, "-L", w.library, "--format", "text", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "3 updated")
	assert.Contains(t, stderr, "DRY RUN")

	after, err := os.ReadFile(w.design)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestUpdate_OutputPath(t *testing.T) {
	w := newWorkspace(t)
	dest := filepath.Join(w.dir, "out.toml")

	_, _, err := w.run(t, "update", w.design, "-L", w.library, "--format", "text", "-o", dest)
	require.NoError(t, err)

	sch, err := design.Load(dest)
	require.NoError(t, err)
	assert.NotNil(t, findByRef(t, sch, "R1").LibSymbol)
	assert.Nil(t, findByRef(t, w.load(t), "R1").LibSymbol)
}

func TestUpdate_JSONReport(t *testing.T) {
	w := newWorkspace(t)

	out, _, err := w.run(t, "update", w.design, "-L", w.library, "--format", "json", "--value", "10*")
	require.NoError(t, err)

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.True(t, doc.Changed)
	require.Len(t, doc.Entries, 1)
	assert.Equal(t, report.SeverityAction, doc.Entries[0].Severity)
	assert.Equal(t, 1, doc.Counts["action"])
}

func TestUpdate_LibrariesFromProjectConfig(t *testing.T) {
	w := newWorkspace(t)
	testutil.CreateFile(t, w.dir, ".relink.toml", "[library]\npaths = [\"device.toml\"]\n\n[output]\nformat = \"text\"\n")

	out, _, err := w.run(t, "update", w.design)
	require.NoError(t, err)
	assert.Contains(t, out, "3 updated")
}

func TestUpdate_Errors(t *testing.T) {
	tests := []struct {
		name string
		args func(w *workspace) []string
		code errors.ErrorCode
	}{
		{
			name: "no libraries",
			args: func(w *workspace) []string { return []string{"update", w.design} },
			code: errors.ErrInvalidInput,
		},
		{
			name: "two criteria",
			args: func(w *workspace) []string {
				return []string{"update", w.design, "-L", w.library, "--ref", "R*", "--value", "1k"}
			},
			code: errors.ErrCriterionInvalid,
		},
		{
			name: "bad symbol uuid",
			args: func(w *workspace) []string {
				return []string{"update", w.design, "-L", w.library, "--symbol", "nope"}
			},
			code: errors.ErrInvalidInput,
		},
		{
			name: "missing design",
			args: func(w *workspace) []string {
				return []string{"update", filepath.Join(w.dir, "missing.yaml"), "-L", w.library}
			},
			code: errors.ErrDesignLoad,
		},
		{
			name: "bad format",
			args: func(w *workspace) []string {
				return []string{"update", w.design, "-L", w.library, "--format", "xml"}
			},
			code: errors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorkspace(t)
			_, _, err := w.run(t, tt.args(w)...)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
		})
	}
}

func TestUpdate_SavePolicy(t *testing.T) {
	w := newWorkspace(t)

	_, stderr, err := w.run(t, "update", w.design, "-L", w.library, "--format", "text",
		"--reset-effects", "--update-field", "MPN", "--save-policy")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Policy saved")

	data, err := os.ReadFile(filepath.Join(w.dir, "config", "relink", "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "reset_effects = true")
	assert.Contains(t, string(data), "MPN")
}

func TestFields_ListsCandidates(t *testing.T) {
	w := newWorkspace(t)

	out, _, err := w.run(t, "fields", w.design, "-L", w.library)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tolerance", "Voltage"}, strings.Fields(out))

	out, _, err = w.run(t, "fields", w.design, "-L", w.library, "--to", "Device:R_Small")
	require.NoError(t, err)
	assert.Contains(t, out, "No optional fields")
}

func TestGenConfig(t *testing.T) {
	w := newWorkspace(t)

	out, _, err := w.run(t, "gen-config")
	require.NoError(t, err)
	assert.Contains(t, out, "[policy]")
	assert.Contains(t, out, "# reset_effects = false")

	_, _, err = w.run(t, "gen-config", "-w")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(w.dir, ".relink.toml"))

	_, _, err = w.run(t, "gen-config", "-w")
	require.Error(t, err)
}

func TestMiscCommands(t *testing.T) {
	w := newWorkspace(t)

	out, _, err := w.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "relink dev")

	out, _, err = w.run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "relink")

	_, _, err = w.run(t, "completion", "tcsh")
	require.Error(t, err)

	out, _, err = w.run(t, "policy")
	require.NoError(t, err)
	assert.Contains(t, out, "reset-empty")

	out, _, err = w.run(t, "help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "matching")
	assert.Contains(t, out, "--dry-run")

	_, _, err = w.run(t, []string{}...)
	require.Error(t, err)
}
