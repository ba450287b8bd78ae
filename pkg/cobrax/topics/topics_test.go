package topics_test

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/relink/pkg/cobrax/topics"
	"github.com/arthur-debert/relink/pkg/errors"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"policy.md":          {Data: []byte("# Policy\n\nFive flags.\n")},
		"option-dry-run.txt": {Data: []byte("Nothing is written.\n")},
		"notes.json":         {Data: []byte("{}")},
	}
}

func TestLoad(t *testing.T) {
	m, err := topics.Load(testFS(), topics.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"option-dry-run", "policy"}, m.Names())

	topic, ok := m.Get("--dry-run")
	require.True(t, ok)
	assert.Equal(t, ".txt", topic.Ext)

	_, ok = m.Get("notes")
	assert.False(t, ok)
}

func TestPrint(t *testing.T) {
	m, err := topics.Load(testFS(), topics.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.Print(&buf, "policy"))
	assert.Equal(t, "# Policy\n\nFive flags.\n", buf.String())

	err = m.Print(&buf, "missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestPrintList(t *testing.T) {
	m, err := topics.Load(testFS(), topics.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	m.PrintList(&buf, "relink")
	assert.Contains(t, buf.String(), "General topics:\n  policy\n")
	assert.Contains(t, buf.String(), "Option topics:\n  --dry-run\n")
	assert.Contains(t, buf.String(), "'relink help <topic>'")
}

func TestInstall(t *testing.T) {
	m, err := topics.Load(testFS(), topics.Options{})
	require.NoError(t, err)

	root := &cobra.Command{Use: "relink", Short: "root short"}
	root.AddCommand(&cobra.Command{Use: "update", Short: "update short", Run: func(*cobra.Command, []string) {}})
	m.Install(root)

	run := func(args ...string) string {
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetArgs(args)
		require.NoError(t, root.Execute())
		return buf.String()
	}

	assert.Contains(t, run("help", "policy"), "Five flags.")
	assert.Contains(t, run("help", "topics"), "policy")
	assert.Contains(t, run("help", "update"), "update short")
}

func TestGlamourRendererPassesThroughNonMarkdown(t *testing.T) {
	r := topics.NewGlamourRenderer()
	assert.Equal(t, "plain", r.Render("plain", ".txt"))
	assert.Contains(t, r.Render("# Title", ".md"), "Title")
}
