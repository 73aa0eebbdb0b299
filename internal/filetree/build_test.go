package filetree

import (
	"context"
	"errors"
	"testing"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, fs billy.Filesystem, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
	}
}

func TestBuildPrunesEmptyDirectories(t *testing.T) {
	fs := memfs.New()
	writeFiles(t, fs, map[string]string{
		"Mod/About/About.xml":       "<ModMetaData/>",
		"Mod/Defs/Things.xml":       "<Defs/>",
		"Mod/Textures/readme.txt":   "x",
		"Mod/Empty/Nested/.gitkeep": "",
		"Loose.xml":                 "<Defs/>",
	})
	require.NoError(t, fs.MkdirAll("Mod/Sounds/Deep/Deeper", 0o755))
	require.NoError(t, fs.Remove("Mod/Empty/Nested/.gitkeep"))

	root := Build(context.Background(), BillyEntries(fs, 2, "Mod", "Loose.xml"))

	require.True(t, root.IsRoot())
	assert.Equal(t, RootName, root.Name)
	require.Len(t, root.Files, 1)
	assert.Equal(t, "Loose.xml", root.Files[0].Name)
	require.Len(t, root.Directories, 1)

	mod := root.Dir("Mod")
	require.NotNil(t, mod)
	assert.Same(t, root, mod.Parent)

	var names []string
	for _, d := range mod.Directories {
		names = append(names, d.Name)
	}
	assert.ElementsMatch(t, []string{"About", "Defs", "Textures"}, names)
	assert.Nil(t, mod.Dir("Sounds"))
	assert.Nil(t, mod.Dir("Empty"))
}

func TestBuildReadsFileContent(t *testing.T) {
	fs := memfs.New()
	writeFiles(t, fs, map[string]string{"Mod/Defs/Things.xml": "\ufeff<Defs></Defs>"})

	root := Build(context.Background(), BillyEntries(fs, DefaultPageSize, "Mod"))
	f := root.Dir("Mod").Dir("Defs").File("Things.xml")
	require.NotNil(t, f)
	assert.Equal(t, "/Mod/Defs/Things.xml", f.Path())
	assert.Equal(t, ".xml", f.Ext())

	text, err := f.ReadText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "<Defs></Defs>", text)
}

func TestBillyReaderPagesUntilEmpty(t *testing.T) {
	fs := memfs.New()
	writeFiles(t, fs, map[string]string{"d/a": "1", "d/b": "2", "d/c": "3"})

	entries := BillyEntries(fs, 2, "d")
	require.Len(t, entries, 1)
	dir, ok := entries[0].(DirEntry)
	require.True(t, ok)

	r := dir.Reader()
	ctx := context.Background()
	page, err := r.ReadEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, page, 2)
	page, err = r.ReadEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, page, 1)
	page, err = r.ReadEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, page)

	all, err := ReadAll(ctx, dir.Reader())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Name())
	assert.Equal(t, "c", all[2].Name())
}

func TestBillyEntriesSkipsMissingPaths(t *testing.T) {
	fs := memfs.New()
	writeFiles(t, fs, map[string]string{"present.xml": "x"})

	entries := BillyEntries(fs, 0, "missing", "present.xml")
	require.Len(t, entries, 1)
	assert.Equal(t, "present.xml", entries[0].Name())
}

type failingDir struct{ name string }

func (d failingDir) Name() string      { return d.name }
func (d failingDir) IsDir() bool       { return true }
func (d failingDir) Reader() DirReader { return failingReader{} }

type failingReader struct{}

func (failingReader) ReadEntries(context.Context) ([]Entry, error) {
	return nil, errors.New("permission denied")
}

func TestBuildSkipsUnreadableDirectory(t *testing.T) {
	fs := memfs.New()
	writeFiles(t, fs, map[string]string{"Good/file.xml": "x"})

	entries := append(BillyEntries(fs, 10, "Good"), failingDir{name: "Bad"})
	root := Build(context.Background(), entries)

	require.Len(t, root.Directories, 1)
	assert.Equal(t, "Good", root.Directories[0].Name)
}

func TestWalkOrder(t *testing.T) {
	fs := memfs.New()
	writeFiles(t, fs, map[string]string{
		"m/z.xml":   "",
		"m/a/1.xml": "",
		"m/b/2.xml": "",
	})
	root := Build(context.Background(), BillyEntries(fs, 10, "m"))

	var paths []string
	for _, f := range root.AllFiles() {
		paths = append(paths, f.Path())
	}
	assert.Equal(t, []string{"/m/z.xml", "/m/a/1.xml", "/m/b/2.xml"}, paths)
}
