package modlayout

import (
	"context"
	"testing"

	"mod-translator/internal/filetree"
	"mod-translator/internal/language"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func about(id string) string {
	return `<?xml version="1.0" encoding="utf-8"?>
<ModMetaData><name>Mod ` + id + `</name><packageId>` + id + `</packageId></ModMetaData>`
}

// buildTree drops every top-level entry of files and returns the drop root.
func buildTree(t *testing.T, files map[string]string, dropped ...string) *filetree.Directory {
	t.Helper()
	fs := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
	}
	return filetree.Build(context.Background(), filetree.BillyEntries(fs, 10, dropped...))
}

func dirNames(dirs []*filetree.Directory) []string {
	names := make([]string, 0, len(dirs))
	for _, d := range dirs {
		names = append(names, d.Name)
	}
	return names
}

func TestFindModsSingleMod(t *testing.T) {
	root := buildTree(t, map[string]string{
		"MyMod/About/About.xml":    about("author.mymod"),
		"MyMod/Defs/Things.xml":    "<Defs/>",
		"MyMod/Nested/About/x.txt": "not metadata",
	}, "MyMod")

	mods := FindMods(context.Background(), root, "default")
	require.Len(t, mods, 1)
	assert.Equal(t, "author.mymod", mods[0].ModID)
	assert.Equal(t, "Mod author.mymod", mods[0].Name)
	assert.Equal(t, "MyMod", mods[0].Dir.Name)
}

func TestFindModsNoMetadataUsesWholeRoot(t *testing.T) {
	root := buildTree(t, map[string]string{
		"Loose/Defs/Things.xml": "<Defs/>",
		"Other/Keys.xml":        "<LanguageData/>",
	}, "Loose", "Other")

	mods := FindMods(context.Background(), root, "fallback")
	require.Len(t, mods, 1)
	assert.Equal(t, "fallback", mods[0].ModID)
	assert.Same(t, root, mods[0].Dir)
}

func TestFindModsCollectionWithOrphans(t *testing.T) {
	root := buildTree(t, map[string]string{
		"Collection/A/About/About.xml":       about("a"),
		"Collection/A/Defs/Things.xml":       "<Defs/>",
		"Collection/Group/B/About/About.xml": about("b"),
		"Collection/Group/Loose/Things.xml":  "<Defs/>",
		"Collection/Stray/Defs/Things.xml":   "<Defs/>",
		"Collection/Stray2/Things.xml":       "<Defs/>",
		"Collection/Broken/About/About.xml":  "<ModMetaData><packageId>",
		"Collection/NoId/About/About.xml":    "<ModMetaData><name>x</name></ModMetaData>",
	}, "Collection")

	mods := FindMods(context.Background(), root, "default")

	got := map[string][]string{}
	for _, m := range mods {
		got[m.ModID] = append(got[m.ModID], m.Dir.Path())
	}
	assert.Equal(t, []string{"/Collection/A"}, got["a"])
	assert.Equal(t, []string{"/Collection/Group/B"}, got["b"])
	assert.ElementsMatch(t, []string{
		"/Collection/Group/Loose",
		"/Collection/Stray",
		"/Collection/Stray2",
		"/Collection/Broken",
		"/Collection/NoId",
	}, got["default"])
	assert.Len(t, mods, 7)
}

func TestFindModsDoesNotDescendIntoMod(t *testing.T) {
	root := buildTree(t, map[string]string{
		"Outer/About/About.xml":       about("outer"),
		"Outer/Inner/About/About.xml": about("inner"),
	}, "Outer")

	mods := FindMods(context.Background(), root, "default")
	require.Len(t, mods, 1)
	assert.Equal(t, "outer", mods[0].ModID)
}

func TestResolveLayoutLatestDeclared(t *testing.T) {
	root := buildTree(t, map[string]string{
		"M/LoadFolders.xml": `<loadFolders>
  <v1.2><li>1.2</li></v1.2>
  <v1.4><li>/</li><li>1.4</li></v1.4>
  <v1.0><li>1.0</li></v1.0>
  <notAVersion><li>nope</li></notAVersion>
</loadFolders>`,
		"M/1.0/Defs/a.xml": "<Defs/>",
		"M/1.2/Defs/a.xml": "<Defs/>",
		"M/1.4/Defs/a.xml": "<Defs/>",
		"M/Common/a.xml":   "<Defs/>",
	}, "M")
	mod := root.Dir("M")

	layout, err := ResolveLayout(context.Background(), mod, LatestVersion)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1.0", "1.2", "1.4", "Common"}, dirNames(layout.DefinitionFolders))
}

func TestResolveLayoutLatestPicksHighestKey(t *testing.T) {
	root := buildTree(t, map[string]string{
		"M/LoadOrder.xml": `<loadFolders>
  <v1.2><li>Old</li></v1.2>
  <v1.4><li>New</li><li>Shared/Sub</li></v1.4>
  <v1.0><li>Ancient</li></v1.0>
</loadFolders>`,
		"M/Old/a.xml":        "",
		"M/New/a.xml":        "",
		"M/Ancient/a.xml":    "",
		"M/Shared/Sub/a.xml": "",
	}, "M")

	layout, err := ResolveLayout(context.Background(), root.Dir("M"), LatestVersion)
	require.NoError(t, err)
	assert.Equal(t, []string{"New", "Sub"}, dirNames(layout.DefinitionFolders))
}

func TestResolveLayoutLatestEmptyList(t *testing.T) {
	files := map[string]string{
		"M/New/a.xml": "",
		"M/Old/a.xml": "",
	}

	files["M/LoadFolders.xml"] = `<loadFolders><v1.4><li>Old</li></v1.4><v1.5></v1.5></loadFolders>`
	layout, err := ResolveLayout(context.Background(), buildTree(t, files, "M").Dir("M"), LatestVersion)
	require.NoError(t, err)
	assert.Empty(t, layout.DefinitionFolders)

	// No parsable key and no 1.0 key: every folder is loaded.
	files["M/LoadFolders.xml"] = `<loadFolders><beta><li>Old</li></beta></loadFolders>`
	layout, err = ResolveLayout(context.Background(), buildTree(t, files, "M").Dir("M"), LatestVersion)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"New", "Old"}, dirNames(layout.DefinitionFolders))
}

func TestResolveLayoutSpecificVersion(t *testing.T) {
	files := map[string]string{
		"M/LoadFolders.xml": `<loadFolders><v1.3><li>Legacy</li></v1.3><v1.4><li>Current</li></v1.4></loadFolders>`,
		"M/Legacy/a.xml":    "",
		"M/Current/a.xml":   "",
		"M/1.5/a.xml":       "",
	}
	root := buildTree(t, files, "M")
	mod := root.Dir("M")

	layout, err := ResolveLayout(context.Background(), mod, "v1.3")
	require.NoError(t, err)
	assert.Equal(t, []string{"Legacy"}, dirNames(layout.DefinitionFolders))

	layout, err = ResolveLayout(context.Background(), mod, "1.4")
	require.NoError(t, err)
	assert.Equal(t, []string{"Current"}, dirNames(layout.DefinitionFolders))

	// Undeclared version falls through to the folder named like it.
	layout, err = ResolveLayout(context.Background(), mod, "1.5")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.5"}, dirNames(layout.DefinitionFolders))

	layout, err = ResolveLayout(context.Background(), mod, "1.9")
	require.NoError(t, err)
	assert.Empty(t, layout.DefinitionFolders)
}

func TestResolveLayoutWithoutDeclaration(t *testing.T) {
	root := buildTree(t, map[string]string{
		"M/1.3/Defs/a.xml":  "",
		"M/1.10/Defs/a.xml": "",
		"M/1.4/Defs/a.xml":  "",
		"M/Defs/a.xml":      "",
		"M/About/x.txt":     "",
	}, "M")

	layout, err := ResolveLayout(context.Background(), root.Dir("M"), LatestVersion)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.10"}, dirNames(layout.DefinitionFolders))
}

func TestResolveLayoutNoVersionFolders(t *testing.T) {
	root := buildTree(t, map[string]string{"M/Defs/a.xml": ""}, "M")

	layout, err := ResolveLayout(context.Background(), root.Dir("M"), LatestVersion)
	require.NoError(t, err)
	assert.Empty(t, layout.DefinitionFolders)
}

func TestResolveLayoutMalformedDeclarationFallsBack(t *testing.T) {
	root := buildTree(t, map[string]string{
		"M/LoadFolders.xml": `<loadFolders><v1.4>`,
		"M/1.4/a.xml":       "",
	}, "M")

	layout, err := ResolveLayout(context.Background(), root.Dir("M"), LatestVersion)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.4"}, dirNames(layout.DefinitionFolders))
}

func TestResolveLayoutLanguages(t *testing.T) {
	root := buildTree(t, map[string]string{
		"M/Languages/English/Keyed/Keys.xml":                       "",
		"M/Languages/Russian (Русский)/Keyed/Keys.xml":             "",
		"M/Languages/Russian (Русский)/DefInjected/ThingDef/a.xml": "",
		"M/Languages/Klingon/Keyed/Keys.xml":                       "",
		"M/Languages/German/Strings/x.txt":                         "",
	}, "M")

	layout, err := ResolveLayout(context.Background(), root.Dir("M"), LatestVersion)
	require.NoError(t, err)

	keyed := map[language.Language]string{}
	for _, f := range layout.KeyedFolders {
		keyed[f.Language] = f.Dir.Name
	}
	assert.Equal(t, map[language.Language]string{language.English: "Keyed", language.Russian: "Keyed"}, keyed)
	require.Len(t, layout.DefInjectedFolders, 1)
	assert.Equal(t, language.Russian, layout.DefInjectedFolders[0].Language)
	assert.Equal(t, "DefInjected", layout.DefInjectedFolders[0].Dir.Name)
}

func TestResolveLayoutCancelled(t *testing.T) {
	root := buildTree(t, map[string]string{"M/1.4/a.xml": ""}, "M")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ResolveLayout(ctx, root.Dir("M"), LatestVersion)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCoerceVersion(t *testing.T) {
	for in, want := range map[string]string{
		"1.4":       "v1.4.0",
		"v1.4":      "v1.4.0",
		"1":         "v1.0.0",
		"1.2.3":     "v1.2.3",
		"1.04":      "v1.4.0",
		"Version 2": "v2.0.0",
	} {
		got, ok := CoerceVersion(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := CoerceVersion("Defs")
	assert.False(t, ok)
}

func TestHighestVersion(t *testing.T) {
	got, ok := HighestVersion([]string{"1.2", "1.4", "1.0"})
	require.True(t, ok)
	assert.Equal(t, "1.4", got)

	got, ok = HighestVersion([]string{"v1.9", "v1.10"})
	require.True(t, ok)
	assert.Equal(t, "v1.10", got)

	_, ok = HighestVersion([]string{"About", "Defs"})
	assert.False(t, ok)
}
