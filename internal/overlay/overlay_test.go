package overlay

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"mod-translator/internal/catalog"
	"mod-translator/internal/filetree"
	"mod-translator/internal/language"
	"mod-translator/internal/markup"
	"mod-translator/internal/parser"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(defType, defName, field string, values ...string) *catalog.TranslationKey {
	return &catalog.TranslationKey{DefType: defType, DefName: defName, FieldPath: field, Values: values}
}

func testMod(keys map[language.Language][]*catalog.TranslationKey) *catalog.Mod {
	m := &catalog.Mod{
		ID:              "author.walls",
		Name:            "Walls & Doors",
		DefaultLanguage: language.English,
		Keys:            make(map[language.Language]map[catalog.KeyID]*catalog.TranslationKey),
	}
	for lang, list := range keys {
		m.Keys[lang] = make(map[catalog.KeyID]*catalog.TranslationKey)
		for _, k := range list {
			m.Keys[lang][k.ID()] = k
		}
	}
	return m
}

func sampleMod() *catalog.Mod {
	return testMod(map[language.Language][]*catalog.TranslationKey{
		language.English: {
			key("ThingDef", "Wall", ".label", "wall"),
			key("ThingDef", "Wall", ".description", "A wall.\nSturdy."),
			key("ThingDef", "Door", ".label", "door"),
			key("ResearchProjectDef", "Walls", ".label", "walls"),
			key("Keyed", "", "WallBuilt", "{0} built a wall"),
			key("Keyed", "", "Conflicted", "x"),
		},
		language.German: {
			key("ThingDef", "Wall", ".label", "Wand"),
			key("ThingDef", "Wall", ".description", "Eine Wand.\nStabil & <fest>."),
			key("ThingDef", "Door", ".label", "door"),
			key("ResearchProjectDef", "Walls", ".label", "Wände"),
			key("Keyed", "", "WallBuilt", "Wand gebaut"),
			key("Keyed", "", "Conflicted", "a", "b"),
			key("Keyed", "", "Orphan", "niemand"),
		},
		language.French: {
			key("ThingDef", "Door", ".label", "door"),
		},
	})
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	files := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = string(b)
	}
	return files
}

func parse(t *testing.T, p parser.Parser, content string) []parser.ExtractedText {
	t.Helper()
	f := filetree.NewFile("x.xml", func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(content)), nil })
	res, err := p.Parse(context.Background(), f)
	require.NoError(t, err)
	return res.Texts
}

func TestCompileZipLayout(t *testing.T) {
	var buf bytes.Buffer
	stats, err := Compile(sampleMod(), NewZipSink(&buf))
	require.NoError(t, err)
	assert.Equal(t, Stats{Languages: 1, Keyed: 1, DefInjected: 3, Files: 4}, stats)

	files := readZip(t, buf.Bytes())
	assert.ElementsMatch(t, []string{
		"About/About.xml",
		"Languages/German/Keyed/Keys.xml",
		"Languages/German/DefInjected/ThingDef.xml",
		"Languages/German/DefInjected/ResearchProjectDef.xml",
	}, keysOf(files))

	about, err := markup.ParseString(files["About/About.xml"])
	require.NoError(t, err)
	meta := about.Child("ModMetaData")
	id, _ := meta.ChildText("packageId")
	assert.Equal(t, "Community.Translation.author.walls", id)
	name, _ := meta.ChildText("name")
	assert.Equal(t, "Walls & Doors Translation", name)
	assert.Equal(t, []string{"author.walls"}, meta.Child("loadAfter").Child("li").Strings())
	dep, _ := meta.Child("modDependencies").Child("li").ChildText("packageId")
	assert.Equal(t, "author.walls", dep)

	keyed := parse(t, parser.NewKeyedParser(), files["Languages/German/Keyed/Keys.xml"])
	require.Len(t, keyed, 1)
	assert.Equal(t, "WallBuilt", keyed[0].FieldPath)
	assert.Equal(t, []string{"Wand gebaut"}, keyed[0].Values)
}

func TestCompileNewlineRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	_, err := Compile(sampleMod(), NewZipSink(&buf))
	require.NoError(t, err)

	raw := readZip(t, buf.Bytes())["Languages/German/DefInjected/ThingDef.xml"]
	assert.Contains(t, raw, `Eine Wand.\nStabil &amp; &lt;fest&gt;.`)
	assert.NotContains(t, raw, "Door.label")

	texts := parse(t, parser.NewDefInjectedParser("ThingDef"), raw)
	got := make(map[string][]string)
	for _, tx := range texts {
		assert.Equal(t, "ThingDef", tx.DefType)
		got[tx.DefName+tx.FieldPath] = tx.Values
	}
	assert.Equal(t, map[string][]string{
		"Wall.label":       {"Wand"},
		"Wall.description": {"Eine Wand.\nStabil & <fest>."},
	}, got)
}

func TestCompileDirSink(t *testing.T) {
	fs := memfs.New()
	_, err := Compile(sampleMod(), NewDirSink(fs))
	require.NoError(t, err)

	data, err := util.ReadFile(fs, "Languages/German/DefInjected/ResearchProjectDef.xml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "<Walls.label>Wände</Walls.label>")

	_, err = fs.Stat("Languages/French")
	assert.Error(t, err)
}

func TestCompileSkipsInvalidElementNames(t *testing.T) {
	mod := testMod(map[language.Language][]*catalog.TranslationKey{
		language.English: {
			key("ThingDef", "Wall", ".label", "wall"),
			key("ThingDef", "556mm", ".label", "5.56mm round"),
		},
		language.German: {
			key("ThingDef", "Wall", ".label", "Wand"),
			key("ThingDef", "556mm", ".label", "5,56-mm-Patrone"),
		},
	})

	var buf bytes.Buffer
	stats, err := Compile(mod, NewZipSink(&buf))
	require.NoError(t, err)
	assert.Equal(t, Stats{Languages: 1, DefInjected: 1, Files: 2, Skipped: 1}, stats)

	raw := readZip(t, buf.Bytes())["Languages/German/DefInjected/ThingDef.xml"]
	assert.Contains(t, raw, "<Wall.label>Wand</Wall.label>")
	assert.NotContains(t, raw, "556mm")
}

func TestCompileWithoutDefaultLanguage(t *testing.T) {
	mod := testMod(map[language.Language][]*catalog.TranslationKey{
		language.German: {key("Keyed", "", "A", "a")},
	})
	_, err := Compile(mod, NewZipSink(io.Discard))
	assert.ErrorIs(t, err, ErrNoDefaultLanguage)
}

func TestLint(t *testing.T) {
	mod := testMod(map[language.Language][]*catalog.TranslationKey{
		language.English: {
			key("Keyed", "", "Hit", "{0} hits {1}"),
			key("Keyed", "", "Ok", "{0} waits"),
		},
		language.German: {
			key("Keyed", "", "Hit", "{0} trifft"),
			key("Keyed", "", "Ok", "{0} wartet"),
		},
	})

	issues := Lint(mod, language.German)
	require.Len(t, issues, 1)
	assert.Equal(t, "Hit", issues[0].Key.String())
	assert.Equal(t, []string{"{1}"}, issues[0].Missing)
}

func TestDump(t *testing.T) {
	mod := sampleMod()

	var tsv bytes.Buffer
	require.NoError(t, WriteTSV(&tsv, mod, language.German))
	lines := strings.Split(strings.TrimSuffix(tsv.String(), "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "key\tdefault\tvalue\tdiverged", lines[0])
	assert.Contains(t, lines, "Conflicted\tx\ta | b\tfalse")
	assert.Contains(t, lines, `ThingDef:Wall.description`+"\t"+`A wall.\nSturdy.`+"\t"+`Eine Wand.\nStabil & <fest>.`+"\ttrue")

	var js bytes.Buffer
	require.NoError(t, WriteJSON(&js, mod, language.French))
	var rows []Row
	require.NoError(t, json.Unmarshal(js.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, Row{
		Key:       "ThingDef:Door.label",
		DefType:   "ThingDef",
		DefName:   "Door",
		FieldPath: ".label",
		Default:   []string{"door"},
		Values:    []string{"door"},
	}, rows[0])
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Walls & Doors_translation.zip", FileName(sampleMod()))
	assert.Equal(t, "a_b_translation.zip", FileName(&catalog.Mod{Name: "a/b"}))
}

func keysOf(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
