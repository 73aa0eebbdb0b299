package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	b := map[string]func(t *testing.T) Store{
		DriverMemory: func(t *testing.T) Store { return NewMemory() },
		DriverSQLite: func(t *testing.T) Store {
			s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
			require.NoError(t, err)
			return s
		},
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		b[DriverPostgres] = func(t *testing.T) Store {
			s, err := OpenPostgres(context.Background(), url)
			require.NoError(t, err)
			// Isolate from earlier runs.
			for _, id := range []string{"mod.a", "mod.b"} {
				require.NoError(t, s.DeleteMod(context.Background(), id))
			}
			return s
		}
	}
	return b
}

func rec(mod, lang, key string, values ...string) Record {
	return Record{ModID: mod, Language: lang, Key: key, DefType: "ThingDef", DefName: "Wall", FieldPath: "." + key, Values: values}
}

func TestStoreContract(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			t.Cleanup(func() { assert.NoError(t, s.Close()) })

			t.Run("mods", func(t *testing.T) {
				require.NoError(t, s.PutMod(ctx, ModRecord{ID: "mod.b", Name: "B", DefaultLanguage: "English"}))
				require.NoError(t, s.PutMod(ctx, ModRecord{ID: "mod.a", Name: "A", DefaultLanguage: "English"}))
				require.NoError(t, s.PutMod(ctx, ModRecord{ID: "mod.a", Name: "A2", DefaultLanguage: "German"}))

				mods, err := s.ListMods(ctx)
				require.NoError(t, err)
				assert.Equal(t, []ModRecord{
					{ID: "mod.a", Name: "A2", DefaultLanguage: "German"},
					{ID: "mod.b", Name: "B", DefaultLanguage: "English"},
				}, mods)
			})

			t.Run("put and query", func(t *testing.T) {
				require.NoError(t, s.Put(ctx,
					rec("mod.a", "English", "label", "wall"),
					rec("mod.a", "German", "label", "Wand"),
					rec("mod.a", "English", "description", "line one\nline two", "alt"),
					rec("mod.b", "English", "label", "other"),
				))
				require.NoError(t, s.Put(ctx))

				all, err := s.QueryAll(ctx, "mod.a", "")
				require.NoError(t, err)
				require.Len(t, all, 3)
				assert.Equal(t, "English", all[0].Language)
				assert.Equal(t, "description", all[0].Key)
				assert.Equal(t, []string{"line one\nline two", "alt"}, all[0].Values)
				assert.Equal(t, "label", all[1].Key)
				assert.Equal(t, "German", all[2].Language)

				german, err := s.QueryAll(ctx, "mod.a", "German")
				require.NoError(t, err)
				require.Len(t, german, 1)
				assert.Equal(t, rec("mod.a", "German", "label", "Wand"), german[0])
			})

			t.Run("upsert replaces values", func(t *testing.T) {
				require.NoError(t, s.Put(ctx, rec("mod.a", "German", "label", "Mauer")))
				german, err := s.QueryAll(ctx, "mod.a", "German")
				require.NoError(t, err)
				require.Len(t, german, 1)
				assert.Equal(t, []string{"Mauer"}, german[0].Values)
			})

			t.Run("delete", func(t *testing.T) {
				require.NoError(t, s.Delete(ctx, "mod.a", "English", "label"))
				require.NoError(t, s.Delete(ctx, "mod.a", "English", "missing"))

				english, err := s.QueryAll(ctx, "mod.a", "English")
				require.NoError(t, err)
				require.Len(t, english, 1)
				assert.Equal(t, "description", english[0].Key)
			})

			t.Run("delete prefix", func(t *testing.T) {
				require.NoError(t, s.DeletePrefix(ctx, "mod.a", "German"))
				all, err := s.QueryAll(ctx, "mod.a", "")
				require.NoError(t, err)
				require.Len(t, all, 1)
				assert.Equal(t, "English", all[0].Language)

				require.NoError(t, s.DeletePrefix(ctx, "mod.a", ""))
				all, err = s.QueryAll(ctx, "mod.a", "")
				require.NoError(t, err)
				assert.Empty(t, all)

				other, err := s.QueryAll(ctx, "mod.b", "")
				require.NoError(t, err)
				assert.Len(t, other, 1)
			})

			t.Run("delete mod", func(t *testing.T) {
				require.NoError(t, s.DeleteMod(ctx, "mod.b"))
				other, err := s.QueryAll(ctx, "mod.b", "")
				require.NoError(t, err)
				assert.Empty(t, other)

				mods, err := s.ListMods(ctx)
				require.NoError(t, err)
				require.Len(t, mods, 1)
				assert.Equal(t, "mod.a", mods[0].ID)
			})
		})
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	values := []string{"a"}
	require.NoError(t, m.Put(ctx, rec("mod", "English", "k", values...)))
	values[0] = "changed"

	got, err := m.QueryAll(ctx, "mod", "English")
	require.NoError(t, err)
	got[0].Values[0] = "also changed"

	again, err := m.QueryAll(ctx, "mod", "English")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, again[0].Values)
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "persist.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.PutMod(ctx, ModRecord{ID: "mod", Name: "Mod", DefaultLanguage: "English"}))
	require.NoError(t, s.Put(ctx, rec("mod", "English", "k", "v")))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	mods, err := s.ListMods(ctx)
	require.NoError(t, err)
	assert.Len(t, mods, 1)
	records, err := s.QueryAll(ctx, "mod", "")
	require.NoError(t, err)
	assert.Equal(t, []Record{rec("mod", "English", "k", "v")}, records)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "bolt", "")
	assert.ErrorContains(t, err, "unknown store driver")
}
