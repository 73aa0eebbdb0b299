// Package catalog holds the translation keys of every loaded mod and is the
// only place they are changed. Each mutation is written to the store before
// it is applied in memory, so a failed write leaves the catalog unchanged.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
	"sync"

	"mod-translator/internal/language"
	"mod-translator/internal/store"

	"github.com/rs/zerolog/log"
)

var (
	ErrModNotFound     = errors.New("mod not found")
	ErrKeyNotFound     = errors.New("translation key not found")
	ErrDefaultLanguage = errors.New("operation not allowed on the default language")
	ErrValueIndex      = errors.New("value index out of range")
	ErrEmptyTerm       = errors.New("empty search term")
)

// Mod is a mod and its keys per language.
type Mod struct {
	ID              string
	Name            string
	DefaultLanguage language.Language
	Keys            map[language.Language]map[KeyID]*TranslationKey
}

// ModInfo summarises a mod.
type ModInfo struct {
	ID              string
	Name            string
	DefaultLanguage language.Language
	KeyCounts       map[language.Language]int
}

// Engine owns the in-memory catalog and mirrors it to a store.
type Engine struct {
	store store.Store
	mu    sync.RWMutex
	mods  map[string]*Mod
}

// NewEngine creates an empty engine writing to st. Call Load to pick up what
// st already holds.
func NewEngine(st store.Store) *Engine {
	return &Engine{
		store: st,
		mods:  make(map[string]*Mod),
	}
}

// Load replaces the in-memory catalog with the contents of the store.
func (e *Engine) Load(ctx context.Context) error {
	records, err := e.store.ListMods(ctx)
	if err != nil {
		return fmt.Errorf("load mods: %w", err)
	}

	mods := make(map[string]*Mod, len(records))
	total := 0
	for _, r := range records {
		mod := &Mod{
			ID:              r.ID,
			Name:            r.Name,
			DefaultLanguage: language.Language(r.DefaultLanguage),
			Keys:            make(map[language.Language]map[KeyID]*TranslationKey),
		}
		keys, err := e.store.QueryAll(ctx, r.ID, "")
		if err != nil {
			return fmt.Errorf("load keys of %s: %w", r.ID, err)
		}
		for _, k := range keys {
			if len(k.Values) == 0 {
				continue
			}
			mod.languageKeys(language.Language(k.Language))[KeyID(k.Key)] = &TranslationKey{
				DefType:   k.DefType,
				DefName:   k.DefName,
				FieldPath: k.FieldPath,
				Values:    k.Values,
			}
		}
		mods[r.ID] = mod
		total += len(keys)
	}

	e.mu.Lock()
	e.mods = mods
	e.mu.Unlock()

	log.Info().Int("mods", len(mods)).Int("keys", total).Msg("Loaded catalog from store")
	return nil
}

// AddMod creates the mod unless it already exists. An existing mod is left
// as it is.
func (e *Engine) AddMod(ctx context.Context, id, name string, defaultLang language.Language) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.mods[id]; ok {
		return nil
	}
	if name == "" {
		name = id
	}
	if err := e.store.PutMod(ctx, store.ModRecord{ID: id, Name: name, DefaultLanguage: string(defaultLang)}); err != nil {
		return fmt.Errorf("add mod %s: %w", id, err)
	}
	e.mods[id] = &Mod{
		ID:              id,
		Name:            name,
		DefaultLanguage: defaultLang,
		Keys:            make(map[language.Language]map[KeyID]*TranslationKey),
	}
	log.Info().Str("mod", id).Str("default_language", string(defaultLang)).Msg("Added mod")
	return nil
}

// Mods lists every mod ordered by id.
func (e *Engine) Mods() []ModInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]ModInfo, 0, len(e.mods))
	for _, m := range e.mods {
		out = append(out, m.info())
	}
	slices.SortFunc(out, func(a, b ModInfo) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// Info summarises one mod.
func (e *Engine) Info(id string) (ModInfo, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	m, err := e.mod(id)
	if err != nil {
		return ModInfo{}, err
	}
	return m.info(), nil
}

// Mod returns a deep copy of the mod.
func (e *Engine) Mod(id string) (*Mod, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	m, err := e.mod(id)
	if err != nil {
		return nil, err
	}
	c := &Mod{ID: m.ID, Name: m.Name, DefaultLanguage: m.DefaultLanguage, Keys: make(map[language.Language]map[KeyID]*TranslationKey, len(m.Keys))}
	for lang, keys := range m.Keys {
		ck := make(map[KeyID]*TranslationKey, len(keys))
		for id, k := range keys {
			ck[id] = k.Clone()
		}
		c.Keys[lang] = ck
	}
	return c, nil
}

// AddTranslation merges one key into lang of the mod: a new key is created
// with values, an existing key gains every value it does not hold yet.
func (e *Engine) AddTranslation(ctx context.Context, modID string, lang language.Language, defType, defName, fieldPath string, values []string) error {
	_, err := e.AddTranslations(ctx, modID, lang, []TranslationKey{{
		DefType:   defType,
		DefName:   defName,
		FieldPath: fieldPath,
		Values:    values,
	}})
	return err
}

// AddTranslations merges keys like AddTranslation with a single store write.
// It returns the number of keys created or changed.
func (e *Engine) AddTranslations(ctx context.Context, modID string, lang language.Language, keys []TranslationKey) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.mod(modID)
	if err != nil {
		return 0, err
	}

	existing := m.Keys[lang]
	pending := make(map[KeyID]*TranslationKey)
	var order []KeyID
	for _, in := range keys {
		if len(in.Values) == 0 {
			continue
		}
		id := in.ID()
		cur, ok := pending[id]
		if !ok {
			if old, found := existing[id]; found {
				cur = old.Clone()
			} else {
				cur = &TranslationKey{DefType: in.DefType, DefName: in.DefName, FieldPath: in.FieldPath}
			}
			pending[id] = cur
			order = append(order, id)
		}
		cur.merge(in.Values)
	}

	order = slices.DeleteFunc(order, func(id KeyID) bool {
		old, found := existing[id]
		return found && slices.Equal(old.Values, pending[id].Values)
	})
	if len(order) == 0 {
		return 0, nil
	}

	records := make([]store.Record, 0, len(order))
	for _, id := range order {
		records = append(records, toRecord(modID, lang, pending[id]))
	}
	if err := e.store.Put(ctx, records...); err != nil {
		return 0, fmt.Errorf("add translations to %s/%s: %w", modID, lang, err)
	}

	target := m.languageKeys(lang)
	for _, id := range order {
		target[id] = pending[id]
	}
	return len(order), nil
}

// Keys returns the keys of lang ordered by id, skipping offset and returning
// at most limit (all when limit <= 0), plus the total count.
func (e *Engine) Keys(modID string, lang language.Language, offset, limit int) ([]*TranslationKey, int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	m, err := e.mod(modID)
	if err != nil {
		return nil, 0, err
	}
	all := cloneKeys(maps.Values(m.Keys[lang]))
	SortKeys(all)

	total := len(all)
	offset = min(max(offset, 0), total)
	end := total
	if limit > 0 {
		end = min(offset+limit, total)
	}
	return all[offset:end], total, nil
}

// Conflicts returns the multi-valued keys of lang ordered by id.
func (e *Engine) Conflicts(modID string, lang language.Language) ([]*TranslationKey, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	m, err := e.mod(modID)
	if err != nil {
		return nil, err
	}
	var out []*TranslationKey
	for _, k := range m.Keys[lang] {
		if k.IsConflict() {
			out = append(out, k.Clone())
		}
	}
	SortKeys(out)
	return out, nil
}

// mod must be called with e.mu held.
func (e *Engine) mod(id string) (*Mod, error) {
	m, ok := e.mods[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModNotFound, id)
	}
	return m, nil
}

func (m *Mod) info() ModInfo {
	info := ModInfo{ID: m.ID, Name: m.Name, DefaultLanguage: m.DefaultLanguage, KeyCounts: make(map[language.Language]int, len(m.Keys))}
	for lang, keys := range m.Keys {
		info.KeyCounts[lang] = len(keys)
	}
	return info
}

// languageKeys returns the key map of lang, creating it on first use.
func (m *Mod) languageKeys(lang language.Language) map[KeyID]*TranslationKey {
	keys, ok := m.Keys[lang]
	if !ok {
		keys = make(map[KeyID]*TranslationKey)
		m.Keys[lang] = keys
	}
	return keys
}

// Diverged returns the single-valued keys of lang whose value differs from
// the default language's single value, ordered by id.
func (m *Mod) Diverged(lang language.Language) []*TranslationKey {
	defaults := m.Keys[m.DefaultLanguage]
	var out []*TranslationKey
	for id, k := range m.Keys[lang] {
		if Diverged(defaults[id], k) {
			out = append(out, k)
		}
	}
	SortKeys(out)
	return out
}

// Languages returns the languages of m other than the default, sorted.
func (m *Mod) Languages() []language.Language {
	var out []language.Language
	for lang := range m.Keys {
		if lang != m.DefaultLanguage {
			out = append(out, lang)
		}
	}
	slices.Sort(out)
	return out
}

func toRecord(modID string, lang language.Language, k *TranslationKey) store.Record {
	return store.Record{
		ModID:     modID,
		Language:  string(lang),
		Key:       string(k.ID()),
		DefType:   k.DefType,
		DefName:   k.DefName,
		FieldPath: k.FieldPath,
		Values:    slices.Clone(k.Values),
	}
}

func cloneKeys(seq iter.Seq[*TranslationKey]) []*TranslationKey {
	var out []*TranslationKey
	for k := range seq {
		out = append(out, k.Clone())
	}
	return out
}
