package catalog

import (
	"context"
	"fmt"
	"slices"

	"mod-translator/internal/language"
	"mod-translator/internal/store"

	"github.com/rs/zerolog/log"
)

// PurgeStats reports what PurgeInvalid changed.
type PurgeStats struct {
	// Deleted counts keys removed because the default language lacks them or
	// because no value survived.
	Deleted int
	// Reduced counts conflicts that lost the values equal to the default.
	Reduced int
}

// CopyDefaults gives lang a copy of every single-valued default key it does
// not have yet. Copies equal their default, so they count as untranslated.
func (e *Engine) CopyDefaults(ctx context.Context, modID string, lang language.Language) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.mod(modID)
	if err != nil {
		return 0, err
	}
	if lang == m.DefaultLanguage {
		return 0, ErrDefaultLanguage
	}

	existing := m.Keys[lang]
	var copies []*TranslationKey
	for id, def := range m.Keys[m.DefaultLanguage] {
		if def.IsConflict() {
			continue
		}
		if _, ok := existing[id]; ok {
			continue
		}
		copies = append(copies, def.Clone())
	}
	if len(copies) == 0 {
		return 0, nil
	}

	records := make([]store.Record, 0, len(copies))
	for _, k := range copies {
		records = append(records, toRecord(modID, lang, k))
	}
	if err := e.store.Put(ctx, records...); err != nil {
		return 0, fmt.Errorf("copy defaults to %s/%s: %w", modID, lang, err)
	}

	target := m.languageKeys(lang)
	for _, k := range copies {
		target[k.ID()] = k
	}
	log.Info().Str("mod", modID).Str("language", string(lang)).Int("copied", len(copies)).Msg("Copied default values")
	return len(copies), nil
}

// PurgeInvalid cleans lang, or every non-default language when lang is
// empty. Keys missing from the default language are deleted. Conflicts whose
// default is single-valued drop the values equal to it, and are deleted when
// nothing is left.
func (e *Engine) PurgeInvalid(ctx context.Context, modID string, lang language.Language) (PurgeStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.mod(modID)
	if err != nil {
		return PurgeStats{}, err
	}
	if lang == m.DefaultLanguage {
		return PurgeStats{}, ErrDefaultLanguage
	}

	langs := []language.Language{lang}
	if lang == "" {
		langs = m.Languages()
	}

	var stats PurgeStats
	defaults := m.Keys[m.DefaultLanguage]
	for _, l := range langs {
		s, err := e.purgeLanguage(ctx, m, l, defaults)
		stats.Deleted += s.Deleted
		stats.Reduced += s.Reduced
		if err != nil {
			return stats, err
		}
	}

	log.Info().Str("mod", modID).Int("deleted", stats.Deleted).Int("reduced", stats.Reduced).Msg("Purged invalid keys")
	return stats, nil
}

func (e *Engine) purgeLanguage(ctx context.Context, m *Mod, lang language.Language, defaults map[KeyID]*TranslationKey) (PurgeStats, error) {
	var stats PurgeStats
	keys := m.Keys[lang]

	var reduced []*TranslationKey
	for _, id := range sortedIDs(keys) {
		k := keys[id]
		def, ok := defaults[id]
		if ok && k.IsConflict() {
			if d, single := def.Value(); single {
				kept := k.Clone()
				kept.Values = slices.DeleteFunc(kept.Values, func(v string) bool { return v == d })
				if len(kept.Values) == len(k.Values) {
					continue
				}
				if len(kept.Values) > 0 {
					reduced = append(reduced, kept)
					continue
				}
				ok = false
			}
		}
		if ok {
			continue
		}

		if err := e.store.Delete(ctx, m.ID, string(lang), string(id)); err != nil {
			return stats, fmt.Errorf("purge %s/%s: %w", lang, id, err)
		}
		delete(keys, id)
		stats.Deleted++
	}

	if len(reduced) > 0 {
		records := make([]store.Record, 0, len(reduced))
		for _, k := range reduced {
			records = append(records, toRecord(m.ID, lang, k))
		}
		if err := e.store.Put(ctx, records...); err != nil {
			return stats, fmt.Errorf("purge %s: %w", lang, err)
		}
		for _, k := range reduced {
			keys[k.ID()] = k
		}
		stats.Reduced += len(reduced)
	}
	return stats, nil
}

func sortedIDs(keys map[KeyID]*TranslationKey) []KeyID {
	ids := make([]KeyID, 0, len(keys))
	for id := range keys {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
