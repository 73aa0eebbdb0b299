package catalog

import (
	"context"
	"fmt"
	"slices"

	"mod-translator/internal/language"

	"github.com/rs/zerolog/log"
)

// DeleteKey removes one key from lang.
func (e *Engine) DeleteKey(ctx context.Context, modID string, lang language.Language, id KeyID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, k, err := e.key(modID, lang, id)
	if err != nil {
		return err
	}
	return e.deleteKey(ctx, m, lang, k)
}

// SetValue replaces the value at index. A value made equal to another one of
// a conflict is folded into it. Setting index 0 of a key that lang lacks but
// the default language has creates the translation.
func (e *Engine) SetValue(ctx context.Context, modID string, lang language.Language, id KeyID, index int, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.mod(modID)
	if err != nil {
		return err
	}

	var next *TranslationKey
	if k, ok := m.Keys[lang][id]; ok {
		if index < 0 || index >= len(k.Values) {
			return fmt.Errorf("%w: %d of %d", ErrValueIndex, index, len(k.Values))
		}
		next = k.Clone()
		next.Values[index] = value
		next.Values = uniqueValues(next.Values)
	} else {
		def, ok := m.Keys[m.DefaultLanguage][id]
		if !ok || lang == m.DefaultLanguage {
			return fmt.Errorf("%w: %s", ErrKeyNotFound, id)
		}
		if index != 0 {
			return fmt.Errorf("%w: %d of 0", ErrValueIndex, index)
		}
		next = &TranslationKey{DefType: def.DefType, DefName: def.DefName, FieldPath: def.FieldPath, Values: []string{value}}
	}
	return e.putKey(ctx, m, lang, next)
}

// RemoveValue drops the value at index. Removing the only value deletes the
// key.
func (e *Engine) RemoveValue(ctx context.Context, modID string, lang language.Language, id KeyID, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, k, err := e.key(modID, lang, id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(k.Values) {
		return fmt.Errorf("%w: %d of %d", ErrValueIndex, index, len(k.Values))
	}
	if len(k.Values) == 1 {
		return e.deleteKey(ctx, m, lang, k)
	}
	next := k.Clone()
	next.Values = slices.Delete(next.Values, index, index+1)
	return e.putKey(ctx, m, lang, next)
}

// Resolve keeps only the value at index, settling a conflict.
func (e *Engine) Resolve(ctx context.Context, modID string, lang language.Language, id KeyID, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, k, err := e.key(modID, lang, id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(k.Values) {
		return fmt.Errorf("%w: %d of %d", ErrValueIndex, index, len(k.Values))
	}
	if len(k.Values) == 1 {
		return nil
	}
	next := k.Clone()
	next.Values = []string{k.Values[index]}
	return e.putKey(ctx, m, lang, next)
}

// ClearLanguage removes every key of lang.
func (e *Engine) ClearLanguage(ctx context.Context, modID string, lang language.Language) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.mod(modID)
	if err != nil {
		return err
	}
	if err := e.store.DeletePrefix(ctx, modID, string(lang)); err != nil {
		return fmt.Errorf("clear %s/%s: %w", modID, lang, err)
	}
	n := len(m.Keys[lang])
	delete(m.Keys, lang)
	log.Info().Str("mod", modID).Str("language", string(lang)).Int("deleted", n).Msg("Cleared language")
	return nil
}

// DeleteMod removes the mod with all of its keys.
func (e *Engine) DeleteMod(ctx context.Context, modID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.mod(modID); err != nil {
		return err
	}
	if err := e.store.DeleteMod(ctx, modID); err != nil {
		return fmt.Errorf("delete mod %s: %w", modID, err)
	}
	delete(e.mods, modID)
	log.Info().Str("mod", modID).Msg("Deleted mod")
	return nil
}

// key must be called with e.mu held.
func (e *Engine) key(modID string, lang language.Language, id KeyID) (*Mod, *TranslationKey, error) {
	m, err := e.mod(modID)
	if err != nil {
		return nil, nil, err
	}
	k, ok := m.Keys[lang][id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrKeyNotFound, id)
	}
	return m, k, nil
}

func (e *Engine) putKey(ctx context.Context, m *Mod, lang language.Language, k *TranslationKey) error {
	if err := e.store.Put(ctx, toRecord(m.ID, lang, k)); err != nil {
		return fmt.Errorf("save %s/%s: %w", lang, k.ID(), err)
	}
	m.languageKeys(lang)[k.ID()] = k
	return nil
}

func (e *Engine) deleteKey(ctx context.Context, m *Mod, lang language.Language, k *TranslationKey) error {
	id := k.ID()
	if err := e.store.Delete(ctx, m.ID, string(lang), string(id)); err != nil {
		return fmt.Errorf("delete %s/%s: %w", lang, id, err)
	}
	delete(m.Keys[lang], id)
	return nil
}
