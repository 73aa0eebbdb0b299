package catalog

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"mod-translator/internal/language"
	"mod-translator/internal/store"

	"github.com/rs/zerolog/log"
)

// FindOptions selects keys by their values.
type FindOptions struct {
	Term string
	// UseRegex treats Term as a Go regular expression.
	UseRegex   bool
	IgnoreCase bool
	// OnlyFullKeyMatch requires the match to span the whole value.
	OnlyFullKeyMatch bool
	// OnlyUntranslated keeps keys still equal to their default value.
	OnlyUntranslated bool
}

type matcher struct {
	opts FindOptions
	re   *regexp.Regexp
}

func newMatcher(opts FindOptions) (*matcher, error) {
	if opts.Term == "" {
		return nil, ErrEmptyTerm
	}
	m := &matcher{opts: opts}

	pattern := opts.Term
	if !opts.UseRegex {
		if !opts.IgnoreCase && !opts.OnlyFullKeyMatch {
			return m, nil
		}
		pattern = regexp.QuoteMeta(pattern)
	}
	if opts.OnlyFullKeyMatch {
		pattern = `^(?:` + pattern + `)$`
	}
	if opts.IgnoreCase {
		pattern = `(?i)` + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", opts.Term, err)
	}
	m.re = re
	return m, nil
}

func (m *matcher) match(value string) bool {
	if m.re != nil {
		return m.re.MatchString(value)
	}
	return strings.Contains(value, m.opts.Term)
}

func (m *matcher) replace(value, replacement string) string {
	switch {
	case m.re != nil && m.opts.UseRegex:
		return m.re.ReplaceAllString(value, replacement)
	case m.re != nil:
		return m.re.ReplaceAllLiteralString(value, replacement)
	default:
		return strings.ReplaceAll(value, m.opts.Term, replacement)
	}
}

// Find returns the keys of lang with at least one value matching opts,
// ordered by id.
func (e *Engine) Find(_ context.Context, modID string, lang language.Language, opts FindOptions) ([]*TranslationKey, error) {
	mt, err := newMatcher(opts)
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	m, err := e.mod(modID)
	if err != nil {
		return nil, err
	}
	found := m.find(lang, mt)
	for i, k := range found {
		found[i] = k.Clone()
	}
	return found, nil
}

// Replace substitutes replacement for every match of opts in every value of
// the keys Find selects, then saves them. With OnlyFullKeyMatch only whole
// values are replaced. A regex replacement may refer to groups ($1); a plain
// one is literal. Values made equal by the replacement are folded into one.
// It returns the number of keys changed.
func (e *Engine) Replace(ctx context.Context, modID string, lang language.Language, opts FindOptions, replacement string) (int, error) {
	mt, err := newMatcher(opts)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.mod(modID)
	if err != nil {
		return 0, err
	}

	var changed []*TranslationKey
	for _, k := range m.find(lang, mt) {
		next := k.Clone()
		for i, v := range next.Values {
			next.Values[i] = mt.replace(v, replacement)
		}
		next.Values = uniqueValues(next.Values)
		if !slices.Equal(next.Values, k.Values) {
			changed = append(changed, next)
		}
	}
	if len(changed) == 0 {
		return 0, nil
	}

	records := make([]store.Record, 0, len(changed))
	for _, k := range changed {
		records = append(records, toRecord(modID, lang, k))
	}
	if err := e.store.Put(ctx, records...); err != nil {
		return 0, fmt.Errorf("replace in %s/%s: %w", modID, lang, err)
	}
	keys := m.languageKeys(lang)
	for _, k := range changed {
		keys[k.ID()] = k
	}

	log.Info().Str("mod", modID).Str("language", string(lang)).Int("changed", len(changed)).Msg("Replaced values")
	return len(changed), nil
}

// find returns the live keys of lang that match, ordered by id.
func (m *Mod) find(lang language.Language, mt *matcher) []*TranslationKey {
	defaults := m.Keys[m.DefaultLanguage]
	var out []*TranslationKey
	for id, k := range m.Keys[lang] {
		if mt.opts.OnlyUntranslated && !Untranslated(defaults[id], k) {
			continue
		}
		if slices.ContainsFunc(k.Values, mt.match) {
			out = append(out, k)
		}
	}
	SortKeys(out)
	return out
}
