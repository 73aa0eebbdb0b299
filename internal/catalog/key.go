package catalog

import (
	"slices"
	"strings"

	"mod-translator/internal/parser"
)

// keySep separates the parts of a KeyID. It cannot occur in XML names or in
// folder names, so the joined form is unambiguous.
const keySep = "\x1f"

// KeyID identifies a translation key within one language of a mod.
type KeyID string

// NewKeyID joins the three parts of a key identity.
func NewKeyID(defType, defName, fieldPath string) KeyID {
	return KeyID(defType + keySep + defName + keySep + fieldPath)
}

// Parts splits id back into defType, defName and fieldPath.
func (id KeyID) Parts() (defType, defName, fieldPath string) {
	parts := strings.SplitN(string(id), keySep, 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return parts[0], parts[1], parts[2]
}

// String renders the id the way it appears in translation files: the element
// name for def-injected keys, the bare key for keyed strings.
func (id KeyID) String() string {
	defType, defName, fieldPath := id.Parts()
	if defType == parser.KeyedDefType {
		return fieldPath
	}
	return defType + ":" + defName + fieldPath
}

// ParseKeyID reverses KeyID.String. Keyed keys have no colon, but a
// "Keyed:" prefix is accepted too.
func ParseKeyID(s string) KeyID {
	defType, rest, ok := strings.Cut(s, ":")
	if !ok {
		return NewKeyID(parser.KeyedDefType, "", s)
	}
	if defType == parser.KeyedDefType {
		return NewKeyID(parser.KeyedDefType, "", rest)
	}
	defName, fieldPath, ok := parser.SplitInjectedName(rest)
	if !ok {
		return NewKeyID(defType, rest, "")
	}
	return NewKeyID(defType, defName, fieldPath)
}

// TranslationKey is one translatable string. More than one value means the
// sources disagreed and the key is an unresolved conflict.
type TranslationKey struct {
	DefType   string
	DefName   string
	FieldPath string
	Values    []string
}

// ID returns the identity of k.
func (k *TranslationKey) ID() KeyID {
	return NewKeyID(k.DefType, k.DefName, k.FieldPath)
}

// IsConflict reports whether k holds more than one value.
func (k *TranslationKey) IsConflict() bool {
	return len(k.Values) > 1
}

// Value returns the value of a single-valued key.
func (k *TranslationKey) Value() (string, bool) {
	if k == nil || len(k.Values) != 1 {
		return "", false
	}
	return k.Values[0], true
}

// IsKeyed reports whether k is a flat keyed string.
func (k *TranslationKey) IsKeyed() bool {
	return k.DefType == parser.KeyedDefType && k.DefName == ""
}

// Clone returns a deep copy of k.
func (k *TranslationKey) Clone() *TranslationKey {
	c := *k
	c.Values = slices.Clone(k.Values)
	return &c
}

// merge appends every value not already present.
func (k *TranslationKey) merge(values []string) {
	k.Values = uniqueValues(append(k.Values, values...))
}

// uniqueValues drops repeated values, keeping the first of each in order.
func uniqueValues(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// Diverged reports whether tr is a finished translation of def: both single
// valued and different.
func Diverged(def, tr *TranslationKey) bool {
	d, ok := def.Value()
	if !ok {
		return false
	}
	t, ok := tr.Value()
	return ok && t != d
}

// Untranslated reports whether tr still carries the default value.
func Untranslated(def, tr *TranslationKey) bool {
	d, ok := def.Value()
	if !ok {
		return false
	}
	t, ok := tr.Value()
	return ok && t == d
}

// SortKeys orders keys by id.
func SortKeys(keys []*TranslationKey) {
	slices.SortFunc(keys, func(a, b *TranslationKey) int {
		return strings.Compare(string(a.ID()), string(b.ID()))
	})
}
