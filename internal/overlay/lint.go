package overlay

import (
	"mod-translator/internal/catalog"
	"mod-translator/internal/language"
	"mod-translator/internal/placeholder"
)

// Issue is a translation missing placeholders of its default value.
type Issue struct {
	Key     catalog.KeyID
	Default string
	Value   string
	Missing []string
}

// Lint checks the diverged keys of lang for dropped placeholders.
func Lint(mod *catalog.Mod, lang language.Language) []Issue {
	defaults := mod.Keys[mod.DefaultLanguage]
	var issues []Issue
	for _, k := range mod.Diverged(lang) {
		id := k.ID()
		def, _ := defaults[id].Value()
		v, _ := k.Value()
		if missing := placeholder.Missing(def, v); len(missing) > 0 {
			issues = append(issues, Issue{Key: id, Default: def, Value: v, Missing: missing})
		}
	}
	return issues
}
