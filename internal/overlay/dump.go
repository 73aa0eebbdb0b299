package overlay

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"mod-translator/internal/catalog"
	"mod-translator/internal/language"
)

// Row is one key of a language next to its default value.
type Row struct {
	Key       string   `json:"key"`
	DefType   string   `json:"def_type"`
	DefName   string   `json:"def_name,omitempty"`
	FieldPath string   `json:"field_path"`
	Default   []string `json:"default"`
	Values    []string `json:"values"`
	Diverged  bool     `json:"diverged"`
}

// Rows lists the keys of lang ordered by id.
func Rows(mod *catalog.Mod, lang language.Language) []Row {
	defaults := mod.Keys[mod.DefaultLanguage]
	keys := make([]*catalog.TranslationKey, 0, len(mod.Keys[lang]))
	for _, k := range mod.Keys[lang] {
		keys = append(keys, k)
	}
	catalog.SortKeys(keys)

	rows := make([]Row, 0, len(keys))
	for _, k := range keys {
		id := k.ID()
		row := Row{
			Key:       id.String(),
			DefType:   k.DefType,
			DefName:   k.DefName,
			FieldPath: k.FieldPath,
			Values:    k.Values,
			Diverged:  catalog.Diverged(defaults[id], k),
		}
		if def, ok := defaults[id]; ok {
			row.Default = def.Values
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteTSV writes the keys of lang as tab-separated values. Conflicting values
// are joined with " | ".
func WriteTSV(w io.Writer, mod *catalog.Mod, lang language.Language) error {
	if _, err := fmt.Fprintln(w, "key\tdefault\tvalue\tdiverged"); err != nil {
		return err
	}
	for _, r := range Rows(mod, lang) {
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%t\n",
			escapeTSV(r.Key),
			escapeTSV(strings.Join(r.Default, " | ")),
			escapeTSV(strings.Join(r.Values, " | ")),
			r.Diverged,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the keys of lang as an indented JSON array.
func WriteJSON(w io.Writer, mod *catalog.Mod, lang language.Language) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(Rows(mod, lang)); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// escapeTSV replaces tabs and newlines in a string for TSV safety.
func escapeTSV(s string) string {
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	return s
}
