// Package overlay turns the finished translations of a mod into an
// installable translation mod.
package overlay

import (
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"mod-translator/internal/catalog"
	"mod-translator/internal/markup"

	"github.com/rs/zerolog/log"
)

// ErrNoDefaultLanguage is returned for a mod without default-language keys;
// nothing can be diffed against it.
var ErrNoDefaultLanguage = errors.New("mod has no keys in its default language")

// SupportedVersions are listed in the generated About.xml.
var SupportedVersions = []string{"1.0", "1.1", "1.2", "1.3", "1.4", "1.5"}

// PackagePrefix prefixes the mod id to form the overlay's package id.
const PackagePrefix = "Community.Translation."

// Stats describes a compiled overlay.
type Stats struct {
	Languages   int
	Keyed       int
	DefInjected int
	Files       int
	// Skipped counts keys whose name cannot be written as an element.
	Skipped int
}

// Compile writes the About descriptor and, for each non-default language, the
// keys that diverge from the default language. Conflicts are left out, and so
// are keys whose element name is not valid XML; those are logged and counted.
func Compile(mod *catalog.Mod, sink Sink) (Stats, error) {
	var stats Stats
	if len(mod.Keys[mod.DefaultLanguage]) == 0 {
		return stats, fmt.Errorf("compile %s: %w", mod.ID, ErrNoDefaultLanguage)
	}

	if err := emit(sink, "About/About.xml", func(w io.Writer) error { return writeAbout(w, mod) }); err != nil {
		return stats, err
	}
	stats.Files++

	for _, lang := range mod.Languages() {
		var keyed []markup.Entry
		injected := make(map[string][]markup.Entry)
		for _, k := range mod.Diverged(lang) {
			v, _ := k.Value()
			entry := markup.Entry{Name: k.FieldPath, Value: v}
			if !k.IsKeyed() {
				entry.Name = k.DefName + k.FieldPath
			}
			if !markup.ValidName(entry.Name) {
				log.Warn().
					Str("language", string(lang)).
					Str("key", k.ID().String()).
					Msg("Skipping key that is not a valid element name")
				stats.Skipped++
				continue
			}
			if k.IsKeyed() {
				keyed = append(keyed, entry)
				continue
			}
			injected[k.DefType] = append(injected[k.DefType], entry)
		}
		if len(keyed) == 0 && len(injected) == 0 {
			continue
		}
		stats.Languages++

		dir := path.Join("Languages", string(lang))
		if len(keyed) > 0 {
			if err := emitLanguageData(sink, path.Join(dir, "Keyed", "Keys.xml"), keyed); err != nil {
				return stats, err
			}
			stats.Keyed += len(keyed)
			stats.Files++
		}
		defTypes := make([]string, 0, len(injected))
		for defType := range injected {
			defTypes = append(defTypes, defType)
		}
		slices.Sort(defTypes)
		for _, defType := range defTypes {
			entries := injected[defType]
			if err := emitLanguageData(sink, path.Join(dir, "DefInjected", defType+".xml"), entries); err != nil {
				return stats, err
			}
			stats.DefInjected += len(entries)
			stats.Files++
		}

		for _, issue := range Lint(mod, lang) {
			log.Warn().
				Str("language", string(lang)).
				Str("key", issue.Key.String()).
				Strs("missing", issue.Missing).
				Msg("Translation drops placeholders")
		}
	}

	if err := sink.Close(); err != nil {
		return stats, fmt.Errorf("finalize overlay: %w", err)
	}

	log.Info().
		Str("mod", mod.ID).
		Int("languages", stats.Languages).
		Int("keyed", stats.Keyed).
		Int("definjected", stats.DefInjected).
		Int("skipped", stats.Skipped).
		Msg("Compiled translation overlay")
	return stats, nil
}

// FileName is the suggested archive name for the overlay of mod.
func FileName(mod *catalog.Mod) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, mod.Name)
	return name + "_translation.zip"
}

func emit(sink Sink, name string, write func(io.Writer) error) error {
	w, err := sink.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := write(w); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func emitLanguageData(sink Sink, name string, entries []markup.Entry) error {
	return emit(sink, name, func(w io.Writer) error { return markup.WriteLanguageData(w, entries) })
}

func writeAbout(w io.Writer, mod *catalog.Mod) error {
	id := markup.EscapeValue(mod.ID)
	name := markup.EscapeValue(mod.Name)

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<ModMetaData>\n")
	fmt.Fprintf(&b, "\t<name>%s Translation</name>\n", name)
	fmt.Fprintf(&b, "\t<packageId>%s%s</packageId>\n", PackagePrefix, id)
	b.WriteString("\t<author>Community</author>\n\t<supportedVersions>\n")
	for _, v := range SupportedVersions {
		fmt.Fprintf(&b, "\t\t<li>%s</li>\n", v)
	}
	b.WriteString("\t</supportedVersions>\n\t<modDependencies>\n\t\t<li>\n")
	fmt.Fprintf(&b, "\t\t\t<packageId>%s</packageId>\n\t\t\t<displayName>%s</displayName>\n", id, name)
	b.WriteString("\t\t</li>\n\t</modDependencies>\n\t<loadAfter>\n")
	fmt.Fprintf(&b, "\t\t<li>%s</li>\n", id)
	b.WriteString("\t</loadAfter>\n")
	fmt.Fprintf(&b, "\t<description>Translation of %s (%s).</description>\n", name, strings.Join(languageNames(mod), ", "))
	b.WriteString("</ModMetaData>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func languageNames(mod *catalog.Mod) []string {
	var names []string
	for _, lang := range mod.Languages() {
		if len(mod.Diverged(lang)) > 0 {
			names = append(names, string(lang))
		}
	}
	return names
}
