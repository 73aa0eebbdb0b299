package filewalker

import (
	"context"
	"strings"

	"mod-translator/internal/filetree"
	"mod-translator/internal/language"
	"mod-translator/internal/modlayout"
	"mod-translator/internal/parser"

	"github.com/rs/zerolog/log"
)

// SupportedExtensions lists file types handled by the tool.
var SupportedExtensions = map[string]bool{
	".xml": true,
}

// Walker turns a resolved mod layout into parse jobs.
type Walker struct {
	defs     parser.Parser
	keyed    parser.Parser
	injected map[string]parser.Parser
}

// NewWalker creates a Walker with default parsers.
func NewWalker() *Walker {
	return &Walker{
		defs:     parser.NewDefParser(),
		keyed:    parser.NewKeyedParser(),
		injected: make(map[string]parser.Parser),
	}
}

// FileEntry is a discovered file, the parser for it and the language its
// strings belong to.
type FileEntry struct {
	File     *filetree.File
	Language language.Language
	Parser   parser.Parser
}

// Walk lists the files of layout in merge order: definitions (credited to
// defaultLang), then DefInjected, then Keyed translations.
func (w *Walker) Walk(layout *modlayout.Layout, defaultLang language.Language) []FileEntry {
	var entries []FileEntry

	for _, dir := range layout.DefinitionFolders {
		entries = w.collect(entries, dir, defaultLang, w.defs)
	}

	for _, folder := range layout.DefInjectedFolders {
		// Files directly below DefInjected are named after their def type.
		for _, f := range folder.Dir.Files {
			defType := strings.TrimSuffix(f.Name, f.Ext())
			entries = w.add(entries, f, folder.Language, w.injectedParser(defType))
		}
		for _, defDir := range folder.Dir.Directories {
			entries = w.collect(entries, defDir, folder.Language, w.injectedParser(defDir.Name))
		}
	}

	for _, folder := range layout.KeyedFolders {
		entries = w.collect(entries, folder.Dir, folder.Language, w.keyed)
	}

	log.Info().Int("count", len(entries)).Msg("Discovered files")
	return entries
}

// ParseFile parses a single file using the appropriate parser.
func (w *Walker) ParseFile(ctx context.Context, entry FileEntry) (*parser.ParseResult, error) {
	return entry.Parser.Parse(ctx, entry.File)
}

func (w *Walker) collect(entries []FileEntry, dir *filetree.Directory, lang language.Language, p parser.Parser) []FileEntry {
	dir.Walk(func(f *filetree.File) {
		entries = w.add(entries, f, lang, p)
	})
	return entries
}

func (w *Walker) add(entries []FileEntry, f *filetree.File, lang language.Language, p parser.Parser) []FileEntry {
	ext := f.Ext()
	if !SupportedExtensions[ext] || !p.CanParse(ext) {
		return entries
	}
	return append(entries, FileEntry{File: f, Language: lang, Parser: p})
}

func (w *Walker) injectedParser(defType string) parser.Parser {
	p, ok := w.injected[defType]
	if !ok {
		p = parser.NewDefInjectedParser(defType)
		w.injected[defType] = p
	}
	return p
}
