// Package importer runs a whole drop through mod discovery, layout
// resolution, parsing and the catalog merge.
package importer

import (
	"context"
	"fmt"

	"mod-translator/internal/catalog"
	"mod-translator/internal/filetree"
	"mod-translator/internal/filewalker"
	"mod-translator/internal/language"
	"mod-translator/internal/modlayout"
	"mod-translator/internal/parser"
	"mod-translator/internal/worker"

	"github.com/rs/zerolog/log"
)

// mergeBatchSize bounds the keys written to the store at once.
const mergeBatchSize = 500

// Options controls an import.
type Options struct {
	// GameVersion is a version key or modlayout.LatestVersion.
	GameVersion string
	// FallbackID names mods found without metadata.
	FallbackID string
	// DefaultLanguage is used for mods the catalog does not know yet.
	DefaultLanguage language.Language
	Workers         int
}

// ModReport describes what one mod root contributed.
type ModReport struct {
	ModID  string
	Name   string
	Dir    string
	Files  int
	Failed int
	Keys   int
}

// Importer feeds dropped trees into a catalog.
type Importer struct {
	engine *catalog.Engine
	opts   Options
}

// New creates an importer merging into engine.
func New(engine *catalog.Engine, opts Options) *Importer {
	if opts.GameVersion == "" {
		opts.GameVersion = modlayout.LatestVersion
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = language.English
	}
	return &Importer{engine: engine, opts: opts}
}

// Import builds the tree of entries and imports every mod found in it.
// Unreadable or malformed files are skipped; only store and context errors
// stop the import.
func (im *Importer) Import(ctx context.Context, entries []filetree.Entry) ([]ModReport, error) {
	root := filetree.Build(ctx, entries)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if root.IsEmpty() {
		log.Warn().Msg("Nothing to import")
		return nil, nil
	}

	var reports []ModReport
	for _, mod := range modlayout.FindMods(ctx, root, im.opts.FallbackID) {
		report, err := im.importMod(ctx, mod)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, ctx.Err()
}

func (im *Importer) importMod(ctx context.Context, mod modlayout.ModRoot) (ModReport, error) {
	report := ModReport{ModID: mod.ModID, Name: mod.Name, Dir: mod.Dir.Path()}

	if err := im.engine.AddMod(ctx, mod.ModID, mod.Name, im.opts.DefaultLanguage); err != nil {
		return report, err
	}
	info, err := im.engine.Info(mod.ModID)
	if err != nil {
		return report, err
	}

	layout, err := modlayout.ResolveLayout(ctx, mod.Dir, im.opts.GameVersion)
	if err != nil {
		return report, err
	}

	walker := filewalker.NewWalker()
	files := walker.Walk(layout, info.DefaultLanguage)
	report.Files = len(files)

	pool := worker.NewPool(im.opts.Workers, walker.ParseFile)
	results := pool.Execute(ctx, files)
	if err := ctx.Err(); err != nil {
		return report, err
	}

	// Merge serially, in walk order.
	for _, task := range results {
		if task.Err != nil {
			report.Failed++
			log.Warn().Err(task.Err).Str("file", task.Input.File.Path()).Msg("Skipping unparsable file")
			continue
		}
		keys := toKeys(task.Result.Texts)
		for _, batch := range worker.Batch(keys, mergeBatchSize) {
			n, err := im.engine.AddTranslations(ctx, mod.ModID, task.Input.Language, batch)
			if err != nil {
				return report, fmt.Errorf("merge %s: %w", task.Input.File.Path(), err)
			}
			report.Keys += n
		}
	}

	log.Info().
		Str("mod", mod.ModID).
		Int("files", report.Files).
		Int("failed", report.Failed).
		Int("keys", report.Keys).
		Msg("Imported mod")
	return report, nil
}

func toKeys(texts []parser.ExtractedText) []catalog.TranslationKey {
	keys := make([]catalog.TranslationKey, 0, len(texts))
	for _, t := range texts {
		keys = append(keys, catalog.TranslationKey{
			DefType:   t.DefType,
			DefName:   t.DefName,
			FieldPath: t.FieldPath,
			Values:    t.Values,
		})
	}
	return keys
}
