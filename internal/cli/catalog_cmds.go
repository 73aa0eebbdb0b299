package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"mod-translator/internal/catalog"
	"mod-translator/internal/filetree"
	"mod-translator/internal/importer"

	"github.com/spf13/cobra"
)

func importCmd(a *app) *cobra.Command {
	var (
		gameVersion string
		fallbackID  string
		defaultLang string
		workers     int
	)

	cmd := &cobra.Command{
		Use:   "import <path>...",
		Short: "Import mod folders or files into the catalog",
		Long: `Import builds a tree of the given files and folders, finds every mod in it,
resolves the folders that apply to the game version and merges the extracted
keys into the catalog. Keys with a different value already present become
conflicts.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := parseLanguage(defaultLang)
			if err != nil {
				return err
			}
			return a.run(func(ctx context.Context, engine *catalog.Engine) error {
				im := importer.New(engine, importer.Options{
					GameVersion:     gameVersion,
					FallbackID:      fallbackID,
					DefaultLanguage: lang,
					Workers:         workers,
				})
				reports, err := im.Import(ctx, filetree.OSEntries(a.cfg.DirPageSize, args...))
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(reports) == 0 {
					printWarning(out, "no mods found")
					return nil
				}
				for _, r := range reports {
					printSection(out, fmt.Sprintf("%s (%s)", r.Name, r.ModID))
					printLabelValue(out, "Folder", r.Dir)
					printLabelValue(out, "Files", r.Files)
					printLabelValue(out, "Keys", r.Keys)
					if r.Failed > 0 {
						printWarning(out, "%d files could not be parsed", r.Failed)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&gameVersion, "game-version", a.cfg.GameVersion, "Game version to resolve, or @latest")
	cmd.Flags().StringVar(&fallbackID, "fallback-id", a.cfg.FallbackModID, "Mod id for folders without metadata")
	cmd.Flags().StringVar(&defaultLang, "default-language", a.cfg.DefaultLanguage, "Default language of new mods")
	cmd.Flags().IntVar(&workers, "workers", a.cfg.WorkerCount, "Number of files parsed in parallel")

	return cmd
}

func modsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mods",
		Short: "List the mods in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(_ context.Context, engine *catalog.Engine) error {
				out := cmd.OutOrStdout()
				mods := engine.Mods()
				if len(mods) == 0 {
					printWarning(out, "catalog is empty")
					return nil
				}
				for _, m := range mods {
					printSection(out, fmt.Sprintf("%s (%s)", m.Name, m.ID))
					printLabelValue(out, "Default", m.DefaultLanguage)
					for _, lang := range slices.Sorted(maps.Keys(m.KeyCounts)) {
						printLabelValue(out, lang.String(), m.KeyCounts[lang])
					}
				}
				return nil
			})
		},
	}
}

func keysCmd(a *app) *cobra.Command {
	var (
		page      int
		pageSize  int
		conflicts bool
	)

	cmd := &cobra.Command{
		Use:   "keys <mod> <language>",
		Short: "List the keys of a language",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := parseLanguage(args[1])
			if err != nil {
				return err
			}
			if page < 1 || pageSize < 1 {
				return fmt.Errorf("page and page size must be positive")
			}
			return a.run(func(_ context.Context, engine *catalog.Engine) error {
				mod, err := engine.Mod(args[0])
				if err != nil {
					return err
				}

				var (
					keys  []*catalog.TranslationKey
					total int
				)
				if conflicts {
					keys, err = engine.Conflicts(args[0], lang)
					total = len(keys)
					keys = pageOf(keys, page, pageSize)
				} else {
					keys, total, err = engine.Keys(args[0], lang, (page-1)*pageSize, pageSize)
				}
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				printKeys(out, mod, keys)
				_, _ = dimColor.Fprintf(out, "page %d, %d of %d keys\n", page, len(keys), total)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page to show, starting at 1")
	cmd.Flags().IntVar(&pageSize, "page-size", 50, "Keys per page")
	cmd.Flags().BoolVar(&conflicts, "conflicts", false, "Only list conflicts")

	return cmd
}

func findOptionsFlags(cmd *cobra.Command, opts *catalog.FindOptions) {
	cmd.Flags().BoolVar(&opts.UseRegex, "regex", false, "Treat the term as a regular expression")
	cmd.Flags().BoolVarP(&opts.IgnoreCase, "ignore-case", "i", false, "Match regardless of case")
	cmd.Flags().BoolVar(&opts.OnlyFullKeyMatch, "full", false, "Match whole values only")
	cmd.Flags().BoolVar(&opts.OnlyUntranslated, "untranslated", false, "Only consider values equal to the default")
}

func findCmd(a *app) *cobra.Command {
	var opts catalog.FindOptions

	cmd := &cobra.Command{
		Use:   "find <mod> <language> <term>",
		Short: "Find keys whose values match a term",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := parseLanguage(args[1])
			if err != nil {
				return err
			}
			opts.Term = args[2]
			return a.run(func(ctx context.Context, engine *catalog.Engine) error {
				mod, err := engine.Mod(args[0])
				if err != nil {
					return err
				}
				keys, err := engine.Find(ctx, args[0], lang, opts)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printKeys(out, mod, keys)
				_, _ = dimColor.Fprintf(out, "%d matching keys\n", len(keys))
				return nil
			})
		},
	}
	findOptionsFlags(cmd, &opts)

	return cmd
}

func replaceCmd(a *app) *cobra.Command {
	var opts catalog.FindOptions

	cmd := &cobra.Command{
		Use:   "replace <mod> <language> <term> <replacement>",
		Short: "Replace a term in the values of matching keys",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := parseLanguage(args[1])
			if err != nil {
				return err
			}
			opts.Term = args[2]
			return a.run(func(ctx context.Context, engine *catalog.Engine) error {
				n, err := engine.Replace(ctx, args[0], lang, opts, args[3])
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "replaced values of %d keys", n)
				return nil
			})
		},
	}
	findOptionsFlags(cmd, &opts)

	return cmd
}

func printKeys(out io.Writer, mod *catalog.Mod, keys []*catalog.TranslationKey) {
	defaults := mod.Keys[mod.DefaultLanguage]
	for _, k := range keys {
		printKey(out, k, defaults[k.ID()])
	}
}

func pageOf[T any](items []T, page, size int) []T {
	start := (page - 1) * size
	if start >= len(items) {
		return nil
	}
	return items[start:min(start+size, len(items))]
}
