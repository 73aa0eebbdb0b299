package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"mod-translator/internal/catalog"
	"mod-translator/internal/overlay"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func exportCmd(a *app) *cobra.Command {
	var asDir bool

	cmd := &cobra.Command{
		Use:   "export <mod> [output]",
		Short: "Package the finished translations as a mod",
		Long: `Export writes the translations that differ from the default language as an
installable overlay mod. The output is a zip archive named after the mod
unless a path is given, or a folder with --dir.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(_ context.Context, engine *catalog.Engine) error {
				mod, err := engine.Mod(args[0])
				if err != nil {
					return err
				}

				out := overlay.FileName(mod)
				if len(args) == 2 {
					out = args[1]
				} else if asDir {
					out = mod.ID + "_translation"
				}

				var stats overlay.Stats
				if asDir {
					stats, err = overlay.Compile(mod, overlay.NewDirSink(osfs.New(out)))
				} else {
					stats, err = exportZip(mod, out)
				}
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if stats.Skipped > 0 {
					printWarning(w, "%d keys skipped, their names are not valid XML elements", stats.Skipped)
				}
				if stats.Languages == 0 {
					printWarning(w, "no translated keys, %s only holds the About file", out)
					return nil
				}
				printSuccess(w, "wrote %s", out)
				printLabelValue(w, "Languages", stats.Languages)
				printLabelValue(w, "Keyed", stats.Keyed)
				printLabelValue(w, "DefInjected", stats.DefInjected)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asDir, "dir", false, "Write a folder instead of a zip archive")

	return cmd
}

// exportZip writes the overlay archive to path. A failed compile removes the
// unfinished file.
func exportZip(mod *catalog.Mod, path string) (overlay.Stats, error) {
	var stats overlay.Stats
	err := writeFile(path, func(w io.Writer) error {
		var err error
		stats, err = overlay.Compile(mod, overlay.NewZipSink(w))
		return err
	})
	if err != nil {
		if rerr := os.Remove(path); rerr != nil && !os.IsNotExist(rerr) {
			log.Warn().Err(rerr).Str("path", path).Msg("Failed to remove unfinished archive")
		}
		return stats, err
	}
	return stats, nil
}

func dumpCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "dump <mod> <language>",
		Short: "Write the keys of a language as TSV or JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := parseLanguage(args[1])
			if err != nil {
				return err
			}
			write := overlay.WriteTSV
			switch format {
			case "tsv":
			case "json":
				write = overlay.WriteJSON
			default:
				return fmt.Errorf("unknown format %q, want tsv or json", format)
			}

			return a.run(func(_ context.Context, engine *catalog.Engine) error {
				mod, err := engine.Mod(args[0])
				if err != nil {
					return err
				}
				if output == "" {
					return write(cmd.OutOrStdout(), mod, lang)
				}
				return writeFile(output, func(w io.Writer) error { return write(w, mod, lang) })
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "tsv", "Output format: tsv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return write(f)
}

func lintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint <mod> <language>",
		Short: "Report translations that drop placeholders",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := parseLanguage(args[1])
			if err != nil {
				return err
			}
			return a.run(func(_ context.Context, engine *catalog.Engine) error {
				mod, err := engine.Mod(args[0])
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				issues := overlay.Lint(mod, lang)
				if len(issues) == 0 {
					printSuccess(w, "no placeholder issues in %s", lang)
					return nil
				}
				for _, issue := range issues {
					printWarning(w, "%s is missing %s", issue.Key, strings.Join(issue.Missing, " "))
					_, _ = dimColor.Fprintf(w, "  default: %s\n", shorten(issue.Default))
					fmt.Fprintf(w, "  value:   %s\n", shorten(issue.Value))
				}
				return fmt.Errorf("%d keys drop placeholders", len(issues))
			})
		},
	}
}
