package cli

import (
	"context"
	"fmt"
	"strconv"

	"mod-translator/internal/catalog"
	"mod-translator/internal/language"

	"github.com/spf13/cobra"
)

// keyArgs are the leading <mod> <language> <key> arguments of key commands.
type keyArgs struct {
	modID string
	lang  language.Language
	id    catalog.KeyID
}

func parseKeyArgs(args []string) (keyArgs, error) {
	lang, err := parseLanguage(args[1])
	if err != nil {
		return keyArgs{}, err
	}
	return keyArgs{modID: args[0], lang: lang, id: catalog.ParseKeyID(args[2])}, nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid value index %q", s)
	}
	return n, nil
}

func setCmd(a *app) *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:   "set <mod> <language> <key> <value>",
		Short: "Set a value of a key",
		Long: `Set replaces the value at --index. Keys are written as Type:Name.field for
definitions or as the bare key for Keyed strings. Setting a key the language
does not have yet copies it from the default language.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ka, err := parseKeyArgs(args)
			if err != nil {
				return err
			}
			return a.run(func(ctx context.Context, engine *catalog.Engine) error {
				if err := engine.SetValue(ctx, ka.modID, ka.lang, ka.id, index, args[3]); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "set %s", ka.id)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&index, "index", 0, "Index of the value to replace")

	return cmd
}

func removeValueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-value <mod> <language> <key> <index>",
		Short: "Remove one value of a key",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ka, err := parseKeyArgs(args)
			if err != nil {
				return err
			}
			index, err := parseIndex(args[3])
			if err != nil {
				return err
			}
			return a.run(func(ctx context.Context, engine *catalog.Engine) error {
				if err := engine.RemoveValue(ctx, ka.modID, ka.lang, ka.id, index); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "removed value %d of %s", index, ka.id)
				return nil
			})
		},
	}
}

func resolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <mod> <language> <key> <index>",
		Short: "Settle a conflict by keeping one value",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ka, err := parseKeyArgs(args)
			if err != nil {
				return err
			}
			index, err := parseIndex(args[3])
			if err != nil {
				return err
			}
			return a.run(func(ctx context.Context, engine *catalog.Engine) error {
				if err := engine.Resolve(ctx, ka.modID, ka.lang, ka.id, index); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "resolved %s", ka.id)
				return nil
			})
		},
	}
}

func deleteKeyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-key <mod> <language> <key>",
		Short: "Delete a key from a language",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ka, err := parseKeyArgs(args)
			if err != nil {
				return err
			}
			return a.run(func(ctx context.Context, engine *catalog.Engine) error {
				if err := engine.DeleteKey(ctx, ka.modID, ka.lang, ka.id); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "deleted %s", ka.id)
				return nil
			})
		},
	}
}

func copyDefaultsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "copy-defaults <mod> <language>",
		Short: "Copy missing keys from the default language",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := parseLanguage(args[1])
			if err != nil {
				return err
			}
			return a.run(func(ctx context.Context, engine *catalog.Engine) error {
				n, err := engine.CopyDefaults(ctx, args[0], lang)
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "copied %d keys to %s", n, lang)
				return nil
			})
		},
	}
}

func purgeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <mod> [language]",
		Short: "Drop keys the default language does not have",
		Long: `Purge deletes keys that are missing from the default language and removes
values equal to the default from conflicts. Without a language every
non-default language is purged.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var lang language.Language
			if len(args) == 2 {
				var err error
				if lang, err = parseLanguage(args[1]); err != nil {
					return err
				}
			}
			return a.run(func(ctx context.Context, engine *catalog.Engine) error {
				stats, err := engine.PurgeInvalid(ctx, args[0], lang)
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "deleted %d keys, reduced %d conflicts", stats.Deleted, stats.Reduced)
				return nil
			})
		},
	}
}

func clearLanguageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-language <mod> <language>",
		Short: "Remove every key of a language",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := parseLanguage(args[1])
			if err != nil {
				return err
			}
			return a.run(func(ctx context.Context, engine *catalog.Engine) error {
				if err := engine.ClearLanguage(ctx, args[0], lang); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "cleared %s", lang)
				return nil
			})
		},
	}
}

func deleteModCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-mod <mod>",
		Short: "Remove a mod and all of its keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(ctx context.Context, engine *catalog.Engine) error {
				if err := engine.DeleteMod(ctx, args[0]); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "deleted mod %s", args[0])
				return nil
			})
		},
	}
}
