package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mod-translator/internal/catalog"
	"mod-translator/internal/config"
	"mod-translator/internal/language"
	"mod-translator/internal/store"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	return NewRootCmd(config.Load()).Execute()
}

// app carries the settings shared by every command.
type app struct {
	cfg         *config.Config
	storeDriver string
	sqlitePath  string
	verbose     bool
}

// NewRootCmd builds the command tree with defaults taken from cfg.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	a := &app{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:   "modtrans",
		Short: "Extract, edit and package translations of game mods",
		Long: `modtrans reads mod folders, collects every translatable string of their
definitions and existing translations, lets you edit them per language and
exports the finished ones as an installable translation mod.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if a.verbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.storeDriver, "store", cfg.StoreDriver, "Store backend: sqlite, postgres or memory")
	flags.StringVar(&a.sqlitePath, "sqlite-path", cfg.SQLitePath, "SQLite database file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		importCmd(a),
		modsCmd(a),
		keysCmd(a),
		findCmd(a),
		replaceCmd(a),
		setCmd(a),
		removeValueCmd(a),
		resolveCmd(a),
		deleteKeyCmd(a),
		copyDefaultsCmd(a),
		purgeCmd(a),
		clearLanguageCmd(a),
		deleteModCmd(a),
		exportCmd(a),
		dumpCmd(a),
		lintCmd(a),
	)
	return rootCmd
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// openEngine opens the configured store and loads the catalog from it.
func (a *app) openEngine(ctx context.Context) (*catalog.Engine, func(), error) {
	dsn := a.sqlitePath
	if a.storeDriver == store.DriverPostgres {
		dsn = a.cfg.DatabaseURL
	}
	st, err := store.Open(ctx, a.storeDriver, dsn)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close store")
		}
	}

	engine := catalog.NewEngine(st)
	if err := engine.Load(ctx); err != nil {
		closeStore()
		return nil, nil, err
	}
	return engine, closeStore, nil
}

// run wires context, store and engine around fn.
func (a *app) run(fn func(ctx context.Context, engine *catalog.Engine) error) error {
	ctx, cancel := setupContext()
	defer cancel()

	engine, closeStore, err := a.openEngine(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	return fn(ctx, engine)
}

func parseLanguage(s string) (language.Language, error) {
	lang, ok := language.Parse(s)
	if !ok {
		return "", fmt.Errorf("unknown language %q", s)
	}
	return lang, nil
}
