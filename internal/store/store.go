// Package store persists mods and their translation keys. The catalog keeps
// the working set in memory and mirrors every mutation here.
package store

import (
	"context"
	"fmt"
)

// ModRecord is the persisted form of a mod.
type ModRecord struct {
	ID              string
	Name            string
	DefaultLanguage string
}

// Record is the persisted form of one translation key of one language.
// (ModID, Language, Key) identifies it.
type Record struct {
	ModID     string
	Language  string
	Key       string
	DefType   string
	DefName   string
	FieldPath string
	Values    []string
}

// Store is the key-value collaborator of the catalog. Writes are upserts;
// deleting something absent is not an error.
type Store interface {
	PutMod(ctx context.Context, mod ModRecord) error
	ListMods(ctx context.Context) ([]ModRecord, error)
	// DeleteMod removes the mod and every record it owns.
	DeleteMod(ctx context.Context, modID string) error

	Put(ctx context.Context, records ...Record) error
	Delete(ctx context.Context, modID, language, key string) error
	// DeletePrefix removes every record of modID in language, or in every
	// language when language is empty.
	DeletePrefix(ctx context.Context, modID, language string) error
	// QueryAll returns the records of modID in language (every language when
	// empty), ordered by language then key.
	QueryAll(ctx context.Context, modID, language string) ([]Record, error)

	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open returns the store selected by driver. dsn is a file path for SQLite
// and a connection URL for PostgreSQL; memory ignores it.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return OpenSQLite(ctx, dsn)
	case DriverPostgres:
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*SQLite)(nil)
	_ Store = (*Postgres)(nil)
)
