package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS mods (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	default_language TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS translation_keys (
	mod_id     TEXT NOT NULL,
	language   TEXT NOT NULL,
	key        TEXT NOT NULL,
	def_type   TEXT NOT NULL,
	def_name   TEXT NOT NULL,
	field_path TEXT NOT NULL,
	vals       TEXT NOT NULL,
	PRIMARY KEY (mod_id, language, key)
);`

// SQLite is a Store in a single SQLite file. Values are kept as a JSON array.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer keeps upserts ordered.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	log.Debug().Str("path", path).Msg("Opened SQLite store")
	return &SQLite{db: db}, nil
}

func (s *SQLite) PutMod(ctx context.Context, mod ModRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO mods (id, name, default_language) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET name = excluded.name, default_language = excluded.default_language`,
		mod.ID, mod.Name, mod.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("put mod %s: %w", mod.ID, err)
	}
	return nil
}

func (s *SQLite) ListMods(ctx context.Context) ([]ModRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, default_language FROM mods ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list mods: %w", err)
	}
	defer rows.Close()

	var mods []ModRecord
	for rows.Next() {
		var m ModRecord
		if err := rows.Scan(&m.ID, &m.Name, &m.DefaultLanguage); err != nil {
			return nil, fmt.Errorf("scan mod: %w", err)
		}
		mods = append(mods, m)
	}
	return mods, rows.Err()
}

func (s *SQLite) DeleteMod(ctx context.Context, modID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM translation_keys WHERE mod_id = ?", modID); err != nil {
		return fmt.Errorf("delete keys of %s: %w", modID, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM mods WHERE id = ?", modID); err != nil {
		return fmt.Errorf("delete mod %s: %w", modID, err)
	}
	return tx.Commit()
}

func (s *SQLite) Put(ctx context.Context, records ...Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO translation_keys (mod_id, language, key, def_type, def_name, field_path, vals)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (mod_id, language, key) DO UPDATE SET
		   def_type = excluded.def_type, def_name = excluded.def_name,
		   field_path = excluded.field_path, vals = excluded.vals`)
	if err != nil {
		return fmt.Errorf("prepare put: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		vals, err := json.Marshal(nonNil(r.Values))
		if err != nil {
			return fmt.Errorf("encode values of %s: %w", r.Key, err)
		}
		if _, err := stmt.ExecContext(ctx, r.ModID, r.Language, r.Key, r.DefType, r.DefName, r.FieldPath, string(vals)); err != nil {
			return fmt.Errorf("put %s/%s: %w", r.Language, r.Key, err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) Delete(ctx context.Context, modID, language, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM translation_keys WHERE mod_id = ? AND language = ? AND key = ?",
		modID, language, key)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", language, key, err)
	}
	return nil
}

func (s *SQLite) DeletePrefix(ctx context.Context, modID, language string) error {
	var err error
	if language == "" {
		_, err = s.db.ExecContext(ctx, "DELETE FROM translation_keys WHERE mod_id = ?", modID)
	} else {
		_, err = s.db.ExecContext(ctx, "DELETE FROM translation_keys WHERE mod_id = ? AND language = ?", modID, language)
	}
	if err != nil {
		return fmt.Errorf("delete keys of %s %s: %w", modID, language, err)
	}
	return nil
}

func (s *SQLite) QueryAll(ctx context.Context, modID, language string) ([]Record, error) {
	const cols = "SELECT mod_id, language, key, def_type, def_name, field_path, vals FROM translation_keys"
	var (
		rows *sql.Rows
		err  error
	)
	if language == "" {
		rows, err = s.db.QueryContext(ctx, cols+" WHERE mod_id = ? ORDER BY language, key", modID)
	} else {
		rows, err = s.db.QueryContext(ctx, cols+" WHERE mod_id = ? AND language = ? ORDER BY key", modID, language)
	}
	if err != nil {
		return nil, fmt.Errorf("query keys of %s: %w", modID, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r    Record
			vals string
		)
		if err := rows.Scan(&r.ModID, &r.Language, &r.Key, &r.DefType, &r.DefName, &r.FieldPath, &vals); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		if err := json.Unmarshal([]byte(vals), &r.Values); err != nil {
			return nil, fmt.Errorf("decode values of %s: %w", r.Key, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error {
	if err := s.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return err
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
