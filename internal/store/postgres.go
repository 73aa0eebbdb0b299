package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const postgresSchema = `
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
	vals       TEXT[] NOT NULL,
	PRIMARY KEY (mod_id, language, key)
);`

// Postgres is a Store backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to databaseURL and makes sure the schema exists.
func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pg pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	log.Info().Msg("Connected to PostgreSQL")
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) PutMod(ctx context.Context, mod ModRecord) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO mods (id, name, default_language) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, default_language = EXCLUDED.default_language`,
		mod.ID, mod.Name, mod.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("put mod %s: %w", mod.ID, err)
	}
	return nil
}

func (p *Postgres) ListMods(ctx context.Context) ([]ModRecord, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, name, default_language FROM mods ORDER BY id COLLATE "C"`)
	if err != nil {
		return nil, fmt.Errorf("list mods: %w", err)
	}
	mods, err := pgx.CollectRows(rows, pgx.RowToStructByPos[ModRecord])
	if err != nil {
		return nil, fmt.Errorf("scan mods: %w", err)
	}
	return mods, nil
}

func (p *Postgres) DeleteMod(ctx context.Context, modID string) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM translation_keys WHERE mod_id = $1", modID); err != nil {
			return fmt.Errorf("delete keys of %s: %w", modID, err)
		}
		if _, err := tx.Exec(ctx, "DELETE FROM mods WHERE id = $1", modID); err != nil {
			return fmt.Errorf("delete mod %s: %w", modID, err)
		}
		return nil
	})
}

func (p *Postgres) Put(ctx context.Context, records ...Record) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(
			`INSERT INTO translation_keys (mod_id, language, key, def_type, def_name, field_path, vals)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (mod_id, language, key) DO UPDATE SET
			   def_type = EXCLUDED.def_type, def_name = EXCLUDED.def_name,
			   field_path = EXCLUDED.field_path, vals = EXCLUDED.vals`,
			r.ModID, r.Language, r.Key, r.DefType, r.DefName, r.FieldPath, nonNil(r.Values))
	}
	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("put %d keys: %w", len(records), err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, modID, language, key string) error {
	_, err := p.pool.Exec(ctx,
		"DELETE FROM translation_keys WHERE mod_id = $1 AND language = $2 AND key = $3",
		modID, language, key)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", language, key, err)
	}
	return nil
}

func (p *Postgres) DeletePrefix(ctx context.Context, modID, language string) error {
	_, err := p.pool.Exec(ctx,
		"DELETE FROM translation_keys WHERE mod_id = $1 AND ($2 = '' OR language = $2)",
		modID, language)
	if err != nil {
		return fmt.Errorf("delete keys of %s %s: %w", modID, language, err)
	}
	return nil
}

func (p *Postgres) QueryAll(ctx context.Context, modID, language string) ([]Record, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT mod_id, language, key, def_type, def_name, field_path, vals
		 FROM translation_keys
		 WHERE mod_id = $1 AND ($2 = '' OR language = $2)
		 ORDER BY language COLLATE "C", key COLLATE "C"`,
		modID, language)
	if err != nil {
		return nil, fmt.Errorf("query keys of %s: %w", modID, err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Record])
	if err != nil {
		return nil, fmt.Errorf("scan keys: %w", err)
	}
	return records, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
