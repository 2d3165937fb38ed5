/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Postgres stores documents as JSONB rows in a single documents table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to connString and applies pending migrations.
func NewPostgres(ctx context.Context, connString string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &Postgres{pool: pool}, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

func (p *Postgres) Get(ctx context.Context, collection, key string) (Document, error) {
	var data []byte
	err := p.pool.QueryRow(ctx,
		"SELECT data FROM documents WHERE collection = $1 AND key = $2",
		collection, key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return Document{Key: key, Data: data}, nil
}

func (p *Postgres) Set(ctx context.Context, collection, key string, doc any) error {
	fields, err := encodeObject(doc)
	if err != nil {
		return err
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO documents (collection, key, data) VALUES ($1, $2, $3::jsonb)
		 ON CONFLICT (collection, key) DO UPDATE SET data = EXCLUDED.data`,
		collection, key, string(data),
	)
	return err
}

func (p *Postgres) Update(ctx context.Context, collection, key string, fields map[string]any) error {
	encoded, err := encodeFields(fields)
	if err != nil {
		return err
	}
	patch, err := json.Marshal(encoded)
	if err != nil {
		return err
	}

	tag, err := p.pool.Exec(ctx,
		"UPDATE documents SET data = data || $3::jsonb WHERE collection = $1 AND key = $2",
		collection, key, string(patch),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) QueryByField(ctx context.Context, collection, field string, value any) ([]Document, error) {
	want, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx,
		"SELECT key, data FROM documents WHERE collection = $1 AND data -> $2 = $3::jsonb ORDER BY seq",
		collection, field, string(want),
	)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

func (p *Postgres) List(ctx context.Context, collection string) ([]Document, error) {
	rows, err := p.pool.Query(ctx,
		"SELECT key, data FROM documents WHERE collection = $1 ORDER BY seq",
		collection,
	)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

func (p *Postgres) DeleteMany(ctx context.Context, collection string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	_, err := p.pool.Exec(ctx,
		"DELETE FROM documents WHERE collection = $1 AND key = ANY($2)",
		collection, keys,
	)
	return err
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func collectDocuments(rows pgx.Rows) ([]Document, error) {
	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Document, error) {
		var doc Document
		var data []byte
		if err := row.Scan(&doc.Key, &data); err != nil {
			return Document{}, err
		}
		doc.Data = data
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}
