package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// PostgresStore implements Store on the kv and kv_counters tables
// created by the migrations in internal/db/migrations.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT value FROM kv WHERE key = $1`
	var value []byte
	if err := s.db.QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, value []byte) error {
	const query = `
		INSERT INTO kv (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	_, err := s.db.ExecContext(ctx, query, key, value)
	return err
}

func (s *PostgresStore) PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	const query = `
		INSERT INTO kv (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING`
	result, err := s.db.ExecContext(ctx, query, key, value)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) (bool, error) {
	const query = `DELETE FROM kv WHERE key = $1`
	result, err := s.db.ExecContext(ctx, query, key)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *PostgresStore) Incr(ctx context.Context, key string) (int64, error) {
	const query = `
		INSERT INTO kv_counters (key, value)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET value = kv_counters.value + 1
		RETURNING value`
	var value int64
	if err := s.db.QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}

func (s *PostgresStore) Scan(ctx context.Context, prefix string) ([]Entry, error) {
	const query = `
		SELECT key, value
		FROM kv
		WHERE key LIKE $1 ESCAPE '\'
		ORDER BY key COLLATE "C"`
	rows, err := s.db.QueryContext(ctx, query, escapeLike(prefix)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.Key, &entry.Value); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
