package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/v01cee/convert-yandex-bot/internal/ports"
)

// PostgresTokenStore persists per-user OAuth tokens in Postgres.
type PostgresTokenStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.TokenStore = (*PostgresTokenStore)(nil)

// Open connects to Postgres and verifies the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresTokenStore wires a sql.DB implementation.
func NewPostgresTokenStore(db *sql.DB) *PostgresTokenStore {
	return &PostgresTokenStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Save upserts the user's access token.
func (s *PostgresTokenStore) Save(ctx context.Context, userID int64, accessToken string) error {
	if s.db == nil {
		return nil
	}

	query, args, err := s.builder.
		Insert("user_tokens").
		Columns("user_id", "access_token").
		Values(userID, accessToken).
		Suffix(`ON CONFLICT (user_id) DO UPDATE
                SET access_token = EXCLUDED.access_token,
                    updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}

// Get returns the user's token and whether one is stored.
func (s *PostgresTokenStore) Get(ctx context.Context, userID int64) (string, bool, error) {
	if s.db == nil {
		return "", false, nil
	}

	query, args, err := s.builder.
		Select("access_token").
		From("user_tokens").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build select: %w", err)
	}

	var token string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query token: %w", err)
	}
	return token, true, nil
}

// Remove deletes the user's token if present.
func (s *PostgresTokenStore) Remove(ctx context.Context, userID int64) error {
	if s.db == nil {
		return nil
	}

	query, args, err := s.builder.
		Delete("user_tokens").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
