package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fragments-ui/internal/client/models"
	"github.com/dmitrijs2005/fragments-ui/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context) (*models.Session, error) {
	var (
		s       models.Session
		expires int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT provider, username, email, id_token, access_token, refresh_token, basic_credentials, expires_at
		FROM session WHERE id = 1
	`).Scan(&s.Provider, &s.Username, &s.Email, &s.IDToken, &s.AccessToken, &s.RefreshToken, &s.BasicCredentials, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if expires > 0 {
		s.ExpiresAt = time.UnixMilli(expires).UTC()
	}
	return &s, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, s *models.Session) error {
	var expires int64
	if !s.ExpiresAt.IsZero() {
		expires = s.ExpiresAt.UnixMilli()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session (id, provider, username, email, id_token, access_token, refresh_token, basic_credentials, expires_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			provider = excluded.provider,
			username = excluded.username,
			email = excluded.email,
			id_token = excluded.id_token,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			basic_credentials = excluded.basic_credentials,
			expires_at = excluded.expires_at
	`, s.Provider, s.Username, s.Email, s.IDToken, s.AccessToken, s.RefreshToken, s.BasicCredentials, expires)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
