// Package repositories opens the local SQLite database, applies the embedded
// goose migrations and vends the repositories built on it.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/fragments-ui/internal/client/migrations"
	"github.com/dmitrijs2005/fragments-ui/internal/client/repositories/session"
	"github.com/dmitrijs2005/fragments-ui/internal/filex"
)

type Repositories struct {
	DB      *sql.DB
	Session session.Repository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return gooseUpContext(ctx, db, ".")
}

// InitDatabase opens the database at dsn and migrates it. SQLite is used
// through a single connection so that ":memory:" databases are shared by
// every query. A plain file path is created readable by its owner only,
// since the session row holds credentials.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := filex.EnsurePrivateFile(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dsn, err)
	}

	return &Repositories{
		DB:      db,
		Session: session.NewSQLiteRepository(db),
	}, nil
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}
