package dbx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

func count(t *testing.T, ctx context.Context, q DBTX) int {
	t.Helper()
	var n int
	require.NoError(t, q.QueryRowContext(ctx, `SELECT COUNT(*) FROM t`).Scan(&n))
	return n
}

func TestDBTX_DBAndTxAreInterchangeable(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)`)
	require.NoError(t, err)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	var q DBTX = tx
	_, err = q.ExecContext(ctx, `INSERT INTO t(v) VALUES ('x')`)
	require.NoError(t, err)
	require.Equal(t, 1, count(t, ctx, q))

	require.NoError(t, tx.Rollback())
	require.Equal(t, 0, count(t, ctx, db))
}
