package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	pg := &DB{Dialect: Postgres}
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", pg.Rebind("SELECT a FROM t WHERE x = ? AND y = ?"))

	lite := &DB{Dialect: SQLite}
	assert.Equal(t, "SELECT a FROM t WHERE x = ?", lite.Rebind("SELECT a FROM t WHERE x = ?"))
}

func TestOpenSQLiteMigratesAndDetectsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, "sqlite", filepath.Join(t.TempDir(), "accounts.db"))
	require.NoError(t, err)
	defer db.Close()

	// idempotent
	require.NoError(t, db.Migrate(ctx))

	_, err = db.ExecContext(ctx, db.Rebind(`INSERT INTO accounts (id, username) VALUES (?, ?)`), "a-1", "alice")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, db.Rebind(`INSERT INTO accounts (id, username) VALUES (?, ?)`), "a-2", "alice")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestIsUniqueViolationPostgres(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(nil))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "dsn")
	assert.Error(t, err)
}
