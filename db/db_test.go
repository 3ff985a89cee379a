package db

import (
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	wrapped := fmt.Errorf("insert user: %w", pgErr)

	assert.True(t, IsUniqueViolation(wrapped))
	assert.True(t, IsUniqueViolation(wrapped, "users_email_key"))
	assert.False(t, IsUniqueViolation(wrapped, "categories_name_key"))
	assert.False(t, IsUniqueViolation(fmt.Errorf("plain error")))
	assert.False(t, IsForeignKeyViolation(wrapped))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected file in migrations: %s", name)
		}
	}
	assert.Equal(t, ups, downs)
}
