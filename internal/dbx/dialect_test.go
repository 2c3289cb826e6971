package dbx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	tests := []struct {
		driver string
		want   Dialect
	}{
		{"pgx", Postgres},
		{"postgres", Postgres},
		{"MySQL", MySQL},
		{"sqlite", SQLite},
		{"sqlite3", SQLite},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := DialectFor(tt.driver)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}

	_, err := DialectFor("oracle")
	require.ErrorIs(t, err, ErrUnknownDialect)
}

func TestDialect_Quote(t *testing.T) {
	assert.Equal(t, `"user"`, Postgres.Quote("user"))
	assert.Equal(t, "`key`", MySQL.Quote("key"))
	assert.Equal(t, `"we""ird"`, SQLite.Quote(`we"ird`))
	assert.Equal(t, "`a``b`", MySQL.Quote("a`b"))
}

func TestDialect_Rebind(t *testing.T) {
	q := "UPDATE t SET a = ?, b = ? WHERE id = ?"
	assert.Equal(t, "UPDATE t SET a = $1, b = $2 WHERE id = $3", Postgres.Rebind(q))
	assert.Equal(t, q, MySQL.Rebind(q))
	assert.Equal(t, q, SQLite.Rebind(q))
	assert.Equal(t, "SELECT 1", Postgres.Rebind("SELECT 1"))
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other", &pgconn.PgError{Code: "23503"}, false},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true},
		{"mysql other", &mysql.MySQLError{Number: 1146}, false},
		{"sqlite unique", errors.New(`constraint failed: UNIQUE constraint failed: user.username (2067)`), true},
		{"wrapped", fmt.Errorf("db error: %w", &pgconn.PgError{Code: "23505"}), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}
