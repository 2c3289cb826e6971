// Package repomanager provides a RepositoryManager for the supported SQL
// dialects, wiring together repository constructors and database migrations
// (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/migrations"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/groups"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/permissions"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager vends repositories for one dialect and user schema.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
	schema  users.Schema
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db, m.dialect, m.schema)
}

// Permissions returns a permissions.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Permissions(db dbx.DBTX) permissions.Repository {
	return permissions.NewSQLRepository(db, m.dialect)
}

// Groups returns a groups.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Groups(db dbx.DBTX) groups.Repository {
	return groups.NewSQLRepository(db, m.dialect)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations of the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect.Goose); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, m.dialect.Name)
}

// NewSQLRepositoryManager constructs a RepositoryManager for d. Empty schema
// fields fall back to users.DefaultSchema.
func NewSQLRepositoryManager(d dbx.Dialect, schema users.Schema) RepositoryManager {
	if schema.Table == "" {
		schema.Table = users.DefaultSchema.Table
	}
	if schema.UsernameColumn == "" {
		schema.UsernameColumn = users.DefaultSchema.UsernameColumn
	}
	if schema.PasswordColumn == "" {
		schema.PasswordColumn = users.DefaultSchema.PasswordColumn
	}
	return &SQLRepositoryManager{dialect: d, schema: schema}
}
