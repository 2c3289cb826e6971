// Package db opens the configured database and returns it together with the
// repository manager for its dialect.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

// Handle is an open database plus the repositories bound to its dialect.
type Handle struct {
	DB      *sql.DB
	Dialect dbx.Dialect
	Manager repomanager.RepositoryManager
}

func (h *Handle) Close() error {
	return h.DB.Close()
}

// Open connects to cfg's database and pings it. Migrations are not run;
// call Migrate for that.
func Open(ctx context.Context, cfg *config.Config) (*Handle, error) {
	d, err := dbx.DialectFor(cfg.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(d.Driver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := repomanager.NewSQLRepositoryManager(d, users.Schema{
		Table:          cfg.UserTable,
		UsernameColumn: cfg.UsernameField,
		PasswordColumn: cfg.PasswordField,
	})

	return &Handle{DB: conn, Dialect: d, Manager: m}, nil
}

func (h *Handle) Migrate(ctx context.Context) error {
	if err := h.Manager.RunMigrations(ctx, h.DB); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}
