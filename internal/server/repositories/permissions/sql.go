// Package permissions reads the permission catalog.
package permissions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type SQLRepository struct {
	db        dbx.DBTX
	listQuery string
}

func NewSQLRepository(db dbx.DBTX, d dbx.Dialect) *SQLRepository {
	return &SQLRepository{
		db: db,
		listQuery: fmt.Sprintf(`SELECT %s, %s, %s FROM %s ORDER BY %s ASC`,
			d.Quote("id"), d.Quote("key"), d.Quote("title"), d.Quote("user_permission"), d.Quote("id")),
	}
}

// List returns the whole catalog ordered by id.
func (r *SQLRepository) List(ctx context.Context) ([]models.Permission, error) {
	rows, err := r.db.QueryContext(ctx, r.listQuery)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	permissions := make([]models.Permission, 0)
	for rows.Next() {
		var p models.Permission
		if err := rows.Scan(&p.ID, &p.Key, &p.Title); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		permissions = append(permissions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return permissions, nil
}
