// Package groups reads user groups joined with the permissions granted to them.
package groups

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type SQLRepository struct {
	db        dbx.DBTX
	listQuery string
}

func NewSQLRepository(db dbx.DBTX, d dbx.Dialect) *SQLRepository {
	col := func(alias, name string) string { return alias + "." + d.Quote(name) }

	// Rows are ordered by group id. Within a group the join has no natural
	// order across engines, so it is pinned to the assignment's permission id;
	// List keeps whatever order the rows arrive in.
	return &SQLRepository{
		db: db,
		listQuery: fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s g `+
			`LEFT JOIN %s gp ON %s = %s `+
			`LEFT JOIN %s p ON %s = %s `+
			`ORDER BY %s ASC, %s ASC`,
			col("g", "id"), col("g", "title"), col("p", "id"), col("p", "key"), col("p", "title"),
			d.Quote("user_group"),
			d.Quote("user_group_permission"), col("gp", "group_id"), col("g", "id"),
			d.Quote("user_permission"), col("p", "id"), col("gp", "permission_id"),
			col("g", "id"), col("gp", "permission_id")),
	}
}

// List returns every group with its permissions. Rows stream in group order;
// the first row of a group sets its title and every row with a permission
// adds it, so permissions keep the join's row order. Groups without any
// permission come back with an empty set.
func (r *SQLRepository) List(ctx context.Context) (models.Groups, error) {
	rows, err := r.db.QueryContext(ctx, r.listQuery)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	groups := make(models.Groups)
	for rows.Next() {
		var (
			groupID    int64
			groupTitle string
			permID     sql.NullInt64
			permKey    sql.NullString
			permTitle  sql.NullString
		)
		if err := rows.Scan(&groupID, &groupTitle, &permID, &permKey, &permTitle); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		g, ok := groups[groupID]
		if !ok {
			g = models.Group{ID: groupID, Title: groupTitle, Permissions: []models.Permission{}}
		}
		if permID.Valid {
			g.AddPermission(models.Permission{ID: permID.Int64, Key: permKey.String, Title: permTitle.String})
		}
		groups[groupID] = g
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return groups, nil
}
