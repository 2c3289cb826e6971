// Package users stores user rows. The table and its credential columns are
// configurable; the id, group_id, created and updated columns are fixed.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Schema names the user table and its credential columns.
type Schema struct {
	Table          string
	UsernameColumn string
	PasswordColumn string
}

// DefaultSchema matches the bundled migrations.
var DefaultSchema = Schema{Table: "user", UsernameColumn: "username", PasswordColumn: "password"}

type queries struct {
	exists, existsByID, create, getByID, credentials, updatePassword, updateGroup string
}

type SQLRepository struct {
	db        dbx.DBTX
	returning bool
	q         queries
}

func NewSQLRepository(db dbx.DBTX, d dbx.Dialect, s Schema) *SQLRepository {
	t := d.Quote(s.Table)
	id, groupID := d.Quote("id"), d.Quote("group_id")
	created, updated := d.Quote("created"), d.Quote("updated")
	username, password := d.Quote(s.UsernameColumn), d.Quote(s.PasswordColumn)

	create := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES (?, ?, ?, ?, ?)`,
		t, groupID, created, updated, username, password)
	if d.Returning {
		create += " RETURNING " + id
	}

	return &SQLRepository{
		db:        db,
		returning: d.Returning,
		q: queries{
			exists:     d.Rebind(fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = ?`, t, username)),
			existsByID: d.Rebind(fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = ?`, t, id)),
			create:     d.Rebind(create),
			getByID: d.Rebind(fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = ?`,
				id, groupID, created, updated, username, t, id)),
			credentials: d.Rebind(fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = ?`,
				id, groupID, password, t, username)),
			updatePassword: d.Rebind(fmt.Sprintf(`UPDATE %s SET %s = ?, %s = ? WHERE %s = ?`,
				t, password, updated, id)),
			updateGroup: d.Rebind(fmt.Sprintf(`UPDATE %s SET %s = ?, %s = ? WHERE %s = ?`,
				t, groupID, updated, id)),
		},
	}
}

func (r *SQLRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, r.q.exists, username).Scan(&n); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

// Create inserts user and returns its new id. Created and Updated are
// stored as unix seconds.
func (r *SQLRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	args := []any{user.GroupID, user.Created.Unix(), user.Updated.Unix(), user.UserName, user.PasswordHash}

	var id int64
	if r.returning {
		if err := r.db.QueryRowContext(ctx, r.q.create, args...).Scan(&id); err != nil {
			return 0, createError(err)
		}
		return id, nil
	}

	res, err := r.db.ExecContext(ctx, r.q.create, args...)
	if err != nil {
		return 0, createError(err)
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func createError(err error) error {
	if dbx.IsUniqueViolation(err) {
		return common.ErrUsernameTaken
	}
	return fmt.Errorf("db error: %w", err)
}

// GetByID returns the user row without its password hash.
func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var (
		u                models.User
		created, updated int64
	)
	err := r.db.QueryRowContext(ctx, r.q.getByID, id).Scan(&u.ID, &u.GroupID, &created, &updated, &u.UserName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	u.Created = time.Unix(created, 0).UTC()
	u.Updated = time.Unix(updated, 0).UTC()
	return &u, nil
}

// GetCredentials returns id, group and password hash for username.
func (r *SQLRepository) GetCredentials(ctx context.Context, username string) (*models.User, error) {
	u := &models.User{UserName: username}
	err := r.db.QueryRowContext(ctx, r.q.credentials, username).Scan(&u.ID, &u.GroupID, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *SQLRepository) UpdatePassword(ctx context.Context, id int64, hash string, at time.Time) error {
	return r.update(ctx, r.q.updatePassword, id, hash, at.Unix(), id)
}

func (r *SQLRepository) UpdateGroup(ctx context.Context, id int64, groupID int64, at time.Time) error {
	return r.update(ctx, r.q.updateGroup, id, groupID, at.Unix(), id)
}

// update runs an UPDATE by id. MySQL reports rows changed rather than rows
// matched, so zero affected rows is confirmed with a lookup before it is
// reported as ErrorNotFound.
func (r *SQLRepository) update(ctx context.Context, query string, id int64, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n > 0 {
		return nil
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, r.q.existsByID, id).Scan(&count); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if count == 0 {
		return common.ErrorNotFound
	}
	return nil
}
