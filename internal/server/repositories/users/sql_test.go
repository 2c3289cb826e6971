package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T, d dbx.Dialect, s Schema) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(db, d, s), mock
}

var at = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestUsernameExists(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.Postgres, DefaultSchema)
	q := `SELECT COUNT(*) FROM "user" WHERE "username" = $1`

	mock.ExpectQuery(q).WithArgs("alice").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(q).WithArgs("bob").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := repo.UsernameExists(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UsernameExists(context.Background(), "bob")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsernameExists_CustomSchema(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.MySQL, Schema{Table: "accounts", UsernameColumn: "login", PasswordColumn: "pass_hash"})

	mock.ExpectQuery("SELECT COUNT(*) FROM `accounts` WHERE `login` = ?").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := repo.UsernameExists(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Returning(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.Postgres, DefaultSchema)

	mock.ExpectQuery(`INSERT INTO "user" ("group_id", "created", "updated", "username", "password") VALUES ($1, $2, $3, $4, $5) RETURNING "id"`).
		WithArgs(int64(2), at.Unix(), at.Unix(), "alice", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := repo.Create(context.Background(), &models.User{GroupID: 2, Created: at, Updated: at, UserName: "alice", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_LastInsertID(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.MySQL, DefaultSchema)

	mock.ExpectExec("INSERT INTO `user` (`group_id`, `created`, `updated`, `username`, `password`) VALUES (?, ?, ?, ?, ?)").
		WithArgs(int64(2), at.Unix(), at.Unix(), "alice", "hash").
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := repo.Create(context.Background(), &models.User{GroupID: 2, Created: at, Updated: at, UserName: "alice", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestCreate_UniqueViolation(t *testing.T) {
	t.Run("postgres", func(t *testing.T) {
		repo, mock := newRepoWithMock(t, dbx.Postgres, DefaultSchema)
		mock.ExpectQuery(`INSERT INTO "user" ("group_id", "created", "updated", "username", "password") VALUES ($1, $2, $3, $4, $5) RETURNING "id"`).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.Create(context.Background(), &models.User{UserName: "alice"})
		assert.ErrorIs(t, err, common.ErrUsernameTaken)
	})

	t.Run("mysql", func(t *testing.T) {
		repo, mock := newRepoWithMock(t, dbx.MySQL, DefaultSchema)
		mock.ExpectExec("INSERT INTO `user` (`group_id`, `created`, `updated`, `username`, `password`) VALUES (?, ?, ?, ?, ?)").
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

		_, err := repo.Create(context.Background(), &models.User{UserName: "alice"})
		assert.ErrorIs(t, err, common.ErrUsernameTaken)
	})
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.SQLite, DefaultSchema)
	mock.ExpectQuery(`INSERT INTO "user" ("group_id", "created", "updated", "username", "password") VALUES (?, ?, ?, ?, ?) RETURNING "id"`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db down")
	assert.NotErrorIs(t, err, common.ErrUsernameTaken)
}

func TestGetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.Postgres, DefaultSchema)
	q := `SELECT "id", "group_id", "created", "updated", "username" FROM "user" WHERE "id" = $1`

	mock.ExpectQuery(q).WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_id", "created", "updated", "username"}).
			AddRow(int64(5), int64(2), at.Unix(), at.Add(time.Hour).Unix(), "alice"))

	u, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, &models.User{ID: 5, GroupID: 2, Created: at, Updated: at.Add(time.Hour), UserName: "alice"}, u)
	assert.Empty(t, u.PasswordHash)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.Postgres, DefaultSchema)
	mock.ExpectQuery(`SELECT "id", "group_id", "created", "updated", "username" FROM "user" WHERE "id" = $1`).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetCredentials(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.Postgres, DefaultSchema)
	q := `SELECT "id", "group_id", "password" FROM "user" WHERE "username" = $1`

	mock.ExpectQuery(q).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_id", "password"}).AddRow(int64(5), int64(2), "hash"))
	mock.ExpectQuery(q).WithArgs("ghost").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(q).WithArgs("alice").WillReturnError(errors.New("db err"))

	u, err := repo.GetCredentials(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, &models.User{ID: 5, GroupID: 2, UserName: "alice", PasswordHash: "hash"}, u)

	_, err = repo.GetCredentials(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.GetCredentials(context.Background(), "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db err")
}

func TestUpdatePassword(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.Postgres, DefaultSchema)
	mock.ExpectExec(`UPDATE "user" SET "password" = $1, "updated" = $2 WHERE "id" = $3`).
		WithArgs("new-hash", at.Unix(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePassword(context.Background(), 5, "new-hash", at))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateGroup_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.Postgres, DefaultSchema)
	mock.ExpectExec(`UPDATE "user" SET "group_id" = $1, "updated" = $2 WHERE "id" = $3`).
		WithArgs(int64(3), at.Unix(), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COUNT(*) FROM "user" WHERE "id" = $1`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := repo.UpdateGroup(context.Background(), 9, 3, at)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateGroup_UnchangedRowIsNotAnError(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.MySQL, DefaultSchema)
	mock.ExpectExec("UPDATE `user` SET `group_id` = ?, `updated` = ? WHERE `id` = ?").
		WithArgs(int64(3), at.Unix(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT(*) FROM `user` WHERE `id` = ?").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	require.NoError(t, repo.UpdateGroup(context.Background(), 5, 3, at))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.Postgres, DefaultSchema)
	mock.ExpectExec(`UPDATE "user" SET "password" = $1, "updated" = $2 WHERE "id" = $3`).
		WillReturnError(errors.New("db err"))

	err := repo.UpdatePassword(context.Background(), 5, "h", at)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db err")
}
