package dbx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// ErrUnknownDialect is returned for a driver name gophauth has no dialect for.
var ErrUnknownDialect = errors.New("unknown database driver")

// Dialect captures the differences between the supported SQL backends.
type Dialect struct {
	// Name doubles as the migrations sub-directory.
	Name string
	// Driver is the database/sql driver name registered by the driver package.
	Driver string
	// Goose is the goose dialect name.
	Goose string
	// Returning reports whether INSERT ... RETURNING is available.
	Returning bool

	quote       byte
	numberedArg bool
}

var (
	Postgres = Dialect{Name: "postgres", Driver: "pgx", Goose: "postgres", Returning: true, quote: '"', numberedArg: true}
	MySQL    = Dialect{Name: "mysql", Driver: "mysql", Goose: "mysql", quote: '`'}
	SQLite   = Dialect{Name: "sqlite", Driver: "sqlite", Goose: "sqlite3", Returning: true, quote: '"'}
)

// DialectFor maps a configured driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "pgx", "postgres", "postgresql":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return Dialect{}, fmt.Errorf("%w: %q", ErrUnknownDialect, driver)
}

// Quote returns ident as a quoted identifier. Embedded quote characters are
// doubled, so configured table and column names cannot break out of it.
func (d Dialect) Quote(ident string) string {
	q := string(d.quote)
	return q + strings.ReplaceAll(ident, q, q+q) + q
}

// Rebind rewrites '?' placeholders into the dialect's positional form.
// Queries passed here never contain '?' inside string literals.
func (d Dialect) Rebind(query string) string {
	if !d.numberedArg {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			b.WriteByte(query[i])
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// IsUniqueViolation reports whether err is a unique constraint violation in
// any of the supported backends.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
