// Package migrations embeds the goose schema migrations, one directory per
// SQL dialect. They create the default schema: the user table named "user"
// with "username" and "password" credential columns.
package migrations

import "embed"

//go:embed postgres/*.sql mysql/*.sql sqlite/*.sql
var Migrations embed.FS
