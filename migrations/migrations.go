// Package migrations embeds the SQL schema of the core database and of every
// tenant database.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed core/*.sql tenant/*.sql
var files embed.FS

// Core returns the migrations of the core database (users, organizations).
func Core() fs.FS {
	return mustSub("core")
}

// Tenant returns the migrations applied to each tenant_<id> database.
func Tenant() fs.FS {
	return mustSub("tenant")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(files, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
