// Package schemas provides the embedded SQL migration files for the
// translation memory store.
package schemas

import "embed"

// Migrations contains all SQL migration files, applied in name order.
//
//go:embed migrations/*.sql
var Migrations embed.FS
