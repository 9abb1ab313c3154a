package models

import (
	"time"
)

// User represents a back-office operator row.
// Roles are stored as a Postgres text[] of role codes.
type User struct {
	UserID       string   `db:"user_id"`
	Username     string   `db:"username"`
	PasswordHash string   `db:"password_hash"`
	Name         string   `db:"name"`
	Roles        []string `db:"roles"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
