package db

import "gorm.io/gorm"

// EnsureSchema creates the per-vertical Postgres schema (app_auth, app_chat,
// app_payment) if it does not exist yet. Called from each package's Init
// before AutoMigrate.
func EnsureSchema(d *gorm.DB, schema string) error {
	return d.Exec(`CREATE SCHEMA IF NOT EXISTS "` + schema + `"`).Error
}
