// Package database opens the gorm connection and owns schema migration,
// including the PostgreSQL exclusion constraint that rejects overlapping
// bookings at the database level.
package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"lodgesync/internal/domain"
)

// Connect opens the database named by dsn: a postgres:// URL, or anything
// else is treated as a sqlite file path for local development.
func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Printf("sqlite database: %s", dsn)
	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate creates the schema and, on PostgreSQL, the overbooking constraint
// the booking service relies on. DDL failures are returned, not swallowed;
// the server must not start without the constraint.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Unit{},
		&domain.Booking{},
		&domain.DateBlock{},
		&domain.SyncFeed{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("create btree_gist extension: %w", err)
	}
	if err := db.Exec(
		`CREATE INDEX IF NOT EXISTS idx_bookings_unit_range ON bookings (unit_id, arrival, departure)`,
	).Error; err != nil {
		return fmt.Errorf("create bookings range index: %w", err)
	}

	var constraints int64
	if err := db.Raw(
		`SELECT COUNT(1) FROM pg_constraint WHERE conname = 'idx_no_overbooking'`,
	).Scan(&constraints).Error; err != nil {
		return fmt.Errorf("check overbooking constraint: %w", err)
	}
	if constraints > 0 {
		return nil
	}

	// daterange uses the same [) convention as the domain model.
	if err := db.Exec(`
ALTER TABLE bookings ADD CONSTRAINT idx_no_overbooking
EXCLUDE USING gist (
  unit_id WITH =,
  daterange(arrival::date, departure::date, '[)') WITH &&
) WHERE (status NOT IN ('cancelled'))
`).Error; err != nil {
		return fmt.Errorf("create overbooking constraint: %w", err)
	}

	return nil
}
