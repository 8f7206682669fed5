package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/gema-code-review/internal/models"
)

const inMemoryDSN = "file:gema_code_review?mode=memory&cache=shared"

// Connect opens the challenge database. An empty DSN selects an in-memory
// SQLite database; sqlite:// and file: DSNs select SQLite; anything else is
// handed to the PostgreSQL driver.
func Connect(dsn string) (*gorm.DB, error) {
	dialector, driver := dialectorFor(strings.TrimSpace(dsn))

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	return db, nil
}

// Migrate creates or updates the schema used by the service.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Challenge{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func dialectorFor(dsn string) (gorm.Dialector, string) {
	switch {
	case dsn == "":
		return sqlite.Open(inMemoryDSN), "sqlite"
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite://")), "sqlite"
	case strings.HasPrefix(dsn, "file:"):
		return sqlite.Open(dsn), "sqlite"
	default:
		return postgres.Open(dsn), "postgres"
	}
}
