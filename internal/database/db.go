package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"rav/pkg/logger"
)

var DB *gorm.DB

// InitDB initializes the SQLite connection with performance-tuned settings
// (WAL mode). It handles directory creation, connection pooling
// configuration and schema migrations.
//
// The application will terminate if the database connection cannot be
// established.
func InitDB(dbPath string) {
	if err := ensureDir(dbPath); err != nil {
		log.Fatalf("[FATAL] Failed to ensure database directory: %v", err)
	}

	// WAL mode enables concurrent readers and a single writer without
	// locking the entire file. busy_timeout makes the driver wait for the
	// lock instead of failing immediately.
	dsn := fmt.Sprintf(
		"%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_foreign_keys=on",
		dbPath,
	)

	gormConfig := &gorm.Config{
		Logger:      gormLogger.Default.LogMode(gormLogger.Silent),
		PrepareStmt: true,
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		log.Fatalf("[FATAL] Database connection failed: %v", err)
	}

	configurePool(DB)
	runMigrations(DB)

	logger.LogSuccess("Database initialized (%s)", dbPath)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0750)
	}
	return nil
}

func configurePool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("[FATAL] Failed to retrieve generic database interface: %v", err)
	}

	// Limit concurrency to prevent disk I/O throttling on the single
	// SQLite file.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)
}

func runMigrations(db *gorm.DB) {
	if err := db.AutoMigrate(&User{}, &Avatar{}); err != nil {
		log.Fatalf("[FATAL] Schema migration failed: %v", err)
	}

	// Raw SQL is used here to ensure idempotent index creation.
	indices := []string{
		"CREATE INDEX IF NOT EXISTS idx_avatars_enabled_size ON avatars(enabled, width, height);",
		"CREATE INDEX IF NOT EXISTS idx_users_username_lower ON users(LOWER(username));",
	}

	for _, idx := range indices {
		if err := db.Exec(idx).Error; err != nil {
			logger.LogWarn("Failed to create index: %v", err)
		}
	}
}
