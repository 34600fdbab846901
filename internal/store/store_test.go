package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"rav/internal/database"
)

// newTestDB opens a throwaway SQLite database with the schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&database.User{}, &database.Avatar{}))

	return db
}

// seedUser inserts an account and returns it.
func seedUser(t *testing.T, db *gorm.DB, username string) *database.User {
	t.Helper()

	user := &database.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedAvatar inserts an avatar row with sensible defaults.
func seedAvatar(t *testing.T, db *gorm.DB, ownerID uint, hash string, enabled bool, w, h int) *database.Avatar {
	t.Helper()

	avatar := &database.Avatar{
		OwnerID:  ownerID,
		Hash:     hash,
		Filename: hash + ".png",
		Width:    w,
		Height:   h,
		FileSize: 100,
		Format:   "png",
		Enabled:  enabled,
	}
	require.NoError(t, db.Create(avatar).Error)
	return avatar
}
