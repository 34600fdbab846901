package database

import (
	"fmt"
	"strings"
	"time"
)

// User is a registered account capable of owning avatars. Usernames are
// unique case-insensitively; the check happens at registration time via a
// LOWER() lookup rather than a collation on the column.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:32;not null;index"`
	PasswordHash string `gorm:"not null"`
	Email        string `gorm:"default:''"`
	Message      string `gorm:"default:''"`

	Avatars   []Avatar `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time
}

// Avatar is one uploaded image record. Hash is the md5 of the raw bytes
// and doubles as the blob-store key and the public routing token. It is
// deliberately not unique: two accounts may upload identical bytes.
type Avatar struct {
	ID       uint   `gorm:"primaryKey"`
	OwnerID  uint   `gorm:"not null;index"`
	Hash     string `gorm:"size:32;not null;index"`
	Filename string `gorm:"not null"`
	Width    int    `gorm:"not null"`
	Height   int    `gorm:"not null"`
	FileSize int64  `gorm:"not null"`
	Format   string `gorm:"not null"` // decoded format name: "png", "jpeg", "gif", ...

	// No column default: with one, gorm drops a false value from the
	// INSERT and the row comes back enabled. Callers set the flag.
	Enabled bool `gorm:"not null"`

	CreatedAt time.Time
}

// MIMEType derives the response content type from the format detected at
// ingestion. The requested URL extension never participates.
func (a *Avatar) MIMEType() string {
	return "image/" + strings.ToLower(a.Format)
}

// Link is the public hash-addressed URL path for this avatar.
func (a *Avatar) Link() string {
	return fmt.Sprintf("/%s.%s", a.Hash, strings.ToLower(a.Format))
}

// Dimensions renders "WxH" for gallery captions.
func (a *Avatar) Dimensions() string {
	return fmt.Sprintf("%dx%d", a.Width, a.Height)
}
