package store

import (
	"gorm.io/gorm"

	"rav/internal/database"
)

type Users struct {
	DB *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{DB: db}
}

// ByUsername fetches a user by name, case-insensitively.
func (s *Users) ByUsername(username string) (*database.User, error) {
	var user database.User
	err := s.DB.Where("LOWER(username) = LOWER(?)", username).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// ByID fetches a user by primary key.
func (s *Users) ByID(id uint) (*database.User, error) {
	var user database.User
	err := s.DB.First(&user, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UsernameTaken reports whether a name is already registered, ignoring case.
func (s *Users) UsernameTaken(username string) (bool, error) {
	var count int64
	err := s.DB.Model(&database.User{}).
		Where("LOWER(username) = LOWER(?)", username).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a new user row.
func (s *Users) Create(user *database.User) error {
	return s.DB.Create(user).Error
}

// UpdateProfile overwrites the two owner-editable fields unconditionally.
func (s *Users) UpdateProfile(id uint, email, message string) error {
	return s.DB.Model(&database.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"email": email, "message": message}).Error
}

// UserCount is one leaderboard row: a username and how many avatars it owns.
type UserCount struct {
	Username string
	Count    int64
}

// Leaderboard returns the top accounts by total owned avatars, enabled or
// not, descending. Ties break arbitrarily.
func (s *Users) Leaderboard(limit int) ([]UserCount, error) {
	var rows []UserCount
	err := s.DB.Raw(`
		SELECT users.username AS username, COUNT(*) AS count
		FROM users
		JOIN avatars ON avatars.owner_id = users.id
		GROUP BY users.id
		ORDER BY count DESC
		LIMIT ?`, limit).Scan(&rows).Error
	return rows, err
}
