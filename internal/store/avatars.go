package store

import (
	"gorm.io/gorm"

	"rav/internal/database"
)

// Listing limits, matching the public pages they feed.
const (
	FrontPageLimit   = 12
	GalleryNewLimit  = 8
	GalleryRandLimit = 16
	LeaderboardLimit = 35
)

type Avatars struct {
	DB *gorm.DB

	// StdWidth is the "standard size" bound: listings only show avatars
	// whose width and height both fit within it.
	StdWidth int
}

func NewAvatars(db *gorm.DB, stdWidth int) *Avatars {
	return &Avatars{DB: db, StdWidth: stdWidth}
}

// standard scopes a query to enabled avatars within the standard bound.
func (s *Avatars) standard(db *gorm.DB) *gorm.DB {
	return db.Where("enabled = ?", true).
		Where("width <= ? AND height <= ?", s.StdWidth, s.StdWidth)
}

// Create inserts a new avatar row.
func (s *Avatars) Create(avatar *database.Avatar) error {
	return s.DB.Create(avatar).Error
}

// ByHash returns the avatar with the given content hash regardless of its
// enabled state.
func (s *Avatars) ByHash(hash string) (*database.Avatar, error) {
	var avatar database.Avatar
	err := s.DB.Where("hash = ?", hash).First(&avatar).Error
	if err != nil {
		return nil, translate(err)
	}
	return &avatar, nil
}

// RandomEnabledByOwner picks one enabled avatar owned by the account,
// uniformly at random. ErrNotFound when the owner has none enabled.
func (s *Avatars) RandomEnabledByOwner(ownerID uint) (*database.Avatar, error) {
	var avatar database.Avatar
	err := s.DB.Where("owner_id = ? AND enabled = ?", ownerID, true).
		Order("RANDOM()").
		First(&avatar).Error
	if err != nil {
		return nil, translate(err)
	}
	return &avatar, nil
}

// FrontPageSample returns up to 12 random standard-sized enabled avatars.
func (s *Avatars) FrontPageSample() ([]database.Avatar, error) {
	var avatars []database.Avatar
	err := s.standard(s.DB).
		Order("RANDOM()").
		Limit(FrontPageLimit).
		Find(&avatars).Error
	return avatars, err
}

// NewestStandard returns the most recent qualifying avatars, newest first.
// Id order stands in for recency.
func (s *Avatars) NewestStandard() ([]database.Avatar, error) {
	var avatars []database.Avatar
	err := s.standard(s.DB).
		Order("id DESC").
		Limit(GalleryNewLimit).
		Find(&avatars).Error
	return avatars, err
}

// RandomStandard returns up to 16 random qualifying avatars.
func (s *Avatars) RandomStandard() ([]database.Avatar, error) {
	var avatars []database.Avatar
	err := s.standard(s.DB).
		Order("RANDOM()").
		Limit(GalleryRandLimit).
		Find(&avatars).Error
	return avatars, err
}

// ByOwner returns every avatar the account owns, disabled ones included,
// newest first. This feeds the owner's own management page.
func (s *Avatars) ByOwner(ownerID uint) ([]database.Avatar, error) {
	var avatars []database.Avatar
	err := s.DB.Where("owner_id = ?", ownerID).
		Order("id DESC").
		Find(&avatars).Error
	return avatars, err
}

// EnabledByOwner returns the publicly visible avatars of an account,
// newest first.
func (s *Avatars) EnabledByOwner(ownerID uint) ([]database.Avatar, error) {
	var avatars []database.Avatar
	err := s.DB.Where("owner_id = ? AND enabled = ?", ownerID, true).
		Order("id DESC").
		Find(&avatars).Error
	return avatars, err
}

// Toggle flips the enabled flag of an avatar owned by ownerID and returns
// the new state. The id and owner are matched in a single query, so an
// avatar belonging to someone else yields ErrNotFound.
func (s *Avatars) Toggle(id, ownerID uint) (bool, error) {
	var avatar database.Avatar
	err := s.DB.Where("id = ? AND owner_id = ?", id, ownerID).First(&avatar).Error
	if err != nil {
		return false, translate(err)
	}

	newState := !avatar.Enabled
	if err := s.DB.Model(&avatar).Update("enabled", newState).Error; err != nil {
		return false, err
	}
	return newState, nil
}

// Delete removes an avatar owned by ownerID. The blob on disk is left in
// place: it is content-addressed and may be shared with another record.
func (s *Avatars) Delete(id, ownerID uint) error {
	result := s.DB.Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&database.Avatar{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
