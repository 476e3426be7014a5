package repository

import (
	"github.com/tkoeppen/giftlist-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByUUID finds a user by UUID
func (r *GormUserRepository) FindByUUID(uuid string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("uuid = ?", uuid).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByToken finds a user by their login token
func (r *GormUserRepository) FindByToken(token string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("login_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user's editable fields
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Omit("Memberships", "Gifts").Save(user).Error
}

// Delete removes a user and everything hanging off them in a transaction
func (r *GormUserRepository) Delete(uuid string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Release claims held by the user
		if err := tx.Model(&models.Gift{}).
			Where("claimed_by_uuid = ?", uuid).
			Updates(map[string]interface{}{"claimed": false, "claimed_by_uuid": nil}).Error; err != nil {
			return err
		}

		if err := tx.Where("owner_uuid = ?", uuid).Delete(&models.ListGift{}).Error; err != nil {
			return err
		}

		if err := tx.Where("owner_uuid = ?", uuid).Delete(&models.Gift{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_uuid = ?", uuid).Delete(&models.ListMember{}).Error; err != nil {
			return err
		}

		return tx.Where("uuid = ?", uuid).Delete(&models.User{}).Error
	})
}
