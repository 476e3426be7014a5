package repository

import (
	"time"

	"github.com/tkoeppen/giftlist-api/internal/models"
	"gorm.io/gorm"
)

// GormListRepository is a GORM implementation of ListRepository
type GormListRepository struct {
	db *gorm.DB
}

// NewListRepository creates a new ListRepository
func NewListRepository(db *gorm.DB) ListRepository {
	return &GormListRepository{db: db}
}

// CreateWithOwner creates the list and the owner's membership atomically
func (r *GormListRepository) CreateWithOwner(list *models.List) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(list).Error; err != nil {
			return err
		}

		member := &models.ListMember{
			ListUUID: list.UUID,
			UserUUID: list.OwnerUUID,
			JoinedAt: time.Now(),
		}

		return tx.Create(member).Error
	})
}

// FindByUUID finds a list by UUID
func (r *GormListRepository) FindByUUID(uuid string) (*models.List, error) {
	var list models.List
	if err := r.db.Where("uuid = ?", uuid).First(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// ListForUser lists all lists the user is a member of
func (r *GormListRepository) ListForUser(userUUID string) ([]models.List, error) {
	var lists []models.List
	if err := r.db.
		Joins("JOIN list_members ON list_members.list_uuid = lists.uuid").
		Where("list_members.user_uuid = ?", userUUID).
		Order("lists.created_at ASC").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// Update updates a list
func (r *GormListRepository) Update(list *models.List) error {
	return r.db.Omit("Owner", "Members").Save(list).Error
}

// Delete removes a list and all related data in a transaction
func (r *GormListRepository) Delete(uuid string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Gifts kept on the list, found through the join rows
		giftUUIDs := tx.Model(&models.ListGift{}).
			Select("gift_uuid").
			Where("list_uuid = ?", uuid)

		if err := tx.Where("uuid IN (?)", giftUUIDs).Delete(&models.Gift{}).Error; err != nil {
			return err
		}

		if err := tx.Where("list_uuid = ?", uuid).Delete(&models.ListGift{}).Error; err != nil {
			return err
		}

		if err := tx.Where("list_uuid = ?", uuid).Delete(&models.ListMember{}).Error; err != nil {
			return err
		}

		return tx.Where("uuid = ?", uuid).Delete(&models.List{}).Error
	})
}

// AddMember adds a member to a list
func (r *GormListRepository) AddMember(member *models.ListMember) error {
	return r.db.Create(member).Error
}

// FindMember finds a specific list membership
func (r *GormListRepository) FindMember(listUUID, userUUID string) (*models.ListMember, error) {
	var member models.ListMember
	if err := r.db.Where("list_uuid = ? AND user_uuid = ?", listUUID, userUUID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a list with their users preloaded
func (r *GormListRepository) ListMembers(listUUID string) ([]models.ListMember, error) {
	var members []models.ListMember
	if err := r.db.Preload("User").
		Where("list_uuid = ?", listUUID).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
