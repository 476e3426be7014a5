package repository

import (
	"github.com/tkoeppen/giftlist-api/internal/models"
	"gorm.io/gorm"
)

// GormGiftRepository is a GORM implementation of GiftRepository
type GormGiftRepository struct {
	db *gorm.DB
}

// NewGiftRepository creates a new GiftRepository
func NewGiftRepository(db *gorm.DB) GiftRepository {
	return &GormGiftRepository{db: db}
}

// WithTx runs fn against a repository bound to one transaction
func (r *GormGiftRepository) WithTx(fn func(GiftRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormGiftRepository{db: tx})
	})
}

// Create creates a gift and its list join row in a transaction
func (r *GormGiftRepository) Create(gift *models.Gift, listUUID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Owner", "ClaimedBy").Create(gift).Error; err != nil {
			return err
		}

		join := &models.ListGift{
			ListUUID:  listUUID,
			GiftUUID:  gift.UUID,
			OwnerUUID: gift.OwnerUUID,
		}

		return tx.Omit("List", "Gift").Create(join).Error
	})
}

// FindByUUID finds a gift by UUID with the claimer preloaded
func (r *GormGiftRepository) FindByUUID(uuid string) (*models.Gift, error) {
	var gift models.Gift
	if err := r.db.Preload("ClaimedBy").
		Where("uuid = ?", uuid).
		First(&gift).Error; err != nil {
		return nil, err
	}
	return &gift, nil
}

// ListForOwner lists one member's gifts on a list in creation order
func (r *GormGiftRepository) ListForOwner(listUUID, ownerUUID string) ([]models.Gift, error) {
	var gifts []models.Gift
	if err := r.db.Preload("ClaimedBy").
		Joins("JOIN list_gifts ON list_gifts.gift_uuid = gifts.uuid").
		Where("list_gifts.list_uuid = ? AND list_gifts.owner_uuid = ?", listUUID, ownerUUID).
		Order("gifts.created_at ASC").
		Find(&gifts).Error; err != nil {
		return nil, err
	}
	return gifts, nil
}

// Update persists gift changes without touching associations
func (r *GormGiftRepository) Update(gift *models.Gift) error {
	return r.db.Omit("Owner", "ClaimedBy").Save(gift).Error
}

// Delete removes a gift and its list join row in a transaction
func (r *GormGiftRepository) Delete(uuid string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gift_uuid = ?", uuid).Delete(&models.ListGift{}).Error; err != nil {
			return err
		}

		return tx.Where("uuid = ?", uuid).Delete(&models.Gift{}).Error
	})
}

// Claim is a single conditional update; the WHERE clause guarantees only
// an unclaimed row can transition, so two racing claims cannot both win.
func (r *GormGiftRepository) Claim(giftUUID, claimerUUID string) (int64, error) {
	res := r.db.Model(&models.Gift{}).
		Where("uuid = ? AND claimed = ?", giftUUID, false).
		Updates(map[string]interface{}{"claimed": true, "claimed_by_uuid": claimerUUID})
	return res.RowsAffected, res.Error
}

// Unclaim releases the gift only if the given user currently holds it
func (r *GormGiftRepository) Unclaim(giftUUID, claimerUUID string) (int64, error) {
	res := r.db.Model(&models.Gift{}).
		Where("uuid = ? AND claimed = ? AND claimed_by_uuid = ?", giftUUID, true, claimerUUID).
		Updates(map[string]interface{}{"claimed": false, "claimed_by_uuid": nil})
	return res.RowsAffected, res.Error
}
