package models

import "time"

// Gift is a single wishlist entry owned by a list member. ClaimedByUUID is
// only meaningful while Claimed is true; AlternateToUUID points at another
// gift of the same owner ("buy this instead of that one").
type Gift struct {
	UUID            string    `gorm:"type:varchar(36);primarykey" json:"uuid"`
	OwnerUUID       string    `gorm:"type:varchar(36);not null" json:"owner_uuid"`
	URL             string    `gorm:"type:text;not null" json:"url"`
	Comment         string    `gorm:"type:text;not null" json:"comment"`
	Claimed         bool      `gorm:"not null;default:false" json:"claimed"`
	ClaimedByUUID   *string   `gorm:"type:varchar(36)" json:"claimed_by_uuid,omitempty"`
	AlternateToUUID *string   `gorm:"type:varchar(36)" json:"alternate_to_uuid,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	Owner     User  `gorm:"foreignKey:OwnerUUID;references:UUID" json:"owner,omitempty"`
	ClaimedBy *User `gorm:"foreignKey:ClaimedByUUID;references:UUID" json:"claimed_by,omitempty"`
}
