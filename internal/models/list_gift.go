package models

// ListGift pins a gift to the list it was created on. A gift belongs to
// exactly one list; the owner is denormalized so per-member list pages are
// a single indexed lookup.
type ListGift struct {
	ListUUID  string `gorm:"type:varchar(36);primarykey" json:"list_uuid"`
	GiftUUID  string `gorm:"type:varchar(36);primarykey" json:"gift_uuid"`
	OwnerUUID string `gorm:"type:varchar(36);not null" json:"owner_uuid"`

	// Relations
	List List `gorm:"foreignKey:ListUUID;references:UUID" json:"list,omitempty"`
	Gift Gift `gorm:"foreignKey:GiftUUID;references:UUID" json:"gift,omitempty"`
}
