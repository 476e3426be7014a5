package models

import "time"

type List struct {
	UUID      string    `gorm:"type:varchar(36);primarykey" json:"uuid"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	OwnerUUID string    `gorm:"type:varchar(36);not null" json:"owner_uuid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Owner   User         `gorm:"foreignKey:OwnerUUID;references:UUID" json:"owner,omitempty"`
	Members []ListMember `gorm:"foreignKey:ListUUID;references:UUID" json:"members,omitempty"`
}
