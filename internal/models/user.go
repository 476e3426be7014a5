package models

import "time"

type User struct {
	UUID       string    `gorm:"type:varchar(36);primarykey" json:"uuid"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	LoginToken string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	CanCreate  bool      `gorm:"not null;default:false" json:"can_create"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Memberships []ListMember `gorm:"foreignKey:UserUUID;references:UUID" json:"-"`
	Gifts       []Gift       `gorm:"foreignKey:OwnerUUID;references:UUID" json:"-"`
}
