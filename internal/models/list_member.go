package models

import "time"

// ListMember records that a user can see a list and keep gifts on it.
// The list owner's row is created together with the list.
type ListMember struct {
	ListUUID string    `gorm:"type:varchar(36);primarykey" json:"list_uuid"`
	UserUUID string    `gorm:"type:varchar(36);primarykey" json:"user_uuid"`
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	List List `gorm:"foreignKey:ListUUID;references:UUID" json:"list,omitempty"`
	User User `gorm:"foreignKey:UserUUID;references:UUID" json:"user,omitempty"`
}
