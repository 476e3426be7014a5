package dto

import (
	"github.com/tkoeppen/giftlist-api/internal/models"
)

// UserView represents a user in API responses, annotated for the viewer
type UserView struct {
	UUID      string `json:"uuid"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CanCreate bool   `json:"can_create"`
	IsMe      bool   `json:"is_me"`
}

// ListView represents a list in API responses
type ListView struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	OwnerUUID string `json:"owner_uuid"`
	IsOwner   bool   `json:"is_owner"`
}

// ListDetailView represents a list with its owner and members resolved
type ListDetailView struct {
	ListView
	Owner   UserView   `json:"owner"`
	Members []UserView `json:"members"`
}

// ClaimerView is the slim user summary attached to a claimed gift
type ClaimerView struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
	IsMe bool   `json:"is_me"`
}

// GiftView represents a gift in API responses
type GiftView struct {
	UUID            string       `json:"uuid"`
	OwnerUUID       string       `json:"owner_uuid"`
	URL             string       `json:"url"`
	Comment         string       `json:"comment"`
	Claimed         bool         `json:"claimed"`
	ClaimedBy       *ClaimerView `json:"claimed_by,omitempty"`
	AlternateToUUID *string      `json:"alternate_to_uuid,omitempty"`
}

// ToUserView converts a user, marking whether it is the viewer
func ToUserView(user models.User, viewerUUID string) UserView {
	return UserView{
		UUID:      user.UUID,
		Email:     user.Email,
		Name:      user.Name,
		CanCreate: user.CanCreate,
		IsMe:      user.UUID == viewerUUID,
	}
}

// ToListView converts a list, marking whether the viewer owns it
func ToListView(list models.List, viewerUUID string) ListView {
	return ListView{
		UUID:      list.UUID,
		Name:      list.Name,
		OwnerUUID: list.OwnerUUID,
		IsOwner:   list.OwnerUUID == viewerUUID,
	}
}

// ToListViews converts a slice of lists
func ToListViews(lists []models.List, viewerUUID string) []ListView {
	views := make([]ListView, len(lists))
	for i, list := range lists {
		views[i] = ToListView(list, viewerUUID)
	}
	return views
}

// ToMemberViews converts list memberships to user views
func ToMemberViews(members []models.ListMember, viewerUUID string) []UserView {
	views := make([]UserView, len(members))
	for i, member := range members {
		views[i] = ToUserView(member.User, viewerUUID)
	}
	return views
}

// ToListDetailView combines a list, its owner and members
func ToListDetailView(list models.List, owner models.User, members []models.ListMember, viewerUUID string) ListDetailView {
	return ListDetailView{
		ListView: ToListView(list, viewerUUID),
		Owner:    ToUserView(owner, viewerUUID),
		Members:  ToMemberViews(members, viewerUUID),
	}
}

// ToGiftView converts a gift, resolving the claimer to a summary
func ToGiftView(gift models.Gift, viewerUUID string) GiftView {
	view := GiftView{
		UUID:            gift.UUID,
		OwnerUUID:       gift.OwnerUUID,
		URL:             gift.URL,
		Comment:         gift.Comment,
		Claimed:         gift.Claimed,
		AlternateToUUID: gift.AlternateToUUID,
	}

	if gift.ClaimedBy != nil {
		view.ClaimedBy = &ClaimerView{
			UUID: gift.ClaimedBy.UUID,
			Name: gift.ClaimedBy.Name,
			IsMe: gift.ClaimedBy.UUID == viewerUUID,
		}
	}

	return view
}

// ToGiftViews converts a slice of gifts
func ToGiftViews(gifts []models.Gift, viewerUUID string) []GiftView {
	views := make([]GiftView, len(gifts))
	for i, gift := range gifts {
		views[i] = ToGiftView(gift, viewerUUID)
	}
	return views
}
