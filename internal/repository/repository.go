package repository

import (
	"github.com/tkoeppen/giftlist-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByUUID finds a user by UUID
	FindByUUID(uuid string) (*models.User, error)

	// FindByToken finds a user by their login token
	FindByToken(token string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user's editable fields
	Update(user *models.User) error

	// Delete removes a user together with their memberships, gifts and
	// gift join rows, and releases any claims they hold
	Delete(uuid string) error
}

// ListRepository defines the interface for list and membership data access
type ListRepository interface {
	// CreateWithOwner creates a list and the owner's membership row
	// within a single transaction
	CreateWithOwner(list *models.List) error

	// FindByUUID finds a list by UUID
	FindByUUID(uuid string) (*models.List, error)

	// ListForUser lists all lists the user is a member of
	ListForUser(userUUID string) ([]models.List, error)

	// Update updates a list
	Update(list *models.List) error

	// Delete removes a list and all related data: memberships, the gifts
	// kept on the list, and their join rows
	Delete(uuid string) error

	// AddMember adds a member to a list
	AddMember(member *models.ListMember) error

	// FindMember finds a specific list membership
	FindMember(listUUID, userUUID string) (*models.ListMember, error)

	// ListMembers lists all members of a list
	ListMembers(listUUID string) ([]models.ListMember, error)
}

// GiftRepository defines the interface for gift data access
type GiftRepository interface {
	// WithTx runs fn against a repository bound to a single transaction;
	// any error rolls back everything fn did
	WithTx(fn func(GiftRepository) error) error

	// Create creates a gift and its list join row
	Create(gift *models.Gift, listUUID string) error

	// FindByUUID finds a gift by UUID with the claimer preloaded
	FindByUUID(uuid string) (*models.Gift, error)

	// ListForOwner lists one member's gifts on a list, claimers preloaded,
	// in creation order
	ListForOwner(listUUID, ownerUUID string) ([]models.Gift, error)

	// Update persists url/comment/alternate changes; claim fields are
	// written as-is, callers must leave them untouched
	Update(gift *models.Gift) error

	// Delete removes a gift and its list join row
	Delete(uuid string) error

	// Claim atomically marks an unclaimed gift as claimed by the given
	// user and reports how many rows matched
	Claim(giftUUID, claimerUUID string) (int64, error)

	// Unclaim atomically releases a gift currently claimed by the given
	// user and reports how many rows matched
	Unclaim(giftUUID, claimerUUID string) (int64, error)
}
