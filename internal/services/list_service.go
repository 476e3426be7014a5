package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tkoeppen/giftlist-api/internal/mailer"
	"github.com/tkoeppen/giftlist-api/internal/models"
	"github.com/tkoeppen/giftlist-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrListNotFound       = errors.New("list not found")
	ErrInvalidListName    = errors.New("list name cannot be empty")
	ErrCannotCreateLists  = errors.New("user does not have permission to create lists")
	ErrNotListOwner       = errors.New("only the list owner can perform this action")
	ErrAlreadyListMember  = errors.New("user is already a member of this list")
)

// ListService provides business logic for lists and their memberships.
type ListService struct {
	listRepo repository.ListRepository
	identity *IdentityService
	notifier mailer.Notifier
	log      *logrus.Logger
}

// NewListService creates a new ListService.
func NewListService(listRepo repository.ListRepository, identity *IdentityService, notifier mailer.Notifier, log *logrus.Logger) *ListService {
	return &ListService{
		listRepo: listRepo,
		identity: identity,
		notifier: notifier,
		log:      log,
	}
}

// InviteInput names a person to bring onto a list.
type InviteInput struct {
	Name  string
	Email string
}

// ListsForUser returns every list the user is a member of.
func (s *ListService) ListsForUser(userUUID string) ([]models.List, error) {
	lists, err := s.listRepo.ListForUser(userUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	return lists, nil
}

// GetList returns a single list.
func (s *ListService) GetList(listUUID string) (*models.List, error) {
	list, err := s.listRepo.FindByUUID(listUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("failed to find list: %w", err)
	}
	return list, nil
}

// Members returns all members of a list with their users loaded.
func (s *ListService) Members(listUUID string) ([]models.ListMember, error) {
	if _, err := s.GetList(listUUID); err != nil {
		return nil, err
	}

	members, err := s.listRepo.ListMembers(listUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// CreateList creates a list owned by the actor and invites the given
// people onto it. Requires the actor's creation privilege.
func (s *ListService) CreateList(actor *models.User, name string, invitees []InviteInput) (*models.List, error) {
	if !actor.CanCreate {
		return nil, ErrCannotCreateLists
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidListName
	}

	list := &models.List{
		UUID:      uuid.NewString(),
		Name:      name,
		OwnerUUID: actor.UUID,
	}

	if err := s.listRepo.CreateWithOwner(list); err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	for _, invitee := range invitees {
		if err := s.invite(list, invitee); err != nil && !errors.Is(err, ErrAlreadyListMember) {
			return nil, err
		}
	}

	return list, nil
}

// ModifyList renames a list and invites anyone on the submitted roster
// who is not yet a member. Existing members are never removed here.
func (s *ListService) ModifyList(actor *models.User, listUUID, name string, invitees []InviteInput) (*models.List, error) {
	list, err := s.GetList(listUUID)
	if err != nil {
		return nil, err
	}
	if list.OwnerUUID != actor.UUID {
		return nil, ErrNotListOwner
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidListName
	}

	list.Name = name
	if err := s.listRepo.Update(list); err != nil {
		return nil, fmt.Errorf("failed to update list: %w", err)
	}

	members, err := s.listRepo.ListMembers(listUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	existing := make(map[string]bool, len(members))
	for _, m := range members {
		existing[m.User.Email] = true
	}

	for _, invitee := range invitees {
		if existing[invitee.Email] {
			continue
		}
		if err := s.invite(list, invitee); err != nil && !errors.Is(err, ErrAlreadyListMember) {
			return nil, err
		}
	}

	return list, nil
}

// DeleteList removes a list, its memberships, and every gift kept on it.
func (s *ListService) DeleteList(actor *models.User, listUUID string) error {
	list, err := s.GetList(listUUID)
	if err != nil {
		return err
	}
	if list.OwnerUUID != actor.UUID {
		return ErrNotListOwner
	}

	if err := s.listRepo.Delete(listUUID); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}

	return nil
}

// AddMember invites one person onto a list. Owner only.
func (s *ListService) AddMember(actor *models.User, listUUID string, invitee InviteInput) error {
	list, err := s.GetList(listUUID)
	if err != nil {
		return err
	}
	if list.OwnerUUID != actor.UUID {
		return ErrNotListOwner
	}

	return s.invite(list, invitee)
}

// invite finds or creates the user behind an email address, adds the
// membership row, and mails the login link. Mail failures are logged and
// swallowed; the membership stands either way.
func (s *ListService) invite(list *models.List, invitee InviteInput) error {
	user, err := s.identity.ResolveByEmail(invitee.Email)
	if errors.Is(err, ErrUserNotFound) {
		user, err = s.identity.CreateUser(CreateUserInput{
			Email: invitee.Email,
			Name:  invitee.Name,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to resolve invitee %s: %w", invitee.Email, err)
	}

	if _, err := s.listRepo.FindMember(list.UUID, user.UUID); err == nil {
		return ErrAlreadyListMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.ListMember{
		ListUUID: list.UUID,
		UserUUID: user.UUID,
		JoinedAt: time.Now(),
	}

	if err := s.listRepo.AddMember(member); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	invite := mailer.Invite{
		RecipientName:  user.Name,
		RecipientEmail: user.Email,
		ListName:       list.Name,
		LoginToken:     user.LoginToken,
	}
	if err := s.notifier.SendInvite(invite); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"list":  list.UUID,
			"email": user.Email,
		}).Warn("failed to send invite email")
	}

	return nil
}
