package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tkoeppen/giftlist-api/internal/models"
	"github.com/tkoeppen/giftlist-api/internal/repository"
	"github.com/tkoeppen/giftlist-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidEmail          = errors.New("email cannot be empty")
	ErrEmailTaken            = errors.New("a user with this email already exists")
	ErrTokenGenerationFailed = errors.New("failed to generate login token")
)

// IdentityService resolves and manages users and their login tokens.
type IdentityService struct {
	userRepo repository.UserRepository
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(userRepo repository.UserRepository) *IdentityService {
	return &IdentityService{
		userRepo: userRepo,
	}
}

// ResolveByToken resolves a login token to its user.
func (s *IdentityService) ResolveByToken(token string) (*models.User, error) {
	user, err := s.userRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	return user, nil
}

// ResolveByEmail finds a user by email.
func (s *IdentityService) ResolveByEmail(email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// GetUser retrieves a user by UUID.
func (s *IdentityService) GetUser(userUUID string) (*models.User, error) {
	user, err := s.userRepo.FindByUUID(userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateUserInput represents parameters for creating a user.
type CreateUserInput struct {
	Email     string
	Name      string
	CanCreate bool
}

// CreateUser mints a durable identifier and an unguessable login token
// and stores the new user.
func (s *IdentityService) CreateUser(input CreateUserInput) (*models.User, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, ErrInvalidEmail
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	token, err := utils.GenerateLoginToken()
	if err != nil {
		return nil, ErrTokenGenerationFailed
	}

	user := &models.User{
		UUID:       uuid.NewString(),
		Email:      email,
		Name:       input.Name,
		LoginToken: token,
		CanCreate:  input.CanCreate,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// TokenForUser returns the login token for a user, used when re-sending
// invite links.
func (s *IdentityService) TokenForUser(userUUID string) (string, error) {
	user, err := s.GetUser(userUUID)
	if err != nil {
		return "", err
	}
	return user.LoginToken, nil
}

// UpdateUserInput represents an admin edit of a user record.
type UpdateUserInput struct {
	Name      string
	Email     string
	CanCreate bool
}

// UpdateUser updates name, email and the list-creation privilege.
func (s *IdentityService) UpdateUser(userUUID string, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(userUUID)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, ErrInvalidEmail
	}

	user.Name = input.Name
	user.Email = email
	user.CanCreate = input.CanCreate

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes a user; their gifts, join rows and memberships go
// with them and claims they hold are released.
func (s *IdentityService) DeleteUser(userUUID string) error {
	if _, err := s.GetUser(userUUID); err != nil {
		return err
	}

	if err := s.userRepo.Delete(userUUID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
