package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tkoeppen/giftlist-api/internal/models"
	"github.com/tkoeppen/giftlist-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrGiftNotFound       = errors.New("gift not found")
	ErrNotListMember      = errors.New("user is not a member of the list")
	ErrNotGiftOwner       = errors.New("cannot modify a gift owned by someone else")
	ErrSelfClaim          = errors.New("cannot claim or unclaim your own gift")
	ErrAlreadyClaimed     = errors.New("gift is already claimed")
	ErrNotClaimed         = errors.New("gift is not claimed")
	ErrClaimedByOther     = errors.New("gift is claimed by someone else")
	ErrUnknownPlaceholder = errors.New("alternate reference names a placeholder missing from this submission")
	ErrInvalidAlternate   = errors.New("alternate reference must name an existing gift of the same owner")
)

// placeholderPrefix marks client-side identifiers for rows that do not
// exist in storage yet. Reconciliation maps them to durable UUIDs.
const placeholderPrefix = "newRow-"

// ClaimConflictError wraps a claim-state sentinel and carries who holds
// the claim, so callers can report it.
type ClaimConflictError struct {
	Err       error
	ClaimedBy *models.User
}

func (e *ClaimConflictError) Error() string {
	if e.ClaimedBy != nil {
		return fmt.Sprintf("%s (claimed by %s)", e.Err.Error(), e.ClaimedBy.Name)
	}
	return e.Err.Error()
}

func (e *ClaimConflictError) Unwrap() error {
	return e.Err
}

// GiftService handles gift reads, bulk reconciliation, and claim state.
type GiftService struct {
	giftRepo repository.GiftRepository
	listRepo repository.ListRepository
}

// NewGiftService creates a new GiftService.
func NewGiftService(giftRepo repository.GiftRepository, listRepo repository.ListRepository) *GiftService {
	return &GiftService{
		giftRepo: giftRepo,
		listRepo: listRepo,
	}
}

// GiftsForOwner returns one member's gifts on a list in creation order.
func (s *GiftService) GiftsForOwner(listUUID, ownerUUID string) ([]models.Gift, error) {
	gifts, err := s.giftRepo.ListForOwner(listUUID, ownerUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gifts: %w", err)
	}
	return gifts, nil
}

// GetGift returns a single gift with its claimer loaded.
func (s *GiftService) GetGift(giftUUID string) (*models.Gift, error) {
	gift, err := s.giftRepo.FindByUUID(giftUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGiftNotFound
		}
		return nil, fmt.Errorf("failed to find gift: %w", err)
	}
	return gift, nil
}

// SubmittedGift is one row of a full-list submission. ID is empty for a
// brand-new row, a "newRow-" placeholder when other rows reference it, or
// the durable UUID of an existing gift.
type SubmittedGift struct {
	ID          string
	URL         string
	Comment     string
	AlternateTo string
}

// Reconcile replaces the actor's stored gift set on a list with the
// submitted set. The whole delete/upsert sequence runs in one
// transaction; an authorization failure mid-batch rolls everything back.
func (s *GiftService) Reconcile(listUUID, actorUUID string, submitted []SubmittedGift) error {
	if _, err := s.listRepo.FindMember(listUUID, actorUUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotListMember
		}
		return fmt.Errorf("failed to verify membership: %w", err)
	}

	return s.giftRepo.WithTx(func(repo repository.GiftRepository) error {
		current, err := repo.ListForOwner(listUUID, actorUUID)
		if err != nil {
			return fmt.Errorf("failed to load current gifts: %w", err)
		}

		// Placeholders must all be minted before any alternate reference
		// is resolved; a row may point at a placeholder submitted later
		// in the same batch.
		minted := make(map[string]string)
		kept := make(map[string]bool)
		for _, g := range submitted {
			if strings.HasPrefix(g.ID, placeholderPrefix) {
				minted[g.ID] = uuid.NewString()
			} else if g.ID != "" {
				kept[g.ID] = true
			}
		}

		for _, cur := range current {
			if !kept[cur.UUID] {
				if err := repo.Delete(cur.UUID); err != nil {
					return fmt.Errorf("failed to delete gift %s: %w", cur.UUID, err)
				}
			}
		}

		for _, g := range submitted {
			alternate, err := resolveAlternate(repo, actorUUID, g.AlternateTo, minted)
			if err != nil {
				return err
			}

			switch {
			case g.ID == "" || strings.HasPrefix(g.ID, placeholderPrefix):
				giftUUID := minted[g.ID]
				if giftUUID == "" {
					giftUUID = uuid.NewString()
				}
				gift := &models.Gift{
					UUID:            giftUUID,
					OwnerUUID:       actorUUID,
					URL:             g.URL,
					Comment:         g.Comment,
					Claimed:         false,
					AlternateToUUID: alternate,
				}
				if err := repo.Create(gift, listUUID); err != nil {
					return fmt.Errorf("failed to create gift: %w", err)
				}

			default:
				existing, err := repo.FindByUUID(g.ID)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return ErrGiftNotFound
					}
					return fmt.Errorf("failed to load gift %s: %w", g.ID, err)
				}
				if existing.OwnerUUID != actorUUID {
					return ErrNotGiftOwner
				}
				if existing.URL == g.URL && existing.Comment == g.Comment &&
					equalAlternate(existing.AlternateToUUID, alternate) {
					continue
				}
				existing.URL = g.URL
				existing.Comment = g.Comment
				existing.AlternateToUUID = alternate
				if err := repo.Update(existing); err != nil {
					return fmt.Errorf("failed to update gift %s: %w", g.ID, err)
				}
			}
		}

		return nil
	})
}

// resolveAlternate turns a submitted alternate reference into a stored
// one: empty means none, a placeholder maps to its minted UUID, and a
// durable UUID must name an existing gift of the same owner.
func resolveAlternate(repo repository.GiftRepository, actorUUID, raw string, minted map[string]string) (*string, error) {
	if raw == "" {
		return nil, nil
	}

	if strings.HasPrefix(raw, placeholderPrefix) {
		mapped, ok := minted[raw]
		if !ok {
			return nil, ErrUnknownPlaceholder
		}
		return &mapped, nil
	}

	alt, err := repo.FindByUUID(raw)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidAlternate
		}
		return nil, fmt.Errorf("failed to resolve alternate %s: %w", raw, err)
	}
	if alt.OwnerUUID != actorUUID {
		return nil, ErrInvalidAlternate
	}

	value := raw
	return &value, nil
}

func equalAlternate(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Claim reserves a gift for the actor. The transition itself is a single
// conditional update, so two racing claims cannot both succeed.
func (s *GiftService) Claim(giftUUID, actorUUID string) error {
	gift, err := s.GetGift(giftUUID)
	if err != nil {
		return err
	}
	if gift.OwnerUUID == actorUUID {
		return ErrSelfClaim
	}

	affected, err := s.giftRepo.Claim(giftUUID, actorUUID)
	if err != nil {
		return fmt.Errorf("failed to claim gift: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Lost the race: somebody claimed it between the read and the update.
	gift, err = s.GetGift(giftUUID)
	if err != nil {
		return err
	}
	if gift.Claimed {
		return &ClaimConflictError{Err: ErrAlreadyClaimed, ClaimedBy: gift.ClaimedBy}
	}
	return ErrGiftNotFound
}

// Unclaim releases a gift the actor previously claimed.
func (s *GiftService) Unclaim(giftUUID, actorUUID string) error {
	gift, err := s.GetGift(giftUUID)
	if err != nil {
		return err
	}
	if gift.OwnerUUID == actorUUID {
		return ErrSelfClaim
	}
	if !gift.Claimed {
		return ErrNotClaimed
	}
	if gift.ClaimedByUUID != nil && *gift.ClaimedByUUID != actorUUID {
		return &ClaimConflictError{Err: ErrClaimedByOther, ClaimedBy: gift.ClaimedBy}
	}

	affected, err := s.giftRepo.Unclaim(giftUUID, actorUUID)
	if err != nil {
		return fmt.Errorf("failed to unclaim gift: %w", err)
	}
	if affected > 0 {
		return nil
	}

	gift, err = s.GetGift(giftUUID)
	if err != nil {
		return err
	}
	if !gift.Claimed {
		return ErrNotClaimed
	}
	return &ClaimConflictError{Err: ErrClaimedByOther, ClaimedBy: gift.ClaimedBy}
}
