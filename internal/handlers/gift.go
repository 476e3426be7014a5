package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tkoeppen/giftlist-api/internal/dto"
	apierrors "github.com/tkoeppen/giftlist-api/internal/errors"
	"github.com/tkoeppen/giftlist-api/internal/middleware"
	"github.com/tkoeppen/giftlist-api/internal/services"
)

// GiftHandler coordinates gift reads, bulk edits, and claims.
type GiftHandler struct {
	gifts *services.GiftService
}

// NewGiftHandler creates a new GiftHandler.
func NewGiftHandler(gifts *services.GiftService) *GiftHandler {
	return &GiftHandler{
		gifts: gifts,
	}
}

// ListGifts returns one member's gifts on a list, annotated for the
// current user.
func (h *GiftHandler) ListGifts(c *gin.Context) {
	viewerUUID, exists := middleware.GetUserUUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	gifts, err := h.gifts.GiftsForOwner(c.Param("id"), c.Param("user_id"))
	if err != nil {
		respondGiftError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gifts": dto.ToGiftViews(gifts, viewerUUID),
	})
}

// GetGift returns a single gift.
func (h *GiftHandler) GetGift(c *gin.Context) {
	viewerUUID, exists := middleware.GetUserUUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	gift, err := h.gifts.GetGift(c.Param("id"))
	if err != nil {
		respondGiftError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGiftView(*gift, viewerUUID))
}

// SubmittedGiftRequest is one row of a full-list submission.
type SubmittedGiftRequest struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Comment     string `json:"comment"`
	AlternateTo string `json:"alternate_to"`
}

// ReconcileGifts replaces the current user's gift set on a list with the
// submitted snapshot.
func (h *GiftHandler) ReconcileGifts(c *gin.Context) {
	actorUUID, exists := middleware.GetUserUUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type ReconcileRequest struct {
		Gifts []SubmittedGiftRequest `json:"gifts"`
	}

	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	submitted := make([]services.SubmittedGift, len(req.Gifts))
	for i, g := range req.Gifts {
		submitted[i] = services.SubmittedGift{
			ID:          g.ID,
			URL:         g.URL,
			Comment:     g.Comment,
			AlternateTo: g.AlternateTo,
		}
	}

	if err := h.gifts.Reconcile(c.Param("id"), actorUUID, submitted); err != nil {
		respondGiftError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "List saved",
	})
}

// ClaimGift reserves a gift for the current user.
func (h *GiftHandler) ClaimGift(c *gin.Context) {
	actorUUID, exists := middleware.GetUserUUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.gifts.Claim(c.Param("id"), actorUUID); err != nil {
		respondGiftError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Claimed",
	})
}

// UnclaimGift releases a gift the current user previously claimed.
func (h *GiftHandler) UnclaimGift(c *gin.Context) {
	actorUUID, exists := middleware.GetUserUUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.gifts.Unclaim(c.Param("id"), actorUUID); err != nil {
		respondGiftError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Unclaimed",
	})
}

func respondGiftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrGiftNotFound),
		errors.Is(err, services.ErrListNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotListMember),
		errors.Is(err, services.ErrNotGiftOwner),
		errors.Is(err, services.ErrSelfClaim):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyClaimed),
		errors.Is(err, services.ErrNotClaimed),
		errors.Is(err, services.ErrClaimedByOther):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrUnknownPlaceholder),
		errors.Is(err, services.ErrInvalidAlternate):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
