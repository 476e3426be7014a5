package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/tkoeppen/giftlist-api/internal/constants"
	"github.com/tkoeppen/giftlist-api/internal/dto"
	apierrors "github.com/tkoeppen/giftlist-api/internal/errors"
	"github.com/tkoeppen/giftlist-api/internal/middleware"
	"github.com/tkoeppen/giftlist-api/internal/services"
)

// AuthHandler coordinates login-link authentication.
type AuthHandler struct {
	identity *services.IdentityService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(identity *services.IdentityService) *AuthHandler {
	return &AuthHandler{
		identity: identity,
	}
}

// Login resolves an emailed login token and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		apierrors.BadRequest(c, "Missing login token")
		return
	}

	user, err := h.identity.ResolveByToken(token)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, "Unknown login token")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserUUID, user.UUID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserView(*user, user.UUID))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userUUID, exists := middleware.GetUserUUID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.identity.GetUser(userUUID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserView(*user, user.UUID))
}
