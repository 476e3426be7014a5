package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tkoeppen/giftlist-api/internal/dto"
	apierrors "github.com/tkoeppen/giftlist-api/internal/errors"
	"github.com/tkoeppen/giftlist-api/internal/middleware"
	"github.com/tkoeppen/giftlist-api/internal/models"
	"github.com/tkoeppen/giftlist-api/internal/services"
)

// ListHandler coordinates list and membership HTTP handlers.
type ListHandler struct {
	lists    *services.ListService
	identity *services.IdentityService
}

// NewListHandler creates a new ListHandler.
func NewListHandler(lists *services.ListService, identity *services.IdentityService) *ListHandler {
	return &ListHandler{
		lists:    lists,
		identity: identity,
	}
}

// InviteRequest names a person to add to a list.
type InviteRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

func toInviteInputs(reqs []InviteRequest) []services.InviteInput {
	invitees := make([]services.InviteInput, len(reqs))
	for i, r := range reqs {
		invitees[i] = services.InviteInput{Name: r.Name, Email: r.Email}
	}
	return invitees
}

func (h *ListHandler) actor(c *gin.Context) (*models.User, bool) {
	userUUID, exists := middleware.GetUserUUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return nil, false
	}

	user, err := h.identity.GetUser(userUUID)
	if err != nil {
		apierrors.Unauthorized(c, "Unknown user")
		return nil, false
	}
	return user, true
}

// ListLists returns all lists the current user is a member of.
func (h *ListHandler) ListLists(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	lists, err := h.lists.ListsForUser(actor.UUID)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lists": dto.ToListViews(lists, actor.UUID),
	})
}

// CreateList creates a new list and invites the submitted members.
func (h *ListHandler) CreateList(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	type CreateListRequest struct {
		Name  string          `json:"name" binding:"required"`
		Users []InviteRequest `json:"users" binding:"dive"`
	}

	var req CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	list, err := h.lists.CreateList(actor, req.Name, toInviteInputs(req.Users))
	if err != nil {
		respondListError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToListView(*list, actor.UUID))
}

// GetList returns a list with its owner and members resolved.
func (h *ListHandler) GetList(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	list, err := h.lists.GetList(c.Param("id"))
	if err != nil {
		respondListError(c, err)
		return
	}

	owner, err := h.identity.GetUser(list.OwnerUUID)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	members, err := h.lists.Members(list.UUID)
	if err != nil {
		respondListError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListDetailView(*list, *owner, members, actor.UUID))
}

// UpdateList renames a list and invites anyone new on the roster.
func (h *ListHandler) UpdateList(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	type UpdateListRequest struct {
		Name  string          `json:"name" binding:"required"`
		Users []InviteRequest `json:"users" binding:"dive"`
	}

	var req UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	list, err := h.lists.ModifyList(actor, c.Param("id"), req.Name, toInviteInputs(req.Users))
	if err != nil {
		respondListError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListView(*list, actor.UUID))
}

// DeleteList removes a list and everything on it.
func (h *ListHandler) DeleteList(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.lists.DeleteList(actor, c.Param("id")); err != nil {
		respondListError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "List deleted",
	})
}

// ListMembers returns the members of a list.
func (h *ListHandler) ListMembers(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	members, err := h.lists.Members(c.Param("id"))
	if err != nil {
		respondListError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": dto.ToMemberViews(members, actor.UUID),
	})
}

func respondListError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrListNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCannotCreateLists),
		errors.Is(err, services.ErrNotListOwner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidListName),
		errors.Is(err, services.ErrInvalidEmail):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAlreadyListMember):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
