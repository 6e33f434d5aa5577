package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"boletapp-backend-go/internal/core"
	"boletapp-backend-go/internal/middleware"
	"boletapp-backend-go/internal/models"
)

// GroupHandler handles API endpoints for shared groups.
type GroupHandler struct {
	groupService core.GroupService
	logger       *zap.Logger
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(gs core.GroupService, logger *zap.Logger) *GroupHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroupHandler{groupService: gs, logger: logger}
}

// mapGroupErrorToStatus maps errors from core.GroupService to HTTP status
// codes and an ErrorResponse body.
func (h *GroupHandler) mapGroupErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	switch {
	case errors.Is(err, core.ErrGroupNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, core.ErrNotGroupOwner),
		errors.Is(err, core.ErrNotAMember):
		statusCode = http.StatusForbidden
	case errors.Is(err, core.ErrAlreadyMember),
		errors.Is(err, core.ErrOwnerCannotLeave),
		errors.Is(err, core.ErrCannotRemoveOwner):
		statusCode = http.StatusConflict
	case errors.Is(err, core.ErrToggleCooldown),
		errors.Is(err, core.ErrToggleDailyLimit):
		statusCode = http.StatusTooManyRequests
	case errors.Is(err, core.ErrInviteCodeExpired):
		statusCode = http.StatusGone
	case errors.Is(err, core.ErrInviteCodeInvalid):
		statusCode = http.StatusNotFound
	case errors.Is(err, core.ErrIDsRequired),
		errors.Is(err, core.ErrNoUpdates),
		errors.Is(err, core.ErrInvalidGroupName),
		errors.Is(err, core.ErrInvalidGroupIcon),
		errors.Is(err, core.ErrInvalidGroupColor),
		errors.Is(err, core.ErrInvalidAppID),
		errors.Is(err, core.ErrTransferToSelf):
		statusCode = http.StatusBadRequest
	default:
		h.logger.Error("unexpected group service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
		return
	}
	c.JSON(statusCode, ErrorResponse{Error: err.Error()})
}

// userID extracts the authenticated user's UID set by the auth middleware.
func userID(c *gin.Context) (string, bool) {
	uid, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return "", false
	}
	return uid.(string), true
}

// CreateGroup handles POST /groups
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req models.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), uid, req)
	if err != nil {
		h.mapGroupErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

// ListGroups handles GET /groups
func (h *GroupHandler) ListGroups(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	groups, err := h.groupService.ListGroups(c.Request.Context(), uid)
	if err != nil {
		h.mapGroupErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// GetGroup handles GET /groups/:groupId
func (h *GroupHandler) GetGroup(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	groupID := c.Param("groupId")
	if groupID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Group ID is required"})
		return
	}

	group, err := h.groupService.GetGroup(c.Request.Context(), uid, groupID)
	if err != nil {
		h.mapGroupErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// UpdateGroup handles PUT /groups/:groupId
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	groupID := c.Param("groupId")

	var req models.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.groupService.UpdateGroup(c.Request.Context(), groupID, uid, req); err != nil {
		h.mapGroupErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Group updated successfully"})
}

// UpdateSharing handles PUT /groups/:groupId/sharing
func (h *GroupHandler) UpdateSharing(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	groupID := c.Param("groupId")

	var req models.SetSharingEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload: 'enabled' is required"})
		return
	}

	if err := h.groupService.UpdateTransactionSharingEnabled(c.Request.Context(), groupID, uid, *req.Enabled); err != nil {
		h.mapGroupErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Transaction sharing updated successfully"})
}

// JoinGroup handles POST /groups/:groupId/join
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	groupID := c.Param("groupId")

	var req models.JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.groupService.JoinGroupDirectly(c.Request.Context(), groupID, uid, req.AppID, req.OptInShareTransactions); err != nil {
		h.mapGroupErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Joined group successfully"})
}

// JoinByCodeRequest defines the request body for joining via invite code.
type JoinByCodeRequest struct {
	Code                   string `json:"code" binding:"required"`
	AppID                  string `json:"appId,omitempty"`
	OptInShareTransactions bool   `json:"optInShareTransactions,omitempty"`
}

// JoinGroupByCode handles POST /groups/join
func (h *GroupHandler) JoinGroupByCode(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req JoinByCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.groupService.JoinGroupWithInviteCode(c.Request.Context(), req.Code, uid, req.AppID, req.OptInShareTransactions); err != nil {
		h.mapGroupErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Joined group successfully"})
}

// RegenerateInviteCode handles POST /groups/:groupId/invite-code
func (h *GroupHandler) RegenerateInviteCode(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	groupID := c.Param("groupId")

	code, err := h.groupService.RegenerateInviteCode(c.Request.Context(), groupID, uid)
	if err != nil {
		h.mapGroupErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, InviteCodeResponse{InviteCode: code})
}

// LeaveGroup handles POST /groups/:groupId/leave. A request carrying
// newOwnerId performs the atomic transfer-and-leave; without it the caller
// simply leaves (owners must transfer first).
func (h *GroupHandler) LeaveGroup(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	groupID := c.Param("groupId")

	var req models.LeaveGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	var err error
	if req.NewOwnerID != "" {
		err = h.groupService.TransferAndLeaveWithCleanup(c.Request.Context(), uid, req.NewOwnerID, groupID, req.AppID)
	} else {
		err = h.groupService.LeaveGroupWithCleanup(c.Request.Context(), uid, groupID, req.AppID)
	}
	if err != nil {
		h.mapGroupErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Left group successfully"})
}

// RemoveMember handles DELETE /groups/:groupId/members/:memberId
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	groupID := c.Param("groupId")
	memberID := c.Param("memberId")
	appID := c.Query("appId")

	if err := h.groupService.RemoveMemberWithCleanup(c.Request.Context(), uid, memberID, groupID, appID); err != nil {
		h.mapGroupErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetSharePreference handles PUT /groups/:groupId/preferences/sharing
func (h *GroupHandler) SetSharePreference(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	groupID := c.Param("groupId")

	var req models.SetSharePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload: 'appId' and 'enabled' are required"})
		return
	}

	if err := h.groupService.SetShareMyTransactions(c.Request.Context(), req.AppID, uid, groupID, *req.Enabled); err != nil {
		h.mapGroupErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Sharing preference updated successfully"})
}
