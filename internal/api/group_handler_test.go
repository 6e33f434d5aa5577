package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"boletapp-backend-go/internal/core"
	"boletapp-backend-go/internal/middleware"
	"boletapp-backend-go/internal/models"
)

// stubGroupService returns the configured error from every operation, or
// succeeds with canned values when err is nil.
type stubGroupService struct {
	err   error
	group *models.Group
}

func (s *stubGroupService) CreateGroup(ctx context.Context, ownerID string, req models.CreateGroupRequest) (*models.Group, error) {
	return s.group, s.err
}

func (s *stubGroupService) GetGroup(ctx context.Context, userID, groupID string) (*models.Group, error) {
	return s.group, s.err
}

func (s *stubGroupService) ListGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*models.Group{s.group}, nil
}

func (s *stubGroupService) UpdateGroup(ctx context.Context, groupID, actingUserID string, req models.UpdateGroupRequest) error {
	return s.err
}

func (s *stubGroupService) UpdateTransactionSharingEnabled(ctx context.Context, groupID, actingUserID string, enabled bool) error {
	return s.err
}

func (s *stubGroupService) JoinGroupDirectly(ctx context.Context, groupID, userID, appID string, optIn bool) error {
	return s.err
}

func (s *stubGroupService) JoinGroupWithInviteCode(ctx context.Context, code, userID, appID string, optIn bool) error {
	return s.err
}

func (s *stubGroupService) RegenerateInviteCode(ctx context.Context, groupID, actingUserID string) (string, error) {
	return "fresh-code", s.err
}

func (s *stubGroupService) LeaveGroupWithCleanup(ctx context.Context, userID, groupID, appID string) error {
	return s.err
}

func (s *stubGroupService) TransferAndLeaveWithCleanup(ctx context.Context, currentOwnerID, newOwnerID, groupID, appID string) error {
	return s.err
}

func (s *stubGroupService) RemoveMemberWithCleanup(ctx context.Context, actingUserID, targetUserID, groupID, appID string) error {
	return s.err
}

func (s *stubGroupService) SetShareMyTransactions(ctx context.Context, appID, userID, groupID string, enabled bool) error {
	return s.err
}

// newTestRouter wires the group handler behind a middleware that injects an
// authenticated user, standing in for the Firebase token verification.
func newTestRouter(t *testing.T, svc core.GroupService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, "user1")
		c.Next()
	})

	h := NewGroupHandler(svc, zap.NewNop())
	groups := router.Group("/api/v1/groups")
	{
		groups.POST("", h.CreateGroup)
		groups.GET("", h.ListGroups)
		groups.POST("/join", h.JoinGroupByCode)
		groups.GET("/:groupId", h.GetGroup)
		groups.PUT("/:groupId", h.UpdateGroup)
		groups.PUT("/:groupId/sharing", h.UpdateSharing)
		groups.POST("/:groupId/join", h.JoinGroup)
		groups.POST("/:groupId/leave", h.LeaveGroup)
		groups.POST("/:groupId/invite-code", h.RegenerateInviteCode)
		groups.DELETE("/:groupId/members/:memberId", h.RemoveMember)
		groups.PUT("/:groupId/preferences/sharing", h.SetSharePreference)
	}
	return router
}

func perform(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"group not found", core.ErrGroupNotFound, http.StatusNotFound},
		{"not owner", core.ErrNotGroupOwner, http.StatusForbidden},
		{"not a member", core.ErrNotAMember, http.StatusForbidden},
		{"already a member", core.ErrAlreadyMember, http.StatusConflict},
		{"owner cannot leave", core.ErrOwnerCannotLeave, http.StatusConflict},
		{"toggle cooldown", core.ErrToggleCooldown, http.StatusTooManyRequests},
		{"daily toggle limit", core.ErrToggleDailyLimit, http.StatusTooManyRequests},
		{"invite code expired", core.ErrInviteCodeExpired, http.StatusGone},
		{"invite code invalid", core.ErrInviteCodeInvalid, http.StatusNotFound},
		{"no updates", core.ErrNoUpdates, http.StatusBadRequest},
		{"invalid name", core.ErrInvalidGroupName, http.StatusBadRequest},
		{"invalid app id", core.ErrInvalidAppID, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, &stubGroupService{err: tt.err})
			rec := perform(t, router, http.MethodPut, "/api/v1/groups/g1", `{"name":"Trip"}`)
			if rec.Code != tt.wantStatus {
				t.Errorf("status: expected %d, got %d (body: %s)", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateGroupHandler(t *testing.T) {
	svc := &stubGroupService{group: &models.Group{ID: "g1", Name: "Trip", OwnerID: "user1", Members: []string{"user1"}}}
	router := newTestRouter(t, svc)

	rec := perform(t, router, http.MethodPost, "/api/v1/groups", `{"name":"Trip","icon":"airplane","color":"#0EA5E9"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"id":"g1"`) {
		t.Errorf("response should carry the created group, got %s", rec.Body.String())
	}

	rec = perform(t, router, http.MethodPost, "/api/v1/groups", `{"icon":"airplane"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing required fields: expected 400, got %d", rec.Code)
	}
}

func TestUpdateSharingHandlerRequiresEnabled(t *testing.T) {
	router := newTestRouter(t, &stubGroupService{})

	rec := perform(t, router, http.MethodPut, "/api/v1/groups/g1/sharing", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing 'enabled': expected 400, got %d", rec.Code)
	}

	rec = perform(t, router, http.MethodPut, "/api/v1/groups/g1/sharing", `{"enabled":false}`)
	if rec.Code != http.StatusOK {
		t.Errorf("explicit false must be accepted, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestLeaveGroupHandlerRoutesTransfer(t *testing.T) {
	// With newOwnerId the handler must take the transfer-and-leave path;
	// an owner leave without it surfaces the service's rejection.
	router := newTestRouter(t, &stubGroupService{})
	rec := perform(t, router, http.MethodPost, "/api/v1/groups/g1/leave", `{"appId":"boletapp","newOwnerId":"u2"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("transfer-and-leave: expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	router = newTestRouter(t, &stubGroupService{err: core.ErrOwnerCannotLeave})
	rec = perform(t, router, http.MethodPost, "/api/v1/groups/g1/leave", `{"appId":"boletapp"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("owner leave without transfer: expected 409, got %d", rec.Code)
	}
}

func TestRegenerateInviteCodeHandler(t *testing.T) {
	router := newTestRouter(t, &stubGroupService{})
	rec := perform(t, router, http.MethodPost, "/api/v1/groups/g1/invite-code", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"inviteCode":"fresh-code"`) {
		t.Errorf("response should carry the new code, got %s", rec.Body.String())
	}
}

func TestRemoveMemberHandler(t *testing.T) {
	router := newTestRouter(t, &stubGroupService{})
	rec := perform(t, router, http.MethodDelete, "/api/v1/groups/g1/members/u2?appId=boletapp", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status: expected 204, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewGroupHandler(&stubGroupService{}, zap.NewNop())
	router.GET("/api/v1/groups", h.ListGroups)

	rec := perform(t, router, http.MethodGet, "/api/v1/groups", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("request without auth context: expected 401, got %d", rec.Code)
	}
}
