package core

import (
	"context"

	"boletapp-backend-go/internal/models"
)

// GroupService defines the business operations for shared groups. All
// mutations execute inside the store's transaction primitive; validation
// and authorization errors are sentinel errors declared in this package.
type GroupService interface {
	CreateGroup(ctx context.Context, ownerID string, req models.CreateGroupRequest) (*models.Group, error)
	GetGroup(ctx context.Context, userID, groupID string) (*models.Group, error)
	ListGroups(ctx context.Context, userID string) ([]*models.Group, error)

	// UpdateGroup applies a partial {name, icon, color} update after
	// owner authorization and whitelist/length validation, atomically.
	UpdateGroup(ctx context.Context, groupID, actingUserID string, req models.UpdateGroupRequest) error

	// UpdateTransactionSharingEnabled toggles the group-level sharing
	// flag, subject to the cooldown window and the daily toggle cap.
	UpdateTransactionSharingEnabled(ctx context.Context, groupID, actingUserID string, enabled bool) error

	// JoinGroupDirectly adds the user to the member set and, when appID is
	// supplied, merges a default preference record in the same
	// transaction.
	JoinGroupDirectly(ctx context.Context, groupID, userID, appID string, optInShareTransactions bool) error
	JoinGroupWithInviteCode(ctx context.Context, code, userID, appID string, optInShareTransactions bool) error
	RegenerateInviteCode(ctx context.Context, groupID, actingUserID string) (string, error)

	// LeaveGroupWithCleanup removes the member, then best-effort deletes
	// their preference record; cleanup failure never fails the call.
	LeaveGroupWithCleanup(ctx context.Context, userID, groupID, appID string) error

	// TransferAndLeaveWithCleanup swaps the owner and removes the old
	// owner from the member set in a single transaction, then best-effort
	// cleans up the departing owner's preference record.
	TransferAndLeaveWithCleanup(ctx context.Context, currentOwnerID, newOwnerID, groupID, appID string) error

	RemoveMemberWithCleanup(ctx context.Context, actingUserID, targetUserID, groupID, appID string) error

	// SetShareMyTransactions toggles the member's own opt-in for a group,
	// rate limited with the same policy as the group-level flag.
	SetShareMyTransactions(ctx context.Context, appID, userID, groupID string, enabled bool) error
}

// NotificationService fans out notification records to group members.
// Fanout is best-effort: failures are logged and never propagated.
type NotificationService interface {
	NotifyGroupMembers(ctx context.Context, group *models.Group, actorID, kind, message string)
}

// EventPublisher publishes group events to the message queue for other
// backend consumers. Implementations must be safe for concurrent use.
type EventPublisher interface {
	PublishGroupEvent(ctx context.Context, event models.GroupEvent) error
}
