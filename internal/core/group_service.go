package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"boletapp-backend-go/internal/db"
	"boletapp-backend-go/internal/models"
)

// Custom errors for the GroupService
var (
	ErrGroupNotFound      = errors.New("group not found")
	ErrNotGroupOwner      = errors.New("only the group owner can perform this action")
	ErrNotAMember         = errors.New("user is not a member of this group")
	ErrAlreadyMember      = errors.New("user is already a member of this group")
	ErrIDsRequired        = errors.New("ids required")
	ErrNoUpdates          = errors.New("no updates provided")
	ErrInvalidGroupName   = errors.New("group name must be between 2 and 50 characters")
	ErrInvalidGroupIcon   = errors.New("invalid group icon")
	ErrInvalidGroupColor  = errors.New("invalid group color")
	ErrInvalidAppID       = errors.New("invalid application id")
	ErrOwnerCannotLeave   = errors.New("owner must transfer ownership before leaving")
	ErrCannotRemoveOwner  = errors.New("owner cannot be removed from their own group")
	ErrTransferToSelf     = errors.New("cannot transfer ownership to yourself")
	ErrToggleCooldown     = errors.New("sharing was toggled too recently")
	ErrToggleDailyLimit   = errors.New("daily toggle limit reached (3/day)")
	ErrInviteCodeInvalid  = errors.New("invite code is invalid")
	ErrInviteCodeExpired  = errors.New("invite code has expired")
)

// inviteCodeTTL is how long a freshly generated invite code stays valid.
const inviteCodeTTL = 7 * 24 * time.Hour

// groupService implements the GroupService interface.
type groupService struct {
	store         db.GroupStore
	notifications NotificationService
	events        EventPublisher // optional; nil disables event publishing
	logger        *zap.Logger
	now           func() time.Time
}

// NewGroupService creates a new GroupService instance. The event publisher
// may be nil when no message queue is configured.
func NewGroupService(
	store db.GroupStore,
	ns NotificationService,
	ep EventPublisher,
	logger *zap.Logger,
) GroupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &groupService{
		store:         store,
		notifications: ns,
		events:        ep,
		logger:        logger,
		now:           time.Now,
	}
}

// CreateGroup creates a new group with the caller as sole member and
// owner. Name, icon and color are validated with the same rules applied on
// every later settings update.
func (s *groupService) CreateGroup(ctx context.Context, ownerID string, req models.CreateGroupRequest) (*models.Group, error) {
	if s.store == nil {
		return nil, errors.New("groupService: store not initialized")
	}
	if ownerID == "" {
		return nil, ErrIDsRequired
	}

	name, err := validateGroupName(req.Name)
	if err != nil {
		return nil, err
	}
	if err := validateGroupIcon(req.Icon); err != nil {
		return nil, err
	}
	if err := validateGroupColor(req.Color); err != nil {
		return nil, err
	}

	expiry := s.now().Add(inviteCodeTTL)
	newGroup := &models.Group{
		Name:                name,
		Icon:                req.Icon,
		Color:               req.Color,
		OwnerID:             ownerID,
		Members:             []string{ownerID},
		InviteCode:          uuid.NewString(),
		InviteCodeExpiresAt: &expiry,
	}

	groupID, err := s.store.CreateGroup(ctx, newGroup)
	if err != nil {
		return nil, fmt.Errorf("failed to create group in store: %w", err)
	}
	newGroup.ID = groupID

	s.publishEvent(ctx, models.GroupEvent{
		Type:    "group.created",
		GroupID: groupID,
		ActorID: ownerID,
		Data:    map[string]any{"name": name},
	})
	return newGroup, nil
}

// GetGroup retrieves a group if the user is a member.
func (s *groupService) GetGroup(ctx context.Context, userID, groupID string) (*models.Group, error) {
	if userID == "" || groupID == "" {
		return nil, ErrIDsRequired
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group '%s' from store: %w", groupID, err)
	}
	if !group.IsMember(userID) {
		return nil, ErrNotAMember
	}
	return group, nil
}

// ListGroups retrieves all groups the user belongs to.
func (s *groupService) ListGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	if userID == "" {
		return nil, ErrIDsRequired
	}
	groups, err := s.store.ListGroupsByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for user '%s': %w", userID, err)
	}
	return groups, nil
}

// UpdateGroup applies a partial {name, icon, color} update to a group's
// settings. All preconditions are checked inside one atomic transaction:
// the group must exist, the acting user must be the owner, at least one
// field must be provided, the name must survive sanitization within its
// length bounds, and icon/color must be whitelist members. On success
// exactly the validated fields are written, plus updatedAt and
// lastSettingsUpdateAt server timestamps.
func (s *groupService) UpdateGroup(ctx context.Context, groupID, actingUserID string, req models.UpdateGroupRequest) error {
	if groupID == "" || actingUserID == "" {
		return ErrIDsRequired
	}

	return s.store.RunGroupTransaction(ctx, func(tx db.GroupTx) error {
		group, err := tx.Group(groupID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return ErrGroupNotFound
			}
			return err
		}
		if group.OwnerID != actingUserID {
			return ErrNotGroupOwner
		}
		if req.Name == nil && req.Icon == nil && req.Color == nil {
			return ErrNoUpdates
		}

		patch := models.GroupPatch{TouchSettingsTimestamp: true}
		if req.Name != nil {
			name, err := validateGroupName(*req.Name)
			if err != nil {
				return err
			}
			patch.Name = &name
		}
		if req.Icon != nil {
			if err := validateGroupIcon(*req.Icon); err != nil {
				return err
			}
			patch.Icon = req.Icon
		}
		if req.Color != nil {
			if err := validateGroupColor(*req.Color); err != nil {
				return err
			}
			patch.Color = req.Color
		}
		return tx.UpdateGroup(groupID, patch)
	})
}

// UpdateTransactionSharingEnabled toggles the group-level transaction
// sharing flag. The toggle fans out change notifications to every member,
// so it is rate limited: a cooldown window between toggles and a daily cap
// bound the rate without any external rate-limiting infrastructure. The
// day-boundary reset is evaluated before the cooldown check, and a reset
// toggle writes a count of exactly 1.
func (s *groupService) UpdateTransactionSharingEnabled(ctx context.Context, groupID, actingUserID string, enabled bool) error {
	if groupID == "" || actingUserID == "" {
		return ErrIDsRequired
	}

	var group *models.Group
	err := s.store.RunGroupTransaction(ctx, func(tx db.GroupTx) error {
		g, err := tx.Group(groupID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return ErrGroupNotFound
			}
			return err
		}
		if g.OwnerID != actingUserID {
			return ErrNotGroupOwner
		}

		now := s.now()
		count := g.SharingToggleCountToday
		reset := ShouldResetDailyCount(g.SharingToggleCountResetAt, now)
		if reset {
			count = 0
		}
		if result := EvaluateToggleCooldown(g.SharingLastToggleAt, count, now); !result.Allowed {
			if result.Reason == CooldownReasonWindow {
				return fmt.Errorf("%w: wait %d minute(s) before toggling again", ErrToggleCooldown, result.WaitMinutes)
			}
			return ErrToggleDailyLimit
		}

		newCount := count + 1
		patch := models.GroupPatch{
			TransactionSharingEnabled: &enabled,
			SharingToggleCountToday:   &newCount,
			TouchSharingLastToggle:    true,
			TouchSharingCountReset:    reset,
		}
		group = g
		return tx.UpdateGroup(groupID, patch)
	})
	if err != nil {
		return err
	}

	kind, message := models.NotificationSharingDisabled, "Transaction sharing was turned off for your group."
	if enabled {
		kind, message = models.NotificationSharingEnabled, "Transaction sharing was turned on for your group."
	}
	s.notify(ctx, group, actingUserID, kind, message)
	s.publishEvent(ctx, models.GroupEvent{
		Type:    "group.sharing_toggled",
		GroupID: groupID,
		ActorID: actingUserID,
		Data:    map[string]any{"enabled": enabled},
	})
	return nil
}

// JoinGroupDirectly adds the user to the group's member set and, in the
// same transaction, merges a default preference record into the user's
// preferences document when appID is supplied. An empty appID skips the
// preference write entirely (callers not yet tracking preferences); a
// non-empty appID outside the allow-list fails fast before any document
// path is constructed.
func (s *groupService) JoinGroupDirectly(ctx context.Context, groupID, userID, appID string, optInShareTransactions bool) error {
	if groupID == "" || userID == "" {
		return ErrIDsRequired
	}
	if appID != "" {
		if err := ValidateAppID(appID); err != nil {
			return err
		}
	}

	var group *models.Group
	err := s.store.RunGroupTransaction(ctx, func(tx db.GroupTx) error {
		g, err := tx.Group(groupID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return ErrGroupNotFound
			}
			return err
		}
		if g.IsMember(userID) {
			return ErrAlreadyMember
		}

		if err := tx.UpdateGroup(groupID, models.GroupPatch{AddMembers: []string{userID}}); err != nil {
			return err
		}
		if appID != "" {
			pref := models.GroupPreference{ShareMyTransactions: optInShareTransactions}
			if err := tx.MergeGroupPreference(appID, userID, groupID, pref); err != nil {
				return err
			}
		}
		group = g
		return nil
	})
	if err != nil {
		return err
	}

	s.notify(ctx, group, userID, models.NotificationMemberJoined, "A new member joined your group.")
	s.publishEvent(ctx, models.GroupEvent{
		Type:    "group.member_joined",
		GroupID: groupID,
		ActorID: userID,
	})
	return nil
}

// JoinGroupWithInviteCode resolves an invite code and joins through the
// same transactional path as JoinGroupDirectly. Expired codes are rejected
// before any write is attempted.
func (s *groupService) JoinGroupWithInviteCode(ctx context.Context, code, userID, appID string, optInShareTransactions bool) error {
	if code == "" || userID == "" {
		return ErrIDsRequired
	}

	group, err := s.store.GetGroupByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrInviteCodeInvalid
		}
		return fmt.Errorf("failed to resolve invite code: %w", err)
	}
	if group.InviteCodeExpiresAt == nil {
		return ErrInviteCodeInvalid
	}
	if s.now().After(*group.InviteCodeExpiresAt) {
		return ErrInviteCodeExpired
	}

	return s.JoinGroupDirectly(ctx, group.ID, userID, appID, optInShareTransactions)
}

// RegenerateInviteCode issues a fresh invite code with a new expiry,
// invalidating the previous one. Owner only.
func (s *groupService) RegenerateInviteCode(ctx context.Context, groupID, actingUserID string) (string, error) {
	if groupID == "" || actingUserID == "" {
		return "", ErrIDsRequired
	}

	code := uuid.NewString()
	expiry := s.now().Add(inviteCodeTTL)
	err := s.store.RunGroupTransaction(ctx, func(tx db.GroupTx) error {
		group, err := tx.Group(groupID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return ErrGroupNotFound
			}
			return err
		}
		if group.OwnerID != actingUserID {
			return ErrNotGroupOwner
		}
		return tx.UpdateGroup(groupID, models.GroupPatch{
			InviteCode:          &code,
			InviteCodeExpiresAt: &expiry,
		})
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// LeaveGroupWithCleanup removes the user from the group, then best-effort
// deletes their preference record for it. The two phases are ordered: the
// cleanup only runs after the membership removal has committed, and a
// cleanup failure is logged but never surfaces — the user has already left
// the group and must see the call succeed.
func (s *groupService) LeaveGroupWithCleanup(ctx context.Context, userID, groupID, appID string) error {
	if userID == "" || groupID == "" {
		return ErrIDsRequired
	}
	if appID != "" {
		if err := ValidateAppID(appID); err != nil {
			return err
		}
	}

	var group *models.Group
	err := s.store.RunGroupTransaction(ctx, func(tx db.GroupTx) error {
		g, err := tx.Group(groupID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return ErrGroupNotFound
			}
			return err
		}
		if g.OwnerID == userID {
			return ErrOwnerCannotLeave
		}
		if !g.IsMember(userID) {
			return ErrNotAMember
		}
		group = g
		return tx.UpdateGroup(groupID, models.GroupPatch{RemoveMembers: []string{userID}})
	})
	if err != nil {
		return err
	}

	s.cleanupPreference(ctx, appID, userID, groupID)
	s.notify(ctx, group, userID, models.NotificationMemberLeft, "A member left your group.")
	s.publishEvent(ctx, models.GroupEvent{
		Type:    "group.member_left",
		GroupID: groupID,
		ActorID: userID,
	})
	return nil
}

// TransferAndLeaveWithCleanup transfers ownership and removes the
// departing owner from the member set in a SINGLE transaction with a
// single update. Doing both in one transaction closes the race window two
// separate transactions would open: no concurrent actor can ever observe
// the group ownerless or interleave a conflicting transfer. After the
// transaction commits, the departing owner's preference record is cleaned
// up best-effort, exactly as in LeaveGroupWithCleanup.
func (s *groupService) TransferAndLeaveWithCleanup(ctx context.Context, currentOwnerID, newOwnerID, groupID, appID string) error {
	if currentOwnerID == "" || newOwnerID == "" || groupID == "" || appID == "" {
		return ErrIDsRequired
	}
	if err := ValidateAppID(appID); err != nil {
		return err
	}
	if newOwnerID == currentOwnerID {
		return ErrTransferToSelf
	}

	var group *models.Group
	err := s.store.RunGroupTransaction(ctx, func(tx db.GroupTx) error {
		g, err := tx.Group(groupID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return ErrGroupNotFound
			}
			return err
		}
		if g.OwnerID != currentOwnerID {
			return ErrNotGroupOwner
		}
		if !g.IsMember(newOwnerID) {
			return ErrNotAMember
		}
		group = g
		return tx.UpdateGroup(groupID, models.GroupPatch{
			OwnerID:       &newOwnerID,
			RemoveMembers: []string{currentOwnerID},
		})
	})
	if err != nil {
		return err
	}

	s.cleanupPreference(ctx, appID, currentOwnerID, groupID)
	s.notify(ctx, group, currentOwnerID, models.NotificationOwnershipTransferred, "Your group has a new owner.")
	s.publishEvent(ctx, models.GroupEvent{
		Type:    "group.ownership_transferred",
		GroupID: groupID,
		ActorID: currentOwnerID,
		Data:    map[string]any{"newOwnerId": newOwnerID},
	})
	return nil
}

// RemoveMemberWithCleanup removes a member from the group (owner only),
// then best-effort cleans up the removed user's preference record.
func (s *groupService) RemoveMemberWithCleanup(ctx context.Context, actingUserID, targetUserID, groupID, appID string) error {
	if actingUserID == "" || targetUserID == "" || groupID == "" {
		return ErrIDsRequired
	}
	if appID != "" {
		if err := ValidateAppID(appID); err != nil {
			return err
		}
	}

	var group *models.Group
	err := s.store.RunGroupTransaction(ctx, func(tx db.GroupTx) error {
		g, err := tx.Group(groupID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return ErrGroupNotFound
			}
			return err
		}
		if g.OwnerID != actingUserID {
			return ErrNotGroupOwner
		}
		if targetUserID == g.OwnerID {
			return ErrCannotRemoveOwner
		}
		if !g.IsMember(targetUserID) {
			return ErrNotAMember
		}
		group = g
		return tx.UpdateGroup(groupID, models.GroupPatch{RemoveMembers: []string{targetUserID}})
	})
	if err != nil {
		return err
	}

	s.cleanupPreference(ctx, appID, targetUserID, groupID)
	s.notify(ctx, group, actingUserID, models.NotificationMemberRemoved, "A member was removed from your group.")
	s.publishEvent(ctx, models.GroupEvent{
		Type:    "group.member_removed",
		GroupID: groupID,
		ActorID: actingUserID,
		Data:    map[string]any{"removedUserId": targetUserID},
	})
	return nil
}

// SetShareMyTransactions toggles the member's own "share my transactions"
// opt-in for a group, stored in their preference record. The toggle is
// rate limited with the same policy and the same reset-before-cooldown
// precedence as the group-level flag.
func (s *groupService) SetShareMyTransactions(ctx context.Context, appID, userID, groupID string, enabled bool) error {
	if userID == "" || groupID == "" {
		return ErrIDsRequired
	}
	if err := ValidateAppID(appID); err != nil {
		return err
	}

	return s.store.RunGroupTransaction(ctx, func(tx db.GroupTx) error {
		g, err := tx.Group(groupID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return ErrGroupNotFound
			}
			return err
		}
		if !g.IsMember(userID) {
			return ErrNotAMember
		}

		var current models.GroupPreference
		if pref, err := tx.GroupPreference(appID, userID, groupID); err != nil {
			return err
		} else if pref != nil {
			current = *pref
		}

		now := s.now()
		count := current.ToggleCountToday
		resetAt := current.ToggleCountResetAt
		if ShouldResetDailyCount(resetAt, now) {
			count = 0
			resetAt = &now
		}
		if result := EvaluateToggleCooldown(current.LastToggleAt, count, now); !result.Allowed {
			if result.Reason == CooldownReasonWindow {
				return fmt.Errorf("%w: wait %d minute(s) before toggling again", ErrToggleCooldown, result.WaitMinutes)
			}
			return ErrToggleDailyLimit
		}

		return tx.MergeGroupPreference(appID, userID, groupID, models.GroupPreference{
			ShareMyTransactions: enabled,
			LastToggleAt:        &now,
			ToggleCountToday:    count + 1,
			ToggleCountResetAt:  resetAt,
		})
	})
}

// cleanupPreference is the best-effort phase-2 delete of a user's
// preference record after a membership mutation has committed. Failure is
// logged, never propagated: the record is a convenience, not a
// correctness requirement, and its loss must not make the user believe
// the membership change failed.
func (s *groupService) cleanupPreference(ctx context.Context, appID, userID, groupID string) {
	if appID == "" {
		return
	}
	if err := s.store.DeleteGroupPreference(ctx, appID, userID, groupID); err != nil {
		s.logger.Warn("failed to remove group preference after membership change",
			zap.String("appId", appID),
			zap.String("userId", userID),
			zap.String("groupId", groupID),
			zap.Error(err))
	}
}

func (s *groupService) notify(ctx context.Context, group *models.Group, actorID, kind, message string) {
	if s.notifications == nil || group == nil {
		return
	}
	s.notifications.NotifyGroupMembers(ctx, group, actorID, kind, message)
}

func (s *groupService) publishEvent(ctx context.Context, event models.GroupEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishGroupEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish group event",
			zap.String("type", event.Type),
			zap.String("groupId", event.GroupID),
			zap.Error(err))
	}
}
