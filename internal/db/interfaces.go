package db

import (
	"context"
	"errors"

	"boletapp-backend-go/internal/models"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// GroupTx is the view of the store inside a single atomic transaction:
// optimistic read-validate-write, with conflict retry handled by the store
// itself. All reads must happen before any write within one transaction.
type GroupTx interface {
	// Group reads the group document. Returns an error wrapping
	// ErrNotFound if the document does not exist.
	Group(groupID string) (*models.Group, error)
	// UpdateGroup applies the patch to the group document and stamps
	// updatedAt with the store's server timestamp.
	UpdateGroup(groupID string, patch models.GroupPatch) error
	// GroupPreference reads one user's preference record for a group.
	// Returns (nil, nil) when the preferences document or the group's
	// entry does not exist.
	GroupPreference(appID, userID, groupID string) (*models.GroupPreference, error)
	// MergeGroupPreference writes the preference record for a group into
	// the user's preferences document with merge semantics, creating the
	// document if necessary.
	MergeGroupPreference(appID, userID, groupID string, pref models.GroupPreference) error
}

// GroupStore defines storage operations for shared groups and per-user
// group preferences.
type GroupStore interface {
	// RunGroupTransaction executes fn atomically. The underlying store
	// retries transient write conflicts internally; an error surfacing
	// from this call is final.
	RunGroupTransaction(ctx context.Context, fn func(tx GroupTx) error) error

	CreateGroup(ctx context.Context, group *models.Group) (string, error)
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)
	GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error)

	// DeleteGroupPreference removes the user's preference record for a
	// group. Used for best-effort cleanup after leave/transfer; a missing
	// document is not an error.
	DeleteGroupPreference(ctx context.Context, appID, userID, groupID string) error
}

// NotificationRepository defines storage operations for notification
// fanout records.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
}
