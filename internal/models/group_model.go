package models

import (
	"slices"
	"time"
)

// Group represents a shared household expense-sharing unit.
// The owner is always present in Members; the member list is never empty
// while the group exists.
type Group struct {
	ID      string   `json:"id" firestore:"-"` // Document ID, auto-generated
	Name    string   `json:"name" firestore:"name"`
	Icon    string   `json:"icon" firestore:"icon"`
	Color   string   `json:"color" firestore:"color"`
	OwnerID string   `json:"ownerId" firestore:"ownerId"` // Firebase Auth UID of the owner
	Members []string `json:"members" firestore:"members"`

	InviteCode          string     `json:"inviteCode,omitempty" firestore:"inviteCode,omitempty"`
	InviteCodeExpiresAt *time.Time `json:"inviteCodeExpiresAt,omitempty" firestore:"inviteCodeExpiresAt,omitempty"`

	// TransactionSharingEnabled controls whether individual transactions
	// (vs. only aggregate statistics) are visible to members. Toggling it
	// is rate limited; the fields below carry the limiter state.
	TransactionSharingEnabled bool       `json:"transactionSharingEnabled" firestore:"transactionSharingEnabled"`
	SharingLastToggleAt       *time.Time `json:"sharingLastToggleAt" firestore:"sharingLastToggleAt"`
	SharingToggleCountToday   int        `json:"sharingToggleCountToday" firestore:"sharingToggleCountToday"`
	SharingToggleCountResetAt *time.Time `json:"sharingToggleCountResetAt" firestore:"sharingToggleCountResetAt"`

	CreatedAt            time.Time  `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt            time.Time  `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
	LastSettingsUpdateAt *time.Time `json:"lastSettingsUpdateAt,omitempty" firestore:"lastSettingsUpdateAt,omitempty"`
}

// IsMember reports whether the given user belongs to the group.
func (g *Group) IsMember(userID string) bool {
	return slices.Contains(g.Members, userID)
}
