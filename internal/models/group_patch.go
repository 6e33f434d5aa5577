package models

import "time"

// GroupPatch describes a partial update to a group document, applied
// atomically inside a store transaction. Nil pointer fields are left
// untouched. The Touch* flags ask the store to write its server timestamp
// for the corresponding field; the store always stamps updatedAt.
type GroupPatch struct {
	Name  *string
	Icon  *string
	Color *string

	// TouchSettingsTimestamp additionally stamps lastSettingsUpdateAt,
	// which the client uses to badge "settings changed" in the group view.
	TouchSettingsTimestamp bool

	TransactionSharingEnabled *bool
	SharingToggleCountToday   *int
	TouchSharingLastToggle    bool
	TouchSharingCountReset    bool

	OwnerID       *string
	AddMembers    []string
	RemoveMembers []string

	InviteCode          *string
	InviteCodeExpiresAt *time.Time
}

// IsZero reports whether the patch carries no changes at all.
func (p GroupPatch) IsZero() bool {
	return p.Name == nil && p.Icon == nil && p.Color == nil &&
		!p.TouchSettingsTimestamp &&
		p.TransactionSharingEnabled == nil && p.SharingToggleCountToday == nil &&
		!p.TouchSharingLastToggle && !p.TouchSharingCountReset &&
		p.OwnerID == nil && len(p.AddMembers) == 0 && len(p.RemoveMembers) == 0 &&
		p.InviteCode == nil && p.InviteCodeExpiresAt == nil
}
