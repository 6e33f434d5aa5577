package models

// CreateGroupRequest represents the request body for creating a new group.
type CreateGroupRequest struct {
	Name  string `json:"name" binding:"required"`
	Icon  string `json:"icon" binding:"required"`
	Color string `json:"color" binding:"required"`
}

// UpdateGroupRequest represents the request body for updating group
// settings. Pointers are used to distinguish between fields not provided
// and fields set to their zero value; undefined fields are ignored.
type UpdateGroupRequest struct {
	Name  *string `json:"name,omitempty"`
	Icon  *string `json:"icon,omitempty"`
	Color *string `json:"color,omitempty"`
}

// JoinGroupRequest represents the request body for joining a group, either
// directly by ID or via an invite code. AppID selects the per-application
// preferences document; when empty, no preference record is written.
type JoinGroupRequest struct {
	AppID                  string `json:"appId,omitempty"`
	OptInShareTransactions bool   `json:"optInShareTransactions,omitempty"`
}

// LeaveGroupRequest represents the request body for leaving a group or
// for an ownership transfer followed by the departing owner's removal.
type LeaveGroupRequest struct {
	AppID      string `json:"appId,omitempty"`
	NewOwnerID string `json:"newOwnerId,omitempty"` // required for transfer-and-leave
}

// SetSharingEnabledRequest represents the request body for toggling the
// group-level transaction sharing flag.
type SetSharingEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetSharePreferenceRequest represents the request body for toggling a
// member's own "share my transactions" opt-in for a group.
type SetSharePreferenceRequest struct {
	AppID   string `json:"appId" binding:"required"`
	Enabled *bool  `json:"enabled" binding:"required"`
}

// GroupEvent is published to the message queue after a successful group
// mutation so other backend consumers (statistics, digests) can react.
type GroupEvent struct {
	Type    string         `json:"type"`
	GroupID string         `json:"groupId"`
	ActorID string         `json:"actorId"`
	Data    map[string]any `json:"data,omitempty"`
}
