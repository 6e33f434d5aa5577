package models

import "time"

// Notification kinds written by the group service.
const (
	NotificationSharingEnabled       = "GROUP_SHARING_ENABLED"
	NotificationSharingDisabled      = "GROUP_SHARING_DISABLED"
	NotificationOwnershipTransferred = "GROUP_OWNERSHIP_TRANSFERRED"
	NotificationMemberJoined         = "GROUP_MEMBER_JOINED"
	NotificationMemberLeft           = "GROUP_MEMBER_LEFT"
	NotificationMemberRemoved        = "GROUP_MEMBER_REMOVED"
)

// Notification is a fanout record shown in the client's notification list.
// Writes are best-effort: a failed notification never fails the group
// mutation that produced it.
type Notification struct {
	ID          string    `json:"id" firestore:"-"`
	RecipientID string    `json:"recipientId" firestore:"recipientId"`
	GroupID     string    `json:"groupId" firestore:"groupId"`
	GroupName   string    `json:"groupName,omitempty" firestore:"groupName,omitempty"`
	Kind        string    `json:"kind" firestore:"kind"`
	Message     string    `json:"message" firestore:"message"`
	Read        bool      `json:"read" firestore:"read"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}
