package models

import "time"

// GroupPreference is one user's opt-in record for a single group, stored
// inside the user's preferences document under the group's ID. The toggle
// fields mirror the group-level limiter state: the member-side
// "share my transactions" switch is rate limited the same way.
//
// The nil/zero fields are written explicitly (no omitempty) so a freshly
// merged record reads back as {shareMyTransactions, lastToggleAt: null,
// toggleCountToday: 0, toggleCountResetAt: null}.
type GroupPreference struct {
	ShareMyTransactions bool       `json:"shareMyTransactions" firestore:"shareMyTransactions"`
	LastToggleAt        *time.Time `json:"lastToggleAt" firestore:"lastToggleAt"`
	ToggleCountToday    int        `json:"toggleCountToday" firestore:"toggleCountToday"`
	ToggleCountResetAt  *time.Time `json:"toggleCountResetAt" firestore:"toggleCountResetAt"`
}

// GroupPreferences is the full per-user preferences document: a mapping
// from group ID to that user's preference record for the group. It lives at
// artifacts/{appId}/users/{userId}/preferences/sharedGroups.
type GroupPreferences map[string]GroupPreference
