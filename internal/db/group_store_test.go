package db

import (
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	"boletapp-backend-go/internal/models"
)

func findUpdate(t *testing.T, updates []firestore.Update, path string) firestore.Update {
	t.Helper()
	for _, u := range updates {
		if u.Path == path {
			return u
		}
	}
	t.Fatalf("no update for path %q in %v", path, updates)
	return firestore.Update{}
}

func hasPath(updates []firestore.Update, path string) bool {
	for _, u := range updates {
		if u.Path == path {
			return true
		}
	}
	return false
}

func TestBuildGroupUpdatesAlwaysStampsUpdatedAt(t *testing.T) {
	name := "Trip"
	updates := buildGroupUpdates(models.GroupPatch{Name: &name})

	if len(updates) != 2 {
		t.Fatalf("expected exactly name + updatedAt, got %v", updates)
	}
	if got := findUpdate(t, updates, "name"); got.Value != "Trip" {
		t.Errorf("name value: expected Trip, got %v", got.Value)
	}
	if got := findUpdate(t, updates, "updatedAt"); got.Value != firestore.ServerTimestamp {
		t.Errorf("updatedAt must be a server timestamp, got %v", got.Value)
	}
}

func TestBuildGroupUpdatesSettingsPatch(t *testing.T) {
	icon, color := "cart", "#10B981"
	updates := buildGroupUpdates(models.GroupPatch{
		Icon:                   &icon,
		Color:                  &color,
		TouchSettingsTimestamp: true,
	})

	if got := findUpdate(t, updates, "icon"); got.Value != "cart" {
		t.Errorf("icon value: got %v", got.Value)
	}
	if got := findUpdate(t, updates, "color"); got.Value != "#10B981" {
		t.Errorf("color value: got %v", got.Value)
	}
	if got := findUpdate(t, updates, "lastSettingsUpdateAt"); got.Value != firestore.ServerTimestamp {
		t.Errorf("lastSettingsUpdateAt must be a server timestamp, got %v", got.Value)
	}
	if hasPath(updates, "name") {
		t.Error("omitted name must not appear in the update set")
	}
}

func TestBuildGroupUpdatesSharingToggle(t *testing.T) {
	enabled := true
	count := 1
	updates := buildGroupUpdates(models.GroupPatch{
		TransactionSharingEnabled: &enabled,
		SharingToggleCountToday:   &count,
		TouchSharingLastToggle:    true,
		TouchSharingCountReset:    true,
	})

	if got := findUpdate(t, updates, "transactionSharingEnabled"); got.Value != true {
		t.Errorf("flag value: got %v", got.Value)
	}
	if got := findUpdate(t, updates, "sharingToggleCountToday"); got.Value != 1 {
		t.Errorf("count value: got %v", got.Value)
	}
	if got := findUpdate(t, updates, "sharingLastToggleAt"); got.Value != firestore.ServerTimestamp {
		t.Errorf("sharingLastToggleAt must be a server timestamp, got %v", got.Value)
	}
	if got := findUpdate(t, updates, "sharingToggleCountResetAt"); got.Value != firestore.ServerTimestamp {
		t.Errorf("sharingToggleCountResetAt must be a server timestamp, got %v", got.Value)
	}
}

func TestBuildGroupUpdatesTransferAndLeave(t *testing.T) {
	newOwner := "alice"
	updates := buildGroupUpdates(models.GroupPatch{
		OwnerID:       &newOwner,
		RemoveMembers: []string{"owner"},
	})

	if got := findUpdate(t, updates, "ownerId"); got.Value != "alice" {
		t.Errorf("ownerId value: got %v", got.Value)
	}
	members := findUpdate(t, updates, "members")
	if members.Value == nil {
		t.Fatal("members update should carry an ArrayRemove value")
	}
	// Owner swap and member removal land in one update set, so the store
	// applies them in a single write.
	if len(updates) != 3 {
		t.Errorf("expected ownerId + members + updatedAt, got %v", updates)
	}
}

func TestBuildGroupUpdatesInviteCode(t *testing.T) {
	code := "fresh-code"
	expiry := time.Date(2025, 6, 17, 12, 0, 0, 0, time.UTC)
	updates := buildGroupUpdates(models.GroupPatch{
		InviteCode:          &code,
		InviteCodeExpiresAt: &expiry,
	})

	if got := findUpdate(t, updates, "inviteCode"); got.Value != "fresh-code" {
		t.Errorf("inviteCode value: got %v", got.Value)
	}
	if got := findUpdate(t, updates, "inviteCodeExpiresAt"); got.Value != expiry {
		t.Errorf("expiry value: got %v", got.Value)
	}
}
