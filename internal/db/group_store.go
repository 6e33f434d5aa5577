package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"boletapp-backend-go/internal/models"
)

// Document path scheme. The preference path shape is part of the persisted
// state contract shared with the PWA client and must not change:
// artifacts/{appId}/users/{userId}/preferences/sharedGroups.
const (
	sharedGroupsCollection = "sharedGroups"
	artifactsCollection    = "artifacts"
	usersCollection        = "users"
	preferencesCollection  = "preferences"
	sharedGroupsPrefsDoc   = "sharedGroups"
)

// firestoreGroupStore implements the GroupStore interface using Firestore.
type firestoreGroupStore struct {
	client *firestore.Client
}

// NewFirestoreGroupStore creates a new instance of firestoreGroupStore.
func NewFirestoreGroupStore(client *firestore.Client) GroupStore {
	if client == nil {
		log.Fatal("Firestore client is not initialized for GroupStore.")
	}
	return &firestoreGroupStore{client: client}
}

func (s *firestoreGroupStore) groupRef(groupID string) *firestore.DocumentRef {
	return s.client.Collection(sharedGroupsCollection).Doc(groupID)
}

func (s *firestoreGroupStore) preferencesRef(appID, userID string) *firestore.DocumentRef {
	return s.client.Collection(artifactsCollection).Doc(appID).
		Collection(usersCollection).Doc(userID).
		Collection(preferencesCollection).Doc(sharedGroupsPrefsDoc)
}

// RunGroupTransaction executes fn inside a Firestore transaction. Firestore
// retries the callback on write conflicts; only unrecoverable failures
// surface to the caller.
func (s *firestoreGroupStore) RunGroupTransaction(ctx context.Context, fn func(tx GroupTx) error) error {
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(&firestoreGroupTx{store: s, tx: tx})
	})
}

// CreateGroup adds a new group document with an auto-generated ID and sets
// group.ID to it. CreatedAt/UpdatedAt are handled by serverTimestamp tags.
func (s *firestoreGroupStore) CreateGroup(ctx context.Context, group *models.Group) (string, error) {
	docRef := s.client.Collection(sharedGroupsCollection).NewDoc()
	group.ID = docRef.ID
	if _, err := docRef.Create(ctx, group); err != nil {
		return "", fmt.Errorf("failed to create group: %w", err)
	}
	return docRef.ID, nil
}

// GetGroup retrieves a group document by its ID.
func (s *firestoreGroupStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	if groupID == "" {
		return nil, errors.New("groupID cannot be empty for GetGroup operation")
	}
	docSnap, err := s.groupRef(groupID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("group with ID '%s' not found: %w", groupID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get group with ID '%s': %w", groupID, err)
	}
	return decodeGroup(docSnap)
}

// ListGroupsByMember retrieves all groups the user belongs to.
func (s *firestoreGroupStore) ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for ListGroupsByMember operation")
	}

	iter := s.client.Collection(sharedGroupsCollection).
		Where("members", "array-contains", userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var groups []*models.Group
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate groups for member '%s': %w", userID, err)
		}
		group, err := decodeGroup(doc)
		if err != nil {
			log.Printf("Error decoding group data (ID: %s) for member '%s': %v. Skipping.", doc.Ref.ID, userID, err)
			continue
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// GetGroupByInviteCode resolves an invite code to its group. Expiry is
// checked by the service layer, not here.
func (s *firestoreGroupStore) GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	if code == "" {
		return nil, errors.New("code cannot be empty for GetGroupByInviteCode operation")
	}

	iter := s.client.Collection(sharedGroupsCollection).
		Where("inviteCode", "==", code).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("no group with invite code: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query group by invite code: %w", err)
	}
	return decodeGroup(doc)
}

// DeleteGroupPreference removes the group's entry from the user's
// preferences document. A missing document counts as already cleaned up.
func (s *firestoreGroupStore) DeleteGroupPreference(ctx context.Context, appID, userID, groupID string) error {
	if appID == "" || userID == "" || groupID == "" {
		return errors.New("appID, userID and groupID are required for DeleteGroupPreference operation")
	}

	_, err := s.preferencesRef(appID, userID).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{groupID}, Value: firestore.Delete},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return fmt.Errorf("failed to delete group preference (app '%s', user '%s', group '%s'): %w",
			appID, userID, groupID, err)
	}
	return nil
}

func decodeGroup(docSnap *firestore.DocumentSnapshot) (*models.Group, error) {
	var group models.Group
	if err := docSnap.DataTo(&group); err != nil {
		return nil, fmt.Errorf("failed to decode group data for ID '%s': %w", docSnap.Ref.ID, err)
	}
	group.ID = docSnap.Ref.ID
	return &group, nil
}

// firestoreGroupTx implements GroupTx on top of a Firestore transaction.
type firestoreGroupTx struct {
	store *firestoreGroupStore
	tx    *firestore.Transaction
}

func (t *firestoreGroupTx) Group(groupID string) (*models.Group, error) {
	if groupID == "" {
		return nil, errors.New("groupID cannot be empty")
	}
	docSnap, err := t.tx.Get(t.store.groupRef(groupID))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("group with ID '%s' not found: %w", groupID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get group with ID '%s': %w", groupID, err)
	}
	return decodeGroup(docSnap)
}

func (t *firestoreGroupTx) UpdateGroup(groupID string, patch models.GroupPatch) error {
	if groupID == "" {
		return errors.New("groupID cannot be empty")
	}
	if patch.IsZero() {
		return errors.New("empty patch for group update")
	}
	return t.tx.Update(t.store.groupRef(groupID), buildGroupUpdates(patch))
}

func (t *firestoreGroupTx) GroupPreference(appID, userID, groupID string) (*models.GroupPreference, error) {
	docSnap, err := t.tx.Get(t.store.preferencesRef(appID, userID))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get preferences for user '%s': %w", userID, err)
	}

	var prefs models.GroupPreferences
	if err := docSnap.DataTo(&prefs); err != nil {
		return nil, fmt.Errorf("failed to decode preferences for user '%s': %w", userID, err)
	}
	pref, ok := prefs[groupID]
	if !ok {
		return nil, nil
	}
	return &pref, nil
}

func (t *firestoreGroupTx) MergeGroupPreference(appID, userID, groupID string, pref models.GroupPreference) error {
	return t.tx.Set(t.store.preferencesRef(appID, userID),
		map[string]interface{}{groupID: pref},
		firestore.Merge(firestore.FieldPath{groupID}))
}

// buildGroupUpdates translates a domain-level patch into Firestore field
// updates. updatedAt is always stamped.
func buildGroupUpdates(patch models.GroupPatch) []firestore.Update {
	var updates []firestore.Update

	if patch.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *patch.Name})
	}
	if patch.Icon != nil {
		updates = append(updates, firestore.Update{Path: "icon", Value: *patch.Icon})
	}
	if patch.Color != nil {
		updates = append(updates, firestore.Update{Path: "color", Value: *patch.Color})
	}
	if patch.TransactionSharingEnabled != nil {
		updates = append(updates, firestore.Update{Path: "transactionSharingEnabled", Value: *patch.TransactionSharingEnabled})
	}
	if patch.SharingToggleCountToday != nil {
		updates = append(updates, firestore.Update{Path: "sharingToggleCountToday", Value: *patch.SharingToggleCountToday})
	}
	if patch.TouchSharingLastToggle {
		updates = append(updates, firestore.Update{Path: "sharingLastToggleAt", Value: firestore.ServerTimestamp})
	}
	if patch.TouchSharingCountReset {
		updates = append(updates, firestore.Update{Path: "sharingToggleCountResetAt", Value: firestore.ServerTimestamp})
	}
	if patch.OwnerID != nil {
		updates = append(updates, firestore.Update{Path: "ownerId", Value: *patch.OwnerID})
	}
	if len(patch.AddMembers) > 0 {
		updates = append(updates, firestore.Update{Path: "members", Value: firestore.ArrayUnion(toAnySlice(patch.AddMembers)...)})
	}
	if len(patch.RemoveMembers) > 0 {
		updates = append(updates, firestore.Update{Path: "members", Value: firestore.ArrayRemove(toAnySlice(patch.RemoveMembers)...)})
	}
	if patch.InviteCode != nil {
		updates = append(updates, firestore.Update{Path: "inviteCode", Value: *patch.InviteCode})
	}
	if patch.InviteCodeExpiresAt != nil {
		updates = append(updates, firestore.Update{Path: "inviteCodeExpiresAt", Value: *patch.InviteCodeExpiresAt})
	}
	if patch.TouchSettingsTimestamp {
		updates = append(updates, firestore.Update{Path: "lastSettingsUpdateAt", Value: firestore.ServerTimestamp})
	}

	updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})
	return updates
}

func toAnySlice(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
