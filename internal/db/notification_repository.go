package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"

	"boletapp-backend-go/internal/models"
)

const notificationsCollection = "notifications"

// firestoreNotificationRepository implements the NotificationRepository
// interface using Firestore.
type firestoreNotificationRepository struct {
	client *firestore.Client
}

// NewFirestoreNotificationRepository creates a new instance of
// firestoreNotificationRepository.
func NewFirestoreNotificationRepository(client *firestore.Client) NotificationRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for NotificationRepository.")
	}
	return &firestoreNotificationRepository{client: client}
}

// Create adds a notification document with an auto-generated ID.
// CreatedAt is handled by its serverTimestamp tag.
func (r *firestoreNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification == nil {
		return errors.New("notification cannot be nil for Create operation")
	}
	if notification.RecipientID == "" {
		return errors.New("notification recipient cannot be empty for Create operation")
	}

	docRef := r.client.Collection(notificationsCollection).NewDoc()
	notification.ID = docRef.ID
	if _, err := docRef.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification for recipient '%s': %w", notification.RecipientID, err)
	}
	return nil
}
