package core

import (
	"context"

	"go.uber.org/zap"

	"boletapp-backend-go/internal/db"
	"boletapp-backend-go/internal/models"
)

// notificationService implements the NotificationService interface.
type notificationService struct {
	repo   db.NotificationRepository
	logger *zap.Logger
}

// NewNotificationService creates a new NotificationService instance.
func NewNotificationService(repo db.NotificationRepository, logger *zap.Logger) NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &notificationService{repo: repo, logger: logger}
}

// NotifyGroupMembers writes one notification record per group member,
// skipping the actor. Each write is best-effort: a failure is logged and
// the remaining members are still notified.
func (s *notificationService) NotifyGroupMembers(ctx context.Context, group *models.Group, actorID, kind, message string) {
	if s.repo == nil || group == nil {
		return
	}
	for _, member := range group.Members {
		if member == actorID {
			continue
		}
		notification := &models.Notification{
			RecipientID: member,
			GroupID:     group.ID,
			GroupName:   group.Name,
			Kind:        kind,
			Message:     message,
		}
		if err := s.repo.Create(ctx, notification); err != nil {
			s.logger.Warn("failed to create group notification",
				zap.String("recipientId", member),
				zap.String("groupId", group.ID),
				zap.String("kind", kind),
				zap.Error(err))
		}
	}
}
