package notification

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const persistTimeout = 5 * time.Second

type NotificationService interface {
	// Broadcast pushes to every connected client without storing anything
	Broadcast(event string, payload any)
	// SendTo stores a notification per staff member and pushes it live
	SendTo(staffIDs []string, event string, payload any)

	GetStaffNotifications(ctx context.Context, staffID string, page, limit int64) ([]Notification, int64, error)
	GetUnreadCount(ctx context.Context, staffID string) (int64, error)
	MarkAsRead(ctx context.Context, id string, staffID string) error
	MarkAllAsRead(ctx context.Context, staffID string) error
}

type NotificationServiceImpl struct {
	repo   NotificationRepository
	hub    *Hub
	logger *zap.Logger
}

func NewNotificationService(repo NotificationRepository, hub *Hub, logger *zap.Logger) NotificationService {
	return &NotificationServiceImpl{
		repo:   repo,
		hub:    hub,
		logger: logger,
	}
}

func (s *NotificationServiceImpl) Broadcast(event string, payload any) {
	s.hub.Broadcast(event, payload)
}

func (s *NotificationServiceImpl) SendTo(staffIDs []string, event string, payload any) {
	if len(staffIDs) == 0 {
		return
	}

	info := describe(event)
	rows := make([]Notification, 0, len(staffIDs))
	for _, id := range staffIDs {
		rows = append(rows, Notification{
			StaffID: id,
			Event:   event,
			Title:   info.Title,
			Type:    info.Type,
			Link:    info.Link,
		})
	}

	// The request context may already be done when this runs
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.repo.CreateMany(ctx, rows); err != nil {
		s.logger.Error("Failed to store notifications", zap.String("event", event), zap.Error(err))
	}

	s.hub.SendTo(staffIDs, event, payload)
}

func (s *NotificationServiceImpl) GetStaffNotifications(ctx context.Context, staffID string, page, limit int64) ([]Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.GetByStaffID(ctx, staffID, page, limit)
}

func (s *NotificationServiceImpl) GetUnreadCount(ctx context.Context, staffID string) (int64, error) {
	return s.repo.GetUnreadCount(ctx, staffID)
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, id string, staffID string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, objID, staffID)
}

func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context, staffID string) error {
	return s.repo.MarkAllAsRead(ctx, staffID)
}
