package service

import (
	"context"
	"errors"
	"fmt"

	"estatehub/db"
	"estatehub/models"
)

func (s *Service) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	if userID == "" {
		return nil, ErrAuthenticationRequired
	}
	list, err := s.store.ListNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, ErrAuthenticationRequired
	}
	n, err := s.store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

// MarkNotificationRead помечает прочитанным только собственное уведомление пользователя
func (s *Service) MarkNotificationRead(ctx context.Context, userID string, id int64) error {
	if userID == "" {
		return ErrAuthenticationRequired
	}
	if err := s.store.MarkNotificationRead(ctx, id, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

func (s *Service) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrAuthenticationRequired
	}
	if err := s.store.MarkAllNotificationsRead(ctx, userID); err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}
